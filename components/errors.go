package components

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call. The remote delegation layer
// surfaces exactly these kinds for every HTTP-backed backend, so callers
// can apply one retry/fallback policy across all of them.
type ErrorKind int

const (
	// ErrTimeout means the request exceeded the configured deadline.
	ErrTimeout ErrorKind = iota + 1
	// ErrConnection means the endpoint could not be reached.
	ErrConnection
	// ErrStatus means the endpoint answered with a non-2xx status.
	ErrStatus
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTimeout:
		return "timeout"
	case ErrConnection:
		return "connection"
	case ErrStatus:
		return "status"
	}
	return "unknown"
}

// BackendError reports a remote backend that is unavailable: unreachable,
// timed out, or answering with an error status.
type BackendError struct {
	// Backend names the capability that failed, e.g. "tokenizer"
	Backend string
	// Op names the operation, e.g. "count_tokens"
	Op string
	Kind ErrorKind
	// Status holds the HTTP status code for ErrStatus
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Kind == ErrStatus {
		return fmt.Sprintf("%s: %s: unexpected status %d", e.Backend, e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s: %s: %v", e.Backend, e.Op, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline expiry.
func (e *BackendError) Timeout() bool {
	return e.Kind == ErrTimeout
}

// ProtocolError reports a response that was delivered but malformed or
// incomplete, e.g. a rerank response missing a score for a document.
type ProtocolError struct {
	Backend string
	Op      string
	Reason  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Backend, e.Op, e.Reason)
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// IsUnavailable reports whether err (or anything it wraps) marks a remote
// backend as unavailable.
func IsUnavailable(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// IsProtocol reports whether err marks a malformed backend response.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsConfig reports whether err marks an invalid configuration value.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
