// Package config holds the immutable backend configuration values
// consumed by the chunking and reranking core. Loading (flags, files,
// environment) is the caller's concern; the core only receives
// constructed values and never mutates them.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bububa/docrerank/components"
)

// Mode selectors per backend kind.
const (
	TokenizeLocal = "local"
	TokenizeHTTP  = "http"

	ChunkRegex    = "regex"
	ChunkSemantic = "semantic"
	ChunkHTTP     = "http"

	RerankLocal = "local"
	RerankHTTP  = "http"

	// Request shapes accepted by HTTP rerank endpoints.
	FormatCohere = "cohere"
	FormatOpenAI = "openai"
)

// Tokenizer configures a token counting backend.
type Tokenizer struct {
	Mode     string        `json:"mode" validate:"oneof=local http"`
	Endpoint string        `json:"endpoint,omitempty" validate:"required_if=Mode http,omitempty,url"`
	Model    string        `json:"model,omitempty"`
	APIKey   string        `json:"api_key,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" validate:"gt=0"`
}

// Chunker configures a text splitting backend.
type Chunker struct {
	Mode     string        `json:"mode" validate:"oneof=regex semantic http"`
	Endpoint string        `json:"endpoint,omitempty" validate:"required_if=Mode http,omitempty,url"`
	Model    string        `json:"model,omitempty"`
	APIKey   string        `json:"api_key,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" validate:"gt=0"`
	// MaxChunkTokens is the token budget per chunk. A single sentence
	// exceeding it is still emitted as one oversized chunk.
	MaxChunkTokens int `json:"max_chunk_tokens" validate:"gt=0"`
	// Threshold is the similarity cut for the semantic mode.
	Threshold float64 `json:"threshold,omitempty" validate:"gte=0,lte=1"`
}

// Reranker configures a relevance scoring backend.
type Reranker struct {
	Mode     string        `json:"mode" validate:"oneof=local http"`
	Format   string        `json:"format,omitempty" validate:"omitempty,oneof=cohere openai"`
	Endpoint string        `json:"endpoint,omitempty" validate:"required_if=Mode http,omitempty,url"`
	Model    string        `json:"model,omitempty"`
	APIKey   string        `json:"api_key,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" validate:"gt=0"`
	// TopK is the number of ranked chunks to return.
	TopK int `json:"top_k" validate:"gt=0"`
}

// Config combines the configuration of all backend kinds.
type Config struct {
	Tokenizer Tokenizer `json:"tokenizer"`
	Chunker   Chunker   `json:"chunker"`
	Reranker  Reranker  `json:"reranker"`
}

// DefaultTokenizer returns the local tokenizer configuration.
func DefaultTokenizer() Tokenizer {
	return Tokenizer{
		Mode:    TokenizeLocal,
		Model:   "default",
		Timeout: 30 * time.Second,
	}
}

// DefaultChunker returns the regex chunker configuration.
func DefaultChunker() Chunker {
	return Chunker{
		Mode:           ChunkRegex,
		Model:          "all-mpnet-base-v1",
		Timeout:        60 * time.Second,
		MaxChunkTokens: 1000,
		Threshold:      0.5,
	}
}

// DefaultReranker returns the local TF-IDF reranker configuration.
func DefaultReranker() Reranker {
	return Reranker{
		Mode:    RerankLocal,
		Format:  FormatCohere,
		Model:   "default",
		Timeout: 60 * time.Second,
		TopK:    5,
	}
}

// Default returns the all-local configuration.
func Default() Config {
	return Config{
		Tokenizer: DefaultTokenizer(),
		Chunker:   DefaultChunker(),
		Reranker:  DefaultReranker(),
	}
}

var validate = validator.New()

// Validate checks the combined configuration and returns a
// components.ConfigError naming the first offending field.
func (c Config) Validate() error {
	return wrapValidation(validate.Struct(c))
}

// Validate checks the tokenizer configuration.
func (c Tokenizer) Validate() error {
	return wrapValidation(validate.Struct(c))
}

// Validate checks the chunker configuration.
func (c Chunker) Validate() error {
	return wrapValidation(validate.Struct(c))
}

// Validate checks the reranker configuration.
func (c Reranker) Validate() error {
	return wrapValidation(validate.Struct(c))
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return &components.ConfigError{
			Field:  fe.StructNamespace(),
			Reason: fmt.Sprintf("failed %q constraint on value %v", fe.Tag(), fe.Value()),
		}
	}
	return err
}
