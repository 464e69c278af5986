package tokenizer

import (
	"context"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/remote"
	"github.com/bububa/docrerank/config"
)

const backendName = "tokenizer"

// HTTP delegates token counting to an OpenAI-compatible endpoint.
// Unreachable or slow endpoints surface as components.BackendError;
// callers decide whether to retry or fall back.
type HTTP struct {
	client *remote.Client
	model  string
}

// NewHTTP creates a remote counter from cfg.
func NewHTTP(cfg config.Tokenizer, opts ...remote.Option) (*HTTP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, &components.ConfigError{Field: "Tokenizer.Endpoint", Reason: "no endpoint configured for http mode"}
	}
	options := append([]remote.Option{
		remote.WithBaseURL(cfg.Endpoint),
		remote.WithAPIKey(cfg.APIKey),
		remote.WithTimeout(cfg.Timeout),
		remote.WithBackend(backendName),
	}, opts...)
	return &HTTP{
		client: remote.NewClient(options...),
		model:  cfg.Model,
	}, nil
}

type countRequest struct {
	Input          string `json:"input"`
	Model          string `json:"model"`
	EncodingFormat string `json:"encoding_format,omitempty"`
}

// countResponse covers the response shapes of common tokenize
// endpoints: OpenAI usage accounting, llama.cpp token arrays, and
// direct count fields.
type countResponse struct {
	Usage *struct {
		PromptTokens int `json:"prompt_tokens"`
	} `json:"usage,omitempty"`
	Tokens     []int `json:"tokens,omitempty"`
	TokenCount *int  `json:"token_count,omitempty"`
	Count      *int  `json:"count,omitempty"`
	NumTokens  *int  `json:"num_tokens,omitempty"`
	Length     *int  `json:"length,omitempty"`
}

// Count sends text to the configured endpoint and parses a token count
// from the response.
func (h *HTTP) Count(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	req := countRequest{
		Input:          text,
		Model:          h.model,
		EncodingFormat: "float",
	}
	var resp countResponse
	if err := h.client.PostJSON(ctx, "count_tokens", &req, &resp); err != nil {
		return 0, err
	}
	switch {
	case resp.Usage != nil:
		return resp.Usage.PromptTokens, nil
	case resp.Tokens != nil:
		return len(resp.Tokens), nil
	case resp.TokenCount != nil:
		return *resp.TokenCount, nil
	case resp.Count != nil:
		return *resp.Count, nil
	case resp.NumTokens != nil:
		return *resp.NumTokens, nil
	case resp.Length != nil:
		return *resp.Length, nil
	}
	return 0, &components.ProtocolError{
		Backend: backendName,
		Op:      "count_tokens",
		Reason:  "response carries no recognizable token count field",
	}
}
