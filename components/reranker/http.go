package reranker

import (
	"context"
	"fmt"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/remote"
	"github.com/bububa/docrerank/config"
)

const backendName = "reranker"

// HTTP delegates scoring to a rerank endpoint speaking either the
// cohere request shape (llama.cpp, vLLM, hosted rerank services) or an
// openai-style shape, selected by configuration. The endpoint must
// assign a score to every document; scores are re-attached to the
// original chunks and ordered by the same rule as local scoring. The
// reranker itself never falls back to another backend.
type HTTP struct {
	client *remote.Client
	model  string
	format string
}

var _ Reranker = (*HTTP)(nil)

// NewHTTP creates a delegating reranker from cfg.
func NewHTTP(cfg config.Reranker, opts ...remote.Option) (*HTTP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, &components.ConfigError{Field: "Reranker.Endpoint", Reason: "no endpoint configured for http mode"}
	}
	format := cfg.Format
	if format == "" {
		format = config.FormatCohere
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
		format: format,
	}, nil
}

// cohereRequest is the /v1/rerank shape. TopN is deliberately omitted
// so the response scores every document; truncation happens locally.
type cohereRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	ReturnDocuments bool     `json:"return_documents"`
}

type cohereResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

type openaiRequest struct {
	Model string `json:"model"`
	Input struct {
		Query     string   `json:"query"`
		Documents []string `json:"documents"`
	} `json:"input"`
}

type openaiResponse struct {
	Scores []float64 `json:"scores"`
}

func (h *HTTP) Rerank(ctx context.Context, chunks []components.Chunk, query string, topK int) ([]components.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	documents := make([]string, len(chunks))
	for i, chunk := range chunks {
		documents[i] = chunk.Content
	}

	var (
		scores []float64
		err    error
	)
	switch h.format {
	case config.FormatOpenAI:
		scores, err = h.rerankOpenAI(ctx, query, documents)
	default:
		scores, err = h.rerankCohere(ctx, query, documents)
	}
	if err != nil {
		return nil, err
	}

	scored := make([]components.Chunk, len(chunks))
	copy(scored, chunks)
	for i := range scored {
		scored[i].Score = scores[i]
	}
	return rank(scored, topK), nil
}

func (h *HTTP) rerankCohere(ctx context.Context, query string, documents []string) ([]float64, error) {
	req := cohereRequest{
		Model:           h.model,
		Query:           query,
		Documents:       documents,
		ReturnDocuments: false,
	}
	var resp cohereResponse
	if err := h.client.PostJSON(ctx, "rerank", &req, &resp); err != nil {
		return nil, err
	}

	scores := make([]float64, len(documents))
	seen := make([]bool, len(documents))
	for _, result := range resp.Results {
		if result.Index < 0 || result.Index >= len(documents) {
			return nil, h.protocolErr(fmt.Sprintf("result index %d out of range", result.Index))
		}
		if seen[result.Index] {
			return nil, h.protocolErr(fmt.Sprintf("duplicate result for index %d", result.Index))
		}
		seen[result.Index] = true
		scores[result.Index] = result.RelevanceScore
	}
	for i, ok := range seen {
		if !ok {
			return nil, h.protocolErr(fmt.Sprintf("no score returned for document %d", i))
		}
	}
	return scores, nil
}

func (h *HTTP) rerankOpenAI(ctx context.Context, query string, documents []string) ([]float64, error) {
	req := openaiRequest{Model: h.model}
	req.Input.Query = query
	req.Input.Documents = documents
	var resp openaiResponse
	if err := h.client.PostJSON(ctx, "rerank", &req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Scores) != len(documents) {
		return nil, h.protocolErr(fmt.Sprintf("%d scores returned for %d documents", len(resp.Scores), len(documents)))
	}
	return resp.Scores, nil
}

func (h *HTTP) protocolErr(reason string) error {
	return &components.ProtocolError{
		Backend: backendName,
		Op:      "rerank",
		Reason:  reason,
	}
}
