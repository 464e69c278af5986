// Package httpapi embeds texts through a bare OpenAI-compatible
// embeddings endpoint (llama.cpp, vLLM, text-embeddings-inference and
// similar local servers) using the shared remote delegation client.
package httpapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/embedder"
	"github.com/bububa/docrerank/components/remote"
)

const backendName = "embedder"

// Embedder calls a configured endpoint for embeddings.
type Embedder struct {
	client *remote.Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

// New creates an endpoint-backed embedder.
func New(endpoint, apiKey string, timeout time.Duration, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		client: remote.NewClient(
			remote.WithBaseURL(endpoint),
			remote.WithAPIKey(apiKey),
			remote.WithTimeout(timeout),
			remote.WithBackend(backendName),
		),
	}
	i.Apply(embedder.WithProvider(embedder.ProviderHTTP))
	i.Apply(opts...)
	return i
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	// Embeddings covers the simple {"embeddings": [[...], ...]} shape.
	Embeddings [][]float64 `json:"embeddings,omitempty"`
	Usage      *struct {
		PromptTokens int64 `json:"prompt_tokens"`
		TotalTokens  int64 `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.Usage) ([]embedder.Embedding, error) {
	req := embedRequest{
		Input: parts,
		Model: p.Model(),
	}
	var resp embedResponse
	if err := p.client.PostJSON(ctx, "embed", &req, &resp); err != nil {
		return nil, err
	}
	if usage != nil && resp.Usage != nil {
		tokens := resp.Usage.PromptTokens
		if tokens == 0 {
			tokens = resp.Usage.TotalTokens
		}
		usage.Merge(&components.Usage{InputTokens: tokens})
	}

	if resp.Data != nil {
		if len(resp.Data) < len(parts) {
			return nil, &components.ProtocolError{
				Backend: backendName,
				Op:      "embed",
				Reason:  fmt.Sprintf("%d embeddings returned for %d inputs", len(resp.Data), len(parts)),
			}
		}
		sort.Slice(resp.Data, func(i, j int) bool {
			return resp.Data[i].Index < resp.Data[j].Index
		})
		ret := make([]embedder.Embedding, 0, len(parts))
		for i, d := range resp.Data[:len(parts)] {
			ret = append(ret, embedder.Embedding{
				Object:    parts[i],
				Embedding: d.Embedding,
				Index:     i,
			})
		}
		return ret, nil
	}

	if len(resp.Embeddings) >= len(parts) {
		ret := make([]embedder.Embedding, 0, len(parts))
		for i, v := range resp.Embeddings[:len(parts)] {
			ret = append(ret, embedder.Embedding{
				Object:    parts[i],
				Embedding: v,
				Index:     i,
			})
		}
		return ret, nil
	}

	return nil, &components.ProtocolError{
		Backend: backendName,
		Op:      "embed",
		Reason:  "response carries no embeddings",
	}
}
