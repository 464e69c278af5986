package chunker

import (
	"context"
	"strings"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/remote"
	"github.com/bububa/docrerank/config"
)

const backendName = "chunker"

// HTTP delegates splitting to a remote chunk service: it sends the text
// and the token budget and receives the ordered chunk contents back.
// Token counts are re-estimated locally so budget accounting stays
// consistent with the other chunkers.
type HTTP struct {
	Options

	client *remote.Client
	model  string
}

var _ Chunker = (*HTTP)(nil)

// NewHTTP creates a delegating chunker from cfg.
func NewHTTP(cfg config.Chunker, opts ...Option) (*HTTP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, &components.ConfigError{Field: "Chunker.Endpoint", Reason: "no endpoint configured for http mode"}
	}
	ret := new(HTTP)
	ret.apply(append([]Option{WithMaxTokens(cfg.MaxChunkTokens)}, opts...)...)
	ret.client = remote.NewClient(
		remote.WithBaseURL(cfg.Endpoint),
		remote.WithAPIKey(cfg.APIKey),
		remote.WithTimeout(cfg.Timeout),
		remote.WithBackend(backendName),
	)
	ret.model = cfg.Model
	return ret, nil
}

type chunkRequest struct {
	Content        string `json:"content"`
	Source         string `json:"source,omitempty"`
	MaxChunkTokens int    `json:"max_chunk_tokens"`
	Model          string `json:"model,omitempty"`
}

type chunkResponse struct {
	Chunks []string `json:"chunks"`
}

func (h *HTTP) Split(ctx context.Context, content, source string) ([]components.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	req := chunkRequest{
		Content:        content,
		Source:         source,
		MaxChunkTokens: h.maxTokens,
		Model:          h.model,
	}
	var resp chunkResponse
	if err := h.client.PostJSON(ctx, "split", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Chunks == nil {
		return nil, &components.ProtocolError{
			Backend: backendName,
			Op:      "split",
			Reason:  "response carries no chunks field",
		}
	}
	chunks := make([]components.Chunk, 0, len(resp.Chunks))
	for _, text := range resp.Chunks {
		tokens, err := h.counter.Count(ctx, text)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, components.Chunk{
			Content: text,
			Source:  source,
			Index:   len(chunks),
			Tokens:  tokens,
		})
	}
	return chunks, nil
}
