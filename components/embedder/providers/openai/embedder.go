package openai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/embedder"
)

// Embedder computes embeddings through the OpenAI embeddings API or any
// server speaking its protocol.
type Embedder struct {
	*openai.Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func (p *Embedder) SetClient(clt *openai.Client) {
	p.Client = clt
}

func New(client *openai.Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	i.Apply(embedder.WithProvider(embedder.ProviderOpenAI))
	i.Apply(opts...)
	return i
}

func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.Usage) ([]embedder.Embedding, error) {
	req := openai.EmbeddingRequest{
		Input: parts,
		Model: openai.EmbeddingModel(p.Model()),
	}
	resp, err := p.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if usage != nil {
		usage.Merge(&components.Usage{InputTokens: int64(resp.Usage.PromptTokens)})
	}
	ret := make([]embedder.Embedding, 0, len(resp.Data))
	for _, v := range resp.Data {
		vector := make([]float64, 0, len(v.Embedding))
		for _, e := range v.Embedding {
			vector = append(vector, float64(e))
		}
		idx := v.Index
		obj := ""
		if idx >= 0 && idx < len(parts) {
			obj = parts[idx]
		}
		ret = append(ret, embedder.Embedding{
			Object:    obj,
			Embedding: vector,
			Index:     idx,
		})
	}
	return ret, nil
}
