package cohere

import (
	"context"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/embedder"
)

// Embedder computes embeddings through the Cohere embed API.
type Embedder struct {
	*cohereClient.Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func (p *Embedder) SetClient(clt *cohereClient.Client) {
	p.Client = clt
}

func New(client *cohereClient.Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	i.Apply(embedder.WithProvider(embedder.ProviderCohere))
	i.Apply(opts...)
	return i
}

func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.Usage) ([]embedder.Embedding, error) {
	model := p.Model()
	req := cohere.EmbedRequest{
		Texts: parts,
		Model: &model,
	}
	resp, err := p.Client.Embed(ctx, &req)
	if err != nil {
		return nil, err
	}
	respV := resp.GetEmbeddingsFloats()
	if usage != nil && respV.Meta != nil && respV.Meta.Tokens != nil {
		var u components.Usage
		if v := respV.Meta.Tokens.InputTokens; v != nil {
			u.InputTokens = int64(*v)
		}
		if v := respV.Meta.Tokens.OutputTokens; v != nil {
			u.OutputTokens = int64(*v)
		}
		usage.Merge(&u)
	}
	ret := make([]embedder.Embedding, 0, len(respV.Embeddings))
	for idx, v := range respV.Embeddings {
		ret = append(ret, embedder.Embedding{
			Object:    respV.Texts[idx],
			Embedding: v,
			Index:     idx,
		})
	}
	return ret, nil
}
