// Package cohere scores chunks through the hosted Cohere rerank API
// with the official client, as an alternative to pointing the generic
// HTTP reranker at a cohere-compatible endpoint.
package cohere

import (
	"context"
	"fmt"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/reranker"
)

type Reranker struct {
	*cohereClient.Client

	model string
	usage *components.Usage
}

var _ reranker.Reranker = (*Reranker)(nil)

// Option configures a Reranker.
type Option func(*Reranker)

// WithModel sets the rerank model.
func WithModel(model string) Option {
	return func(r *Reranker) {
		r.model = model
	}
}

// WithUsage sets a sink for token accounting.
func WithUsage(usage *components.Usage) Option {
	return func(r *Reranker) {
		r.usage = usage
	}
}

func (r *Reranker) SetClient(clt *cohereClient.Client) {
	r.Client = clt
}

func New(client *cohereClient.Client, opts ...Option) *Reranker {
	i := &Reranker{
		Client: client,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (r *Reranker) Rerank(ctx context.Context, chunks []components.Chunk, query string, topK int) ([]components.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = reranker.DefaultTopK
	}
	documents := make([]*cohere.RerankRequestDocumentsItem, 0, len(chunks))
	for _, chunk := range chunks {
		documents = append(documents, &cohere.RerankRequestDocumentsItem{String: chunk.Content})
	}
	model := r.model
	returnDocuments := false
	req := cohere.RerankRequest{
		Model:           &model,
		Query:           query,
		Documents:       documents,
		ReturnDocuments: &returnDocuments,
	}
	resp, err := r.Client.Rerank(ctx, &req)
	if err != nil {
		return nil, err
	}
	if r.usage != nil && resp.Meta != nil && resp.Meta.Tokens != nil {
		var u components.Usage
		if v := resp.Meta.Tokens.InputTokens; v != nil {
			u.InputTokens = int64(*v)
		}
		if v := resp.Meta.Tokens.OutputTokens; v != nil {
			u.OutputTokens = int64(*v)
		}
		r.usage.Merge(&u)
	}

	scored := make([]components.Chunk, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result == nil {
			continue
		}
		if result.Index < 0 || result.Index >= len(chunks) {
			return nil, &components.ProtocolError{
				Backend: "reranker",
				Op:      "rerank",
				Reason:  fmt.Sprintf("result index %d out of range", result.Index),
			}
		}
		chunk := chunks[result.Index]
		chunk.Score = result.RelevanceScore
		scored = append(scored, chunk)
	}
	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}
