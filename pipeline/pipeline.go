// Package pipeline wires a tokenizer, a chunker and a reranker into the
// split-then-score flow. Concrete backends are selected once from the
// tagged configuration at construction; after that, everything runs
// through the capability interfaces.
package pipeline

import (
	"context"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/chunker"
	"github.com/bububa/docrerank/components/embedder"
	"github.com/bububa/docrerank/components/embedder/providers/httpapi"
	"github.com/bububa/docrerank/components/reranker"
	"github.com/bububa/docrerank/components/tokenizer"
	"github.com/bububa/docrerank/config"
)

// Pipeline executes split → rerank for one document and query.
type Pipeline struct {
	counter          tokenizer.Counter
	chunker          chunker.Chunker
	reranker         reranker.Reranker
	embedderOverride embedder.Embedder
	topK             int
	usage            *components.Usage
}

// Option overrides a constructed backend, mainly for callers that bring
// their own provider clients.
type Option func(*Pipeline)

// WithTokenCounter overrides the configured token counter.
func WithTokenCounter(c tokenizer.Counter) Option {
	return func(p *Pipeline) {
		p.counter = c
	}
}

// WithChunker overrides the configured chunker.
func WithChunker(c chunker.Chunker) Option {
	return func(p *Pipeline) {
		p.chunker = c
	}
}

// WithReranker overrides the configured reranker.
func WithReranker(r reranker.Reranker) Option {
	return func(p *Pipeline) {
		p.reranker = r
	}
}

// WithEmbedder sets the embedding provider for the semantic chunk mode.
// Without it, semantic mode embeds through the chunker endpoint as an
// OpenAI-compatible embeddings service.
func WithEmbedder(e embedder.Embedder) Option {
	return func(p *Pipeline) {
		p.embedderOverride = e
	}
}

// New builds a pipeline from cfg.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		topK:  cfg.Reranker.TopK,
		usage: new(components.Usage),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.counter == nil {
		switch cfg.Tokenizer.Mode {
		case config.TokenizeHTTP:
			counter, err := tokenizer.NewHTTP(cfg.Tokenizer)
			if err != nil {
				return nil, err
			}
			p.counter = counter
		default:
			p.counter = tokenizer.NewLocal()
		}
	}

	if p.chunker == nil {
		c, err := p.buildChunker(cfg.Chunker)
		if err != nil {
			return nil, err
		}
		p.chunker = c
	}

	if p.reranker == nil {
		switch cfg.Reranker.Mode {
		case config.RerankHTTP:
			r, err := reranker.NewHTTP(cfg.Reranker)
			if err != nil {
				return nil, err
			}
			p.reranker = r
		default:
			p.reranker = reranker.NewTFIDF()
		}
	}
	return p, nil
}

func (p *Pipeline) buildChunker(cfg config.Chunker) (chunker.Chunker, error) {
	shared := []chunker.Option{
		chunker.WithTokenCounter(p.counter),
		chunker.WithMaxTokens(cfg.MaxChunkTokens),
		chunker.WithUsage(p.usage),
	}
	switch cfg.Mode {
	case config.ChunkSemantic:
		emb := p.embedderOverride
		if emb == nil {
			if cfg.Endpoint == "" {
				return nil, &components.ConfigError{
					Field:  "Chunker.Endpoint",
					Reason: "semantic mode requires an embedder or an embeddings endpoint",
				}
			}
			emb = httpapi.New(cfg.Endpoint, cfg.APIKey, cfg.Timeout, embedder.WithModel(cfg.Model))
		}
		return chunker.NewSemantic(append(shared,
			chunker.WithEmbedder(emb),
			chunker.WithThreshold(cfg.Threshold),
		)...)
	case config.ChunkHTTP:
		return chunker.NewHTTP(cfg, shared...)
	default:
		return chunker.NewRegex(shared...), nil
	}
}

// Result carries the ranked chunks of one invocation together with the
// token accounting reported by remote providers along the way.
type Result struct {
	Chunks []components.Chunk `json:"chunks"`
	Usage  components.Usage   `json:"usage"`
}

// Run splits the document and scores the chunks against query.
func (p *Pipeline) Run(ctx context.Context, doc components.Document, query string) (*Result, error) {
	chunks, err := p.chunker.Split(ctx, doc.Content, doc.Source)
	if err != nil {
		return nil, err
	}
	ranked, err := p.reranker.Rerank(ctx, chunks, query, p.topK)
	if err != nil {
		return nil, err
	}
	return &Result{
		Chunks: ranked,
		Usage:  *p.usage,
	}, nil
}
