// Package chunker splits raw documentation text into token-budgeted
// chunks. Three implementations share one contract: a structural
// splitter over markdown boundaries, a semantic splitter over sentence
// embeddings, and a delegating splitter for remote chunk services.
package chunker

import (
	"context"
	"strings"

	"github.com/clipperhouse/uax29/sentences"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/embedder"
	"github.com/bububa/docrerank/components/tokenizer"
)

// Chunker defines the interface for text chunking implementations.
type Chunker interface {
	// Split breaks content into an ordered sequence of chunks. Index is
	// assigned by emission order and Source is copied onto every chunk.
	// Every chunk respects the configured token budget except a single
	// indivisible sentence, which is emitted oversized rather than
	// dropped.
	Split(ctx context.Context, content, source string) ([]components.Chunk, error)
}

// DefaultMaxTokens is the chunk token budget used when none is set.
const DefaultMaxTokens = 1000

// Options holds the configuration shared by chunker implementations.
type Options struct {
	counter   tokenizer.Counter
	maxTokens int
	threshold float64
	embedder  embedder.Embedder
	usage     *components.Usage
}

// Option is a function type for configuring chunker Options.
// This follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

// WithTokenCounter sets the token counter used for budget accounting.
func WithTokenCounter(counter tokenizer.Counter) Option {
	return func(o *Options) {
		o.counter = counter
	}
}

// WithMaxTokens sets the chunk token budget.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.maxTokens = maxTokens
	}
}

// WithThreshold sets the semantic similarity cut in [0,1].
func WithThreshold(threshold float64) Option {
	return func(o *Options) {
		o.threshold = threshold
	}
}

// WithEmbedder sets the embedding provider for the semantic chunker.
func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.embedder = e
	}
}

// WithUsage sets a sink for token accounting reported by providers.
func WithUsage(usage *components.Usage) Option {
	return func(o *Options) {
		o.usage = usage
	}
}

func (o *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
	if o.counter == nil {
		o.counter = tokenizer.NewLocal()
	}
	if o.maxTokens <= 0 {
		o.maxTokens = DefaultMaxTokens
	}
}

// SplitSentences segments text into trimmed, non-empty sentences using
// UAX #29 sentence boundaries.
func SplitSentences(text string) []string {
	segs := sentences.SegmentAll([]byte(text))
	ret := make([]string, 0, len(segs))
	for _, seg := range segs {
		if s := strings.TrimSpace(string(seg)); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}
