package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/embedder"
	"github.com/bububa/docrerank/components/tokenizer"
)

// Semantic groups adjacent sentences whose embeddings stay close to the
// mean embedding of the open group, still respecting the token budget.
// Embedding provider failures propagate to the caller, which owns the
// fallback decision (typically structural chunking).
type Semantic struct {
	Options
}

var _ Chunker = (*Semantic)(nil)

// NewSemantic creates a semantic chunker around an embedding provider
// set via WithEmbedder.
func NewSemantic(opts ...Option) (*Semantic, error) {
	ret := new(Semantic)
	ret.apply(opts...)
	if ret.embedder == nil {
		return nil, &components.ConfigError{Field: "Chunker.Embedder", Reason: "semantic mode requires an embedding provider"}
	}
	return ret, nil
}

func (s *Semantic) Split(ctx context.Context, content, source string) ([]components.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	sents := SplitSentences(content)
	if len(sents) == 0 {
		return nil, nil
	}

	tokens, err := tokenizer.CountBatch(ctx, s.counter, sents)
	if err != nil {
		return nil, err
	}
	if len(sents) == 1 {
		return []components.Chunk{{
			Content: sents[0],
			Source:  source,
			Tokens:  tokens[0],
		}}, nil
	}

	embs, err := s.embedder.BatchEmbed(ctx, sents, s.usage)
	if err != nil {
		return nil, err
	}
	if len(embs) != len(sents) {
		return nil, &components.ProtocolError{
			Backend: "embedder",
			Op:      "embed",
			Reason:  fmt.Sprintf("%d embeddings returned for %d sentences", len(embs), len(sents)),
		}
	}

	var (
		chunks      []components.Chunk
		group       []string
		groupVecs   [][]float64
		groupTokens int
	)
	emit := func() {
		if len(group) == 0 {
			return
		}
		chunks = append(chunks, components.Chunk{
			Content: strings.Join(group, " "),
			Source:  source,
			Index:   len(chunks),
			Tokens:  groupTokens,
		})
		group = group[:0]
		groupVecs = groupVecs[:0]
		groupTokens = 0
	}

	for i, sentence := range sents {
		if len(group) > 0 {
			sim := s.similarity(groupVecs, embs[i].Embedding)
			if sim < s.threshold || groupTokens+tokens[i] > s.maxTokens {
				emit()
			}
		}
		group = append(group, sentence)
		groupVecs = append(groupVecs, embs[i].Embedding)
		groupTokens += tokens[i]
	}
	emit()
	return chunks, nil
}

// similarity compares a candidate vector with the mean of the open
// group. Cosine is clamped into [0,1] so a zero threshold always merges.
func (s *Semantic) similarity(groupVecs [][]float64, vec []float64) float64 {
	sim := cosineMean(groupVecs, vec)
	if sim < 0 {
		return 0
	}
	return sim
}

// cosineMean is the cosine similarity between vec and the mean of the
// group vectors.
func cosineMean(groupVecs [][]float64, vec []float64) float64 {
	return embedder.Cosine(embedder.Mean(groupVecs), vec)
}
