package chunker

import (
	"context"
	"errors"
	"testing"

	"github.com/bububa/docrerank/components"
	"github.com/bububa/docrerank/components/embedder"
)

// stubEmbedder returns canned vectors keyed by sentence text.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Model() string { return "stub" }

func (s *stubEmbedder) BatchEmbed(_ context.Context, parts []string, usage *components.Usage) ([]embedder.Embedding, error) {
	if s.err != nil {
		return nil, s.err
	}
	if usage != nil {
		usage.Merge(&components.Usage{InputTokens: int64(len(parts))})
	}
	ret := make([]embedder.Embedding, 0, len(parts))
	for i, part := range parts {
		vec, ok := s.vectors[part]
		if !ok {
			vec = []float64{1, 0}
		}
		ret = append(ret, embedder.Embedding{Object: part, Embedding: vec, Index: i})
	}
	return ret, nil
}

const semanticDoc = "Cats purr loudly. Dogs bark at night. The market closed lower."

func newStub() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float64{
		"Cats purr loudly.":        {1, 0},
		"Dogs bark at night.":      {0.9, 0.1},
		"The market closed lower.": {0, 1},
	}}
}

func TestSemanticSplitGroupsBySimilarity(t *testing.T) {
	c, err := NewSemantic(
		WithEmbedder(newStub()),
		WithTokenCounter(wordCounter{}),
		WithMaxTokens(100),
		WithThreshold(0.5),
	)
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := c.Split(context.Background(), semanticDoc, "pets")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Cats purr loudly. Dogs bark at night.",
		"The market closed lower.",
	}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(chunks), contents(chunks), len(want))
	}
	for i := range want {
		if chunks[i].Content != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i].Content, want[i])
		}
		if chunks[i].Index != i || chunks[i].Source != "pets" {
			t.Errorf("chunk %d metadata = %+v", i, chunks[i])
		}
	}
}

func TestSemanticSplitZeroThresholdMergesAll(t *testing.T) {
	c, err := NewSemantic(
		WithEmbedder(newStub()),
		WithTokenCounter(wordCounter{}),
		WithMaxTokens(100),
		WithThreshold(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := c.Split(context.Background(), semanticDoc, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks %q, want 1", len(chunks), contents(chunks))
	}
	if chunks[0].Tokens != 11 {
		t.Errorf("merged chunk tokens = %d, want 11", chunks[0].Tokens)
	}
}

func TestSemanticSplitBudgetOverridesSimilarity(t *testing.T) {
	c, err := NewSemantic(
		WithEmbedder(newStub()),
		WithTokenCounter(wordCounter{}),
		WithMaxTokens(4),
		WithThreshold(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := c.Split(context.Background(), semanticDoc, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks %q, want one per sentence", len(chunks), contents(chunks))
	}
	for _, chunk := range chunks {
		if chunk.Tokens > 4 {
			t.Errorf("chunk %q exceeds budget with %d tokens", chunk.Content, chunk.Tokens)
		}
	}
}

func TestSemanticSplitSingleSentence(t *testing.T) {
	c, err := NewSemantic(WithEmbedder(newStub()), WithTokenCounter(wordCounter{}))
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := c.Split(context.Background(), "Cats purr loudly.", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0].Content != "Cats purr loudly." {
		t.Fatalf("got %q", contents(chunks))
	}
}

func TestSemanticSplitEmptyInput(t *testing.T) {
	c, err := NewSemantic(WithEmbedder(newStub()), WithTokenCounter(wordCounter{}))
	if err != nil {
		t.Fatal(err)
	}
	chunks, err := c.Split(context.Background(), "   \n ", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks for blank input", len(chunks))
	}
}

func TestSemanticSplitEmbedderErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	c, err := NewSemantic(
		WithEmbedder(&stubEmbedder{err: wantErr}),
		WithTokenCounter(wordCounter{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Split(context.Background(), semanticDoc, ""); !errors.Is(err, wantErr) {
		t.Errorf("embedder error swallowed: %v", err)
	}
}

func TestNewSemanticRequiresEmbedder(t *testing.T) {
	if _, err := NewSemantic(WithTokenCounter(wordCounter{})); !components.IsConfig(err) {
		t.Errorf("want ConfigError, got %v", err)
	}
}

func TestSemanticSplitUsageAccounting(t *testing.T) {
	usage := new(components.Usage)
	c, err := NewSemantic(
		WithEmbedder(newStub()),
		WithTokenCounter(wordCounter{}),
		WithUsage(usage),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Split(context.Background(), semanticDoc, ""); err != nil {
		t.Fatal(err)
	}
	if usage.InputTokens != 3 {
		t.Errorf("usage input tokens = %d, want 3", usage.InputTokens)
	}
}
