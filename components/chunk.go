package components

// Chunk represents a bounded slice of a source document with associated
// metadata for tracking its position, size and relevance within the
// original document.
type Chunk struct {
	// Content contains the actual text of the chunk
	Content string `json:"content"`
	// Source is an origin identifier copied from the input document
	Source string `json:"source,omitempty"`
	// Index reflects original document order, assigned once at emission
	Index int `json:"index"`
	// Tokens is the estimated token count of Content
	Tokens int `json:"tokens"`
	// Score is the relevance score attached by a reranker. Scoring
	// produces new Chunk values; an unscored chunk carries zero.
	Score float64 `json:"score"`
}

// Document is a raw input text plus a source label. It is consumed once
// by a chunker and not retained.
type Document struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Usage accumulates token accounting reported by remote providers.
type Usage struct {
	InputTokens  int64 `json:"input_tokens,omitempty"`
	OutputTokens int64 `json:"output_tokens,omitempty"`
}

func (u *Usage) Merge(v *Usage) {
	if v == nil {
		return
	}
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
}
