package reranker

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/bububa/docrerank/components"
)

// termRe extracts identifier-like terms; underscores are kept so code
// identifiers survive as single terms.
var termRe = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

// TFIDF scores chunks against a query with term-frequency ×
// inverse-document-frequency statistics computed fresh over the chunk
// set of each call. Pure and CPU-bound; it never suspends.
type TFIDF struct {
	stopwords map[string]struct{}
}

var _ Reranker = (*TFIDF)(nil)

// TFIDFOption configures a TFIDF reranker.
type TFIDFOption func(*TFIDF)

// WithStopwords replaces the default stopword set.
func WithStopwords(words []string) TFIDFOption {
	return func(t *TFIDF) {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		t.stopwords = set
	}
}

// NewTFIDF creates a local reranker with the default English stopwords.
func NewTFIDF(opts ...TFIDFOption) *TFIDF {
	ret := &TFIDF{stopwords: defaultStopwords}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ExtractTerms lowercases text, tokenizes on non-alphanumeric
// boundaries and drops stopwords and terms shorter than three runes.
func (t *TFIDF) ExtractTerms(text string) []string {
	words := termRe.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, ok := t.stopwords[w]; ok {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

func (t *TFIDF) Rerank(_ context.Context, chunks []components.Chunk, query string, topK int) ([]components.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	scored := make([]components.Chunk, len(chunks))
	copy(scored, chunks)

	queryTerms := t.ExtractTerms(query)
	if len(queryTerms) == 0 {
		for i := range scored {
			scored[i].Score = 0
		}
		return rank(scored, topK), nil
	}

	// Document frequencies over this call's corpus only.
	n := len(chunks)
	df := make(map[string]int)
	chunkTerms := make([][]string, n)
	for i, chunk := range chunks {
		terms := t.ExtractTerms(chunk.Content)
		chunkTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	// Laplace-smoothed IDF, finite and positive for every term.
	idf := make(map[string]float64, len(df))
	for term, freq := range df {
		idf[term] = math.Log(float64(n+1)/float64(freq+1)) + 1
	}

	for i := range scored {
		scored[i].Score = score(queryTerms, chunkTerms[i], idf)
	}
	return rank(scored, topK), nil
}

// score sums tf(term)·idf(term) over the query terms present in the
// document. Term frequency is the raw occurrence count: longer chunks
// with more matches score higher, a deliberate bias toward dense
// matches.
func score(queryTerms, docTerms []string, idf map[string]float64) float64 {
	if len(docTerms) == 0 {
		return 0
	}
	tf := make(map[string]int, len(docTerms))
	for _, term := range docTerms {
		tf[term]++
	}
	var total float64
	for _, term := range queryTerms {
		if freq, ok := tf[term]; ok {
			total += float64(freq) * idf[term]
		}
	}
	return total
}
