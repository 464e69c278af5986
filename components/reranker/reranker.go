// Package reranker scores and orders document chunks by relevance to a
// query. The local implementation is TF-IDF over the chunk set of one
// call; the HTTP implementation delegates scoring to a rerank endpoint.
// Both feed the same ordering rule, so results are deterministic per
// (query, chunk set) regardless of backend.
package reranker

import (
	"context"
	"sort"

	"github.com/bububa/docrerank/components"
)

// Reranker defines the interface for relevance scoring implementations.
type Reranker interface {
	// Rerank returns at most topK chunks ordered by descending score,
	// ties broken by ascending original index. Input chunks are never
	// mutated; scoring produces new chunk values.
	Rerank(ctx context.Context, chunks []components.Chunk, query string, topK int) ([]components.Chunk, error)
}

// DefaultTopK is the result count used when none is configured.
const DefaultTopK = 5

// rank orders scored chunks descending by score with the original index
// as the deterministic tie-break, then truncates to topK.
func rank(chunks []components.Chunk, topK int) []components.Chunk {
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		return chunks[i].Index < chunks[j].Index
	})
	if topK > 0 && topK < len(chunks) {
		return chunks[:topK]
	}
	return chunks
}
