// Package embedder defines the embedding provider contract consumed by
// the semantic chunker, plus the vector math the chunker groups
// sentences with. Providers live in subpackages.
package embedder

import (
	"bytes"
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/bububa/docrerank/components"
)

// Embedding is an information dense representation of the semantic
// meaning of a piece of text: a vector of floating point numbers such
// that the distance between two embeddings correlates with semantic
// similarity between the two inputs.
type Embedding struct {
	Object    string            `json:"object"`
	Embedding []float64         `json:"embedding"`
	Index     int               `json:"index"`
	Meta      map[string]string `json:"meta,omitempty"`
}

func (e Embedding) UUID() string {
	sb := new(bytes.Buffer)
	sb.WriteString(e.Object)
	for k, v := range e.Meta {
		sb.WriteString(k + ":" + v)
		sb.WriteByte('\n')
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, sb.Bytes()).String()
}

// DotProduct calculates the dot product of the embedding vector with
// another embedding vector. Both vectors must have the same length.
func (e *Embedding) DotProduct(other *Embedding) (float64, error) {
	if len(e.Embedding) != len(other.Embedding) {
		return 0, errors.New("vector length mismatch")
	}
	var dotProduct float64
	for i := range e.Embedding {
		dotProduct += e.Embedding[i] * other.Embedding[i]
	}
	return dotProduct, nil
}

// Embedder computes fixed-dimension embedding vectors for texts.
type Embedder interface {
	Model() string
	// BatchEmbed embeds every text in parts, returning one Embedding
	// per input with Index matching the input position. Token
	// accounting is added to usage when non-nil.
	BatchEmbed(ctx context.Context, parts []string, usage *components.Usage) ([]Embedding, error)
}

// Cosine returns the cosine similarity of two vectors, or 0 when either
// has zero magnitude or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Mean returns the element-wise mean of the vectors. All vectors must
// share the dimension of the first.
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i := range mean {
			if i < len(v) {
				mean[i] += v[i]
			}
		}
	}
	for i := range mean {
		mean[i] /= float64(len(vectors))
	}
	return mean
}
