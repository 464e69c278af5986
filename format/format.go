// Package format renders ranked chunks for human consumption. The core
// itself makes no assumption about output; this is a convenience for
// callers that want the canonical markdown rendering.
package format

import (
	"fmt"
	"strings"

	"github.com/bububa/docrerank/components"
)

// Markdown renders ranked chunks as a markdown report: a heading with
// the query, the total token cost, then one section per result with its
// score, token estimate and source.
func Markdown(chunks []components.Chunk, query string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Top %d Results for: %s\n", len(chunks), query)

	var totalTokens int
	for _, chunk := range chunks {
		totalTokens += chunk.Tokens
	}
	fmt.Fprintf(&sb, "_Total tokens: %d_\n", totalTokens)

	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "\n## Result %d (score: %.3f, tokens: %d)\n", i+1, chunk.Score, chunk.Tokens)
		if chunk.Source != "" {
			fmt.Fprintf(&sb, "_Source: %s_\n", chunk.Source)
		}
		sb.WriteString("\n")
		sb.WriteString(chunk.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
