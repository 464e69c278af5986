package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/bububa/docrerank/components"
)

// headingRe matches markdown headings of level one to three.
var headingRe = regexp.MustCompile(`^#{1,3}\s`)

// Regex splits text with a 3-tier hierarchical strategy:
//
//  1. markdown headings (# ## ###) and blank-line paragraph boundaries
//  2. budgeted accumulation of the resulting sections
//  3. sentence boundaries as a fallback for oversized sections
//
// It never drops content and never calls out of process.
type Regex struct {
	Options
}

var _ Chunker = (*Regex)(nil)

// NewRegex creates a structural chunker. Without options it counts
// tokens locally and uses the default budget.
func NewRegex(opts ...Option) *Regex {
	ret := new(Regex)
	ret.apply(opts...)
	return ret
}

func (r *Regex) Split(ctx context.Context, content, source string) ([]components.Chunk, error) {
	var (
		chunks        []components.Chunk
		current       strings.Builder
		currentTokens int
	)
	emit := func(text string, tokens int) {
		chunks = append(chunks, components.Chunk{
			Content: text,
			Source:  source,
			Index:   len(chunks),
			Tokens:  tokens,
		})
	}

	for _, section := range splitSections(content) {
		sectionTokens, err := r.counter.Count(ctx, section)
		if err != nil {
			return nil, err
		}

		if currentTokens+sectionTokens <= r.maxTokens {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(section)
			currentTokens += sectionTokens
			continue
		}

		if current.Len() > 0 {
			emit(current.String(), currentTokens)
			current.Reset()
			currentTokens = 0
		}

		if sectionTokens <= r.maxTokens {
			current.WriteString(section)
			currentTokens = sectionTokens
			continue
		}

		// Section alone exceeds the budget: fall back to sentences.
		if err := r.splitBySentences(ctx, section, emit); err != nil {
			return nil, err
		}
	}

	if current.Len() > 0 {
		emit(current.String(), currentTokens)
	}
	return chunks, nil
}

// splitBySentences applies the accumulation rule at sentence
// granularity. A single sentence over the budget is emitted as its own
// oversized chunk; that is the one permitted budget violation.
func (r *Regex) splitBySentences(ctx context.Context, section string, emit func(string, int)) error {
	var (
		current       strings.Builder
		currentTokens int
	)
	for _, sentence := range SplitSentences(section) {
		sentenceTokens, err := r.counter.Count(ctx, sentence)
		if err != nil {
			return err
		}
		if currentTokens+sentenceTokens <= r.maxTokens {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)
			currentTokens += sentenceTokens
			continue
		}
		if current.Len() > 0 {
			emit(current.String(), currentTokens)
			current.Reset()
		}
		current.WriteString(sentence)
		currentTokens = sentenceTokens
	}
	if current.Len() > 0 {
		emit(current.String(), currentTokens)
	}
	return nil
}

// splitSections breaks content at markdown heading lines and at
// blank-line paragraph boundaries. Concatenating the sections
// reconstitutes the document up to the whitespace used as delimiters.
func splitSections(content string) []string {
	var (
		sections []string
		current  []string
	)
	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if headingRe.MatchString(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return sections
}
