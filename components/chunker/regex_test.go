package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/bububa/docrerank/components"
)

// wordCounter counts whitespace-separated words, keeping budget
// arithmetic predictable in tests.
type wordCounter struct{}

func (wordCounter) Count(_ context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func TestRegexSplit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxTokens int
		want      []string
	}{
		{
			name:      "everything fits in one chunk",
			input:     "# Title\n\nPara one.\n\nPara two.",
			maxTokens: 100,
			want:      []string{"# Title\n\nPara one.\n\nPara two."},
		},
		{
			name:      "one paragraph per chunk",
			input:     "# Title\n\nPara one.\n\nPara two.",
			maxTokens: 2,
			want:      []string{"# Title", "Para one.", "Para two."},
		},
		{
			name:      "title merges with first paragraph",
			input:     "# Title\n\nPara one.\n\nPara two.",
			maxTokens: 4,
			want:      []string{"# Title\n\nPara one.", "Para two."},
		},
		{
			name:      "heading without blank line starts a section",
			input:     "intro text\n# Setup\nstep one\n## Details\nstep two",
			maxTokens: 4,
			want:      []string{"intro text", "# Setup\nstep one", "## Details\nstep two"},
		},
		{
			name:      "empty input",
			input:     "",
			maxTokens: 10,
			want:      nil,
		},
		{
			name:      "whitespace only",
			input:     "\n\n \n",
			maxTokens: 10,
			want:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewRegex(WithTokenCounter(wordCounter{}), WithMaxTokens(tt.maxTokens))
			chunks, err := c.Split(context.Background(), tt.input, "docs")
			if err != nil {
				t.Fatal(err)
			}
			if len(chunks) != len(tt.want) {
				t.Fatalf("got %d chunks %q, want %d", len(chunks), contents(chunks), len(tt.want))
			}
			for i, want := range tt.want {
				if chunks[i].Content != want {
					t.Errorf("chunk %d = %q, want %q", i, chunks[i].Content, want)
				}
				if chunks[i].Index != i {
					t.Errorf("chunk %d carries index %d", i, chunks[i].Index)
				}
				if chunks[i].Source != "docs" {
					t.Errorf("chunk %d source = %q", i, chunks[i].Source)
				}
			}
		})
	}
}

func TestRegexSplitSentenceFallback(t *testing.T) {
	input := "First sentence here. Second sentence follows now. Third one closes it."
	c := NewRegex(WithTokenCounter(wordCounter{}), WithMaxTokens(4))
	chunks, err := c.Split(context.Background(), input, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks %q, want 3", len(chunks), contents(chunks))
	}
	for _, chunk := range chunks {
		if chunk.Tokens > 4 {
			t.Errorf("chunk %d exceeds budget: %d tokens", chunk.Index, chunk.Tokens)
		}
	}
}

func TestRegexSplitOversizedSentence(t *testing.T) {
	// A single sentence over the budget is emitted oversized, not
	// dropped and not split further.
	input := "this single sentence runs far past the configured budget without any boundary"
	c := NewRegex(WithTokenCounter(wordCounter{}), WithMaxTokens(3))
	chunks, err := c.Split(context.Background(), input, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks %q, want 1", len(chunks), contents(chunks))
	}
	if chunks[0].Tokens <= 3 {
		t.Errorf("oversized chunk reports %d tokens", chunks[0].Tokens)
	}
	if chunks[0].Content != input {
		t.Errorf("content altered: %q", chunks[0].Content)
	}
}

func TestRegexSplitRoundTrip(t *testing.T) {
	inputs := []string{
		"# Guide\n\nInstall the package. Run the setup. Check the logs.\n\n## Next\n\nMore text here.",
		"plain paragraph without structure",
		"# A\ncontent a\n# B\ncontent b\n\n\ncontent c",
	}
	for _, input := range inputs {
		for _, budget := range []int{1, 3, 100} {
			c := NewRegex(WithTokenCounter(wordCounter{}), WithMaxTokens(budget))
			chunks, err := c.Split(context.Background(), input, "")
			if err != nil {
				t.Fatal(err)
			}
			got := strings.Fields(strings.Join(contents(chunks), " "))
			want := strings.Fields(input)
			if strings.Join(got, " ") != strings.Join(want, " ") {
				t.Errorf("budget %d: content lost or reordered\n got: %v\nwant: %v", budget, got, want)
			}
		}
	}
}

func TestRegexSplitBudgetInvariant(t *testing.T) {
	input := "# Docs\n\nOne two three four. Five six seven eight. Nine ten.\n\nAnother paragraph with several more words in it."
	for _, budget := range []int{2, 4, 8} {
		c := NewRegex(WithTokenCounter(wordCounter{}), WithMaxTokens(budget))
		chunks, err := c.Split(context.Background(), input, "")
		if err != nil {
			t.Fatal(err)
		}
		for _, chunk := range chunks {
			oneSentence := len(SplitSentences(chunk.Content)) <= 1
			if chunk.Tokens > budget && !oneSentence {
				t.Errorf("budget %d: divisible chunk %q holds %d tokens", budget, chunk.Content, chunk.Tokens)
			}
		}
	}
}

func contents(chunks []components.Chunk) []string {
	ret := make([]string, len(chunks))
	for i, chunk := range chunks {
		ret[i] = chunk.Content
	}
	return ret
}
