package format

import (
	"strings"
	"testing"

	"github.com/bububa/docrerank/components"
)

func TestMarkdown(t *testing.T) {
	chunks := []components.Chunk{
		{Content: "Setup authentication middleware.", Source: "express-docs", Index: 0, Tokens: 4, Score: 1.234},
		{Content: "Install dependencies.", Index: 1, Tokens: 2},
	}
	out := Markdown(chunks, "authentication")

	for _, want := range []string{
		"# Top 2 Results for: authentication",
		"_Total tokens: 6_",
		"## Result 1 (score: 1.234, tokens: 4)",
		"_Source: express-docs_",
		"Setup authentication middleware.",
		"## Result 2 (score: 0.000, tokens: 2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "_Source:") != 1 {
		t.Error("source line should only render when set")
	}
}

func TestMarkdownEmpty(t *testing.T) {
	out := Markdown(nil, "query")
	if !strings.Contains(out, "# Top 0 Results for: query") {
		t.Errorf("output = %q", out)
	}
}
