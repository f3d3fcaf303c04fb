package markup

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func render(t *testing.T, nodes []*html.Node) string {
	t.Helper()
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return b.String()
}

func TestFormatBasicMarkdown(t *testing.T) {
	f := New()
	nodes, err := f.Format("# Title\n\n- one\n- **two**\n")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := render(t, nodes)

	for _, want := range []string{`<h1 id="title">Title</h1>`, "<li>one</li>", "<strong>two</strong>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCodeHighlightUsesClasses(t *testing.T) {
	out, err := New().HTML("```go\nfunc main() {}\n```\n")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, `class="chroma"`) {
		t.Errorf("code block not highlighted with classes:\n%s", out)
	}
	if strings.Contains(out, "style=") {
		t.Errorf("code block has inline styles:\n%s", out)
	}

	var css strings.Builder
	if err := WriteHighlightCSS(&css); err != nil {
		t.Fatalf("WriteHighlightCSS: %v", err)
	}
	if !strings.Contains(css.String(), ".chroma") {
		t.Errorf("stylesheet has no chroma rules:\n%s", css.String())
	}
}

func TestFormatNodesAreDetached(t *testing.T) {
	nodes, err := New().Format("a\n\nb")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected nodes")
	}
	for _, n := range nodes {
		if n.Parent != nil {
			t.Errorf("node %q still has a parent", n.Data)
		}
	}
}

func TestFormatDropsRawHTML(t *testing.T) {
	out, err := New().HTML("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML passed through: %s", out)
	}
}

func TestFormatExternalLinks(t *testing.T) {
	nodes, err := New().Format("see [docs](https://example.com)")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := render(t, nodes)
	if !strings.Contains(out, `target="_blank"`) {
		t.Errorf("expected target=_blank: %s", out)
	}
	if !strings.Contains(out, `rel="noopener noreferrer"`) {
		t.Errorf("expected rel=noopener: %s", out)
	}
}

func TestFormatTable(t *testing.T) {
	out, err := New().HTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected GFM table: %s", out)
	}
}
