package diagram

import (
	"strings"
	"testing"
)

func TestSanitizeRepairsFlowchart(t *testing.T) {
	in := "```mermaid\nA[Start] --> B[Check [fast]]\nsubgraph s\nB --> C\nen\nsubgraph t\nC --> D\n```"
	out := Sanitize(in)

	if !strings.HasPrefix(out, "graph TD\n") {
		t.Errorf("missing header:\n%s", out)
	}
	if strings.Contains(out, "```") {
		t.Errorf("fence kept:\n%s", out)
	}
	if strings.Count(out, "\nend") != 2 {
		t.Errorf("expected two balanced ends:\n%s", out)
	}
	if !strings.Contains(out, `B["Check #lsqb;fast#rsqb;"]`) {
		t.Errorf("label not escaped:\n%s", out)
	}
	if _, err := Flowchart().Parse(out); err != nil {
		t.Errorf("sanitized source does not parse: %v\n%s", err, out)
	}
}

func TestSanitizeKeepsValidSource(t *testing.T) {
	in := "flowchart LR\n  A -->|go| B & C\n  B -.-> D"
	if got := Sanitize(in); got != in {
		t.Errorf("valid source changed:\n%s", got)
	}
}

func TestSanitizeDropsDuplicateHeaders(t *testing.T) {
	out := Sanitize("graph TD\nA --> B\ngraph LR\nB --> C")
	if strings.Count(out, "graph") != 1 {
		t.Errorf("expected one header:\n%s", out)
	}
}

func TestSanitizeMindmapPassThrough(t *testing.T) {
	in := "```mermaid\nmindmap\n  root((Go))\n\n    Tools\n```"
	want := "mindmap\n  root((Go))\n    Tools"
	if got := Sanitize(in); got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"main.go", "main_go"},
		{"a/b-c", "a_b_c"},
		{"x(y)", "x_y_"},
		{"  ", "node"},
		{"知识", "知识"},
	}
	for _, tt := range tests {
		if got := SanitizeID(tt.in); got != tt.want {
			t.Errorf("SanitizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeLabel(t *testing.T) {
	got := EscapeLabel("say \"hi\" <now>\n  [x]")
	want := "say #quot;hi#quot; #lt;now#gt; #lsqb;x#rsqb;"
	if got != want {
		t.Errorf("EscapeLabel = %q, want %q", got, want)
	}
}
