package diagram

import (
	"fmt"
	"strings"
)

type mindmap struct{}

// Mindmap returns the optional mindmap kind. It is registered through
// Engine.RegisterExtension("mindmap").
func Mindmap() Kind { return mindmap{} }

func (mindmap) Name() string { return "mindmap" }

func (mindmap) Accepts(keyword string) bool { return keyword == "mindmap" }

// mindmapShapes is ordered so doubled delimiters are tried first.
var mindmapShapes = []shapeDelim{
	{"((", "))", ShapeCircle},
	{"))", "((", ShapeBang},
	{"{{", "}}", ShapeHexagon},
	{"(", ")", ShapeRound},
	{")", "(", ShapeCloud},
	{"[", "]", ShapeRect},
}

type mindmapFrame struct {
	indent int
	id     string
}

func (mindmap) Parse(source string) (*Graph, error) {
	g := newGraph("mindmap", LeftRight)
	header := false
	rootIndent := -1
	var stack []mindmapFrame

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "%%") {
			continue
		}
		if !header {
			header = true
			continue
		}
		if strings.HasPrefix(text, "::icon(") || strings.HasPrefix(text, ":::") {
			continue
		}

		label, shape := parseMindmapNode(text)
		if label == "" {
			return nil, &SyntaxError{Line: lineNo, Msg: "empty mindmap node"}
		}

		indent := indentation(raw)
		id := fmt.Sprintf("n%d", len(g.Nodes)+1)
		n := g.ensure(id)
		n.Label = label
		n.Shape = shape

		if rootIndent < 0 {
			rootIndent = indent
			stack = []mindmapFrame{{indent: indent, id: id}}
			continue
		}
		if indent <= rootIndent {
			return nil, &SyntaxError{Line: lineNo, Msg: "mindmap can only have one root"}
		}
		for stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		g.connect(stack[len(stack)-1].id, id, "", EdgeOpen)
		stack = append(stack, mindmapFrame{indent: indent, id: id})
	}

	if len(g.Nodes) == 0 {
		return nil, &SyntaxError{Line: 1, Msg: "mindmap has no nodes"}
	}
	return g, nil
}

// indentation counts leading whitespace with tabs as four columns.
func indentation(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func parseMindmapNode(text string) (string, Shape) {
	if i := strings.Index(text, "::icon("); i > 0 {
		text = strings.TrimSpace(text[:i])
	}
	if i := strings.Index(text, ":::"); i > 0 {
		text = strings.TrimSpace(text[:i])
	}

	for _, d := range mindmapShapes {
		i := strings.Index(text, d.open)
		if i < 0 || !strings.HasSuffix(text, d.close) {
			continue
		}
		if i+len(d.open) > len(text)-len(d.close) {
			continue
		}
		if strings.ContainsAny(text[:i], " \t") {
			continue
		}
		return cleanLabel(text[i+len(d.open) : len(text)-len(d.close)]), d.shape
	}
	return cleanLabel(text), ShapeRound
}
