package diagram

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type flowchart struct{}

// Flowchart returns the built-in kind for `graph` and `flowchart` sources.
func Flowchart() Kind { return flowchart{} }

func (flowchart) Name() string { return "flowchart" }

func (flowchart) Accepts(keyword string) bool {
	return keyword == "graph" || keyword == "flowchart"
}

var flowDirections = map[string]Direction{
	"TD": TopDown,
	"TB": TopDown,
	"BT": BottomUp,
	"LR": LeftRight,
	"RL": RightLeft,
}

// ignoredStatements are styling and interaction directives that do not
// change the graph's shape.
var ignoredStatements = map[string]bool{
	"classdef":  true,
	"class":     true,
	"style":     true,
	"linkstyle": true,
	"click":     true,
	"direction": true,
}

func (flowchart) Parse(source string) (*Graph, error) {
	var g *Graph
	depth := 0
	lastLine := 0

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		lastLine = lineNo

		stmts := splitStatements(line)
		if g == nil {
			dir, err := parseFlowHeader(stmts[0])
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Msg: err.Error()}
			}
			g = newGraph("flowchart", dir)
			stmts = stmts[1:]
		}

		for _, stmt := range stmts {
			keyword := strings.ToLower(strings.Fields(stmt)[0])
			switch {
			case keyword == "subgraph":
				depth++
			case keyword == "end":
				if depth == 0 {
					return nil, &SyntaxError{Line: lineNo, Msg: "end without subgraph"}
				}
				depth--
			case ignoredStatements[keyword]:
			default:
				if err := parseChain(g, stmt); err != nil {
					return nil, &SyntaxError{Line: lineNo, Msg: err.Error()}
				}
			}
		}
	}

	if g == nil {
		return nil, ErrEmptySource
	}
	if depth > 0 {
		return nil, &SyntaxError{Line: lastLine, Msg: "unclosed subgraph"}
	}
	if len(g.Nodes) == 0 {
		return nil, &SyntaxError{Line: 1, Msg: "diagram has no nodes"}
	}
	return g, nil
}

func parseFlowHeader(stmt string) (Direction, error) {
	fields := strings.Fields(stmt)
	if len(fields) == 1 {
		return TopDown, nil
	}
	if len(fields) > 2 {
		return "", fmt.Errorf("unexpected %q after direction", strings.Join(fields[2:], " "))
	}
	dir, ok := flowDirections[strings.ToUpper(fields[1])]
	if !ok {
		return "", fmt.Errorf("unknown direction %q", fields[1])
	}
	return dir, nil
}

// splitStatements splits a line on semicolons that are outside labels.
func splitStatements(line string) []string {
	var out []string
	depth := 0
	inQuote := false
	start := 0
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[' || r == '(' || r == '{':
			depth++
		case r == ']' || r == ')' || r == '}':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			if s := strings.TrimSpace(line[start:i]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(line[start:]); s != "" {
		out = append(out, s)
	}
	if len(out) == 0 {
		out = append(out, line)
	}
	return out
}

var (
	// textArrow matches "-- label -->" style edges.
	textArrow = regexp.MustCompile(`^<?(--|==|-\.)\s+([^|]+?)\s+(-{2,}>|-{3,}|={2,}>|={3,}|\.+->|\.+-|-{2,}[ox]|={2,}[ox])`)
	// plainArrow matches an edge without inline text.
	plainArrow = regexp.MustCompile(`^<?(-{2,}>|-{3,}|={2,}>|={3,}|-\.+->|-\.+-|-{2,}[ox]|={2,}[ox]|~~~)`)
	// pipeLabel matches "|label|" directly after an arrow.
	pipeLabel = regexp.MustCompile(`^\s*\|([^|]*)\|`)
)

type shapeDelim struct {
	open, close string
	shape       Shape
}

// flowShapes is ordered so longer delimiters are tried first.
var flowShapes = []shapeDelim{
	{"((", "))", ShapeCircle},
	{"([", "])", ShapeStadium},
	{"[[", "]]", ShapeSubroutine},
	{"[(", ")]", ShapeRound},
	{"{{", "}}", ShapeHexagon},
	{"[/", "/]", ShapeRect},
	{`[\`, `\]`, ShapeRect},
	{"[", "]", ShapeRect},
	{"(", ")", ShapeRound},
	{"{", "}", ShapeDiamond},
	{">", "]", ShapeAsymmetric},
}

type scanner struct {
	s   string
	pos int // byte offset
}

func (sc *scanner) done() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) rest() string { return sc.s[sc.pos:] }

func (sc *scanner) skipSpace() {
	for !sc.done() {
		r, size := utf8.DecodeRuneInString(sc.rest())
		if !unicode.IsSpace(r) {
			return
		}
		sc.pos += size
	}
}

func isIDRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseChain parses `A --> B & C -->|x| D` and adds its nodes and edges.
func parseChain(g *Graph, stmt string) error {
	sc := &scanner{s: stmt}

	left, err := parseGroup(g, sc)
	if err != nil {
		return err
	}
	for {
		sc.skipSpace()
		if sc.done() {
			return nil
		}
		style, label, ok := parseArrow(sc)
		if !ok {
			return fmt.Errorf("expected arrow near %q", sc.rest())
		}
		right, err := parseGroup(g, sc)
		if err != nil {
			return err
		}
		for _, from := range left {
			for _, to := range right {
				g.connect(from, to, label, style)
			}
		}
		left = right
	}
}

func parseGroup(g *Graph, sc *scanner) ([]string, error) {
	var ids []string
	for {
		sc.skipSpace()
		id, err := parseNodeRef(g, sc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		sc.skipSpace()
		if strings.HasPrefix(sc.rest(), "&") {
			sc.pos++
			continue
		}
		return ids, nil
	}
}

func parseNodeRef(g *Graph, sc *scanner) (string, error) {
	start := sc.pos
	for !sc.done() {
		r, size := utf8.DecodeRuneInString(sc.rest())
		if !isIDRune(r) {
			break
		}
		sc.pos += size
	}
	if sc.pos == start {
		if sc.done() {
			return "", fmt.Errorf("expected node id at end of line")
		}
		return "", fmt.Errorf("expected node id near %q", sc.rest())
	}
	id := sc.s[start:sc.pos]
	n := g.ensure(id)

	for _, d := range flowShapes {
		if !strings.HasPrefix(sc.rest(), d.open) {
			continue
		}
		sc.pos += len(d.open)
		label, err := readLabel(sc, d.close)
		if err != nil {
			return "", fmt.Errorf("node %q: %w", id, err)
		}
		n.Label = label
		n.Shape = d.shape
		break
	}

	if strings.HasPrefix(sc.rest(), ":::") {
		sc.pos += 3
		for !sc.done() {
			r, size := utf8.DecodeRuneInString(sc.rest())
			if !isIDRune(r) && r != '-' {
				break
			}
			sc.pos += size
		}
	}
	return id, nil
}

// readLabel consumes a label up to and including the closing delimiter.
// Quoted labels may contain the delimiter.
func readLabel(sc *scanner, closer string) (string, error) {
	rest := sc.rest()
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return "", fmt.Errorf("unterminated quoted label")
		}
		label := rest[1 : end+1]
		after := rest[end+2:]
		if !strings.HasPrefix(after, closer) {
			return "", fmt.Errorf("expected %q after quoted label", closer)
		}
		sc.pos += end + 2 + len(closer)
		return cleanLabel(label), nil
	}

	end := strings.Index(rest, closer)
	if end < 0 {
		return "", fmt.Errorf("missing closing %q", closer)
	}
	sc.pos += end + len(closer)
	return cleanLabel(rest[:end]), nil
}

func parseArrow(sc *scanner) (EdgeStyle, string, bool) {
	rest := sc.rest()

	var arrow, label string
	if m := textArrow.FindStringSubmatch(rest); m != nil {
		arrow = m[1] + m[3]
		label = cleanLabel(m[2])
		sc.pos += len(m[0])
	} else if m := plainArrow.FindString(rest); m != "" {
		arrow = m
		sc.pos += len(m)
	} else {
		return 0, "", false
	}

	if m := pipeLabel.FindStringSubmatch(sc.rest()); m != nil {
		label = cleanLabel(m[1])
		sc.pos += len(m[0])
	}
	return arrowStyle(arrow), label, true
}

func arrowStyle(arrow string) EdgeStyle {
	switch {
	case arrow == "~~~":
		return EdgeInvisible
	case strings.Contains(arrow, "."):
		return EdgeDotted
	case strings.Contains(arrow, "="):
		return EdgeThick
	case strings.HasSuffix(arrow, ">") || strings.HasSuffix(arrow, "o") || strings.HasSuffix(arrow, "x"):
		return EdgeArrow
	default:
		return EdgeOpen
	}
}

var labelUnescaper = strings.NewReplacer(
	"#quot;", `"`,
	"#lpar;", "(",
	"#rpar;", ")",
	"#lsqb;", "[",
	"#rsqb;", "]",
	"#lbrace;", "{",
	"#rbrace;", "}",
	"#lt;", "<",
	"#gt;", ">",
	"#colon;", ":",
	"#percnt;", "%",
	"<br/>", " ",
	"<br />", " ",
	"<br>", " ",
)

// cleanLabel trims quotes and undoes Mermaid entity escapes.
func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(labelUnescaper.Replace(s))
}
