package diagram

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitize repairs common mistakes in model-written Mermaid source: code
// fences left in the body, a missing header, duplicate headers, unbalanced
// subgraph/end pairs, and node IDs or labels with characters the parser
// rejects. Mindmap sources only have fences and blank lines removed.
func Sanitize(source string) string {
	var lines []string
	for _, raw := range strings.Split(source, "\n") {
		if strings.HasPrefix(strings.TrimSpace(raw), "```") || strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(raw, " \t\r"))
	}
	if len(lines) > 0 && headerKeyword(lines[0]) == "mindmap" {
		return strings.Join(lines, "\n")
	}

	var out []string
	hasHeader := false
	depth := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		keyword := strings.ToLower(strings.Fields(line)[0])
		switch {
		case keyword == "graph" || keyword == "flowchart":
			if !hasHeader {
				out = append(out, line)
				hasHeader = true
			}
		case strings.HasPrefix(line, "%%"):
			out = append(out, line)
		case keyword == "subgraph":
			out = append(out, line)
			depth++
		case line == "end" || line == "en":
			if depth > 0 {
				out = append(out, "end")
				depth--
			}
		case ignoredStatements[keyword]:
			out = append(out, line)
		default:
			if fixed := sanitizeStatement(raw); fixed != "" {
				out = append(out, fixed)
			}
		}
	}
	for ; depth > 0; depth-- {
		out = append(out, "end")
	}
	if !hasHeader {
		out = append([]string{"graph TD"}, out...)
	}
	return strings.Join(out, "\n")
}

var (
	sanitizeNodeDef = regexp.MustCompile(`^(\s*)(\S+?)(\[.*)$`)
	sanitizeArrow   = regexp.MustCompile(`^(\s*)([^\s\[]+(?:\[[^\]]*\])?)(\s*(?:-->|---|-\.->|==>).*)$`)
	sanitizeTarget  = regexp.MustCompile(`((?:-->|---|-\.->|==>)(?:\|[^|]*\|)?\s*)(\S+)(.*)$`)
	plainIDLine     = regexp.MustCompile(`^\s*[\p{L}\p{N}_]+\s*$`)
)

var idReplacer = strings.NewReplacer(
	"&", "_", "#", "_", "@", "_", "!", "_", "?", "_",
	"(", "_", ")", "_", "[", "_", "]", "_", "{", "_", "}", "_",
	"<", "_", ">", "_", ";", "_", ",", "_", "'", "_", `"`, "_",
	"/", "_", `\`, "_", ".", "_", "-", "_", " ", "_", ":", "_",
)

// SanitizeID converts s into a node ID the flowchart parser accepts.
func SanitizeID(s string) string {
	id := idReplacer.Replace(strings.TrimSpace(s))
	if id == "" {
		return "node"
	}
	return id
}

// labelEscaper replaces characters that delimit labels with Mermaid entities.
var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"(", "#lpar;",
	")", "#rpar;",
	"[", "#lsqb;",
	"]", "#rsqb;",
	"{", "#lbrace;",
	"}", "#rbrace;",
	"<", "#lt;",
	">", "#gt;",
)

// EscapeLabel makes s safe to place inside any node delimiter.
func EscapeLabel(s string) string {
	return labelEscaper.Replace(strings.Join(strings.Fields(s), " "))
}

func sanitizeStatement(raw string) string {
	valid := true
	for _, stmt := range splitStatements(strings.TrimSpace(raw)) {
		if parseChain(newGraph("flowchart", TopDown), stmt) != nil {
			valid = false
			break
		}
	}
	if valid {
		return raw
	}

	if m := sanitizeArrow.FindStringSubmatch(raw); m != nil {
		indent, source, rest := m[1], m[2], m[3]
		tm := sanitizeTarget.FindStringSubmatch(rest)
		if tm == nil {
			return ""
		}
		var b strings.Builder
		b.WriteString(indent)
		writeNodeRef(&b, source)
		fmt.Fprintf(&b, " %s ", strings.TrimSpace(tm[1]))
		writeNodeRef(&b, strings.TrimSpace(tm[2]+tm[3]))
		return b.String()
	}

	if m := sanitizeNodeDef.FindStringSubmatch(raw); m != nil {
		id, label, class, ok := splitNodeRef(m[2] + m[3])
		if !ok {
			return ""
		}
		return m[1] + SanitizeID(id) + `["` + EscapeLabel(label) + `"]` + class
	}

	if plainIDLine.MatchString(raw) {
		return raw
	}
	return ""
}

func writeNodeRef(b *strings.Builder, ref string) {
	id, label, class, ok := splitNodeRef(ref)
	b.WriteString(SanitizeID(id))
	if ok && label != "" {
		fmt.Fprintf(b, `["%s"]`, EscapeLabel(label))
	}
	b.WriteString(class)
}

// splitNodeRef splits `ID["label"]:::class` into its parts. ok is false
// when a bracket is opened and never closed.
func splitNodeRef(s string) (id, label, class string, ok bool) {
	s = strings.TrimSpace(s)

	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], ":::") {
			class = s[i:]
			if sp := strings.IndexByte(class, ' '); sp >= 0 {
				class = class[:sp]
			}
			s = s[:i]
			break
		}
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, "", class, true
	}
	id = s[:open]
	depth = 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				label = strings.TrimSpace(s[open+1 : i])
				if len(label) >= 2 && strings.HasPrefix(label, `"`) && strings.HasSuffix(label, `"`) {
					label = label[1 : len(label)-1]
				}
				return id, label, class, true
			}
		}
	}
	return id, "", class, false
}
