package knowledge

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkRunes is the target passage size.
const DefaultChunkRunes = 800

// Chunk splits text into passages of at most maxRunes runes. Paragraphs
// (blank-line separated) are packed together while they fit; a paragraph
// longer than maxRunes is cut on line or rune boundaries.
func Chunk(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = DefaultChunkRunes
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, piece := range split(para, maxRunes) {
			if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+2+utf8.RuneCountInString(piece) > maxRunes {
				flush()
			}
			if cur.Len() > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(piece)
		}
	}
	flush()
	return out
}

// split cuts one paragraph into pieces of at most maxRunes, preferring
// line breaks.
func split(para string, maxRunes int) []string {
	if utf8.RuneCountInString(para) <= maxRunes {
		return []string{para}
	}

	var out []string
	var cur []rune
	for _, line := range strings.Split(para, "\n") {
		r := []rune(line)
		if len(cur) > 0 && len(cur)+1+len(r) > maxRunes {
			out = append(out, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, '\n')
		}
		cur = append(cur, r...)
		for len(cur) > maxRunes {
			out = append(out, string(cur[:maxRunes]))
			cur = append([]rune(nil), cur[maxRunes:]...)
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
