package diagram

import (
	"fmt"
	"strings"
)

// Topic is one node of a mindmap outline.
type Topic struct {
	Label    string  `json:"label"`
	Children []Topic `json:"children,omitempty"`
}

// MindmapSource writes a mindmap outline as Mermaid source. The root is
// drawn as a circle and every label is escaped.
func MindmapSource(root Topic) string {
	var b strings.Builder
	b.WriteString("mindmap\n")
	fmt.Fprintf(&b, "  root((%s))\n", mindmapLabel(root.Label))
	for _, c := range root.Children {
		writeTopic(&b, c, 2)
	}
	return b.String()
}

func writeTopic(b *strings.Builder, t Topic, depth int) {
	label := mindmapLabel(t.Label)
	if label == "" {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label)
	b.WriteByte('\n')
	for _, c := range t.Children {
		writeTopic(b, c, depth+1)
	}
}

// mindmapMarkers are read as class (":::") or comment ("%%") syntax on a
// mindmap line.
var mindmapMarkers = strings.NewReplacer(
	":", "#colon;",
	"%", "#percnt;",
)

func mindmapLabel(s string) string {
	return mindmapMarkers.Replace(EscapeLabel(s))
}
