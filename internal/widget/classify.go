package widget

import (
	"regexp"
	"strings"
)

// DefaultDiagramTag is the fence language that marks a diagram block.
const DefaultDiagramTag = "mermaid"

// Classified is the result of inspecting a reply for a diagram block.
// It is transient: produced per message and discarded after rendering.
type Classified struct {
	DiagramSource string
	SummaryText   string
	PlainText     bool
}

// HasSummary reports whether prose surrounds the diagram block.
func (c Classified) HasSummary() bool {
	return !c.PlainText && c.SummaryText != ""
}

// Classifier finds the first fenced diagram block in a reply.
type Classifier struct {
	tag     string
	pattern *regexp.Regexp
}

// NewClassifier returns a classifier for fences opened with ```tag.
// The tag is matched case-insensitively.
func NewClassifier(tag string) *Classifier {
	if tag == "" {
		tag = DefaultDiagramTag
	}
	return &Classifier{
		tag:     tag,
		pattern: regexp.MustCompile("(?is)```" + regexp.QuoteMeta(tag) + "(.*?)```"),
	}
}

var defaultClassifier = NewClassifier(DefaultDiagramTag)

// Classify inspects content with the default diagram tag.
func Classify(content string) Classified {
	return defaultClassifier.Classify(content)
}

// Tag returns the fence language this classifier recognizes.
func (c *Classifier) Tag() string { return c.tag }

// Classify splits content into diagram source and summary prose. Only the
// first fenced block counts; later blocks stay in the summary.
func (c *Classifier) Classify(content string) Classified {
	loc := c.pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return Classified{PlainText: true}
	}
	return Classified{
		DiagramSource: strings.TrimSpace(content[loc[2]:loc[3]]),
		SummaryText:   strings.TrimSpace(content[:loc[0]] + content[loc[1]:]),
	}
}
