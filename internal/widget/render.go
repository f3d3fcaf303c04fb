package widget

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

// Formatter is the formatting engine: it turns lightweight markup into
// sanitized HTML nodes.
type Formatter interface {
	Format(src string) ([]*html.Node, error)
}

// DiagramEngine renders diagram source into a target node. The target must
// already be attached to the document.
type DiagramEngine interface {
	Render(ctx context.Context, target *html.Node, source string) error
}

// ExtensionRegistrar is implemented by diagram engines that accept optional
// diagram kinds by name. Registering a kind twice is expected to fail.
type ExtensionRegistrar interface {
	RegisterExtension(name string) error
}

// ErrNoDiagramEngine is wrapped when a placeholder is populated by a
// renderer that has no diagram engine.
var ErrNoDiagramEngine = errors.New("no diagram engine configured")

// DiagramRenderError reports a diagram that could not be drawn. By the time
// it is returned the target already shows the raw source instead.
type DiagramRenderError struct {
	Source string
	Err    error
}

func (e *DiagramRenderError) Error() string {
	return fmt.Sprintf("diagram render failed: %v", e.Err)
}

func (e *DiagramRenderError) Unwrap() error { return e.Err }

// Placeholder is a reserved diagram target awaiting its graphic.
type Placeholder struct {
	MessageID string
	Source    string
	Target    *html.Node
}

// Rendered is the node produced for one message plus any diagram targets
// that must be populated once the node is attached.
type Rendered struct {
	Message      Message
	Node         *html.Node
	Placeholders []*Placeholder
	// FormatErr is set when the formatting engine failed and the prose
	// was shown as literal text instead.
	FormatErr error
}

// Renderer builds transcript nodes for messages.
type Renderer struct {
	formatter  Formatter
	engine     DiagramEngine
	classifier *Classifier
}

// NewRenderer creates a renderer. A nil classifier uses the default tag.
func NewRenderer(formatter Formatter, engine DiagramEngine, classifier *Classifier) *Renderer {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &Renderer{
		formatter:  formatter,
		engine:     engine,
		classifier: classifier,
	}
}

// Engine returns the renderer's diagram engine, which may be nil.
func (r *Renderer) Engine() DiagramEngine { return r.engine }

// Render builds the node for msg. User text is always a literal text node.
// Assistant text is either a diagram placeholder plus optional formatted
// summary, or formatted prose; never both.
func (r *Renderer) Render(msg Message) *Rendered {
	out := &Rendered{Message: msg}

	if msg.Origin == User {
		node := messageNode(msg, "user-message")
		node.AppendChild(textNode(msg.Text))
		out.Node = node
		return out
	}

	node := messageNode(msg, "bot-message")
	out.Node = node

	c := r.classifier.Classify(msg.Text)
	if c.PlainText {
		out.FormatErr = r.appendFormatted(node, msg.Text)
		return out
	}

	container := element("div", attr("class", "diagram-container"))
	p := r.Reserve(msg.ID, c.DiagramSource)
	container.AppendChild(p.Target)
	if c.HasSummary() {
		summary := element("div", attr("class", "mermaid-summary"))
		out.FormatErr = r.appendFormatted(summary, c.SummaryText)
		container.AppendChild(summary)
	}
	node.AppendChild(container)
	out.Placeholders = append(out.Placeholders, p)
	return out
}

// Reserve creates an unpopulated diagram target holding the raw source as
// text. This is the first phase of diagram rendering.
func (r *Renderer) Reserve(messageID, source string) *Placeholder {
	target := element("div",
		attr("id", "diagram-"+messageID),
		attr("class", "mermaid"),
	)
	target.AppendChild(textNode(source))
	return &Placeholder{
		MessageID: messageID,
		Source:    source,
		Target:    target,
	}
}

// Populate runs the diagram engine against a reserved target. This is the
// second phase and must happen after the target is attached. On failure the
// target shows the raw source as preformatted text and a
// *DiagramRenderError is returned for logging only.
func (r *Renderer) Populate(ctx context.Context, p *Placeholder) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("diagram engine panic: %v", rec)
		}
		if err != nil {
			showSource(p)
			err = &DiagramRenderError{Source: p.Source, Err: err}
		}
	}()

	if r.engine == nil {
		return ErrNoDiagramEngine
	}
	return r.engine.Render(ctx, p.Target, p.Source)
}

func showSource(p *Placeholder) {
	removeChildren(p.Target)
	pre := element("pre", attr("style", "white-space:pre-wrap"))
	pre.AppendChild(textNode(p.Source))
	p.Target.AppendChild(pre)
}

func (r *Renderer) appendFormatted(parent *html.Node, src string) error {
	if r.formatter == nil {
		parent.AppendChild(textNode(src))
		return nil
	}
	nodes, err := r.formatter.Format(src)
	if err != nil {
		parent.AppendChild(textNode(src))
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

func messageNode(msg Message, class string) *html.Node {
	return element("div",
		attr("id", "msg-"+msg.ID),
		attr("class", "message "+class),
		attr("data-origin", msg.Origin.String()),
	)
}
