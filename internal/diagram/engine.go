// Package diagram is a small Mermaid engine. It parses flowchart and
// mindmap sources and draws them as inline SVG inside a document node.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/net/html"
)

var (
	// ErrAlreadyRegistered is returned when a diagram kind is registered twice.
	ErrAlreadyRegistered = errors.New("diagram kind already registered")
	// ErrDetached is returned when the render target is not part of a document.
	ErrDetached = errors.New("diagram target is not attached to the document")
	// ErrEmptySource is returned for blank diagram source.
	ErrEmptySource = errors.New("diagram source is empty")
)

// SyntaxError reports a malformed diagram line. Line is 1-based.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("diagram syntax error on line %d: %s", e.Line, e.Msg)
}

// UnknownKindError is returned when no registered kind accepts the header.
type UnknownKindError struct {
	Header string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown diagram type %q", e.Header)
}

// Kind parses one family of diagram source.
type Kind interface {
	// Name is the registry key, e.g. "flowchart".
	Name() string
	// Accepts reports whether the lower-cased first word of the source
	// selects this kind.
	Accepts(keyword string) bool
	// Parse builds a graph from the full source.
	Parse(source string) (*Graph, error)
}

// extensions are the optional kinds that can be registered by name.
var extensions = map[string]func() Kind{
	"mindmap": Mindmap,
}

// Engine holds the registered diagram kinds. It is safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	kinds []Kind
	names map[string]bool
	seq   atomic.Uint64
}

// New creates an engine with the built-in flowchart kind and any extra
// kinds registered. A kind whose name is already present is skipped.
func New(kinds ...Kind) *Engine {
	e := &Engine{names: make(map[string]bool)}
	for _, k := range append([]Kind{Flowchart()}, kinds...) {
		if e.names[k.Name()] {
			continue
		}
		e.names[k.Name()] = true
		e.kinds = append(e.kinds, k)
	}
	return e
}

// Register adds a diagram kind. Registering a name twice fails with
// ErrAlreadyRegistered.
func (e *Engine) Register(k Kind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.names[k.Name()] {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, k.Name())
	}
	e.names[k.Name()] = true
	e.kinds = append(e.kinds, k)
	return nil
}

// RegisterExtension registers an optional kind by name, such as "mindmap".
func (e *Engine) RegisterExtension(name string) error {
	ctor, ok := extensions[name]
	if !ok {
		return fmt.Errorf("unknown diagram extension %q", name)
	}
	return e.Register(ctor())
}

// Registered reports whether a kind with the given name is registered.
func (e *Engine) Registered(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.names[name]
}

// Parse selects a kind from the source header and parses it.
func (e *Engine) Parse(source string) (*Graph, error) {
	keyword := headerKeyword(source)
	if keyword == "" {
		return nil, ErrEmptySource
	}

	e.mu.RLock()
	var kind Kind
	for _, k := range e.kinds {
		if k.Accepts(keyword) {
			kind = k
			break
		}
	}
	e.mu.RUnlock()

	if kind == nil {
		return nil, &UnknownKindError{Header: keyword}
	}
	return kind.Parse(source)
}

// Render parses source and replaces target's children with the drawn SVG.
// The target must be attached to a document; a detached node cannot be
// laid out.
func (e *Engine) Render(ctx context.Context, target *html.Node, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !isAttached(target) {
		return ErrDetached
	}

	g, err := e.Parse(source)
	if err != nil {
		return err
	}

	svg := draw(g, fmt.Sprintf("d%d", e.seq.Add(1)))

	for c := target.FirstChild; c != nil; {
		next := c.NextSibling
		target.RemoveChild(c)
		c = next
	}
	target.AppendChild(svg)
	setAttr(target, "data-processed", "true")
	setAttr(target, "data-diagram-kind", g.Kind)
	return nil
}

// headerKeyword returns the lower-cased first word of the first meaningful
// line, skipping blank lines and %% comments or directives.
func headerKeyword(source string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		fields := strings.Fields(line)
		return strings.ToLower(strings.TrimSuffix(fields[0], ";"))
	}
	return ""
}

// isAttached reports whether n's root ancestor is a document node.
func isAttached(n *html.Node) bool {
	if n == nil {
		return false
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n.Type == html.DocumentNode
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
