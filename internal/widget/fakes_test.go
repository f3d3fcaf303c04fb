package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// paragraphFormatter wraps the source in a <p>, or fails when fail is set.
type paragraphFormatter struct {
	fail bool
}

func (f paragraphFormatter) Format(src string) ([]*html.Node, error) {
	if f.fail {
		return nil, errors.New("formatter broke")
	}
	p := element("p")
	p.AppendChild(textNode(src))
	return []*html.Node{p}, nil
}

// stubEngine records calls and draws an <svg> into attached targets.
type stubEngine struct {
	mu         sync.Mutex
	calls      []string
	err        error
	panicMsg   string
	registered map[string]int
}

func (e *stubEngine) Render(ctx context.Context, target *html.Node, source string) error {
	e.mu.Lock()
	e.calls = append(e.calls, source)
	e.mu.Unlock()

	if e.panicMsg != "" {
		panic(e.panicMsg)
	}
	if e.err != nil {
		return e.err
	}
	root := target
	for root.Parent != nil {
		root = root.Parent
	}
	if root.Type != html.DocumentNode {
		return errors.New("target detached")
	}
	removeChildren(target)
	target.AppendChild(element("svg", attr("data-source", source)))
	return nil
}

func (e *stubEngine) RegisterExtension(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.registered == nil {
		e.registered = make(map[string]int)
	}
	e.registered[name]++
	if e.registered[name] > 1 {
		return errors.New("already registered")
	}
	return nil
}

func (e *stubEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// recordingSurface keeps a log of surface notifications.
type recordingSurface struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSurface) record(ev string) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSurface) Appended(n *html.Node) {
	s.record("append:" + AttrValue(n, "data-origin"))
}

func (s *recordingSurface) Updated(n *html.Node) { s.record("update") }
func (s *recordingSurface) ScrollToBottom()      { s.record("scroll") }
func (s *recordingSurface) InputCleared()        { s.record("clear") }

func (s *recordingSurface) Events() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.events, ",")
}
