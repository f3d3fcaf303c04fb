package widget

import (
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// TranscriptID is the id attribute of the transcript container.
const TranscriptID = "chat-box"

// Surface is told about every visible change to a transcript. Calls are
// serialized by the transcript and made in mutation order.
type Surface interface {
	// Appended is called with a message node just attached as last child.
	Appended(node *html.Node)
	// Updated is called after a node already on screen changed, such as
	// a diagram target being populated.
	Updated(node *html.Node)
	// ScrollToBottom asks the surface to bring the newest message into view.
	ScrollToBottom()
	// InputCleared tells the surface the input field was emptied.
	InputCleared()
}

// NopSurface ignores all notifications. It is used for headless sessions.
type NopSurface struct{}

func (NopSurface) Appended(*html.Node) {}
func (NopSurface) Updated(*html.Node)  {}
func (NopSurface) ScrollToBottom()     {}
func (NopSurface) InputCleared()       {}

// Entry pairs a message with the node displaying it.
type Entry struct {
	Message Message
	Node    *html.Node
}

// Transcript is the ordered, append-only list of displayed messages. All
// DOM mutations go through it so they are applied one at a time.
type Transcript struct {
	mu        sync.Mutex
	container *html.Node
	entries   []Entry
	surface   Surface
}

// NewTranscript creates an empty transcript reporting to surface. The
// container is the only child of its own document, so nodes appended to it
// count as attached.
func NewTranscript(surface Surface) *Transcript {
	if surface == nil {
		surface = NopSurface{}
	}
	doc := &html.Node{Type: html.DocumentNode}
	container := element("div", attr("id", TranscriptID), attr("class", "chat-box"))
	doc.AppendChild(container)
	return &Transcript{
		container: container,
		surface:   surface,
	}
}

// Append attaches node as the container's last child, records the entry and
// scrolls to the bottom.
func (t *Transcript) Append(msg Message, node *html.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.container.AppendChild(node)
	t.entries = append(t.entries, Entry{Message: msg, Node: node})
	t.surface.Appended(node)
	t.surface.ScrollToBottom()
}

// Mutate runs fn while holding the transcript lock, then reports node as
// updated. fn must only touch nodes already inside the transcript.
func (t *Transcript) Mutate(node *html.Node, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := fn()
	t.surface.Updated(node)
	return err
}

// InputCleared forwards an input-cleared notification in mutation order.
func (t *Transcript) InputCleared() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.surface.InputCleared()
}

// Messages returns a snapshot of the displayed messages in display order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Message
	}
	return out
}

// Len returns the number of displayed messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Container returns the transcript's root node. Callers must not modify it.
func (t *Transcript) Container() *html.Node { return t.container }

// HTML renders the whole transcript container.
func (t *Transcript) HTML() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if err := html.Render(&b, t.container); err != nil {
		return ""
	}
	return b.String()
}
