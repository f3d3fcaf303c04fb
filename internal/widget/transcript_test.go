package widget

import (
	"errors"
	"testing"
)

func TestTranscriptAppendOrderAndSurface(t *testing.T) {
	surface := &recordingSurface{}
	tr := NewTranscript(surface)
	r := NewRenderer(nil, nil, nil)

	first := NewMessage("one", User)
	second := NewMessage("two", Assistant)
	tr.Append(first, r.Render(first).Node)
	tr.Append(second, r.Render(second).Node)

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d", tr.Len())
	}
	msgs := tr.Messages()
	if msgs[0].ID != first.ID || msgs[1].ID != second.ID {
		t.Error("messages out of order")
	}
	if tr.Container().LastChild == nil || AttrValue(tr.Container().LastChild, "id") != "msg-"+second.ID {
		t.Error("last child is not the newest message")
	}
	if got := surface.Events(); got != "append:user,scroll,append:assistant,scroll" {
		t.Errorf("events = %q", got)
	}
}

func TestTranscriptMutateReportsUpdate(t *testing.T) {
	surface := &recordingSurface{}
	tr := NewTranscript(surface)
	want := errors.New("boom")

	ran := false
	err := tr.Mutate(tr.Container(), func() error {
		ran = true
		return want
	})
	if !ran {
		t.Error("fn not run")
	}
	if !errors.Is(err, want) {
		t.Errorf("err = %v", err)
	}
	tr.InputCleared()
	if got := surface.Events(); got != "update,clear" {
		t.Errorf("events = %q", got)
	}
}

func TestTranscriptHTML(t *testing.T) {
	tr := NewTranscript(nil)
	msg := NewMessage("a < b", User)
	tr.Append(msg, NewRenderer(nil, nil, nil).Render(msg).Node)

	want := `<div id="chat-box" class="chat-box"><div id="msg-` + msg.ID +
		`" class="message user-message" data-origin="user">a &lt; b</div></div>`
	if got := tr.HTML(); got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}
