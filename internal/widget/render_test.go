package widget

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func query(t *testing.T, r *Rendered) *goquery.Selection {
	t.Helper()
	return goquery.NewDocumentFromNode(r.Node).Selection
}

func TestRenderUserMessageIsLiteral(t *testing.T) {
	r := NewRenderer(paragraphFormatter{}, &stubEngine{}, nil)
	msg := NewMessage("<b>hi</b> ```mermaid\ngraph TD\n```", User)

	out := r.Render(msg)
	sel := query(t, out)

	if sel.Find("b").Length() != 0 || sel.Find("p").Length() != 0 {
		t.Error("user text was interpreted as markup")
	}
	if got := sel.Text(); got != msg.Text {
		t.Errorf("text = %q, want %q", got, msg.Text)
	}
	if AttrValue(out.Node, "class") != "message user-message" {
		t.Errorf("class = %q", AttrValue(out.Node, "class"))
	}
	if AttrValue(out.Node, "id") != "msg-"+msg.ID {
		t.Errorf("id = %q", AttrValue(out.Node, "id"))
	}
	if len(out.Placeholders) != 0 {
		t.Error("user message must not reserve diagram targets")
	}
}

func TestRenderAssistantPlainText(t *testing.T) {
	r := NewRenderer(paragraphFormatter{}, &stubEngine{}, nil)
	out := r.Render(NewMessage("Hi there", Assistant))
	sel := query(t, out)

	if AttrValue(out.Node, "class") != "message bot-message" {
		t.Errorf("class = %q", AttrValue(out.Node, "class"))
	}
	if sel.Find("p").Text() != "Hi there" {
		t.Errorf("formatted text = %q", sel.Find("p").Text())
	}
	if sel.Find(".mermaid").Length() != 0 || sel.Find(".diagram-container").Length() != 0 {
		t.Error("plain reply produced a diagram target")
	}
	if out.FormatErr != nil {
		t.Errorf("FormatErr = %v", out.FormatErr)
	}
}

func TestRenderFormatterFailureFallsBackToText(t *testing.T) {
	r := NewRenderer(paragraphFormatter{fail: true}, nil, nil)
	out := r.Render(NewMessage("**bold**", Assistant))

	if out.FormatErr == nil {
		t.Fatal("expected FormatErr")
	}
	if got := query(t, out).Text(); got != "**bold**" {
		t.Errorf("text = %q", got)
	}
}

func TestRenderNilFormatterUsesText(t *testing.T) {
	out := NewRenderer(nil, nil, nil).Render(NewMessage("<i>x</i>", Assistant))
	sel := query(t, out)
	if sel.Find("i").Length() != 0 || sel.Text() != "<i>x</i>" {
		t.Errorf("unexpected output %s", OuterHTML(out.Node))
	}
}

func TestRenderDiagramWithSummary(t *testing.T) {
	r := NewRenderer(paragraphFormatter{}, &stubEngine{}, nil)
	msg := NewMessage("Here:\n```mermaid\ngraph TD; A-->B\n```\nDone.", Assistant)
	out := r.Render(msg)
	sel := query(t, out)

	container := sel.Find(".diagram-container")
	if container.Length() != 1 {
		t.Fatalf("expected one diagram container, got %s", OuterHTML(out.Node))
	}
	target := container.Find("#diagram-" + msg.ID)
	if !target.HasClass("mermaid") {
		t.Error("target missing mermaid class")
	}
	if target.Text() != "graph TD; A-->B" {
		t.Errorf("reserved target text = %q", target.Text())
	}
	summary := container.Find(".mermaid-summary")
	if summary.Length() != 1 {
		t.Fatal("expected a summary node")
	}
	if got := summary.Find("p").Text(); got != "Here:\n\nDone." {
		t.Errorf("summary = %q", got)
	}
	if !target.Next().HasClass("mermaid-summary") {
		t.Error("summary should follow the diagram target")
	}
	if len(out.Placeholders) != 1 || out.Placeholders[0].Source != "graph TD; A-->B" {
		t.Errorf("placeholders = %+v", out.Placeholders)
	}
	if sel.Children().Length() != 1 {
		t.Error("diagram reply must not also render the full text as prose")
	}
}

func TestRenderDiagramWithoutSummary(t *testing.T) {
	r := NewRenderer(paragraphFormatter{}, &stubEngine{}, nil)
	out := r.Render(NewMessage("```mermaid\ngraph TD; A-->B\n```", Assistant))
	if query(t, out).Find(".mermaid-summary").Length() != 0 {
		t.Error("unexpected summary node")
	}
}

func TestPopulateDetachedFails(t *testing.T) {
	engine := &stubEngine{}
	r := NewRenderer(nil, engine, nil)
	p := r.Reserve("m1", "graph TD; A-->B")

	err := r.Populate(context.Background(), p)
	var de *DiagramRenderError
	if !errors.As(err, &de) {
		t.Fatalf("expected DiagramRenderError, got %v", err)
	}
	if de.Source != "graph TD; A-->B" {
		t.Errorf("Source = %q", de.Source)
	}
	assertShowsSource(t, p)
}

func TestPopulateAttachedSucceeds(t *testing.T) {
	engine := &stubEngine{}
	r := NewRenderer(nil, engine, nil)
	tr := NewTranscript(nil)

	msg := NewMessage("```mermaid\ngraph TD; A-->B\n```", Assistant)
	out := r.Render(msg)
	tr.Append(msg, out.Node)

	if err := r.Populate(context.Background(), out.Placeholders[0]); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	target := out.Placeholders[0].Target
	if target.FirstChild == nil || target.FirstChild.Data != "svg" {
		t.Errorf("target not populated: %s", OuterHTML(target))
	}
	if calls := engine.Calls(); len(calls) != 1 || calls[0] != "graph TD; A-->B" {
		t.Errorf("engine calls = %q", calls)
	}
}

func TestPopulateEngineErrorShowsSource(t *testing.T) {
	r := NewRenderer(nil, &stubEngine{err: errors.New("bad syntax")}, nil)
	tr := NewTranscript(nil)
	msg := NewMessage("```mermaid\nnot a <diagram>\n```", Assistant)
	out := r.Render(msg)
	tr.Append(msg, out.Node)

	p := out.Placeholders[0]
	if err := r.Populate(context.Background(), p); err == nil {
		t.Fatal("expected error")
	}
	assertShowsSource(t, p)
	if !strings.Contains(tr.HTML(), "not a &lt;diagram&gt;") {
		t.Errorf("source not escaped in transcript: %s", tr.HTML())
	}
}

func TestPopulateRecoversPanic(t *testing.T) {
	r := NewRenderer(nil, &stubEngine{panicMsg: "kaboom"}, nil)
	p := r.Reserve("m1", "graph TD")

	err := r.Populate(context.Background(), p)
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected panic error, got %v", err)
	}
	assertShowsSource(t, p)
}

func TestPopulateWithoutEngine(t *testing.T) {
	r := NewRenderer(nil, nil, nil)
	p := r.Reserve("m1", "graph TD")
	if err := r.Populate(context.Background(), p); !errors.Is(err, ErrNoDiagramEngine) {
		t.Fatalf("expected ErrNoDiagramEngine, got %v", err)
	}
	assertShowsSource(t, p)
}

func assertShowsSource(t *testing.T, p *Placeholder) {
	t.Helper()
	pre := p.Target.FirstChild
	if pre == nil || pre.Data != "pre" || pre.NextSibling != nil {
		t.Fatalf("expected a single <pre>, got %s", OuterHTML(p.Target))
	}
	if AttrValue(pre, "style") != "white-space:pre-wrap" {
		t.Errorf("pre style = %q", AttrValue(pre, "style"))
	}
	if pre.FirstChild == nil || pre.FirstChild.Data != p.Source {
		t.Errorf("pre text = %q, want %q", OuterHTML(pre), p.Source)
	}
}
