package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/mindchat/internal/diagram"
	"github.com/ziadkadry99/mindchat/internal/markup"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

type cannedSender string

func (s cannedSender) Send(context.Context, string) (string, error) { return string(s), nil }

func setupServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	renderer := widget.NewRenderer(markup.New(), diagram.New(), nil)
	w := New(func(surface widget.Surface) *widget.Session {
		return widget.NewSession(cannedSender(reply), renderer, surface, widget.Options{
			Greeting:   "Hello!",
			Apology:    "Sorry.",
			Extensions: []string{"mindmap"},
			Logger:     zerolog.Nop(),
		})
	}, zerolog.Nop())

	r := chi.NewRouter()
	w.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/widget"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPatches(t *testing.T, conn *websocket.Conn, n int) []patch {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	out := make([]patch, 0, n)
	for len(out) < n {
		var p patch
		if err := conn.ReadJSON(&p); err != nil {
			t.Fatalf("read patch %d: %v", len(out), err)
		}
		out = append(out, p)
	}
	return out
}

func ops(patches []patch) string {
	names := make([]string, len(patches))
	for i, p := range patches {
		names[i] = p.Op
	}
	return strings.Join(names, ",")
}

func TestServeIndex(t *testing.T) {
	server := setupServer(t, "")

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, id := range []string{`id="chat-box"`, `id="user-input"`, `id="send-btn"`, "/ws/widget"} {
		if !strings.Contains(string(indexHTML), id) {
			t.Errorf("page is missing %s", id)
		}
	}
	// Enter that confirms an IME candidate must not send.
	if !strings.Contains(string(indexHTML), "!e.isComposing") {
		t.Error("Enter handler does not skip IME composition")
	}
}

func TestServeHighlightCSS(t *testing.T) {
	server := setupServer(t, "")

	resp, err := http.Get(server.URL + "/highlight.css")
	if err != nil {
		t.Fatalf("GET /highlight.css: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), ".chroma") {
		t.Errorf("stylesheet has no chroma rules")
	}
	if !strings.Contains(string(indexHTML), `href="/highlight.css"`) {
		t.Error("page does not link the stylesheet")
	}
}

func TestGreetingOnConnect(t *testing.T) {
	server := setupServer(t, "")
	conn := dial(t, server)

	got := readPatches(t, conn, 2)
	if ops(got) != "append,scroll" {
		t.Fatalf("ops = %s", ops(got))
	}
	if !strings.HasPrefix(got[0].ID, "msg-") || !strings.Contains(got[0].HTML, "Hello!") {
		t.Errorf("unexpected greeting patch %+v", got[0])
	}
}

func TestSendRendersDiagram(t *testing.T) {
	server := setupServer(t, "```mermaid\ngraph TD\nA[Start] --> B[End]\n```\nTwo steps.")
	conn := dial(t, server)
	readPatches(t, conn, 2)

	for _, ev := range []clientEvent{{Type: "input", Value: "flow please"}, {Type: "click"}} {
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got := readPatches(t, conn, 6)
	if want := "append,scroll,clear-input,append,scroll,update"; ops(got) != want {
		t.Fatalf("ops = %s, want %s", ops(got), want)
	}
	if !strings.Contains(got[0].HTML, "flow please") {
		t.Errorf("user patch = %q", got[0].HTML)
	}
	if !strings.Contains(got[3].HTML, "Two steps.") {
		t.Errorf("reply patch missing summary: %q", got[3].HTML)
	}
	if !strings.HasPrefix(got[5].ID, "diagram-") || !strings.Contains(got[5].HTML, "<svg") {
		t.Errorf("update patch = %+v", got[5])
	}
}

func TestOnlyEnterSends(t *testing.T) {
	server := setupServer(t, "ok")
	conn := dial(t, server)
	readPatches(t, conn, 2)

	events := []clientEvent{
		{Type: "input", Value: "hi"},
		{Type: "key", Key: "a"},
		{Type: "bogus"},
		{Type: "key", Key: "Enter"},
	}
	for _, ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got := readPatches(t, conn, 5)
	if want := "append,scroll,clear-input,append,scroll"; ops(got) != want {
		t.Fatalf("ops = %s, want %s", ops(got), want)
	}
	if !strings.Contains(got[3].HTML, "ok") {
		t.Errorf("reply patch = %q", got[3].HTML)
	}
}

func TestMalformedEventIgnored(t *testing.T) {
	server := setupServer(t, "ok")
	conn := dial(t, server)
	readPatches(t, conn, 2)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(clientEvent{Type: "input", Value: "still here"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(clientEvent{Type: "click"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := readPatches(t, conn, 3)
	if !strings.Contains(got[0].HTML, "still here") {
		t.Errorf("connection did not survive malformed event: %+v", got)
	}
}
