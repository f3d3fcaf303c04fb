package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/mindchat/internal/widget"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientEvent is what the page sends: "input" carries the field value,
// "click" is the send button and "key" a key pressed in the field.
type clientEvent struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	Key   string `json:"key,omitempty"`
}

// Patch ops understood by the page.
const (
	OpAppend     = "append"
	OpUpdate     = "update"
	OpScroll     = "scroll"
	OpClearInput = "clear-input"
)

// patch is one DOM change pushed to the page.
type patch struct {
	Op   string `json:"op"`
	ID   string `json:"id,omitempty"`
	HTML string `json:"html,omitempty"`
}

// wsSurface forwards transcript changes to one browser. Writes are
// serialized because the session calls it from several goroutines.
type wsSurface struct {
	mu   sync.Mutex
	conn *websocket.Conn
	w    *Widget
}

func (s *wsSurface) Appended(n *html.Node) {
	s.send(patch{Op: OpAppend, ID: widget.AttrValue(n, "id"), HTML: widget.OuterHTML(n)})
}

func (s *wsSurface) Updated(n *html.Node) {
	s.send(patch{Op: OpUpdate, ID: widget.AttrValue(n, "id"), HTML: widget.OuterHTML(n)})
}

func (s *wsSurface) ScrollToBottom() { s.send(patch{Op: OpScroll}) }

func (s *wsSurface) InputCleared() { s.send(patch{Op: OpClearInput}) }

func (s *wsSurface) send(p patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(p); err != nil {
		s.w.log.Debug().Err(err).Str("op", p.Op).Msg("websocket write")
	}
}

func (w *Widget) handleWebSocket(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sess := w.newSession(&wsSurface{conn: conn, w: w})
	log := w.log.With().Str("session", sess.ID).Logger()
	defer func() {
		cancel()
		sess.Wait()
		log.Debug().Msg("widget session closed")
	}()

	log.Debug().Msg("widget session opened")
	sess.Start(ctx)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.Debug().Err(err).Msg("ignoring malformed widget event")
			continue
		}

		switch ev.Type {
		case "input":
			sess.SetInput(ev.Value)
		case "click":
			sess.Click(ctx)
		case "key":
			sess.KeyPress(ctx, ev.Key)
		default:
			log.Debug().Str("type", ev.Type).Msg("ignoring unknown widget event")
		}
	}
}
