// Package web serves the chat widget to browsers. The widget runs
// server-side; the page only forwards input events and applies the DOM
// patches it receives over a websocket.
package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/mindchat/internal/widget"
)

// SessionFactory creates a widget session that draws on surface.
type SessionFactory func(surface widget.Surface) *widget.Session

// Widget hosts one widget session per websocket connection.
type Widget struct {
	newSession SessionFactory
	log        zerolog.Logger
}

// New creates a Widget.
func New(newSession SessionFactory, log zerolog.Logger) *Widget {
	return &Widget{newSession: newSession, log: log}
}

// RegisterRoutes mounts the page and the widget websocket on the router.
func (w *Widget) RegisterRoutes(r chi.Router) {
	r.Get("/", w.ServeIndex)
	r.Get("/highlight.css", w.serveHighlightCSS)
	r.Get("/ws/widget", w.handleWebSocket)
}
