package web

import (
	_ "embed"
	"net/http"

	"github.com/ziadkadry99/mindchat/internal/markup"
)

//go:embed index.html
var indexHTML []byte

// ServeIndex serves the embedded widget page.
func (w *Widget) ServeIndex(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Write(indexHTML)
}

// serveHighlightCSS serves the stylesheet for highlighted code blocks.
func (w *Widget) serveHighlightCSS(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "text/css; charset=utf-8")
	if err := markup.WriteHighlightCSS(rw); err != nil {
		w.log.Error().Err(err).Msg("writing highlight stylesheet")
	}
}
