// Package markup is the formatting engine used for assistant prose. It
// renders Markdown with goldmark and hands back detached HTML nodes.
package markup

import (
	"bytes"
	"fmt"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Formatter converts Markdown to sanitized HTML nodes. Raw HTML in the
// source is dropped rather than passed through.
type Formatter struct {
	md goldmark.Markdown
}

// HighlightStyle is the chroma style for code blocks.
const HighlightStyle = "github"

// New creates a Formatter with GFM, syntax highlighting and heading IDs.
func New() *Formatter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
	return &Formatter{md: md}
}

// WriteHighlightCSS writes the stylesheet for the classes code blocks are
// highlighted with.
func WriteHighlightCSS(w io.Writer) error {
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, styles.Get(HighlightStyle))
}

// HTML renders src to an HTML string.
func (f *Formatter) HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := f.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// Format renders src and parses the result as children of a <div>. The
// returned nodes have no parent.
func (f *Formatter) Format(src string) ([]*html.Node, error) {
	rendered, err := f.HTML(src)
	if err != nil {
		return nil, err
	}

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader([]byte(rendered)), context)
	if err != nil {
		return nil, fmt.Errorf("parsing rendered markdown: %w", err)
	}
	for _, n := range nodes {
		externalLinks(n)
	}
	return nodes, nil
}

// externalLinks makes every link open in a new tab without an opener.
func externalLinks(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		setAttr(n, "target", "_blank")
		setAttr(n, "rel", "noopener noreferrer")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		externalLinks(c)
	}
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
