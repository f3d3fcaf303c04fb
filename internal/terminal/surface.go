// Package terminal draws a widget transcript as plain text, for the chat
// command.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/mindchat/internal/widget"
)

// Line prefixes per message origin.
const (
	UserPrefix = "you> "
	BotPrefix  = "bot> "
)

// Surface prints transcript changes to a writer. Formatted messages are
// turned back into Markdown; drawn diagrams are summarized by their node
// labels.
type Surface struct {
	mu   sync.Mutex
	w    io.Writer
	conv *md.Converter
}

// New creates a Surface writing to w.
func New(w io.Writer) *Surface {
	conv := md.NewConverter("", true, nil)
	// Diagram targets are reported once populated.
	conv.AddRules(md.Rule{
		Filter: []string{"div"},
		Replacement: func(_ string, selec *goquery.Selection, _ *md.Options) *string {
			if selec.HasClass("mermaid") {
				return md.String("")
			}
			return nil
		},
	})
	return &Surface{w: w, conv: conv}
}

func (s *Surface) Appended(n *html.Node) {
	// User text is shown literally; only assistant replies are formatted.
	if widget.AttrValue(n, "data-origin") == widget.User.String() {
		if text := strings.TrimSpace(goquery.NewDocumentFromNode(n).Text()); text != "" {
			s.print(UserPrefix, text)
		}
		return
	}

	text, err := s.conv.ConvertString(widget.OuterHTML(n))
	if err != nil {
		text = goquery.NewDocumentFromNode(n).Text()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.print(BotPrefix, text)
}

func (s *Surface) Updated(n *html.Node) {
	doc := goquery.NewDocumentFromNode(n)

	if svg := doc.Find("svg").First(); svg.Length() > 0 {
		labels := doc.Find(".node-label").Map(func(_ int, sel *goquery.Selection) string {
			return strings.TrimSpace(sel.Text())
		})
		kind := widget.AttrValue(n, "data-diagram-kind")
		if kind == "" {
			kind = "diagram"
		}
		s.print(BotPrefix, fmt.Sprintf("[%s] %s", kind, strings.Join(labels, " · ")))
		return
	}

	if pre := doc.Find("pre").First(); pre.Length() > 0 {
		s.print(BotPrefix, "[diagram could not be drawn]\n"+pre.Text())
	}
}

func (s *Surface) ScrollToBottom() {}

func (s *Surface) InputCleared() {}

// print writes text with prefix on the first line and the following lines
// indented to match.
func (s *Surface) print(prefix, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indent := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			fmt.Fprintf(s.w, "%s%s\n", prefix, line)
			continue
		}
		if line == "" {
			fmt.Fprintln(s.w)
			continue
		}
		fmt.Fprintf(s.w, "%s%s\n", indent, line)
	}
}
