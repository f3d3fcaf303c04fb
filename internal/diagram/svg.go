package diagram

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	nodeFill   = "#eef3ff"
	nodeStroke = "#4a6fa5"
	edgeStroke = "#555555"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func svgElem(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		DataAtom:  atom.Lookup([]byte(tag)),
		Namespace: "svg",
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func svgText(x, y float64, class, s string) *html.Node {
	t := svgElem("text",
		"x", num(x), "y", num(y),
		"class", class,
		"text-anchor", "middle",
		"dominant-baseline", "central",
	)
	t.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return t
}

// draw renders a laid-out graph as an SVG element. uid keeps marker IDs
// unique when several diagrams share a page.
func draw(g *Graph, uid string) *html.Node {
	boxes, width, height := layout(g)
	markerID := uid + "-arrow"

	svg := svgElem("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"id", uid,
		"class", "diagram-svg "+g.Kind,
		"role", "img",
		"aria-label", g.Kind+" diagram",
		"width", num(width),
		"height", num(height),
		"viewBox", "0 0 "+num(width)+" "+num(height),
	)

	defs := svgElem("defs")
	marker := svgElem("marker",
		"id", markerID,
		"viewBox", "0 0 10 10",
		"refX", "10", "refY", "5",
		"markerWidth", "8", "markerHeight", "8",
		"orient", "auto-start-reverse",
	)
	marker.AppendChild(svgElem("path", "d", "M 0 0 L 10 5 L 0 10 z", "fill", edgeStroke))
	defs.AppendChild(marker)
	svg.AppendChild(defs)

	edges := svgElem("g", "class", "edges")
	for _, e := range g.Edges {
		if e.Style == EdgeInvisible || e.From == e.To {
			continue
		}
		from, to := boxes[e.From], boxes[e.To]
		fx, fy := to.center()
		x1, y1 := clip(from, fx, fy)
		tx, ty := from.center()
		x2, y2 := clip(to, tx, ty)

		line := svgElem("line",
			"x1", num(x1), "y1", num(y1),
			"x2", num(x2), "y2", num(y2),
			"stroke", edgeStroke,
		)
		switch e.Style {
		case EdgeThick:
			line.Attr = append(line.Attr, html.Attribute{Key: "stroke-width", Val: "3"})
		case EdgeDotted:
			line.Attr = append(line.Attr, html.Attribute{Key: "stroke-dasharray", Val: "4 3"})
		}
		if e.Style != EdgeOpen && g.Kind != "mindmap" {
			line.Attr = append(line.Attr, html.Attribute{Key: "marker-end", Val: "url(#" + markerID + ")"})
		}
		edges.AppendChild(line)

		if e.Label != "" {
			edges.AppendChild(svgText((x1+x2)/2, (y1+y2)/2, "edge-label", displayLabel(e.Label)))
		}
	}
	svg.AppendChild(edges)

	nodes := svgElem("g", "class", "nodes")
	for _, n := range g.Nodes {
		b := boxes[n.ID]
		group := svgElem("g", "class", "node", "data-id", n.ID)
		group.AppendChild(outline(n.Shape, b))
		cx, cy := b.center()
		group.AppendChild(svgText(cx, cy, "node-label", displayLabel(n.Label)))
		nodes.AppendChild(group)
	}
	svg.AppendChild(nodes)
	return svg
}

func outline(shape Shape, b box) *html.Node {
	paint := []string{"fill", nodeFill, "stroke", nodeStroke}
	cx, cy := b.center()

	rect := func(rx float64) *html.Node {
		return svgElem("rect", append([]string{
			"x", num(b.X), "y", num(b.Y),
			"width", num(b.W), "height", num(b.H),
			"rx", num(rx),
		}, paint...)...)
	}
	polygon := func(points ...float64) *html.Node {
		s := ""
		for i := 0; i+1 < len(points); i += 2 {
			if i > 0 {
				s += " "
			}
			s += num(points[i]) + "," + num(points[i+1])
		}
		return svgElem("polygon", append([]string{"points", s}, paint...)...)
	}

	switch shape {
	case ShapeRound:
		return rect(8)
	case ShapeStadium:
		return rect(b.H / 2)
	case ShapeCloud, ShapeBang:
		return rect(14)
	case ShapeCircle:
		return svgElem("ellipse", append([]string{
			"cx", num(cx), "cy", num(cy),
			"rx", num(b.W / 2), "ry", num(b.H / 2),
		}, paint...)...)
	case ShapeDiamond:
		return polygon(cx, b.Y, b.X+b.W, cy, cx, b.Y+b.H, b.X, cy)
	case ShapeHexagon:
		inset := b.H / 3
		return polygon(
			b.X+inset, b.Y, b.X+b.W-inset, b.Y, b.X+b.W, cy,
			b.X+b.W-inset, b.Y+b.H, b.X+inset, b.Y+b.H, b.X, cy,
		)
	case ShapeAsymmetric:
		notch := b.H / 3
		return polygon(b.X, b.Y, b.X+b.W, b.Y, b.X+b.W, b.Y+b.H, b.X, b.Y+b.H, b.X+notch, cy)
	default:
		return rect(0)
	}
}
