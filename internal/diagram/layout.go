package diagram

import (
	"math"
)

const (
	narrowRuneWidth = 8.0
	wideRuneWidth   = 14.0
	nodePadX        = 16.0
	nodeHeight      = 36.0
	minNodeWidth    = 60.0
	maxLabelRunes   = 40
	layerGap        = 56.0
	siblingGap      = 20.0
	margin          = 16.0
)

// box is a node's placement; X and Y are the top-left corner.
type box struct {
	X, Y, W, H float64
}

func (b box) center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// displayLabel truncates long labels with an ellipsis.
func displayLabel(label string) string {
	r := []rune(label)
	if len(r) <= maxLabelRunes {
		return label
	}
	return string(r[:maxLabelRunes-1]) + "…"
}

func textWidth(s string) float64 {
	w := 0.0
	for _, r := range s {
		if r >= 0x1100 {
			w += wideRuneWidth
		} else {
			w += narrowRuneWidth
		}
	}
	return w
}

func nodeSize(n *Node) (float64, float64) {
	w := math.Max(minNodeWidth, textWidth(displayLabel(n.Label))+2*nodePadX)
	h := nodeHeight
	switch n.Shape {
	case ShapeDiamond:
		w, h = w*1.4, h*1.4
	case ShapeCircle:
		h = math.Max(h, w*0.6)
	}
	return w, h
}

// layers assigns each node the length of the longest path reaching it.
// Cycles are cut off once a layer would exceed the node count.
func layers(g *Graph) map[string]int {
	layer := make(map[string]int, len(g.Nodes))
	limit := len(g.Nodes)
	for range g.Nodes {
		changed := false
		for _, e := range g.Edges {
			if e.From == e.To {
				continue
			}
			if l := layer[e.From] + 1; l > layer[e.To] && l < limit {
				layer[e.To] = l
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return layer
}

// layout places nodes in layers along the flow direction and centres each
// layer on the cross axis. It returns the boxes and the canvas size.
func layout(g *Graph) (map[string]box, float64, float64) {
	layerOf := layers(g)
	var rows [][]*Node
	for _, n := range g.Nodes {
		l := layerOf[n.ID]
		for len(rows) <= l {
			rows = append(rows, nil)
		}
		rows[l] = append(rows[l], n)
	}

	horizontal := g.Direction == LeftRight || g.Direction == RightLeft

	extent := make([]float64, len(rows))
	thickness := make([]float64, len(rows))
	maxExtent := 0.0
	for i, row := range rows {
		for j, n := range row {
			w, h := nodeSize(n)
			along, across := h, w
			if horizontal {
				along, across = w, h
			}
			if j > 0 {
				extent[i] += siblingGap
			}
			extent[i] += across
			thickness[i] = math.Max(thickness[i], along)
		}
		maxExtent = math.Max(maxExtent, extent[i])
	}

	boxes := make(map[string]box, len(g.Nodes))
	offset := margin
	for i, row := range rows {
		cross := margin + (maxExtent-extent[i])/2
		for _, n := range row {
			w, h := nodeSize(n)
			if horizontal {
				boxes[n.ID] = box{X: offset + (thickness[i]-w)/2, Y: cross, W: w, H: h}
				cross += h + siblingGap
			} else {
				boxes[n.ID] = box{X: cross, Y: offset + (thickness[i]-h)/2, W: w, H: h}
				cross += w + siblingGap
			}
		}
		offset += thickness[i] + layerGap
	}

	totalMain := offset - layerGap + margin
	totalCross := maxExtent + 2*margin
	width, height := totalCross, totalMain
	if horizontal {
		width, height = totalMain, totalCross
	}

	for id, b := range boxes {
		switch g.Direction {
		case BottomUp:
			b.Y = height - b.Y - b.H
		case RightLeft:
			b.X = width - b.X - b.W
		}
		boxes[id] = b
	}
	return boxes, width, height
}

// clip returns the point where the line from b's centre towards (tx, ty)
// leaves b.
func clip(b box, tx, ty float64) (float64, float64) {
	cx, cy := b.center()
	dx, dy := tx-cx, ty-cy
	if dx == 0 && dy == 0 {
		return cx, cy
	}
	sx, sy := math.Inf(1), math.Inf(1)
	if dx != 0 {
		sx = (b.W / 2) / math.Abs(dx)
	}
	if dy != 0 {
		sy = (b.H / 2) / math.Abs(dy)
	}
	s := math.Min(sx, sy)
	return cx + dx*s, cy + dy*s
}
