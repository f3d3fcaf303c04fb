package diagram

// Direction is the flow direction of a diagram.
type Direction string

const (
	TopDown   Direction = "TD"
	BottomUp  Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// Shape is the outline drawn around a node label.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeRound
	ShapeStadium
	ShapeCircle
	ShapeDiamond
	ShapeHexagon
	ShapeSubroutine
	ShapeAsymmetric
	ShapeCloud
	ShapeBang
)

// EdgeStyle is the line style of an edge.
type EdgeStyle int

const (
	EdgeArrow EdgeStyle = iota
	EdgeOpen
	EdgeDotted
	EdgeThick
	EdgeInvisible
)

// Node is a labelled vertex.
type Node struct {
	ID    string
	Label string
	Shape Shape
}

// Edge connects two nodes by ID.
type Edge struct {
	From  string
	To    string
	Label string
	Style EdgeStyle
}

// Graph is the parsed form of any diagram kind.
type Graph struct {
	Kind      string
	Direction Direction
	Nodes     []*Node
	Edges     []Edge

	index map[string]*Node
}

func newGraph(kind string, dir Direction) *Graph {
	return &Graph{Kind: kind, Direction: dir, index: make(map[string]*Node)}
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.index[id]
}

// ensure returns the node with id, creating it with the ID as label.
func (g *Graph) ensure(id string) *Node {
	if n, ok := g.index[id]; ok {
		return n
	}
	n := &Node{ID: id, Label: id}
	g.index[id] = n
	g.Nodes = append(g.Nodes, n)
	return n
}

func (g *Graph) connect(from, to, label string, style EdgeStyle) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label, Style: style})
}
