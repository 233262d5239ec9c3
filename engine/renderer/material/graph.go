package material

// NodeKind identifies a shader graph node type. The editor serializes its
// node canvas into this form; the compiler consumes it and never sees the
// canvas itself.
type NodeKind uint8

const (
	// NodeOutput is the single designated output node. Its first input is
	// the material's final color.
	NodeOutput NodeKind = iota

	// NodeFlatColor pushes a constant RGBA color.
	NodeFlatColor

	// NodeTexture samples the texture bound at evaluation time.
	NodeTexture

	// NodeNoise pushes procedural value noise evaluated at the pixel's UV.
	NodeNoise

	// NodeVoronoi pushes a procedural cellular pattern at the pixel's UV.
	NodeVoronoi

	// NodeMix blends its two inputs with one of the MixOp operators.
	NodeMix

	// NodeColorRamp maps its input's brightness through a gradient table.
	NodeColorRamp

	// NodeAlphaCutoff hard-thresholds its input's alpha channel.
	NodeAlphaCutoff
)

// MixOp selects the blend operator of a mix node.
type MixOp uint8

const (
	MixMultiply MixOp = iota
	MixAdd
	MixLerp
)

// NoiseGrayscale and friends select the output style of procedural nodes.
const (
	NoiseGrayscale uint8 = iota
	NoiseColor
)

const (
	VoronoiDistance uint8 = iota
	VoronoiCells
)

// RampStop is one gradient entry. Position is in [0, 1].
type RampStop struct {
	Position float32
	Color    [4]uint8
}

// Node is one shader graph node. Only the fields relevant to its Kind are
// meaningful; the rest stay zero. A flat record rather than a per-kind type
// keeps the graph trivially serializable by the editor.
type Node struct {
	ID   int
	Kind NodeKind

	Color     [4]uint8   // NodeFlatColor
	Op        MixOp      // NodeMix
	Factor    float32    // NodeMix, in [0, 1]
	Scale     float32    // NodeNoise, NodeVoronoi
	Octaves   int        // NodeNoise
	Mode      uint8      // NodeNoise, NodeVoronoi
	Threshold float32    // NodeAlphaCutoff, in [0, 1]
	Stops     []RampStop // NodeColorRamp
}

// Connection wires the output of node From into input slot Input of node To.
type Connection struct {
	From  int
	To    int
	Input int
}

// Graph is a serialized material node graph. It is value data: the compiler
// reads it and retains nothing.
type Graph struct {
	Nodes       []Node
	Connections []Connection
}

// node returns the node with the given ID, or nil.
func (g *Graph) node(id int) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// input traces the connection into the given input slot of a node and
// returns the source node, or nil when the slot is unconnected.
func (g *Graph) input(nodeID, slot int) *Node {
	for _, c := range g.Connections {
		if c.To == nodeID && c.Input == slot {
			return g.node(c.From)
		}
	}
	return nil
}

// output returns the graph's designated output node, or nil.
func (g *Graph) output() *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Kind == NodeOutput {
			return &g.Nodes[i]
		}
	}
	return nil
}

// ReferencesTexture reports whether a texture-sampling node is reachable
// from the output. The frame builder combines this with the object's own
// texture assignment to decide the per-object texturing flag.
func ReferencesTexture(g *Graph) bool {
	if g == nil {
		return false
	}
	out := g.output()
	if out == nil {
		return false
	}
	seen := make(map[int]bool)
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == nil || seen[n.ID] {
			return false
		}
		seen[n.ID] = true
		if n.Kind == NodeTexture {
			return true
		}
		for slot := 0; slot < 2; slot++ {
			if walk(g.input(n.ID, slot)) {
				return true
			}
		}
		return false
	}
	return walk(out)
}
