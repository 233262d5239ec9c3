package material

// Preview resolves a graph to a single flat color without compiling: flat
// and mix nodes evaluate with the real blend semantics, while texture and
// procedural nodes approximate to neutral gray. This is the cheap live
// preview the frame builder tints untextured objects with between bakes; it
// is intentionally approximate and never a substitute for the baked result.
func Preview(g *Graph) [4]uint8 {
	if g == nil {
		return neutralGray
	}
	out := g.output()
	if out == nil {
		return neutralGray
	}
	return previewNode(g, g.input(out.ID, 0), make(map[int]bool))
}

func previewNode(g *Graph, n *Node, visiting map[int]bool) [4]uint8 {
	if n == nil || visiting[n.ID] {
		return neutralGray
	}
	visiting[n.ID] = true
	defer delete(visiting, n.ID)

	switch n.Kind {
	case NodeFlatColor:
		return n.Color

	case NodeMix:
		a := previewNode(g, g.input(n.ID, 0), visiting)
		b := previewNode(g, g.input(n.ID, 1), visiting)
		return mix(mixOpcode(n.Op), a, b, quantize(n.Factor))

	case NodeColorRamp, NodeAlphaCutoff:
		// Pass-through nodes preview as their input.
		return previewNode(g, g.input(n.ID, 0), visiting)

	case NodeTexture, NodeNoise, NodeVoronoi:
		return neutralGray

	default:
		return errorColor
	}
}
