package isocat

import "fmt"

// Graph is a candidate skeleton produced by the external generator: a
// simple undirected graph with dense vertex numbering.
type Graph struct {
	// Encoding is the generator's canonical one-line form, kept verbatim as
	// the catalog's graph-encoding key.
	Encoding string
	// Nodes is the vertex count.
	Nodes int
	// Edges lists vertex pairs, Begin < End, in encoding bit order.
	Edges [][2]int
}

// Degrees returns the per-vertex degree vector.
func (g Graph) Degrees() []int {
	deg := make([]int, g.Nodes)
	for _, e := range g.Edges {
		deg[e[0]]++
		deg[e[1]]++
	}
	return deg
}

// DecodeGraph6 decodes one line of the generator's canonical graph encoding
// (graphs up to 62 vertices; the catalog never needs more). The first byte
// carries the vertex count; the remaining bytes carry the upper triangle of
// the adjacency matrix, column by column, six bits per byte.
func DecodeGraph6(line string) (Graph, error) {
	if len(line) == 0 {
		return Graph{}, fmt.Errorf("decoding graph6: empty line")
	}
	n := int(line[0]) - 63
	if n < 0 || n > 62 {
		return Graph{}, fmt.Errorf("decoding graph6 %q: unsupported vertex count byte", line)
	}
	g := Graph{Encoding: line, Nodes: n}

	need := (n*(n-1)/2 + 5) / 6
	if len(line)-1 < need {
		return Graph{}, fmt.Errorf("decoding graph6 %q: truncated adjacency bits", line)
	}

	bit := 0
	for col := 1; col < n; col++ {
		for row := 0; row < col; row++ {
			b := int(line[1+bit/6]) - 63
			if b < 0 || b > 63 {
				return Graph{}, fmt.Errorf("decoding graph6 %q: byte out of range", line)
			}
			if b&(1<<(5-bit%6)) != 0 {
				g.Edges = append(g.Edges, [2]int{row, col})
			}
			bit++
		}
	}
	return g, nil
}
