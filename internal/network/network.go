// Package network derives weighted co-occurrence graphs over substructures
// from the populated store. Graphs are rebuilt per call and never persisted.
package network

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mesh-spectra/fragstore/internal/store"
)

// Mode selects the network construction variant.
type Mode string

const (
	// ModeDefault connects every pair of substructures sharing a compound,
	// incrementing the edge weight on repeat pairs.
	ModeDefault Mode = "default"
	// ModeExtended builds a compound-to-substructure star per compound, then
	// removes each compound node after redistributing its edges onto every
	// pair of its neighbors.
	ModeExtended Mode = "extended"
	// ModeParentLinkage keeps the compound-to-substructure stars as-is,
	// retaining compound nodes in the result.
	ModeParentLinkage Mode = "parent_structure_linkage"
)

// Options tunes one network build.
type Options struct {
	Mode Mode
	// MinOccurrence drops substructures linked to fewer distinct compounds.
	MinOccurrence int
	// RemoveIsolated drops nodes with no edges from the result.
	RemoveIsolated bool
}

// Graph is a weighted undirected graph keyed by node name.
type Graph struct {
	adj map[string]map[string]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]int)}
}

// AddNode ensures the node exists.
func (g *Graph) AddNode(name string) {
	if g.adj[name] == nil {
		g.adj[name] = make(map[string]int)
	}
}

// IncrementEdge adds the edge with weight 1, or increments an existing
// edge's weight. Self-loops are stored like any other edge; callers that
// must not produce them avoid the call.
func (g *Graph) IncrementEdge(a, b string) {
	g.AddNode(a)
	g.AddNode(b)
	g.adj[a][b]++
	if a != b {
		g.adj[b][a]++
	}
}

// Weight returns the edge weight, zero when absent.
func (g *Graph) Weight(a, b string) int {
	return g.adj[a][b]
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.adj[name]
	return ok
}

// Neighbors returns the node's neighbors in ascending order, excluding
// self-loops.
func (g *Graph) Neighbors(name string) []string {
	var out []string
	for n := range g.adj[name] {
		if n != name {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// RemoveNode deletes the node and every edge touching it.
func (g *Graph) RemoveNode(name string) {
	for n := range g.adj[name] {
		delete(g.adj[n], name)
	}
	delete(g.adj, name)
}

// Nodes returns all node names in ascending order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.adj))
	for n := range g.adj {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Edge is one weighted undirected edge with A < B.
type Edge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Edges returns all edges ordered by (A, B).
func (g *Graph) Edges() []Edge {
	var out []Edge
	for a, nbrs := range g.adj {
		for b, w := range nbrs {
			if a < b {
				out = append(out, Edge{A: a, B: b, Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Export is the serializable network form emitted by the CLI.
type Export struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Export renders the graph with deterministic node and edge ordering.
func (g *Graph) Export() Export {
	return Export{Nodes: g.Nodes(), Edges: g.Edges()}
}

// Build constructs the network from the store per the options. Substructures
// below the occurrence threshold are excluded entirely; compounds whose
// filtered substructure set is empty contribute nothing.
func Build(st *store.Store, opt Options, log *zap.Logger) (*Graph, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch opt.Mode {
	case ModeDefault, ModeExtended, ModeParentLinkage:
	case "":
		opt.Mode = ModeDefault
	default:
		return nil, fmt.Errorf("unknown network mode %q", opt.Mode)
	}
	if opt.MinOccurrence < 1 {
		opt.MinOccurrence = 1
	}

	retained, err := st.FilterSubstructureOccurrence(opt.MinOccurrence)
	if err != nil {
		return nil, err
	}
	g := NewGraph()
	for smiles := range retained {
		g.AddNode(smiles)
	}

	compoundIDs, err := st.CompoundIDs()
	if err != nil {
		return nil, err
	}
	var compoundNodes []string
	for _, id := range compoundIDs {
		subs, err := st.SubstructuresOf(id)
		if err != nil {
			return nil, err
		}
		var kept []string
		for _, smiles := range subs {
			if _, ok := retained[smiles]; ok {
				kept = append(kept, smiles)
			}
		}
		if len(kept) == 0 {
			continue
		}

		switch opt.Mode {
		case ModeDefault:
			for i := 0; i < len(kept); i++ {
				for j := i + 1; j < len(kept); j++ {
					g.IncrementEdge(kept[i], kept[j])
				}
			}
		case ModeExtended, ModeParentLinkage:
			g.AddNode(id)
			compoundNodes = append(compoundNodes, id)
			for _, smiles := range kept {
				g.IncrementEdge(id, smiles)
			}
		}
	}

	if opt.Mode == ModeExtended {
		// Redistribute each compound's edges onto every pair of its
		// neighbors, then drop the compound. Each compound contributes one
		// increment per pair regardless of edge weights, matching the
		// historical counting even where it double counts pairs shared by
		// several compounds.
		for _, id := range compoundNodes {
			nbrs := g.Neighbors(id)
			for i := 0; i < len(nbrs); i++ {
				for j := i + 1; j < len(nbrs); j++ {
					g.IncrementEdge(nbrs[i], nbrs[j])
				}
			}
			g.RemoveNode(id)
		}
	}

	if opt.RemoveIsolated {
		for _, n := range g.Nodes() {
			if len(g.Neighbors(n)) == 0 {
				g.RemoveNode(n)
			}
		}
	}

	log.Info("network built",
		zap.String("mode", string(opt.Mode)),
		zap.Int("min_occurrence", opt.MinOccurrence),
		zap.Int("nodes", len(g.adj)))
	return g, nil
}
