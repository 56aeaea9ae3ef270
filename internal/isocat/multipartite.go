// Package isocat builds the isomorphism catalog: for each complete
// k-partite template shape it enumerates candidate skeleton graphs with an
// external generator, maps the skeletons into the template with an external
// monomorphism matcher, and persists the merged mapping sets as prefix-tree
// artifacts keyed by valence signature.
package isocat

import (
	"fmt"
	"sort"
	"strings"
)

// Template is a complete k-partite graph: every vertex in one partition is
// adjacent to every vertex in every other partition and to none in its own.
type Template struct {
	// PartitionSizes holds the block sizes in non-decreasing order.
	PartitionSizes []int
	// Nodes is the total vertex count.
	Nodes int
	// Edges lists every cross-partition vertex pair, Begin < End.
	Edges [][2]int
}

// K returns the partition arity.
func (t Template) K() int { return len(t.PartitionSizes) }

// SizesKey returns the textual partition-size signature, e.g. "(1, 2, 2)".
func (t Template) SizesKey() string {
	return intsKey(t.PartitionSizes)
}

// Partition returns the partition index owning the given vertex. Vertices
// are numbered block by block in PartitionSizes order.
func (t Template) Partition(v int) int {
	for i, size := range t.PartitionSizes {
		if v < size {
			return i
		}
		v -= size
	}
	panic("isocat: vertex out of range")
}

// newTemplate builds the complete k-partite template for the given block
// sizes.
func newTemplate(sizes []int) Template {
	t := Template{PartitionSizes: append([]int(nil), sizes...)}
	for _, s := range sizes {
		t.Nodes += s
	}
	// Vertex v belongs to the block covering its offset; connect every
	// cross-block pair.
	for a := 0; a < t.Nodes; a++ {
		for b := a + 1; b < t.Nodes; b++ {
			if t.Partition(a) != t.Partition(b) {
				t.Edges = append(t.Edges, [2]int{a, b})
			}
		}
	}
	return t
}

// Multipartite enumerates every complete k-partite template whose k block
// sizes are drawn from boxSizes, for each k in [kMin, kMax]. Size
// combinations are taken with replacement in non-decreasing order, so each
// shape appears once.
func Multipartite(boxSizes []int, kMin, kMax int) []Template {
	sizes := append([]int(nil), boxSizes...)
	sort.Ints(sizes)

	var out []Template
	for k := kMin; k <= kMax; k++ {
		combo := make([]int, k)
		var walk func(depth, from int)
		walk = func(depth, from int) {
			if depth == k {
				out = append(out, newTemplate(combo))
				return
			}
			for i := from; i < len(sizes); i++ {
				combo[depth] = sizes[i]
				walk(depth+1, i)
			}
		}
		if k > 0 {
			walk(0, 0)
		}
	}
	return out
}

// intsKey renders an int slice in the catalog's tuple form, e.g. "(1, 2)".
func intsKey(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
