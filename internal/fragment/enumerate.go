package fragment

import "github.com/mesh-spectra/fragstore/pkg/types"

// EnumerateBondSubsets returns every connected bond subset of the parent
// with between nMin and nMax bonds, each exactly once. Subsets are
// enumerated over the bond-adjacency graph with anchored extension sets, so
// no subset is produced twice and no copying de-duplication pass is needed.
func EnumerateBondSubsets(parent *types.Mol, nMin, nMax int) [][]int {
	if nMax < nMin || nMax <= 0 {
		return nil
	}
	adj := bondAdjacency(parent)
	var out [][]int
	for anchor := range parent.Bonds {
		sub := []int{anchor}
		var ext []int
		for _, nb := range adj[anchor] {
			if nb > anchor {
				ext = append(ext, nb)
			}
		}
		inSub := map[int]bool{anchor: true}
		frontier := make(map[int]bool)
		for _, nb := range adj[anchor] {
			frontier[nb] = true
		}
		extendSubset(adj, anchor, sub, ext, inSub, frontier, nMin, nMax, &out)
	}
	return out
}

// extendSubset grows sub by one bond per call. ext holds the candidates
// allowed to join at this node of the enumeration tree; frontier holds every
// bond adjacent to the current subset, which keeps newly reachable
// candidates exclusive to the branch that first exposed them.
func extendSubset(adj [][]int, anchor int, sub, ext []int, inSub, frontier map[int]bool, nMin, nMax int, out *[][]int) {
	if len(sub) >= nMin {
		cp := make([]int, len(sub))
		copy(cp, sub)
		*out = append(*out, cp)
	}
	if len(sub) == nMax {
		return
	}
	for i, w := range ext {
		var grown []int
		for _, u := range adj[w] {
			if u > anchor && !inSub[u] && !frontier[u] {
				grown = append(grown, u)
			}
		}
		nextExt := make([]int, 0, len(ext)-i-1+len(grown))
		nextExt = append(nextExt, ext[i+1:]...)
		nextExt = append(nextExt, grown...)

		inSub[w] = true
		for _, u := range grown {
			frontier[u] = true
		}
		extendSubset(adj, anchor, append(sub, w), nextExt, inSub, frontier, nMin, nMax, out)
		delete(inSub, w)
		for _, u := range grown {
			delete(frontier, u)
		}
	}
}

// bondAdjacency returns, per bond index, the indexes of bonds sharing an
// endpoint with it.
func bondAdjacency(m *types.Mol) [][]int {
	byAtom := make(map[int][]int)
	for i, b := range m.Bonds {
		byAtom[b.Begin] = append(byAtom[b.Begin], i)
		byAtom[b.End] = append(byAtom[b.End], i)
	}
	adj := make([][]int, len(m.Bonds))
	for i, b := range m.Bonds {
		seen := map[int]bool{i: true}
		for _, atom := range []int{b.Begin, b.End} {
			for _, j := range byAtom[atom] {
				if !seen[j] {
					seen[j] = true
					adj[i] = append(adj[i], j)
				}
			}
		}
	}
	return adj
}
