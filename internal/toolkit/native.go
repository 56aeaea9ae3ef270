// Package toolkit provides the built-in molecular-graph toolkit: canonical
// SMILES generation, kekulization, and substructure matching over the
// CHNOPS-plus-wildcard graphs the library works with. A full cheminformatics
// toolkit can be substituted behind types.Toolkit; this implementation
// covers the element and ring systems the population sources actually
// contain.
package toolkit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// ErrKekulize is wrapped by Kekulize failures.
var ErrKekulize = errors.New("cannot kekulize aromatic system")

// Native is the built-in toolkit. It is stateless and safe to share.
type Native struct{}

// New returns the built-in toolkit.
func New() *Native { return &Native{} }

var _ types.Toolkit = (*Native)(nil)

// Kekulize resolves aromatic bonds to alternating single and double bonds in
// place. Every aromatic atom must end up incident to exactly one double bond
// among its aromatic bonds; when no such assignment exists the system is
// degenerate and an error is returned.
func (n *Native) Kekulize(m *types.Mol) error {
	var aromBonds []int
	aromAtoms := make(map[int]bool)
	for i, b := range m.Bonds {
		if b.Order == types.BondAromatic {
			aromBonds = append(aromBonds, i)
			aromAtoms[b.Begin] = true
			aromAtoms[b.End] = true
		}
	}
	if len(aromBonds) == 0 {
		return nil
	}

	// Backtracking over the aromatic bonds: assign each as single or double
	// so that every aromatic atom carries exactly one double bond.
	doubleAt := make(map[int]bool)
	assign := make([]float64, len(aromBonds))
	var solve func(i int) bool
	solve = func(i int) bool {
		if i == len(aromBonds) {
			for a := range aromAtoms {
				if !doubleAt[a] {
					return false
				}
			}
			return true
		}
		b := m.Bonds[aromBonds[i]]
		if !doubleAt[b.Begin] && !doubleAt[b.End] {
			doubleAt[b.Begin], doubleAt[b.End] = true, true
			assign[i] = types.BondDouble
			if solve(i + 1) {
				return true
			}
			doubleAt[b.Begin], doubleAt[b.End] = false, false
		}
		assign[i] = types.BondSingle
		return solve(i + 1)
	}
	if !solve(0) {
		return fmt.Errorf("%w: %d aromatic bonds", ErrKekulize, len(aromBonds))
	}

	for i, bi := range aromBonds {
		m.Bonds[bi].Order = assign[i]
	}
	for a := range aromAtoms {
		m.Atoms[a].Aromatic = false
	}
	return nil
}

// CanonicalSMILES returns a canonical linear notation for the molecule.
// Atom ordering is fixed by iterative neighborhood refinement, so isomorphic
// relabelings of the same graph render identically. With kekulize set, the
// molecule is kekulized on a copy first.
func (n *Native) CanonicalSMILES(m *types.Mol, kekulize bool) (string, error) {
	work := m.Clone()
	if kekulize {
		if err := n.Kekulize(work); err != nil {
			return "", err
		}
	}
	if len(work.Atoms) == 0 {
		return "", nil
	}

	ranks := refineRanks(work)
	return writeSMILES(work, ranks), nil
}

// MatchSubstructure maps the pattern onto the target by backtracking search
// over symbol-compatible atom pairs with bond-order agreement. Wildcard
// pattern atoms match any target atom. Returns the matched target indexes in
// pattern-atom order.
func (n *Native) MatchSubstructure(pattern, target *types.Mol) ([]int, bool) {
	if len(pattern.Atoms) > len(target.Atoms) {
		return nil, false
	}
	mapping := make([]int, len(pattern.Atoms))
	for i := range mapping {
		mapping[i] = -1
	}
	used := make([]bool, len(target.Atoms))

	var match func(pi int) bool
	match = func(pi int) bool {
		if pi == len(pattern.Atoms) {
			return true
		}
		pa := pattern.Atoms[pi]
		for ti, ta := range target.Atoms {
			if used[ti] {
				continue
			}
			if !pa.IsWildcard() && pa.Symbol != ta.Symbol {
				continue
			}
			if !bondsCompatible(pattern, target, mapping, pi, ti) {
				continue
			}
			mapping[pi] = ti
			used[ti] = true
			if match(pi + 1) {
				return true
			}
			mapping[pi] = -1
			used[ti] = false
		}
		return false
	}
	if !match(0) {
		return nil, false
	}
	return mapping, true
}

// bondsCompatible checks that every pattern bond between pi and an already
// mapped pattern atom exists in the target with the same order (any order
// when a wildcard is involved).
func bondsCompatible(pattern, target *types.Mol, mapping []int, pi, ti int) bool {
	for _, pb := range pattern.Bonds {
		var other int
		switch {
		case pb.Begin == pi:
			other = pb.End
		case pb.End == pi:
			other = pb.Begin
		default:
			continue
		}
		to := mapping[other]
		if to < 0 {
			continue
		}
		tb, ok := bondBetween(target, ti, to)
		if !ok {
			return false
		}
		wild := pattern.Atoms[pb.Begin].IsWildcard() || pattern.Atoms[pb.End].IsWildcard()
		if !wild && tb.Order != pb.Order {
			return false
		}
	}
	return true
}

func bondBetween(m *types.Mol, a, b int) (types.Bond, bool) {
	for _, bd := range m.Bonds {
		if (bd.Begin == a && bd.End == b) || (bd.Begin == b && bd.End == a) {
			return bd, true
		}
	}
	return types.Bond{}, false
}

// refineRanks assigns each atom a rank by iterative refinement: start from
// (symbol, hydrogens, degree) classes and repeatedly split classes on the
// sorted ranks of neighbors until stable.
func refineRanks(m *types.Mol) []int {
	keys := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		keys[i] = fmt.Sprintf("%s|%d|%d", a.Symbol, a.Hydrogens, len(m.Neighbors(i)))
	}
	ranks := ranksFromKeys(keys)

	for round := 0; round < len(m.Atoms); round++ {
		for i := range m.Atoms {
			nbr := m.Neighbors(i)
			parts := make([]string, len(nbr))
			for j, nb := range nbr {
				parts[j] = fmt.Sprint(ranks[nb])
			}
			sort.Strings(parts)
			keys[i] = fmt.Sprintf("%d|%s", ranks[i], strings.Join(parts, ","))
		}
		next := ranksFromKeys(keys)
		if equalInts(next, ranks) {
			break
		}
		ranks = next
	}
	return ranks
}

func ranksFromKeys(keys []string) []int {
	uniq := append([]string(nil), keys...)
	sort.Strings(uniq)
	uniq = dedupStrings(uniq)
	pos := make(map[string]int, len(uniq))
	for i, k := range uniq {
		pos[k] = i
	}
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = pos[k]
	}
	return out
}

func dedupStrings(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// writeSMILES renders the molecule by depth-first traversal from the
// lowest-ranked atom of each connected component, branches ordered by rank,
// ring closures numbered in discovery order. A first pass classifies bonds
// into tree and ring bonds so closure digits can be emitted at both ends.
func writeSMILES(m *types.Mol, ranks []int) string {
	order := make([]int, len(m.Atoms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return ranks[order[i]] < ranks[order[j]] })

	visited := make([]bool, len(m.Atoms))
	isRing := make([]bool, len(m.Bonds))
	isTree := make([]bool, len(m.Bonds))
	ringTags := make(map[int][]string)
	nextClosure := 1

	var classify func(at int)
	classify = func(at int) {
		visited[at] = true
		for _, step := range neighborsByRank(m, ranks, at) {
			if isRing[step.bond] || isTree[step.bond] {
				continue
			}
			if visited[step.atom] {
				// Back edge: a ring closure numbered at both ends, with the
				// bond token carried on the closing end only.
				isRing[step.bond] = true
				digit := fmt.Sprint(nextClosure)
				nextClosure++
				ringTags[step.atom] = append(ringTags[step.atom], digit)
				ringTags[at] = append(ringTags[at], bondToken(m.Bonds[step.bond].Order)+digit)
				continue
			}
			isTree[step.bond] = true
			classify(step.atom)
		}
	}
	for _, start := range order {
		if !visited[start] {
			classify(start)
		}
	}

	for i := range visited {
		visited[i] = false
	}
	var walk func(at int) string
	walk = func(at int) string {
		visited[at] = true
		var sb strings.Builder
		sb.WriteString(atomToken(m.Atoms[at]))
		for _, tag := range ringTags[at] {
			sb.WriteString(tag)
		}

		var branches []string
		for _, step := range neighborsByRank(m, ranks, at) {
			if !isTree[step.bond] || visited[step.atom] {
				continue
			}
			branches = append(branches, bondToken(m.Bonds[step.bond].Order)+walk(step.atom))
		}
		for i, br := range branches {
			if i < len(branches)-1 {
				sb.WriteString("(" + br + ")")
			} else {
				sb.WriteString(br)
			}
		}
		return sb.String()
	}

	var parts []string
	for _, start := range order {
		if !visited[start] {
			parts = append(parts, walk(start))
		}
	}
	return strings.Join(parts, ".")
}

type dfsStep struct {
	atom int
	bond int
}

func neighborsByRank(m *types.Mol, ranks []int, at int) []dfsStep {
	var out []dfsStep
	for bi, b := range m.Bonds {
		if b.Begin == at {
			out = append(out, dfsStep{atom: b.End, bond: bi})
		} else if b.End == at {
			out = append(out, dfsStep{atom: b.Begin, bond: bi})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return ranks[out[i].atom] < ranks[out[j].atom] })
	return out
}

func atomToken(a types.Atom) string {
	if a.IsWildcard() {
		return "*"
	}
	if a.Hydrogens > 0 && a.Symbol != types.ElemC {
		// Explicit hydrogen count for heteroatoms keeps the rendering
		// unambiguous without a valence model.
		if a.Hydrogens == 1 {
			return "[" + a.Symbol + "H]"
		}
		return fmt.Sprintf("[%sH%d]", a.Symbol, a.Hydrogens)
	}
	return a.Symbol
}

func bondToken(order float64) string {
	switch order {
	case types.BondDouble:
		return "="
	case types.BondTriple:
		return "#"
	case types.BondAromatic:
		return ":"
	default:
		return ""
	}
}
