// Package fragment turns bond subsets of a parent molecule into canonical,
// valence-annotated substructure payloads. See docs/ARCHITECTURE.md
// § Fragment Extraction.
package fragment

import (
	"go.uber.org/zap"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// Extractor produces substructure payloads from parent molecules. The
// toolkit supplies kekulization and canonicalization; the extractor never
// edits aromatic systems itself.
type Extractor struct {
	tk  types.Toolkit
	log *zap.Logger
}

// NewExtractor returns an extractor backed by the given toolkit.
func NewExtractor(tk types.Toolkit, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{tk: tk, log: log}
}

// Extract cuts the edge-induced subgraph of parent defined by bondIDs out of
// the parent, caps every severed bond with a wildcard atom, and returns the
// canonical fragment payload. Atoms cut away are replaced with wildcards
// rather than deleted outright so valence accounting at each cut point
// survives the edit.
//
// A kekulization failure on the capped fragment returns (nil, nil): the
// bond subset straddles an aromatic system that cannot be resolved in
// isolation, which is frequent and not an error. Callers skip and continue.
func (e *Extractor) Extract(parent *types.Mol, bondIDs []int) (*types.Fragment, error) {
	selected := make(map[int]bool)
	for _, bi := range bondIDs {
		b := parent.Bonds[bi]
		selected[b.Begin] = true
		selected[b.End] = true
	}

	// Boundary atoms: outside the selection but bonded into it. Each becomes
	// a wildcard cap, keeping the severed bond and its order in place.
	work := parent.Clone()
	boundary := make(map[int]bool)
	for idx := range selected {
		for _, n := range parent.Neighbors(idx) {
			if !selected[n] {
				boundary[n] = true
			}
		}
	}
	for idx := range boundary {
		work.Atoms[idx] = types.Atom{Symbol: types.Wildcard}
	}

	// Drop everything that is neither selected nor a cap, along with bonds
	// between two caps (those carried no selected atom).
	drop := make(map[int]bool)
	for i := range work.Atoms {
		if !selected[i] && !boundary[i] {
			drop[i] = true
		}
	}
	frag, _ := work.Remove(drop)
	frag.Bonds = pruneCapCapBonds(frag)

	bondTypes := make(map[int][]float64)
	degreeAtoms := make(map[int]int)
	for _, b := range frag.Bonds {
		for _, end := range []int{b.Begin, b.End} {
			other := b.Other(end)
			if frag.Atoms[end].IsWildcard() || !frag.Atoms[other].IsWildcard() {
				continue
			}
			bondTypes[end] = append(bondTypes[end], b.Order)
			degreeAtoms[end]++
		}
	}

	if err := e.tk.Kekulize(frag); err != nil {
		e.log.Debug("discarding fragment: kekulization failed",
			zap.Int("bonds", len(bondIDs)), zap.Error(err))
		return nil, nil
	}
	smiles, err := e.tk.CanonicalSMILES(frag, true)
	if err != nil {
		return nil, err
	}

	valence := 0
	for _, d := range degreeAtoms {
		valence += d
	}
	return &types.Fragment{
		SMILES:         smiles,
		Mol:            frag,
		BondTypes:      bondTypes,
		DegreeAtoms:    degreeAtoms,
		Valence:        valence,
		AtomsAvailable: len(degreeAtoms),
		Dummies:        frag.Wildcards(),
	}, nil
}

// SubstructureBondIndexes matches pattern against parent and returns the
// indexes of parent bonds whose both endpoints lie in the matched atom set,
// or false when the pattern does not embed. The result feeds Extract when a
// population source supplies substructures as patterns instead of bond
// subsets.
func (e *Extractor) SubstructureBondIndexes(pattern, parent *types.Mol) ([]int, bool) {
	matched, ok := e.tk.MatchSubstructure(pattern, parent)
	if !ok {
		return nil, false
	}
	in := make(map[int]bool, len(matched))
	for _, idx := range matched {
		in[idx] = true
	}
	var out []int
	for i, b := range parent.Bonds {
		if in[b.Begin] && in[b.End] {
			out = append(out, i)
		}
	}
	return out, true
}

// pruneCapCapBonds removes bonds joining two wildcard caps. They arise when
// two boundary atoms were bonded to each other and carry no information
// about the fragment.
func pruneCapCapBonds(m *types.Mol) []types.Bond {
	out := m.Bonds[:0]
	for _, b := range m.Bonds {
		if m.Atoms[b.Begin].IsWildcard() && m.Atoms[b.End].IsWildcard() {
			continue
		}
		out = append(out, b)
	}
	return out
}
