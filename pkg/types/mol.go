package types

// Bond orders as doubles, matching the toolkit's convention.
const (
	BondSingle   = 1.0
	BondAromatic = 1.5
	BondDouble   = 2.0
	BondTriple   = 3.0
)

// Atom is a single atom in a molecular graph. Hydrogens holds the implicit
// hydrogen count; hydrogens are not materialized as graph vertices.
type Atom struct {
	Symbol    string `json:"symbol"`
	Hydrogens int    `json:"hydrogens"`
	Aromatic  bool   `json:"aromatic,omitempty"`
}

// IsWildcard reports whether the atom is a cut-point capping atom.
func (a Atom) IsWildcard() bool { return a.Symbol == Wildcard }

// Bond is an edge between two atoms, identified by their indexes in the
// owning Mol. Order uses the BondSingle..BondTriple constants.
type Bond struct {
	Begin int     `json:"begin"`
	End   int     `json:"end"`
	Order float64 `json:"order"`
}

// Other returns the bond endpoint that is not the given atom index.
func (b Bond) Other(idx int) int {
	if b.Begin == idx {
		return b.End
	}
	return b.Begin
}

// Mol is a minimal molecular graph value type. Atom and bond indexes are
// positional; edits that remove atoms renumber the survivors, so callers
// must not hold indexes across Remove operations.
type Mol struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
}

// Clone returns a deep copy of the molecule.
func (m *Mol) Clone() *Mol {
	c := &Mol{
		Atoms: make([]Atom, len(m.Atoms)),
		Bonds: make([]Bond, len(m.Bonds)),
	}
	copy(c.Atoms, m.Atoms)
	copy(c.Bonds, m.Bonds)
	return c
}

// Neighbors returns the indexes of atoms bonded to the given atom, in bond
// order.
func (m *Mol) Neighbors(idx int) []int {
	var out []int
	for _, b := range m.Bonds {
		if b.Begin == idx {
			out = append(out, b.End)
		} else if b.End == idx {
			out = append(out, b.Begin)
		}
	}
	return out
}

// BondsOf returns the indexes of bonds incident to the given atom.
func (m *Mol) BondsOf(idx int) []int {
	var out []int
	for i, b := range m.Bonds {
		if b.Begin == idx || b.End == idx {
			out = append(out, i)
		}
	}
	return out
}

// HeavyAtoms returns the number of non-hydrogen, non-wildcard atoms.
func (m *Mol) HeavyAtoms() int {
	n := 0
	for _, a := range m.Atoms {
		if !a.IsWildcard() && a.Symbol != ElemH {
			n++
		}
	}
	return n
}

// Wildcards returns the indexes of wildcard capping atoms in ascending order.
func (m *Mol) Wildcards() []int {
	var out []int
	for i, a := range m.Atoms {
		if a.IsWildcard() {
			out = append(out, i)
		}
	}
	return out
}

// Elements returns the per-element counts of the molecule, including implicit
// hydrogens. Wildcard atoms are not counted.
func (m *Mol) Elements() ElementCounts {
	var e ElementCounts
	for _, a := range m.Atoms {
		if a.IsWildcard() {
			continue
		}
		e.Add(a.Symbol, 1)
		e.Add(ElemH, a.Hydrogens)
	}
	return e
}

// ExactMass returns the monoisotopic mass of the molecule including implicit
// hydrogens. Wildcard atoms contribute nothing.
func (m *Mol) ExactMass() float64 {
	return m.Elements().ExactMass()
}

// Remove returns a new molecule with the atoms at the given indexes deleted,
// along with all their bonds. Surviving atoms are renumbered to be dense;
// the relative order of survivors is preserved. The returned map translates
// old atom indexes to new ones.
func (m *Mol) Remove(idxs map[int]bool) (*Mol, map[int]int) {
	remap := make(map[int]int, len(m.Atoms))
	out := &Mol{}
	for i, a := range m.Atoms {
		if idxs[i] {
			continue
		}
		remap[i] = len(out.Atoms)
		out.Atoms = append(out.Atoms, a)
	}
	for _, b := range m.Bonds {
		nb, okB := remap[b.Begin]
		ne, okE := remap[b.End]
		if !okB || !okE {
			continue
		}
		out.Bonds = append(out.Bonds, Bond{Begin: nb, End: ne, Order: b.Order})
	}
	return out, remap
}
