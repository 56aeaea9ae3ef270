package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Fragment is the extracted substructure payload: the capped fragment
// molecule together with its open-attachment bookkeeping. It is serialized
// as an opaque blob into the substructures table and deserialized at
// assembly time.
type Fragment struct {
	// SMILES is the canonical kekulized form; it doubles as the store key.
	SMILES string `json:"smiles"`
	// Mol is the capped fragment, wildcards included.
	Mol *Mol `json:"mol"`
	// BondTypes maps each open-attachment atom index to the bond orders of
	// its wildcard bonds.
	BondTypes map[int][]float64 `json:"bond_types"`
	// DegreeAtoms maps each open-attachment atom index to its open-valence
	// count (one per wildcard bond).
	DegreeAtoms map[int]int `json:"degree_atoms"`
	// Valence is the sum of all open-valence counts.
	Valence int `json:"valence"`
	// AtomsAvailable is the number of distinct open-attachment atoms.
	AtomsAvailable int `json:"atoms_available"`
	// Dummies lists the wildcard atom indexes in ascending order.
	Dummies []int `json:"dummies"`
}

// Encode serializes the fragment payload for storage.
func (f *Fragment) Encode() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding fragment %s: %w", f.SMILES, err)
	}
	return data, nil
}

// DecodeFragment deserializes a fragment payload previously produced by
// Encode.
func DecodeFragment(data []byte) (*Fragment, error) {
	var f Fragment
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding fragment: %w", err)
	}
	return &f, nil
}

// Substructure is one row of the substructure library. The canonical
// kekulized SMILES is the primary key; duplicate inserts are silently
// skipped. Mass tier values are not stored on the record because they are
// deterministic functions of ExactMass; the store computes them on insert.
type Substructure struct {
	SMILES         string        // canonical kekulized SMILES, primary key
	HeavyAtoms     int           // non-hydrogen, non-wildcard atom count
	Length         int           // all atoms including hydrogens, excluding wildcards
	ExactMass      float64       // full-precision monoisotopic mass
	Elements       ElementCounts // per-element counts
	Valence        int           // sum of open-bond degrees at capping points
	ValenceAtoms   string        // serialized open-attachment degree map
	AtomsAvailable int           // distinct open attachment points
	Payload        []byte        // serialized Fragment
}

// TierMass returns the substructure mass rounded to the given tier.
func (s *Substructure) TierMass(t PrecisionTier) float64 {
	return t.Round(s.ExactMass)
}

// NewSubstructure builds a library record from an extracted fragment.
func NewSubstructure(f *Fragment) (*Substructure, error) {
	payload, err := f.Encode()
	if err != nil {
		return nil, err
	}
	els := f.Mol.Elements()
	return &Substructure{
		SMILES:         f.SMILES,
		HeavyAtoms:     els.HeavyAtoms(),
		Length:         els.Length(),
		ExactMass:      f.Mol.ExactMass(),
		Elements:       els,
		Valence:        f.Valence,
		ValenceAtoms:   EncodeDegreeMap(f.DegreeAtoms),
		AtomsAvailable: f.AtomsAvailable,
		Payload:        payload,
	}, nil
}

// EncodeDegreeMap serializes an open-attachment degree map into the
// deterministic textual form used by the valence_atoms column and its
// indexes, e.g. "{1:2, 4:1}". Keys are ordered ascending.
func EncodeDegreeMap(degrees map[int]int) string {
	keys := make([]int, 0, len(degrees))
	for k := range degrees {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d:%d", k, degrees[k])
	}
	sb.WriteByte('}')
	return sb.String()
}
