package store

import (
	"fmt"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// InsertSubstructureIfAbsent inserts a substructure record, silently
// skipping duplicates of the canonical SMILES key. The five mass tier
// columns are computed here from the full-precision mass so that tier
// values in the index are always consistent with it.
func (s *Store) InsertSubstructureIfAbsent(sub *types.Substructure) error {
	if s.db == nil {
		return types.ErrClosed
	}
	_, err := s.h().Exec(
		`INSERT OR IGNORE INTO substructures
		    (smiles, heavy_atoms, length,
		     exact_mass__1, exact_mass__0_1, exact_mass__0_01, exact_mass__0_001, exact_mass__0_0001,
		     exact_mass, c, h, n, o, p, s, valence, valence_atoms, atoms_available, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.SMILES, sub.HeavyAtoms, sub.Length,
		sub.TierMass(types.TierWhole),
		sub.TierMass(types.TierTenth),
		sub.TierMass(types.TierHundredth),
		sub.TierMass(types.TierThousandth),
		sub.TierMass(types.TierTenThousandth),
		sub.ExactMass,
		sub.Elements.C, sub.Elements.H, sub.Elements.N, sub.Elements.O, sub.Elements.P, sub.Elements.S,
		sub.Valence, sub.ValenceAtoms, sub.AtomsAvailable, sub.Payload,
	)
	if err != nil {
		return fmt.Errorf("inserting substructure %s: %w", sub.SMILES, err)
	}
	return nil
}

// InsertCompoundSubstructureLink records that the compound decomposes to
// include the substructure. Duplicate pairs are silently skipped.
func (s *Store) InsertCompoundSubstructureLink(compoundID, smiles string) error {
	if s.db == nil {
		return types.ErrClosed
	}
	_, err := s.h().Exec(
		"INSERT OR IGNORE INTO compound_substructures (compound_id, smiles) VALUES (?, ?)",
		compoundID, smiles,
	)
	if err != nil {
		return fmt.Errorf("inserting link %s -> %s: %w", compoundID, smiles, err)
	}
	return nil
}

// SelectSubstructure returns the stored record for the given canonical
// SMILES, or types.ErrNotFound.
func (s *Store) SelectSubstructure(smiles string) (*types.Substructure, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	row := s.h().QueryRow(
		`SELECT smiles, heavy_atoms, length, exact_mass, c, h, n, o, p, s,
		        valence, valence_atoms, atoms_available, payload
		 FROM substructures WHERE smiles = ?`, smiles)

	var sub types.Substructure
	err := row.Scan(
		&sub.SMILES, &sub.HeavyAtoms, &sub.Length, &sub.ExactMass,
		&sub.Elements.C, &sub.Elements.H, &sub.Elements.N, &sub.Elements.O, &sub.Elements.P, &sub.Elements.S,
		&sub.Valence, &sub.ValenceAtoms, &sub.AtomsAvailable, &sub.Payload,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("selecting substructure %s: %w", smiles, err)
	}
	return &sub, nil
}

// SubstructuresOf returns the canonical SMILES keys linked to the given
// compound, in ascending order.
func (s *Store) SubstructuresOf(compoundID string) ([]string, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	rows, err := s.h().Query(
		"SELECT smiles FROM compound_substructures WHERE compound_id = ? ORDER BY smiles",
		compoundID,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting substructures of %s: %w", compoundID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var smiles string
		if err := rows.Scan(&smiles); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		out = append(out, smiles)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return out, nil
}

// SelectSubstructures returns the records satisfying the size bounds,
// ordered by canonical SMILES. The bounds carve out the working subset used
// when a full-library assembly would be intractable.
func (s *Store) SelectSubstructures(maxHeavy, maxValence, maxAtomsAvailable int) ([]*types.Substructure, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	rows, err := s.h().Query(
		`SELECT smiles, heavy_atoms, length, exact_mass, c, h, n, o, p, s,
		        valence, valence_atoms, atoms_available, payload
		 FROM substructures
		 WHERE heavy_atoms <= ? AND valence <= ? AND atoms_available <= ?
		 ORDER BY smiles`,
		maxHeavy, maxValence, maxAtomsAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting substructures: %w", err)
	}
	defer rows.Close()

	var out []*types.Substructure
	for rows.Next() {
		var sub types.Substructure
		if err := rows.Scan(
			&sub.SMILES, &sub.HeavyAtoms, &sub.Length, &sub.ExactMass,
			&sub.Elements.C, &sub.Elements.H, &sub.Elements.N, &sub.Elements.O, &sub.Elements.P, &sub.Elements.S,
			&sub.Valence, &sub.ValenceAtoms, &sub.AtomsAvailable, &sub.Payload,
		); err != nil {
			return nil, fmt.Errorf("scanning substructure: %w", err)
		}
		out = append(out, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating substructures: %w", err)
	}
	return out, nil
}

// FilterSubstructureOccurrence returns, for every substructure occurring in
// at least minCount distinct compounds, its canonical SMILES and the
// distinct-compound count. This is the co-occurrence threshold filter used
// by the network builder.
func (s *Store) FilterSubstructureOccurrence(minCount int) (map[string]int, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	rows, err := s.h().Query(
		`SELECT smiles, COUNT(DISTINCT compound_id) AS cnt
		 FROM compound_substructures
		 GROUP BY smiles
		 HAVING COUNT(DISTINCT compound_id) >= ?`, minCount)
	if err != nil {
		return nil, fmt.Errorf("filtering substructure occurrence: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var smiles string
		var cnt int
		if err := rows.Scan(&smiles, &cnt); err != nil {
			return nil, fmt.Errorf("scanning occurrence row: %w", err)
		}
		out[smiles] = cnt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating occurrence rows: %w", err)
	}
	return out, nil
}
