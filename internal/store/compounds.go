package store

import (
	"fmt"
	"strings"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// InsertCompound inserts a compound record. Duplicate identifiers are
// silently skipped; compounds are immutable once ingested.
func (s *Store) InsertCompound(c *types.Compound) error {
	if s.db == nil {
		return types.ErrClosed
	}
	_, err := s.h().Exec(
		`INSERT OR IGNORE INTO compounds
		    (compound_id, exact_mass, formula, c, h, n, o, p, s, smiles, smiles_canonical, smiles_kekule)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ExactMass, c.Formula,
		c.Elements.C, c.Elements.H, c.Elements.N, c.Elements.O, c.Elements.P, c.Elements.S,
		c.SMILES, c.CanonicalSMILES, c.KekuleSMILES,
	)
	if err != nil {
		return fmt.Errorf("inserting compound %s: %w", c.ID, err)
	}
	return nil
}

// SelectCompounds returns all compound rows, optionally filtered to the
// given identifier set. Results are ordered by identifier.
func (s *Store) SelectCompounds(ids []string) ([]*types.Compound, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}

	query := `SELECT DISTINCT compound_id, exact_mass, formula, c, h, n, o, p, s,
	                 smiles, smiles_canonical, smiles_kekule
	          FROM compounds`
	var args []any
	if len(ids) > 0 {
		query += " WHERE compound_id IN (" + placeholders(len(ids)) + ")"
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += " ORDER BY compound_id"

	rows, err := s.h().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting compounds: %w", err)
	}
	defer rows.Close()

	var out []*types.Compound
	for rows.Next() {
		var c types.Compound
		if err := rows.Scan(
			&c.ID, &c.ExactMass, &c.Formula,
			&c.Elements.C, &c.Elements.H, &c.Elements.N, &c.Elements.O, &c.Elements.P, &c.Elements.S,
			&c.SMILES, &c.CanonicalSMILES, &c.KekuleSMILES,
		); err != nil {
			return nil, fmt.Errorf("scanning compound: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating compounds: %w", err)
	}
	return out, nil
}

// CompoundIDs returns all distinct compound identifiers in ascending order.
func (s *Store) CompoundIDs() ([]string, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	rows, err := s.h().Query("SELECT DISTINCT compound_id FROM compounds ORDER BY compound_id")
	if err != nil {
		return nil, fmt.Errorf("selecting compound ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning compound id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating compound ids: %w", err)
	}
	return out, nil
}

// placeholders returns n comma-joined "?" markers for an IN clause.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
