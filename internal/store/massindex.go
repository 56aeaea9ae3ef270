package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// SelectMassValues returns the sorted, deduplicated mass values at the
// requested precision tier for substructures whose valence does not exceed
// maxValence and whose heavy-atom count is in heavyAtoms. When massFilter is
// non-empty the result is additionally restricted to substructures whose
// whole-mass tier value appears in it; callers use this to intersect
// precursor-derived candidate masses with what the library actually holds.
func (s *Store) SelectMassValues(tier types.PrecisionTier, heavyAtoms []int, maxValence int, massFilter []float64) ([]float64, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	if len(heavyAtoms) == 0 {
		return nil, nil
	}

	query := "SELECT DISTINCT " + tier.Column() + " FROM substructures" +
		" WHERE valence <= ? AND heavy_atoms IN (" + placeholders(len(heavyAtoms)) + ")"
	args := []any{maxValence}
	for _, h := range heavyAtoms {
		args = append(args, h)
	}
	if len(massFilter) > 0 {
		query += " AND " + types.TierWhole.Column() + " IN (" + placeholders(len(massFilter)) + ")"
		for _, m := range massFilter {
			args = append(args, m)
		}
	}

	rows, err := s.h().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting mass values: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scanning mass value: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mass values: %w", err)
	}
	sort.Float64s(out)
	return out, nil
}

// SelectElementCompositions returns the distinct element-count tuples of
// substructures whose heavy-atom count is in heavyAtoms and whose tier mass
// matches exactMass. Without a tolerance the comparison is tier-rounded
// equality; with one the tier value must fall strictly inside the symmetric
// window exactMass ± exactMass*ppm/1e6 (boundary values excluded).
func (s *Store) SelectElementCompositions(exactMass float64, heavyAtoms []int, tier types.PrecisionTier, ppm *float64) ([]types.ElementCounts, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	if len(heavyAtoms) == 0 {
		return nil, nil
	}

	query := "SELECT DISTINCT c, h, n, o, p, s FROM substructures" +
		" WHERE heavy_atoms IN (" + placeholders(len(heavyAtoms)) + ")"
	var args []any
	for _, h := range heavyAtoms {
		args = append(args, h)
	}
	if ppm == nil {
		query += " AND " + tier.Column() + " = ?"
		args = append(args, tier.Round(exactMass))
	} else {
		tolerance := exactMass / 1e6 * *ppm
		query += " AND " + tier.Column() + " < ? AND " + tier.Column() + " > ?"
		args = append(args, exactMass+tolerance, exactMass-tolerance)
	}

	rows, err := s.h().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting compositions: %w", err)
	}
	defer rows.Close()

	var out []types.ElementCounts
	for rows.Next() {
		var e types.ElementCounts
		if err := rows.Scan(&e.C, &e.H, &e.N, &e.O, &e.P, &e.S); err != nil {
			return nil, fmt.Errorf("scanning composition: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating compositions: %w", err)
	}
	return out, nil
}

// SelectSubstructuresByComposition returns, for each requested element-count
// tuple in input order, the deserialized fragment payloads matching it
// exactly. If any tuple has no match the whole call returns an empty result:
// a combinatorial assembly cannot proceed when one slot is unfillable.
func (s *Store) SelectSubstructuresByComposition(compositions []types.ElementCounts) ([][]*types.Fragment, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}

	out := make([][]*types.Fragment, 0, len(compositions))
	for _, comp := range compositions {
		rows, err := s.h().Query(
			`SELECT DISTINCT payload FROM substructures
			 WHERE c = ? AND h = ? AND n = ? AND o = ? AND p = ? AND s = ?`,
			comp.C, comp.H, comp.N, comp.O, comp.P, comp.S,
		)
		if err != nil {
			return nil, fmt.Errorf("selecting substructures by composition: %w", err)
		}

		var frags []*types.Fragment
		for rows.Next() {
			var payload []byte
			if err := rows.Scan(&payload); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning payload: %w", err)
			}
			frag, err := types.DecodeFragment(payload)
			if err != nil {
				rows.Close()
				return nil, err
			}
			frags = append(frags, frag)
		}
		closeErr := rows.Err()
		rows.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("iterating payloads: %w", closeErr)
		}

		if len(frags) == 0 {
			return [][]*types.Fragment{}, nil
		}
		out = append(out, frags)
	}
	return out, nil
}

// isNoRows reports whether the error is sql.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
