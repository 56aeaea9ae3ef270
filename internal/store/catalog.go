package store

import (
	"fmt"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// CatalogEntry is one signature class of the isomorphism catalog: a k-partite
// template shape together with the number of distinct skeleton-to-template
// mappings folded into it so far. The triple (Encoding, PartitionSizes,
// NodeValences) identifies the class; ID names the artifact file holding the
// merged mapping trees.
type CatalogEntry struct {
	ID                int64
	Mappings          int
	Encoding          string
	K                 int
	PartitionSizes    string
	PartitionValences string
	NodeValences      string
	Nodes             int
	Edges             int
}

// UpsertCatalogEntry inserts the entry or, when its signature triple already
// exists, replaces the stored row while keeping the original subgraph_id so
// the on-disk artifact name stays stable across merge passes.
func (s *Store) UpsertCatalogEntry(e *CatalogEntry) error {
	if s.db == nil {
		return types.ErrClosed
	}
	_, err := s.h().Exec(
		`INSERT INTO subgraphs
		   (subgraph_id, n_mappings, encoding, k, k_partite, k_valences, nodes_valences, n_nodes, n_edges)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (encoding, k_partite, nodes_valences) DO UPDATE SET
		   n_mappings = excluded.n_mappings`,
		e.ID, e.Mappings, e.Encoding, e.K, e.PartitionSizes, e.PartitionValences, e.NodeValences, e.Nodes, e.Edges,
	)
	if err != nil {
		return fmt.Errorf("upserting catalog entry %d: %w", e.ID, err)
	}
	return nil
}

// SelectCatalogEntry returns the stored entry for the signature triple, or
// types.ErrNotFound when no class with that signature has been cataloged.
func (s *Store) SelectCatalogEntry(encoding, partitionSizes, nodeValences string) (*CatalogEntry, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	row := s.h().QueryRow(
		`SELECT subgraph_id, n_mappings, encoding, k, k_partite, k_valences, nodes_valences, n_nodes, n_edges
		 FROM subgraphs WHERE encoding = ? AND k_partite = ? AND nodes_valences = ?`,
		encoding, partitionSizes, nodeValences,
	)
	var e CatalogEntry
	err := row.Scan(&e.ID, &e.Mappings, &e.Encoding, &e.K, &e.PartitionSizes, &e.PartitionValences, &e.NodeValences, &e.Nodes, &e.Edges)
	if isNoRows(err) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting catalog entry: %w", err)
	}
	return &e, nil
}

// SelectCatalogEntries returns every cataloged signature class ordered by id.
func (s *Store) SelectCatalogEntries() ([]*CatalogEntry, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	rows, err := s.h().Query(
		`SELECT subgraph_id, n_mappings, encoding, k, k_partite, k_valences, nodes_valences, n_nodes, n_edges
		 FROM subgraphs ORDER BY subgraph_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting catalog entries: %w", err)
	}
	defer rows.Close()

	var out []*CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.ID, &e.Mappings, &e.Encoding, &e.K, &e.PartitionSizes, &e.PartitionValences, &e.NodeValences, &e.Nodes, &e.Edges); err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog entries: %w", err)
	}
	return out, nil
}

// SignatureConfigs returns the node-valence signature to subgraph id map
// used for assembly-time artifact lookup. When the same signature appears
// under several skeleton encodings, the highest id wins; rows are scanned in
// id order so the result is deterministic.
func (s *Store) SignatureConfigs() (map[string]int64, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	rows, err := s.h().Query(`SELECT subgraph_id, nodes_valences FROM subgraphs ORDER BY subgraph_id`)
	if err != nil {
		return nil, fmt.Errorf("selecting signature configs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var sig string
		if err := rows.Scan(&id, &sig); err != nil {
			return nil, fmt.Errorf("scanning signature config: %w", err)
		}
		out[sig] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signature configs: %w", err)
	}
	return out, nil
}

// MaxSubgraphID returns the highest subgraph_id in use, or -1 for an empty
// catalog, so builders can continue numbering across runs.
func (s *Store) MaxSubgraphID() (int64, error) {
	if s.db == nil {
		return 0, types.ErrClosed
	}
	row := s.h().QueryRow(`SELECT COALESCE(MAX(subgraph_id), -1) FROM subgraphs`)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("selecting max subgraph id: %w", err)
	}
	return id, nil
}
