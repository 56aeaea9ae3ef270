package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// artifactPath returns the on-disk location of a catalog artifact. One file
// per subgraph_id, named after the id so catalog rows and artifacts stay in
// one-to-one correspondence.
func (s *Store) artifactPath(id int64) string {
	return filepath.Join(s.artifactDir, fmt.Sprintf("%d.json", id))
}

// WriteArtifact atomically persists the serialized mapping trees for a
// catalog entry using the temp-file, fsync, rename pattern, so a crash
// mid-write never leaves a truncated artifact behind.
func (s *Store) WriteArtifact(id int64, data []byte) error {
	if s.db == nil {
		return types.ErrClosed
	}
	tmp, err := os.CreateTemp(s.artifactDir, ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing artifact %d: %w", id, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.artifactPath(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ReadArtifact loads the serialized mapping trees for a catalog entry.
// Returns types.ErrNotFound when no artifact exists for the id.
func (s *Store) ReadArtifact(id int64) ([]byte, error) {
	if s.db == nil {
		return nil, types.ErrClosed
	}
	data, err := os.ReadFile(s.artifactPath(id))
	if os.IsNotExist(err) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading artifact %d: %w", id, err)
	}
	return data, nil
}
