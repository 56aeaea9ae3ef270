package types

import (
	"errors"
	"time"
)

// Config holds the paths and tuning parameters for a fragstore instance.
type Config struct {
	// DataDir is the directory holding the SQLite database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// ArtifactDir is the directory holding prefix-tree artifacts, one file
	// per catalog signature id. Defaults to <DataDir>/trees.
	ArtifactDir string `json:"artifact_dir" yaml:"artifact_dir"`
	// GengPath is the external graph-generator executable.
	GengPath string `json:"geng_path" yaml:"geng_path"`
	// MatcherPath is the external subgraph-isomorphism executable.
	MatcherPath string `json:"matcher_path" yaml:"matcher_path"`
	// ProcessTimeout bounds each external-process invocation. Zero means no
	// timeout, matching the historical behavior.
	ProcessTimeout time.Duration `json:"process_timeout" yaml:"process_timeout"`
	// MappingBatchSize is the streaming-merge window for the catalog
	// builder. Defaults to 20000.
	MappingBatchSize int `json:"mapping_batch_size" yaml:"mapping_batch_size"`
}

// DefaultMappingBatchSize is the streaming-merge window used when the config
// does not override it.
const DefaultMappingBatchSize = 20000

// Config validation errors.
var (
	ErrDataDirEmpty     = errors.New("data_dir must not be empty")
	ErrBatchSizeInvalid = errors.New("mapping_batch_size must be positive")
	ErrTimeoutNegative  = errors.New("process_timeout must not be negative")
)

// Validate checks that the config is well-formed and returns a sentinel
// error on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.MappingBatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if c.ProcessTimeout < 0 {
		return ErrTimeoutNegative
	}
	return nil
}

// BatchSize returns the effective streaming-merge window.
func (c Config) BatchSize() int {
	if c.MappingBatchSize == 0 {
		return DefaultMappingBatchSize
	}
	return c.MappingBatchSize
}
