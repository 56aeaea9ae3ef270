// Config loading for the fragstore CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDataDir     = "data_dir"
	cfgKeyArtifactDir = "artifact_dir"
	cfgKeyGengPath    = "geng_path"
	cfgKeyMatcherPath = "matcher_path"
	cfgKeyTimeout     = "process_timeout"
	cfgKeyBatchSize   = "mapping_batch_size"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Fragstore CLI configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Prefix-tree artifact directory (default: <data_dir>/trees)
# artifact_dir:

# External tool executables for the catalog builder
geng_path: geng
matcher_path: ri

# Per-invocation external tool timeout; 0 means no timeout
process_timeout: 0

# Streaming-merge window for the catalog builder
mapping_batch_size: 20000
`

// loadedConfig is the viper handle for the current invocation, set by
// loadConfig.
var loadedConfig *viper.Viper

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run; a missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyGengPath, "geng")
	v.SetDefault(cfgKeyMatcherPath, "ri")
	v.SetDefault(cfgKeyBatchSize, types.DefaultMappingBatchSize)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			loadedConfig = v
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	loadedConfig = v
	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// buildConfig assembles the validated runtime config for the resolved data
// directory.
func buildConfig(dataDir string) (types.Config, error) {
	cfg := types.Config{
		DataDir:          dataDir,
		ArtifactDir:      loadedConfig.GetString(cfgKeyArtifactDir),
		GengPath:         loadedConfig.GetString(cfgKeyGengPath),
		MatcherPath:      loadedConfig.GetString(cfgKeyMatcherPath),
		ProcessTimeout:   time.Duration(loadedConfig.GetInt64(cfgKeyTimeout)) * time.Second,
		MappingBatchSize: loadedConfig.GetInt(cfgKeyBatchSize),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
