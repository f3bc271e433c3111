package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/gitlet/pkg/object"
)

const (
	// BackendFiles stores one file per object under commits/ and blobs/.
	BackendFiles = "files"
	// BackendBolt stores objects in a single BoltDB file.
	BackendBolt = "bolt"

	defaultAbbrevLength = 5
	maxAbbrevLength     = object.HashLen
)

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
	Log  LogConfig  `toml:"log"`
}

// CoreConfig selects how objects are stored and indexed.
type CoreConfig struct {
	Backend      string `toml:"backend"`
	Compression  string `toml:"compression"`
	AbbrevLength int    `toml:"abbrev_length"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration written by Init.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Backend:      BackendFiles,
			Compression:  string(object.CompressionNone),
			AbbrevLength: defaultAbbrevLength,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the configured values and fills defaults for unset keys.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Core.Backend == "" {
		c.Core.Backend = def.Core.Backend
	}
	if c.Core.Compression == "" {
		c.Core.Compression = def.Core.Compression
	}
	if c.Core.AbbrevLength == 0 {
		c.Core.AbbrevLength = def.Core.AbbrevLength
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	switch c.Core.Backend {
	case BackendFiles, BackendBolt:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Core.Backend)
	}
	if _, err := object.ParseCompression(c.Core.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Core.AbbrevLength < 1 || c.Core.AbbrevLength > maxAbbrevLength {
		return fmt.Errorf("config: abbrev_length %d out of range [1, %d]", c.Core.AbbrevLength, maxAbbrevLength)
	}
	return nil
}

func configPath(controlDir string) string {
	return filepath.Join(controlDir, "config.toml")
}

// ReadConfig reads <control>/config.toml. Missing config returns defaults.
func ReadConfig(controlDir string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configPath(controlDir), cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes <control>/config.toml.
func WriteConfig(controlDir string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	tmp, err := os.CreateTemp(controlDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, configPath(controlDir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// openStore builds the object store selected by cfg.
func openStore(controlDir string, cfg *Config) (object.Store, error) {
	comp, err := object.ParseCompression(cfg.Core.Compression)
	if err != nil {
		return nil, err
	}
	switch cfg.Core.Backend {
	case BackendBolt:
		return object.OpenBoltStore(filepath.Join(controlDir, "objects.db"), object.WithCompression(comp))
	default:
		return object.NewFileStore(controlDir, object.WithCompression(comp)), nil
	}
}
