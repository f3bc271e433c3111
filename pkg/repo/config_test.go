package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadConfigMissingReturnsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	def := DefaultConfig()
	if *cfg != *def {
		t.Errorf("ReadConfig = %+v, want %+v", cfg, def)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.Backend = BackendBolt
	cfg.Core.Compression = "zstd"
	cfg.Core.AbbrevLength = 8
	cfg.Log.Level = "debug"

	if err := WriteConfig(dir, cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	got, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if *got != *cfg {
		t.Errorf("ReadConfig = %+v, want %+v", got, cfg)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("read config.toml: %v", err)
	}
	if !strings.Contains(string(raw), "[core]") || !strings.Contains(string(raw), `backend = "bolt"`) {
		t.Errorf("config.toml = %s", raw)
	}
}

func TestReadConfigPartialFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	body := "[core]\ncompression = \"zstd\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Core.Compression != "zstd" || cfg.Core.Backend != BackendFiles || cfg.Core.AbbrevLength != defaultAbbrevLength {
		t.Errorf("ReadConfig = %+v", cfg)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Core.Backend = "sqlite" }},
		{"compression", func(c *Config) { c.Core.Compression = "lz4" }},
		{"abbrev too long", func(c *Config) { c.Core.AbbrevLength = 41 }},
		{"abbrev negative", func(c *Config) { c.Core.AbbrevLength = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted %+v", cfg)
			}
		})
	}
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[core\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadConfig(dir); err == nil {
		t.Fatal("ReadConfig accepted malformed TOML")
	}
}
