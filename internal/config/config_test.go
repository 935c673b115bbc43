package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Learn.Symbols != 10000 {
		t.Errorf("Symbols = %d, want 10000", cfg.Learn.Symbols)
	}
	if cfg.Learn.MinFrequency != 2 {
		t.Errorf("MinFrequency = %d, want 2", cfg.Learn.MinFrequency)
	}
	if cfg.Learn.Mode != "char" {
		t.Errorf("Mode = %q, want char", cfg.Learn.Mode)
	}
	if cfg.Learn.Delimiter != "==" {
		t.Errorf("Delimiter = %q, want ==", cfg.Learn.Delimiter)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero symbols",
			mutate:  func(c *Config) { c.Learn.Symbols = 0 },
			wantErr: true,
		},
		{
			name:    "zero min frequency",
			mutate:  func(c *Config) { c.Learn.MinFrequency = 0 },
			wantErr: true,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Learn.Mode = "bytes" },
			wantErr: true,
		},
		{
			name:    "empty delimiter",
			mutate:  func(c *Config) { c.Learn.Delimiter = "" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Learn.Symbols != 10000 || cfg.Learn.Mode != "char" {
		t.Errorf("unexpected defaults: %+v", cfg.Learn)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
learn:
  symbols: 500
  mode: morph-aware
  delimiter: "@@"
logging:
  level: debug
  console: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Learn.Symbols != 500 {
		t.Errorf("Symbols = %d, want 500", cfg.Learn.Symbols)
	}
	if cfg.Learn.Mode != "morph-aware" {
		t.Errorf("Mode = %q, want morph-aware", cfg.Learn.Mode)
	}
	if cfg.Learn.Delimiter != "@@" {
		t.Errorf("Delimiter = %q, want @@", cfg.Learn.Delimiter)
	}
	// Unset keys keep their defaults.
	if cfg.Learn.MinFrequency != 2 {
		t.Errorf("MinFrequency = %d, want default 2", cfg.Learn.MinFrequency)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Console {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("learn:\n  mode: bytes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown mode")
	}
}
