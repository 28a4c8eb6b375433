package config

import (
	"os"
	"path/filepath"
	"testing"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Registers.Min != 1 || cfg.Registers.Max != 999 {
		t.Errorf("registers = %d..%d, want 1..999", cfg.Registers.Min, cfg.Registers.Max)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if !cfg.Storage.Enabled || cfg.Storage.Path != "./data/macro.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "macro.toml", `
[registers]
min = 100
max = 199

[log]
level = "debug"

[storage]
enabled = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Registers.Min != 100 || cfg.Registers.Max != 199 {
		t.Errorf("registers = %d..%d, want 100..199", cfg.Registers.Min, cfg.Registers.Max)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	// missing key falls back to the default
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want text", cfg.Log.Format)
	}
	if cfg.Storage.Enabled {
		t.Error("storage.enabled = true, want false")
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "macro.yaml", `
registers:
  min: 1
  max: 10
log:
  format: json
storage:
  path: /tmp/macro-test.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Registers.Max != 10 || cfg.Log.Format != "json" || cfg.Storage.Path != "/tmp/macro-test.db" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeFile(t, "macro.toml", "[registers]\nmax = 50\n")
	t.Setenv("MACRO_REGISTERS_MAX", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Registers.Max != 20 {
		t.Errorf("registers.max = %d, want 20", cfg.Registers.Max)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    mdwerror.Code
	}{
		{"inverted range", "[registers]\nmin = 10\nmax = 1\n", mdwerror.CodeInvalidConfig},
		{"negative min", "[registers]\nmin = -1\n", mdwerror.CodeInvalidConfig},
		{"range too large", "[registers]\nmax = 2000000000\n", mdwerror.CodeInvalidConfig},
		{"bad level", "[log]\nlevel = \"loud\"\n", mdwerror.CodeInvalidConfig},
		{"bad format", "[log]\nformat = \"xml\"\n", mdwerror.CodeInvalidConfig},
		{"empty storage path", "[storage]\npath = \"\"\n", mdwerror.CodeInvalidConfig},
		{"syntax", "[registers\n", mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "macro.toml", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if code := mdwerror.GetCode(err); code != tt.code {
				t.Errorf("code = %s, want %s (%v)", code, tt.code, err)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("missing file: expected NOT_FOUND, got %v", err)
	}
}

func TestValidate_RegisterLimit(t *testing.T) {
	cfg := Default()
	cfg.Registers.Min = 0
	cfg.Registers.Max = variables.MaxRegisters - 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("largest range rejected: %v", err)
	}

	cfg.Registers.Max = variables.MaxRegisters
	if err := cfg.Validate(); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "custom.toml", "[registers]\nmax = 30\n")
	t.Setenv("MACRO_CONFIG", path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Registers.Max != 30 {
		t.Errorf("registers.max = %d, want 30", cfg.Registers.Max)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "macro.toml")

	cfg := Default()
	cfg.Registers.Max = 500
	cfg.Log.Level = "warn"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Registers != cfg.Registers || loaded.Log != cfg.Log || loaded.Storage != cfg.Storage {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
