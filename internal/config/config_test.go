package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Python != "python3" {
		t.Errorf("Default python = %q, want %q", cfg.Python, "python3")
	}
	if cfg.Since != "main" {
		t.Errorf("Default since = %q, want %q", cfg.Since, "main")
	}
	if cfg.BackupRoot != filepath.Join(os.TempDir(), "presubmit") {
		t.Errorf("Default backup_root = %q, want tmp/presubmit", cfg.BackupRoot)
	}
	if cfg.Scope.Allowlist != "config/allowlist.txt" {
		t.Errorf("Default allowlist = %q, want %q", cfg.Scope.Allowlist, "config/allowlist.txt")
	}
	if cfg.Scope.Denylist != "config/denylist.txt" {
		t.Errorf("Default denylist = %q, want %q", cfg.Scope.Denylist, "config/denylist.txt")
	}
	if cfg.Tools.IsortConfig != "config/isort.toml" {
		t.Errorf("Default isort_config = %q, want %q", cfg.Tools.IsortConfig, "config/isort.toml")
	}
	if cfg.Tools.PylintImportRoot != "" {
		t.Errorf("Default pylint_import_root = %q, want empty", cfg.Tools.PylintImportRoot)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile on missing file should not error, got %v", err)
	}
	if cfg.Python != "" {
		t.Errorf("missing file should yield zero config, got python = %q", cfg.Python)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("python: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default()
	cfg.Python = "python3.12"
	cfg.Tools.PylintImportRoot = "src"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Python != "python3.12" {
		t.Errorf("python = %q, want %q", loaded.Python, "python3.12")
	}
	if loaded.Tools.PylintImportRoot != "src" {
		t.Errorf("pylint_import_root = %q, want %q", loaded.Tools.PylintImportRoot, "src")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "backup_root:") {
		t.Errorf("saved YAML should use snake_case keys, got:\n%s", data)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := "since: develop\nscope:\n  allowlist: lists/allow.txt\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Since != "develop" {
		t.Errorf("since = %q, want %q", cfg.Since, "develop")
	}
	if cfg.Scope.Allowlist != "lists/allow.txt" {
		t.Errorf("allowlist = %q, want %q", cfg.Scope.Allowlist, "lists/allow.txt")
	}
	// Fields absent from the file keep their defaults.
	if cfg.Python != "python3" {
		t.Errorf("python = %q, want default %q", cfg.Python, "python3")
	}
	if cfg.Scope.Denylist != "config/denylist.txt" {
		t.Errorf("denylist = %q, want default", cfg.Scope.Denylist)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("python: python3.10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PRESUBMIT_PYTHON", "python3.12")
	t.Setenv("PRESUBMIT_BACKUP_ROOT", "/var/tmp/presubmit")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Python != "python3.12" {
		t.Errorf("python = %q, want env value %q", cfg.Python, "python3.12")
	}
	if cfg.BackupRoot != "/var/tmp/presubmit" {
		t.Errorf("backup_root = %q, want env value", cfg.BackupRoot)
	}
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("PRESUBMIT_SINCE", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{
		"since": "from-flag",
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Since != "from-flag" {
		t.Errorf("since = %q, want flag value %q", cfg.Since, "from-flag")
	}
}

func TestLoad_EmptyOverrideIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{
		"since": "",
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Since != "main" {
		t.Errorf("since = %q, want default %q", cfg.Since, "main")
	}
}

func TestSetField(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(Config) string
	}{
		{"python", "python3.11", func(c Config) string { return c.Python }},
		{"since", "trunk", func(c Config) string { return c.Since }},
		{"backup_root", "/tmp/bk", func(c Config) string { return c.BackupRoot }},
		{"scope.allowlist", "a.txt", func(c Config) string { return c.Scope.Allowlist }},
		{"scope.denylist", "d.txt", func(c Config) string { return c.Scope.Denylist }},
		{"tools.isort_config", "i.toml", func(c Config) string { return c.Tools.IsortConfig }},
		{"tools.black_config", "b.toml", func(c Config) string { return c.Tools.BlackConfig }},
		{"tools.flake8_config", "f.toml", func(c Config) string { return c.Tools.Flake8Config }},
		{"tools.pylint_config", "p.rc", func(c Config) string { return c.Tools.PylintConfig }},
		{"tools.pylint_import_root", "src", func(c Config) string { return c.Tools.PylintImportRoot }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			if err := SetField(&cfg, tt.key, tt.value); err != nil {
				t.Fatalf("SetField(%q) error: %v", tt.key, err)
			}
			if got := tt.check(cfg); got != tt.value {
				t.Errorf("after SetField(%q, %q): got %q", tt.key, tt.value, got)
			}
		})
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "no_such_key", "x"); err == nil {
		t.Error("SetField with unknown key should return error")
	}
}
