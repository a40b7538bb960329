package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project-scoped config file presubmit looks for in the
// working directory.
const FileName = ".presubmit.yaml"

// Config represents the presubmit configuration.
type Config struct {
	Python     string      `yaml:"python"`
	Since      string      `yaml:"since"`
	BackupRoot string      `yaml:"backup_root"`
	Scope      ScopeConfig `yaml:"scope"`
	Tools      ToolsConfig `yaml:"tools"`
}

// ScopeConfig names the allow/deny glob list files that bound which
// paths presubmit may touch.
type ScopeConfig struct {
	Allowlist string `yaml:"allowlist"`
	Denylist  string `yaml:"denylist"`
}

// ToolsConfig carries the config file paths handed to each external
// tool. PylintImportRoot, when set, is exported as PYTHONPATH to the
// pylint subprocess only.
type ToolsConfig struct {
	IsortConfig      string `yaml:"isort_config"`
	BlackConfig      string `yaml:"black_config"`
	Flake8Config     string `yaml:"flake8_config"`
	PylintConfig     string `yaml:"pylint_config"`
	PylintImportRoot string `yaml:"pylint_import_root,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Python:     "python3",
		Since:      "main",
		BackupRoot: filepath.Join(os.TempDir(), "presubmit"),
		Scope: ScopeConfig{
			Allowlist: "config/allowlist.txt",
			Denylist:  "config/denylist.txt",
		},
		Tools: ToolsConfig{
			IsortConfig:  "config/isort.toml",
			BlackConfig:  "config/black.toml",
			Flake8Config: "config/flake.toml",
			PylintConfig: "config/config.pylintrc",
		},
	}
}

// LoadFile loads config from the given path. Returns a zero Config and
// nil error if the file doesn't exist.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the given path.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env
// <- overrides. The overrides map comes from CLI flags (only non-zero
// values should be set).
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Python != "" {
		dst.Python = src.Python
	}
	if src.Since != "" {
		dst.Since = src.Since
	}
	if src.BackupRoot != "" {
		dst.BackupRoot = src.BackupRoot
	}
	if src.Scope.Allowlist != "" {
		dst.Scope.Allowlist = src.Scope.Allowlist
	}
	if src.Scope.Denylist != "" {
		dst.Scope.Denylist = src.Scope.Denylist
	}
	if src.Tools.IsortConfig != "" {
		dst.Tools.IsortConfig = src.Tools.IsortConfig
	}
	if src.Tools.BlackConfig != "" {
		dst.Tools.BlackConfig = src.Tools.BlackConfig
	}
	if src.Tools.Flake8Config != "" {
		dst.Tools.Flake8Config = src.Tools.Flake8Config
	}
	if src.Tools.PylintConfig != "" {
		dst.Tools.PylintConfig = src.Tools.PylintConfig
	}
	if src.Tools.PylintImportRoot != "" {
		dst.Tools.PylintImportRoot = src.Tools.PylintImportRoot
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("PRESUBMIT_PYTHON"); v != "" {
		cfg.Python = v
	}
	if v := os.Getenv("PRESUBMIT_SINCE"); v != "" {
		cfg.Since = v
	}
	if v := os.Getenv("PRESUBMIT_BACKUP_ROOT"); v != "" {
		cfg.BackupRoot = v
	}
	if v := os.Getenv("PRESUBMIT_ALLOWLIST"); v != "" {
		cfg.Scope.Allowlist = v
	}
	if v := os.Getenv("PRESUBMIT_DENYLIST"); v != "" {
		cfg.Scope.Denylist = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["python"]; ok && v != "" {
		cfg.Python = v
	}
	if v, ok := overrides["since"]; ok && v != "" {
		cfg.Since = v
	}
	if v, ok := overrides["backupRoot"]; ok && v != "" {
		cfg.BackupRoot = v
	}
	if v, ok := overrides["allowlist"]; ok && v != "" {
		cfg.Scope.Allowlist = v
	}
	if v, ok := overrides["denylist"]; ok && v != "" {
		cfg.Scope.Denylist = v
	}
}

// SetField sets a single config field by its YAML key. Nested keys use
// dotted form, e.g. "scope.allowlist" or "tools.isort_config". Returns
// an error if the key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "python":
		cfg.Python = value
	case "since":
		cfg.Since = value
	case "backup_root":
		cfg.BackupRoot = value
	case "scope.allowlist":
		cfg.Scope.Allowlist = value
	case "scope.denylist":
		cfg.Scope.Denylist = value
	case "tools.isort_config":
		cfg.Tools.IsortConfig = value
	case "tools.black_config":
		cfg.Tools.BlackConfig = value
	case "tools.flake8_config":
		cfg.Tools.Flake8Config = value
	case "tools.pylint_config":
		cfg.Tools.PylintConfig = value
	case "tools.pylint_import_root":
		cfg.Tools.PylintImportRoot = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
