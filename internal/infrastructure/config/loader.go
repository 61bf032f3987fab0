package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/akhellaf/deskpilot/assets"
	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/filesystem"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// FileLoader loads YAML configuration from ~/.deskpilot/config.yaml
// (overridable via DESKPILOT_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the embedded default
// configuration is written to disk before being returned.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg, err := defaultConfig()
			if err != nil {
				return domain.Config{}, err
			}
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return hydrateDefaults(cfg), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path reports which file Load will read.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the configuration back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return writeDefault(path, cfg)
}

// Reset restores the embedded default configuration on disk and returns it.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	if err := l.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("DESKPILOT_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".deskpilot", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	home := userHomeDir()
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.AssistantName == "" {
		cfg.Preferences.AssistantName = "DeskPilot"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(home, ".deskpilot", "cache")
	} else {
		cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	}
	if cfg.Memory.Path == "" {
		cfg.Memory.Path = filepath.Join(home, ".deskpilot", "memory.db")
	} else {
		cfg.Memory.Path = expandPath(cfg.Memory.Path)
	}
	if cfg.Memory.BackupDir == "" {
		cfg.Memory.BackupDir = filepath.Join(home, ".deskpilot", "backups")
	} else {
		cfg.Memory.BackupDir = expandPath(cfg.Memory.BackupDir)
	}
	if cfg.Security.RulesFile != "" {
		cfg.Security.RulesFile = expandPath(cfg.Security.RulesFile)
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	return filesystem.UserHomeDir()
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
