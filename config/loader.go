package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is looked up in the working directory and its parents.
	ProjectConfigFile = "brickshape.yaml"
	// UserConfigDir is relative to the home directory.
	UserConfigDir  = ".config/brickshape"
	UserConfigFile = "config.yaml"
)

// layer is one config file in the precedence chain. A required layer that
// fails to parse aborts the load; an optional one is logged and skipped.
type layer struct {
	name     string
	path     string
	required bool
}

// Loader resolves the effective configuration from defaults, the user file
// and the nearest project file, in that order.
type Loader struct {
	logger *slog.Logger

	// overridable in tests
	homeDir string
	workDir string
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load merges every layer that exists over DefaultConfig and validates the
// result. Relative sources in a file are anchored at that file's directory;
// command line flags are applied by the caller afterwards.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, ly := range l.layers() {
		layerCfg, err := readLayer(ly.path)
		switch {
		case err == nil:
		case os.IsNotExist(err):
			continue
		case ly.required:
			return nil, fmt.Errorf("%s config %s: %w", ly.name, ly.path, err)
		default:
			l.logger.Warn("Skipping unreadable config", "layer", ly.name, "path", ly.path, "error", err)
			continue
		}

		layerCfg.ResolveSources(filepath.Dir(ly.path))
		cfg.Merge(layerCfg)
		l.logger.Debug("Applied config layer", "layer", ly.name, "path", ly.path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) layers() []layer {
	var out []layer
	if p := l.userConfigPath(); p != "" {
		out = append(out, layer{name: "user", path: p})
	}
	if p := l.findProjectConfig(); p != "" {
		out = append(out, layer{name: "project", path: p, required: true})
	} else {
		l.logger.Debug("No project config found")
	}
	return out
}

// EnsureUserConfig writes DefaultConfig to the user config path unless a file
// is already there.
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return errors.New("cannot determine user home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Created default user config", "path", path)
	return nil
}

func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the working directory up to the filesystem
// root and returns the first brickshape.yaml it sees.
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return ""
		}
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
