package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/tableflow/pkg/table"
)

// FileName is the optional configuration file read from the working
// directory.
const FileName = "tableflow.yaml"

// Defaults applied by Resolve.
const (
	DefaultWidth              = 48
	DefaultHeight             = 16
	DefaultEstimatedRowHeight = 1
)

// Config represents the optional tableflow.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Surface SurfaceConfig `yaml:"surface"`
	Manager ManagerConfig `yaml:"manager"`
}

// AppConfig contains display metadata.
type AppConfig struct {
	Title string `yaml:"title,omitempty"`
}

// SurfaceConfig sizes the terminal surface.
type SurfaceConfig struct {
	Width              int     `yaml:"width,omitempty"`
	Height             int     `yaml:"height,omitempty"`
	EstimatedRowHeight float64 `yaml:"estimated_row_height,omitempty"`
	Separators         bool    `yaml:"separators,omitempty"`
}

// ManagerConfig contains manager settings. AutomaticHeight is a pointer so
// an absent key keeps the default.
type ManagerConfig struct {
	AutomaticHeight *bool  `yaml:"automatic_height,omitempty"`
	Animation       string `yaml:"animation,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root               string
	Title              string
	Width              int
	Height             int
	EstimatedRowHeight float64
	Separators         bool
	AutomaticHeight    bool
	Animation          table.Animation
}

// LoadOptional reads tableflow.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads tableflow.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(cfg.App.Title)
	if title == "" {
		title = defaultTitle(dir)
	}

	width := cfg.Surface.Width
	if width == 0 {
		width = DefaultWidth
	}
	height := cfg.Surface.Height
	if height == 0 {
		height = DefaultHeight
	}
	estimate := cfg.Surface.EstimatedRowHeight
	if estimate == 0 {
		estimate = DefaultEstimatedRowHeight
	}
	if err := validateSize(width, height, estimate); err != nil {
		return nil, err
	}

	automatic := true
	if cfg.Manager.AutomaticHeight != nil {
		automatic = *cfg.Manager.AutomaticHeight
	}

	animation := table.AnimationAutomatic
	if name := strings.TrimSpace(cfg.Manager.Animation); name != "" {
		animation, err = table.ParseAnimation(name)
		if err != nil {
			return nil, fmt.Errorf("manager.animation: %w", err)
		}
	}

	return &Resolved{
		Root:               dir,
		Title:              title,
		Width:              width,
		Height:             height,
		EstimatedRowHeight: estimate,
		Separators:         cfg.Surface.Separators,
		AutomaticHeight:    automatic,
		Animation:          animation,
	}, nil
}

// defaultTitle names the table after the module in dir, or the directory
// itself outside a module.
func defaultTitle(dir string) string {
	base := filepath.Base(dir)
	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		if path := modfile.ModulePath(data); path != "" {
			prefix, _, ok := module.SplitPathVersion(path)
			if ok {
				parts := strings.Split(prefix, "/")
				base = parts[len(parts)-1]
			}
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "tableflow"
	}
	return base
}

func validateSize(width, height int, estimate float64) error {
	if width < 8 {
		return fmt.Errorf("surface.width must be at least 8 (got %d)", width)
	}
	if height < 0 {
		return fmt.Errorf("surface.height cannot be negative (got %d)", height)
	}
	if estimate < 0 {
		return fmt.Errorf("surface.estimated_row_height cannot be negative (got %v)", estimate)
	}
	return nil
}
