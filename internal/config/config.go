// Package config loads lexis.toml and applies LEXIS_* environment overrides.
// Command-line flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// FileName is the configuration file searched for from the working directory up.
const FileName = "lexis.toml"

// Color modes accepted by Output.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the merged configuration.
type Config struct {
	Parse       ParseConfig       `toml:"parse"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Driver      DriverConfig      `toml:"driver"`
	Output      OutputConfig      `toml:"output"`

	// Path of the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type ParseConfig struct {
	MaxDepth                 int  `toml:"max_depth"`
	InterpolationDepth       int  `toml:"interpolation_depth"`
	RejectEditorPlaceholders bool `toml:"reject_editor_placeholders"`
}

type DiagnosticsConfig struct {
	Max               int    `toml:"max"`
	Format            string `toml:"format"`
	NormalizeNewlines bool   `toml:"normalize_newlines"`
	Notes             bool   `toml:"notes"`
	Fixes             bool   `toml:"fixes"`
}

type DriverConfig struct {
	Jobs       int      `toml:"jobs"` // 0 - по числу CPU
	CacheDir   string   `toml:"cache_dir"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

type OutputConfig struct {
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

// Default returns the configuration used when no lexis.toml exists.
func Default() Config {
	return Config{
		Parse: ParseConfig{
			MaxDepth:           256,
			InterpolationDepth: 16,
		},
		Diagnostics: DiagnosticsConfig{
			Max:    100,
			Format: "pretty",
			Notes:  true,
			Fixes:  true,
		},
		Driver: DriverConfig{
			Extensions: []string{".swift"},
		},
		Output: OutputConfig{
			Color:    ColorAuto,
			PathMode: "auto",
		},
	}
}

// Find walks up from startDir to locate lexis.toml.
func Find(fsys afero.Fs, startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := fsys.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile decodes path on top of Default. Keys the file does not set keep
// their defaults; unknown keys are an error.
func LoadFile(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	// пустой список расширений в файле - значит, по умолчанию
	if meta.IsDefined("driver", "extensions") && len(cfg.Driver.Extensions) == 0 {
		cfg.Driver.Extensions = Default().Driver.Extensions
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load finds lexis.toml from startDir (or reads explicit when non-empty),
// then applies environment overrides through lookup.
func Load(fsys afero.Fs, startDir, explicit string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	path := explicit
	if path == "" {
		found, ok, err := Find(fsys, startDir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		var err error
		if cfg, err = LoadFile(fsys, path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Parse.MaxDepth < 0:
		return fmt.Errorf("parse.max_depth must not be negative")
	case c.Parse.InterpolationDepth < 0:
		return fmt.Errorf("parse.interpolation_depth must not be negative")
	case c.Diagnostics.Max < 0:
		return fmt.Errorf("diagnostics.max must not be negative")
	case c.Driver.Jobs < 0:
		return fmt.Errorf("driver.jobs must not be negative")
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color: unknown mode %q", c.Output.Color)
	}
	switch c.Diagnostics.Format {
	case "pretty", "short", "json", "yaml":
	default:
		return fmt.Errorf("diagnostics.format: unknown format %q", c.Diagnostics.Format)
	}
	for _, ext := range c.Driver.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("driver.extensions: %q must start with '.'", ext)
		}
	}
	return nil
}

// IsSource reports whether path has one of the configured extensions.
func (c Config) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Driver.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Excluded reports whether a path relative to the walk root matches an
// exclude pattern (filepath.Match syntax, checked against every suffix).
func (c Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	for _, pattern := range c.Driver.Exclude {
		for i := range parts {
			if ok, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); ok {
				return true
			}
		}
	}
	return false
}
