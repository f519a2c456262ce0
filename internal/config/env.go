package config

import (
	"fmt"
	"os"

	"github.com/mstoykov/envconfig"
)

// envConfig - переопределения из окружения. Указатели отличают
// незаданную переменную от нулевого значения.
type envConfig struct {
	MaxDiagnostics     *int    `envconfig:"LEXIS_MAX_DIAGNOSTICS"`
	Jobs               *int    `envconfig:"LEXIS_JOBS"`
	NormalizeNewlines  *bool   `envconfig:"LEXIS_NORMALIZE_NEWLINES"`
	Color              *string `envconfig:"LEXIS_COLOR"`
	CacheDir           *string `envconfig:"LEXIS_CACHE_DIR"`
	InterpolationDepth *int    `envconfig:"LEXIS_INTERPOLATION_DEPTH"`
	MaxDepth           *int    `envconfig:"LEXIS_MAX_DEPTH"`
}

// ApplyEnv overlays LEXIS_* variables. A nil lookup reads the process
// environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var env envConfig
	if err := envconfig.Process("", &env, lookup); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if env.MaxDiagnostics != nil {
		c.Diagnostics.Max = *env.MaxDiagnostics
	}
	if env.Jobs != nil {
		c.Driver.Jobs = *env.Jobs
	}
	if env.NormalizeNewlines != nil {
		c.Diagnostics.NormalizeNewlines = *env.NormalizeNewlines
	}
	if env.Color != nil {
		c.Output.Color = *env.Color
	}
	if env.CacheDir != nil {
		c.Driver.CacheDir = *env.CacheDir
	}
	if env.InterpolationDepth != nil {
		c.Parse.InterpolationDepth = *env.InterpolationDepth
	}
	if env.MaxDepth != nil {
		c.Parse.MaxDepth = *env.MaxDepth
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}
