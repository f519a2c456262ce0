package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lexis/internal/config"
	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/observ"
	"lexis/internal/prof"
)

// app holds the state shared by all subcommands, built once in
// PersistentPreRunE.
type app struct {
	fs      afero.Fs
	cfg     config.Config
	log     *logrus.Logger
	quiet   bool
	timings bool
	stdout  io.Writer
	stderr  io.Writer
	prof    *prof.Session
}

var state = &app{fs: afero.NewOsFs(), stdout: os.Stdout, stderr: os.Stderr}

func configFileName() string { return config.FileName }

func setupApp(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()

	logFormat, err := pf.GetString("log-format")
	if err != nil {
		return err
	}
	verbose, err := pf.GetBool("verbose")
	if err != nil {
		return err
	}
	colorFlag, err := pf.GetString("color")
	if err != nil {
		return err
	}
	log, err := newLogger(state.stderr, logFormat, verbose, colorFlag)
	if err != nil {
		return err
	}
	state.log = log

	explicit, err := pf.GetString("config")
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	cfg, err := config.Load(state.fs, wd, explicit, nil)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		log.WithField("path", cfg.Path).Debug("loaded config")
	}

	// флаги командной строки имеют приоритет над файлом и окружением
	if pf.Changed("color") {
		cfg.Output.Color = colorFlag
	}
	if pf.Changed("max-diagnostics") {
		if cfg.Diagnostics.Max, err = pf.GetInt("max-diagnostics"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	state.cfg = cfg

	if state.quiet, err = pf.GetBool("quiet"); err != nil {
		return err
	}
	if state.timings, err = pf.GetBool("timings"); err != nil {
		return err
	}
	return setupProfiling(pf)
}

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(pf *pflag.FlagSet) error {
	var (
		opts prof.Options
		err  error
	)
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	session, err := prof.Start(opts)
	if err != nil {
		return err
	}
	if session.Active() {
		state.log.WithFields(logrus.Fields{"cpu": opts.CPU, "mem": opts.Mem, "trace": opts.Trace}).Debug("profiling enabled")
	}
	state.prof = session
	return nil
}

// newLogger configures logrus: text with colors on a terminal, or JSON.
func newLogger(out io.Writer, format string, verbose bool, colorFlag string) (*logrus.Logger, error) {
	log := &logrus.Logger{
		Out:       out,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.WarnLevel,
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	switch format {
	case "text":
		colored := colorFlag == config.ColorAlways || (colorFlag == config.ColorAuto && isTerminal(os.Stderr))
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   colored,
			DisableColors: !colored,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid --log-format %q (expected text|json)", format)
	}
	return log, nil
}

// useColor resolves the color setting for output written to f.
func (a *app) useColor(f *os.File) bool {
	switch a.cfg.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return isTerminal(f)
	}
}

func (a *app) pathMode() diagfmt.PathMode {
	mode, err := diagfmt.ParsePathMode(a.cfg.Output.PathMode)
	if err != nil {
		return diagfmt.PathModeAuto
	}
	return mode
}

// driverOptions builds driver options; timer is nil unless --timings is set.
// The disk cache is used when requested or when the config names a cache dir.
func (a *app) driverOptions(withCache bool) (driver.Options, error) {
	opts := driver.Options{
		Config: a.cfg,
		Fs:     a.fs,
		Logger: a.log,
	}
	if a.timings {
		opts.Timer = observ.NewTimer()
	}
	if withCache || a.cfg.Driver.CacheDir != "" {
		cache, err := driver.OpenDiskCache(a.fs, a.cfg.Driver.CacheDir)
		if err != nil {
			return opts, err
		}
		opts.Cache = cache
	}
	return opts, nil
}

// prettyOpts собирает настройки pretty-вывода диагностик.
func (a *app) prettyOpts(f *os.File) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     a.useColor(f),
		Context:   2,
		PathMode:  a.pathMode(),
		ShowNotes: a.cfg.Diagnostics.Notes,
		ShowFixes: a.cfg.Diagnostics.Fixes,
	}
}

func baseDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Clean(wd)
}
