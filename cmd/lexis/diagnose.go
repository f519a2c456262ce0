package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexis/internal/diag"
	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/source"
)

var diagCmd = &cobra.Command{
	Use:     "diagnose [flags] <file.swift|directory>...",
	Aliases: []string{"diag"},
	Short:   "Report lexical and syntax diagnostics",
	Long:    `Diagnose parses source files, or every source file under the given directories, in parallel and reports their diagnostics`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDiagnose,
}

// init registers flags of the diagnose command: output format, progress UI,
// concurrency, disk cache and what parts of a diagnostic to print.
func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|yaml)")
	diagCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0 = from config, then GOMAXPROCS)")
	diagCmd.Flags().Bool("cache", false, "reuse diagnostics of unchanged files from the disk cache")
	diagCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", true, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview the text each fix would produce")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type diagnoseFlags struct {
	format    diagfmt.Format
	ui        uiMode
	jobs      int
	cache     bool
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
}

func readDiagnoseFlags(cmd *cobra.Command) (diagnoseFlags, error) {
	var (
		f   diagnoseFlags
		err error
	)
	flags := cmd.Flags()
	formatFlag, err := flags.GetString("format")
	if err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if formatFlag == "pretty" && !flags.Changed("format") {
		formatFlag = state.cfg.Diagnostics.Format
	}
	f.format, err = diagfmt.ParseFormat(formatFlag,
		diagfmt.FormatPretty, diagfmt.FormatShort, diagfmt.FormatJSON, diagfmt.FormatYAML)
	if err != nil {
		return f, err
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiFlag); err != nil {
		return f, err
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.cache, err = flags.GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	f.withNotes = state.cfg.Diagnostics.Notes
	if flags.Changed("with-notes") {
		if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
			return f, err
		}
	}
	f.suggest = state.cfg.Diagnostics.Fixes
	if flags.Changed("suggest") {
		if f.suggest, err = flags.GetBool("suggest"); err != nil {
			return f, err
		}
	}
	if f.preview, err = flags.GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	return f, nil
}

// runDiagnose executes the "diagnose" command. It exits with a non-zero
// status when any file has error diagnostics.
func runDiagnose(cmd *cobra.Command, args []string) error {
	flags, err := readDiagnoseFlags(cmd)
	if err != nil {
		return err
	}
	if flags.jobs > 0 {
		state.cfg.Driver.Jobs = flags.jobs
	}
	paths, err := driver.ExpandTargets(state.fs, args, state.cfg)
	if err != nil {
		return err
	}
	opts, err := state.driverOptions(flags.cache)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSetFs(state.fs)
	fileSet.SetBaseDir(baseDir())
	work := func(ctx context.Context, o driver.Options) ([]driver.FileResult, error) {
		return driver.Diagnose(ctx, fileSet, paths, o)
	}
	var results []driver.FileResult
	if shouldUseTUI(flags.ui, len(paths)) {
		results, err = runWithUI(cmd.Context(), "diagnose", paths, opts, work)
	} else {
		results, err = work(cmd.Context(), opts)
	}
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	bag := driver.MergeBags(results)
	structured := flags.format == diagfmt.FormatJSON || flags.format == diagfmt.FormatYAML
	if state.timings && structured && fileSet.Len() > 0 {
		if err := driver.AppendTimings(bag, "diagnose", len(paths), opts.Timer); err != nil {
			return err
		}
	}
	if err := printDiagnostics(bag, fileSet, flags); err != nil {
		return err
	}
	if state.timings && !structured {
		printTimings(os.Stderr, opts.Timer, len(paths))
	}

	sum := driver.Summarize(results)
	if !state.quiet && !structured {
		fmt.Fprintf(os.Stderr, "%d file(s): %d error(s), %d warning(s)", sum.Files, sum.Errors, sum.Warnings)
		if sum.Cached > 0 {
			fmt.Fprintf(os.Stderr, ", %d cached", sum.Cached)
		}
		fmt.Fprintln(os.Stderr)
	}
	if sum.Errors > 0 {
		return errDiagnostics
	}
	return nil
}

func printDiagnostics(bag *diag.Bag, fileSet *source.FileSet, flags diagnoseFlags) error {
	pathMode := state.pathMode()
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch flags.format {
	case diagfmt.FormatShort:
		return diagfmt.Short(os.Stdout, bag, fileSet, pathMode, state.useColor(os.Stdout))
	case diagfmt.FormatJSON, diagfmt.FormatYAML:
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     flags.suggest || flags.preview,
			IncludePreviews:  flags.preview,
		}
		if flags.format == diagfmt.FormatYAML {
			return diagfmt.YAML(os.Stdout, bag, fileSet, jsonOpts)
		}
		return diagfmt.JSON(os.Stdout, bag, fileSet, jsonOpts)
	default:
		opts := state.prettyOpts(os.Stdout)
		opts.PathMode = pathMode
		opts.ShowNotes = flags.withNotes
		opts.ShowFixes = flags.suggest || flags.preview
		opts.ShowPreview = flags.preview
		diagfmt.Pretty(os.Stdout, bag, fileSet, opts)
		return nil
	}
}
