package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"lexis/internal/diag"
	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file.swift|directory>...",
	Short: "Re-diagnose source files whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before re-diagnosing a burst of changes")
	watchCmd.Flags().String("format", "pretty", "output format (pretty|short)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := diagfmt.ParseFormat(formatFlag, diagfmt.FormatPretty, diagfmt.FormatShort)
	if err != nil {
		return err
	}
	opts, err := state.driverOptions(false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return driver.Watch(ctx, args, driver.WatchOptions{
		Options:  opts,
		Debounce: debounce,
		OnResults: func(batch int, fileSet *source.FileSet, results []driver.FileResult) {
			fileSet.SetBaseDir(baseDir())
			printWatchBatch(batch, fileSet, results, format)
		},
	})
}

// printWatchBatch печатает диагностики пакета изменений.
func printWatchBatch(batch int, fileSet *source.FileSet, results []driver.FileResult, format diagfmt.Format) {
	bag := diag.NewBag(0)
	for _, r := range results {
		if r.Bag == nil {
			fmt.Fprintf(os.Stdout, "%s: removed\n", r.Path)
			continue
		}
		bag.Merge(r.Bag)
	}
	if format == diagfmt.FormatShort {
		_ = diagfmt.Short(os.Stdout, bag, fileSet, state.pathMode(), state.useColor(os.Stdout))
	} else {
		diagfmt.Pretty(os.Stdout, bag, fileSet, state.prettyOpts(os.Stdout))
	}
	if !state.quiet {
		sum := driver.Summarize(results)
		fmt.Fprintf(os.Stderr, "[%s] batch %d: %d file(s), %d error(s), %d warning(s)\n",
			time.Now().Format(time.TimeOnly), batch, sum.Files, sum.Errors, sum.Warnings)
	}
}
