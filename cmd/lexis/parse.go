package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.swift",
	Short: "Parse a source file and print its syntax tree",
	Long:  `Parse builds the full-fidelity syntax tree of a source file and prints it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml|msgpack)")
	parseCmd.Flags().Bool("reject-placeholders", false, "report editor placeholders as errors")
}

func runParse(cmd *cobra.Command, args []string) error {
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatFlag,
		diagfmt.FormatPretty, diagfmt.FormatJSON, diagfmt.FormatYAML, diagfmt.FormatMsgpack)
	if err != nil {
		return err
	}
	if format == diagfmt.FormatMsgpack && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write msgpack to a terminal; redirect stdout")
	}
	reject, err := cmd.Flags().GetBool("reject-placeholders")
	if err != nil {
		return fmt.Errorf("failed to get reject-placeholders flag: %w", err)
	}

	opts, err := state.driverOptions(false)
	if err != nil {
		return err
	}
	opts.Config.Parse.RejectEditorPlaceholders = opts.Config.Parse.RejectEditorPlaceholders || reject

	fileSet := source.NewFileSetFs(state.fs)
	fileSet.SetBaseDir(baseDir())
	result, err := driver.Parse(fileSet, args[0], opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, state.prettyOpts(os.Stderr))
	}
	if err := diagfmt.FormatTree(os.Stdout, result.Tree.Root, format); err != nil {
		return err
	}
	if state.timings {
		printTimings(os.Stderr, opts.Timer, 1)
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
