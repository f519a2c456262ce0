package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.swift",
	Short: "Tokenize a source file",
	Long:  `Tokenize breaks a source file into tokens with their leading and trailing trivia`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatFlag, diagfmt.FormatPretty, diagfmt.FormatJSON, diagfmt.FormatYAML)
	if err != nil {
		return err
	}

	opts, err := state.driverOptions(false)
	if err != nil {
		return err
	}
	fileSet := source.NewFileSetFs(state.fs)
	fileSet.SetBaseDir(baseDir())
	result, err := driver.Tokenize(fileSet, args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, state.prettyOpts(os.Stderr))
	}

	switch format {
	case diagfmt.FormatJSON:
		err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	case diagfmt.FormatYAML:
		err = diagfmt.FormatTokensYAML(os.Stdout, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	}
	if err != nil {
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
