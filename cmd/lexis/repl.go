package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"lexis/internal/diag"
	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/lexer"
	"lexis/internal/parser"
	"lexis/internal/source"
	"lexis/internal/token"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively parse snippets and inspect their trees",
	Long: `repl reads snippets and prints their syntax tree and diagnostics.
Input continues on the next line while brackets are open.
Commands: :tree, :tokens, :quit.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

type replView int

const (
	replViewTree replView = iota
	replViewTokens
)

func runREPL(cmd *cobra.Command, _ []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFile()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	view := replViewTree
	var buf strings.Builder
	for n := 1; ; {
		prompt := "lexis> "
		if buf.Len() > 0 {
			prompt = "   ... "
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buf.Reset()
			fmt.Fprintln(os.Stderr)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if buf.Len() == 0 {
			switch strings.TrimSpace(input) {
			case "":
				continue
			case ":quit", ":q":
				return saveHistory(line, historyPath)
			case ":tree":
				view = replViewTree
				continue
			case ":tokens":
				view = replViewTokens
				continue
			}
		}
		line.AppendHistory(input)
		buf.WriteString(input)
		buf.WriteByte('\n')
		if openBrackets(buf.String()) > 0 {
			continue
		}

		evalSnippet(cmd.OutOrStdout(), fmt.Sprintf("<repl:%d>", n), buf.String(), view)
		buf.Reset()
		n++
	}
	return saveHistory(line, historyPath)
}

// evalSnippet parses src and prints the selected view and diagnostics.
func evalSnippet(out io.Writer, name, src string, view replView) {
	fileSet := source.NewFileSet()
	file := fileSet.Get(fileSet.AddVirtual(name, []byte(src)))
	res := parser.ParseFile(file, driver.Options{Config: state.cfg}.ParserOptions())

	switch view {
	case replViewTokens:
		_ = diagfmt.FormatTokensPretty(out, res.Tokens, fileSet)
	default:
		_ = diagfmt.FormatTree(out, res.Tree.Root, diagfmt.FormatPretty)
	}
	if len(res.Diagnostics) == 0 {
		return
	}
	bag := diag.NewBag(0)
	for _, d := range res.Diagnostics {
		bag.Add(d)
	}
	diagfmt.Pretty(os.Stderr, bag, fileSet, state.prettyOpts(os.Stderr))
}

// openBrackets считает незакрытые скобки по токенам, а не по символам,
// чтобы скобки в строках и комментариях не мешали.
func openBrackets(src string) int {
	fileSet := source.NewFileSet()
	file := fileSet.Get(fileSet.AddVirtual("<input>", []byte(src)))
	depth := 0
	for _, tok := range lexer.Tokenize(file, lexer.Options{}) {
		switch tok.Kind {
		case token.LeftParen, token.LeftBrace, token.LeftSquare:
			depth++
		case token.RightParen, token.RightBrace, token.RightSquare:
			depth--
		}
	}
	return depth
}

func saveHistory(line *liner.State, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	_, err = line.WriteHistory(f)
	return err
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".lexis_history")
}
