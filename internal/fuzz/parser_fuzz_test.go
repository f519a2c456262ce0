package fuzztests

import (
	"testing"
	"time"

	"lexis/internal/diag"
	"lexis/internal/parser"
	"lexis/internal/source"
	"lexis/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseBytes(buf []byte) (*source.File, parser.Result) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.swift", buf))
	return file, parser.ParseFile(file, parser.Options{MaxErrors: 128})
}

func FuzzParserRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		done := make(chan parser.Result, 1)
		var file *source.File
		go func() {
			var res parser.Result
			file, res = parseBytes(input)
			done <- res
		}()
		var res parser.Result
		select {
		case res = <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser timed out after %s on %d bytes", parseTimeout, len(input))
		}
		if err := testkit.CheckTree(file, res.Tree); err != nil {
			t.Fatal(err)
		}
	})
}

// closable lists codes whose fix-its fully resolve the problem.
func closable(code diag.Code) bool {
	switch code {
	case diag.LexInsufficientIndentation, diag.LexUnexpectedSpaceIndent,
		diag.LexUnexpectedTabIndent, diag.SynKeywordAsIdentifier:
		return true
	default:
		return false
	}
}

func FuzzFixClosure(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)
		_, res := parseBytes(input)
		reparse := func(buf []byte) []diag.Diagnostic {
			_, r := parseBytes(buf)
			return r.Diagnostics
		}
		if err := testkit.CheckFixClosure(input, res.Diagnostics, reparse, closable); err != nil {
			t.Fatal(err)
		}
	})
}
