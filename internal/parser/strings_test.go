package parser_test

import (
	"strings"
	"testing"

	"lexis/internal/parser"
	"lexis/internal/schema"
	"lexis/internal/syntax"
)

var newlineEndings = []struct {
	name string
	nl   string
}{
	{"lf", "\n"},
	{"cr", "\r"},
	{"crlf", "\r\n"},
}

type stringErrorCase struct {
	name  string
	src   string
	msgs  []string
	fixed string // пусто - исправления не проверяются
	check func(t *testing.T, res parser.Result)
}

func runWithAllNewlines(t *testing.T, c stringErrorCase) {
	t.Helper()
	for _, e := range newlineEndings {
		t.Run(e.name, func(t *testing.T) {
			src := strings.ReplaceAll(c.src, "\n", e.nl)
			res := parseSource(t, src, parser.Options{})
			expectMessages(t, res, c.msgs...)
			if c.fixed != "" {
				if got := applyFixes(t, src, res); got != c.fixed {
					t.Fatalf("fixed source\n%q\nwant\n%q", got, c.fixed)
				}
			}
			if c.check != nil {
				c.check(t, res)
			}
		})
	}
}

func TestStringLiteralErrors(t *testing.T) {
	cases := []stringErrorCase{
		{
			name: "multi-line literal inside single-line interpolation",
			src:  "_ = \"hello\\(\"\"\"\n            world\n            \"\"\"\n            )!\"",
			msgs: []string{
				"expected ')' in string literal",
				`expected '"' to end string literal`,
				`extraneous code ')!"' at top level`,
			},
		},
		{
			name: "interpolation cut by newline",
			src:  "_ = \"h\\(\n            \"\"\"\n            world\n            \"\"\")!\"",
			msgs: []string{
				"expected value and ')' in string literal",
				`expected '"' to end string literal`,
				`extraneous code ')!"' at top level`,
			},
		},
		{
			name: "invalid escape at end of input",
			src:  "_ = \"\"\"\n  foo\\",
			msgs: []string{
				"invalid escape sequence in literal",
				`expected '"""' to end string literal`,
			},
		},
		{
			name: "unterminated literal in multi-line interpolation",
			src:  "let _ = \"\"\"\n  foo\n  \\(\"bar\n  baz\n  \"\"\"",
			msgs: []string{
				`expected '"' to end string literal`,
				"unexpected code 'baz' in string literal",
				"expected ')' in string literal",
			},
			fixed: "let _ = \"\"\"\n  foo\n  \\(\"bar\"\n  baz)\n  \"\"\"",
			check: func(t *testing.T, res parser.Result) {
				d := res.Diagnostics[2]
				if len(d.Notes) != 1 || d.Notes[0].Msg != "to match this opening '('" {
					t.Fatalf("notes: %+v", d.Notes)
				}
			},
		},
		{
			name: "statement after broken literal",
			src:  "let _ = \"\"\"\n  foo\n  \\(\"bar\n  baz\n  \"\"\"\n  abc",
			msgs: []string{
				`expected '"' to end string literal`,
				"unexpected code 'baz' in string literal",
				"expected ')' in string literal",
			},
			check: func(t *testing.T, res parser.Result) {
				stmts := res.Tree.Root.Child("Statements")
				if stmts.NumChildren() != 2 {
					t.Fatalf("statements: %d", stmts.NumChildren())
				}
				ref := stmts.ChildAt(1).Child("Item")
				if ref.Kind() != schema.DeclReferenceExpr || ref.ChildToken("BaseName").Text != "abc" {
					t.Fatalf("second statement: %s", ref)
				}
			},
		},
		{
			name:  "raw literal missing closing delimiter",
			src:   "let s = #\"abc",
			msgs:  []string{`expected '"#' to end string literal`},
			fixed: "let s = #\"abc\"#",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			runWithAllNewlines(t, c)
		})
	}
}

func TestInterpolationStructure(t *testing.T) {
	res := parseSource(t, `_ = "a\(x, label: "in\(y)")b"`, parser.Options{})
	if len(res.Diagnostics) != 0 {
		t.Fatalf("diagnostics: %q", messages(res.Diagnostics))
	}
	lits := syntax.Collect(res.Tree.Root, func(n *syntax.Node) bool { return n.Kind() == schema.StringLiteralExpr })
	if len(lits) != 2 {
		t.Fatalf("string literals: %d", len(lits))
	}
	segs := lits[0].Child("Segments")
	if segs.NumChildren() != 3 {
		t.Fatalf("outer segments: %d", segs.NumChildren())
	}
	interp := segs.ChildAt(1)
	if interp.Kind() != schema.ExpressionSegment {
		t.Fatalf("segment 1: %s", interp.Kind())
	}
	args := interp.Child("Expressions")
	if args.NumChildren() != 2 || args.ChildAt(1).ChildToken("Label").Text != "label" {
		t.Fatalf("interpolation arguments: %s", args)
	}
}
