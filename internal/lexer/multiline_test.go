package lexer_test

import (
	"strings"
	"testing"

	"lexis/internal/diag"
	"lexis/internal/fix"
)

type multilineCase struct {
	name  string
	src   string
	msgs  []string
	fixed string // пусто - исправления не проверяются
}

var newlineEndings = []struct {
	name string
	nl   string
}{
	{"lf", "\n"},
	{"cr", "\r"},
	{"crlf", "\r\n"},
}

// runMultiline прогоняет случай со всеми вариантами перевода строки.
// Исправленный текст сравнивается после нормализации переводов строки.
func runMultiline(t *testing.T, c multilineCase) {
	t.Helper()
	for _, e := range newlineEndings {
		t.Run(e.name, func(t *testing.T) {
			src := strings.ReplaceAll(c.src, "\n", e.nl)
			lx, reporter := makeTestLexer(src)
			toks := collectAllTokens(lx)
			if fullText(toks) != src {
				t.Fatalf("round trip mismatch: %v", tokensToString(toks))
			}

			got := reporter.Messages()
			if len(got) != len(c.msgs) {
				t.Fatalf("diagnostics %q, want %q", got, c.msgs)
			}
			for i := range got {
				if got[i] != c.msgs[i] {
					t.Errorf("diagnostic %d: %q, want %q", i, got[i], c.msgs[i])
				}
			}
			if c.fixed == "" {
				return
			}
			out, err := fix.ApplyToBuffer([]byte(src), fix.All(reporter.diagnostics), fix.BufferOptions{NormalizeNewlines: true})
			if err != nil {
				t.Fatalf("apply fixes: %v", err)
			}
			if string(out) != c.fixed {
				t.Fatalf("fixed source\n%q\nwant\n%q", out, c.fixed)
			}
		})
	}
}

const (
	msgInsufficientLine = "insufficient indentation of line in multi-line string literal"
	msgTabLine          = "unexpected tab in indentation of line in multi-line string literal"
	msgSpaceLine        = "unexpected space in indentation of line in multi-line string literal"
	msgContentSameLine  = "multi-line string literal content must begin on a new line"
	msgCloseSameLine    = "multi-line string literal closing delimiter must begin on a new line"
	msgLastLineEscape   = "escaped newline at the last line of a multi-line string literal is not allowed"
)

func TestMultiline_WellFormed(t *testing.T) {
	cases := []multilineCase{
		{name: "import", src: "import Swift"},
		{name: "comment", src: "// ===---------- Multiline --------==="},
		{name: "blank lines", src: "_ = \"\"\"\n    a\n\n  \n    b\n    \"\"\""},
		{name: "deeper lines", src: "_ = \"\"\"\n      a\n    b\n    \"\"\""},
		{name: "escaped newline", src: "_ = \"\"\"\n  a\\\n  b\n  \"\"\""},
		{name: "empty", src: "_ = \"\"\"\n\"\"\""},
		{name: "raw", src: "_ = #\"\"\"\n  \\(a) \\#(b)\n  \"\"\"#"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) { runMultiline(t, c) })
	}
}

func TestMultiline_Indentation(t *testing.T) {
	cases := []multilineCase{
		{
			name:  "insufficient",
			src:   "_ = \"\"\"\n    Eleven\n  Mu\n    \"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "_ = \"\"\"\n    Eleven\n    Mu\n    \"\"\"",
		},
		{
			name:  "insufficient by one",
			src:   "_ = \"\"\"\n    Eleven\n   Mu\n    \"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "_ = \"\"\"\n    Eleven\n    Mu\n    \"\"\"",
		},
		{
			name:  "escape is not indentation",
			src:   "_ = \"\"\"\n\tTwelve\n\\tNu\n\t\"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "_ = \"\"\"\n\tTwelve\n\t\\tNu\n\t\"\"\"",
		},
		{
			name:  "interpolation line",
			src:   "_ = \"\"\"\n    \\(42\n)\n    \"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "_ = \"\"\"\n    \\(42\n    )\n    \"\"\"",
		},
		{
			name:  "interpolation line by three",
			src:   "_ = \"\"\"\n    \\(42\n )\n    \"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "_ = \"\"\"\n    \\(42\n    )\n    \"\"\"",
		},
		{
			name:  "escaped newline line",
			src:   "_ = \"\"\"\n    Foo\n\\\n    Bar \n    \"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "_ = \"\"\"\n    Foo\n    \\\n    Bar \n    \"\"\"",
		},
		{
			name:  "tab instead of spaces",
			src:   "_ = \"\"\"\n  Thirteen\n\tXi\n  \"\"\"",
			msgs:  []string{msgTabLine},
			fixed: "_ = \"\"\"\n  Thirteen\n  Xi\n  \"\"\"",
		},
		{
			name:  "tab after spaces",
			src:   "_ = \"\"\"\n    Fourteen\n  \tPi\n    \"\"\"",
			msgs:  []string{msgTabLine},
			fixed: "_ = \"\"\"\n    Fourteen\n    Pi\n    \"\"\"",
		},
		{
			name:  "spaces instead of tab",
			src:   "_ = \"\"\"\n\tThirteen 2\n  Xi 2\n\t\"\"\"",
			msgs:  []string{msgSpaceLine},
			fixed: "_ = \"\"\"\n\tThirteen 2\n\tXi 2\n\t\"\"\"",
		},
		{
			name:  "spaces after tab",
			src:   "_ = \"\"\"\n\t\tFourteen 2\n\t  Pi 2\n\t\t\"\"\"",
			msgs:  []string{msgSpaceLine},
			fixed: "_ = \"\"\"\n\t\tFourteen 2\n\t\tPi 2\n\t\t\"\"\"",
		},
		{
			name:  "two lines one error",
			src:   "_ = \"\"\"\n    Hello,\n        World!\n\t\"\"\"",
			msgs:  []string{"unexpected space in indentation of the next 2 lines in multi-line string literal"},
			fixed: "_ = \"\"\"\n\tHello,\n\tWorld!\n\t\"\"\"",
		},
		{
			name: "runs by kind",
			src: "_ = \"\"\"\nZero A\nZero B\n\tOne A\n\tOne B\n  Two A\n  Two B\nThree A\nThree B\n" +
				"\t\tFour A\n\t\tFour B\n\t\t\tFive A\n\t\t\tFive B\n\t\t\"\"\"",
			msgs: []string{
				"insufficient indentation of the next 4 lines in multi-line string literal",
				"unexpected space in indentation of the next 2 lines in multi-line string literal",
				"insufficient indentation of the next 2 lines in multi-line string literal",
			},
			fixed: "_ = \"\"\"\n\t\tZero A\n\t\tZero B\n\t\tOne A\n\t\tOne B\n\t\tTwo A\n\t\tTwo B\n\t\tThree A\n\t\tThree B\n" +
				"\t\tFour A\n\t\tFour B\n\t\t\tFive A\n\t\t\tFive B\n\t\t\"\"\"",
		},
		{
			name:  "run with interpolation",
			src:   "_ = \"\"\"\nZero A\\(1)B\nZero B\n      X\n    \"\"\"",
			msgs:  []string{"insufficient indentation of the next 2 lines in multi-line string literal"},
			fixed: "_ = \"\"\"\n    Zero A\\(1)B\n    Zero B\n      X\n    \"\"\"",
		},
		{
			name:  "correct line breaks run",
			src:   "_ = \"\"\"\nIncorrect 1\n    Correct\nIncorrect 2\n    \"\"\"",
			msgs:  []string{msgInsufficientLine, msgInsufficientLine},
			fixed: "_ = \"\"\"\n    Incorrect 1\n    Correct\n    Incorrect 2\n    \"\"\"",
		},
		{
			name:  "inside interpolation",
			src:   "  \"\"\"\n  \\(\n1\n  )\n  \"\"\"",
			msgs:  []string{msgInsufficientLine},
			fixed: "  \"\"\"\n  \\(\n  1\n  )\n  \"\"\"",
		},
		{
			name:  "inside interpolation split",
			src:   "  \"\"\"\n  \\(\n1\n  +\n2\n  )\n  \"\"\"",
			msgs:  []string{msgInsufficientLine, msgInsufficientLine},
			fixed: "  \"\"\"\n  \\(\n  1\n  +\n  2\n  )\n  \"\"\"",
		},
		{
			name:  "inside interpolation run",
			src:   "  \"\"\"\n  \\(\n1\n+\n2\n  )\n  \"\"\"",
			msgs:  []string{"insufficient indentation of the next 3 lines in multi-line string literal"},
			fixed: "  \"\"\"\n  \\(\n  1\n  +\n  2\n  )\n  \"\"\"",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) { runMultiline(t, c) })
	}
}

func TestMultiline_Delimiters(t *testing.T) {
	cases := []multilineCase{
		{
			name:  "content on opening line",
			src:   "_ = \"\"\"Fourteen\n    Pi\n    \"\"\"",
			msgs:  []string{msgContentSameLine},
			fixed: "_ = \"\"\"\n    Fourteen\n    Pi\n    \"\"\"",
		},
		{
			name:  "closing after content",
			src:   "_ = \"\"\"\n    Fourteen\n    Pi\"\"\"",
			msgs:  []string{msgCloseSameLine},
			fixed: "_ = \"\"\"\n    Fourteen\n    Pi\n    \"\"\"",
		},
		{
			name:  "closing right after opening",
			src:   "_ = \"\"\"\"\"\"",
			msgs:  []string{msgCloseSameLine},
			fixed: "_ = \"\"\"\n\"\"\"",
		},
		{
			name:  "closing after space",
			src:   "_ = \"\"\" \"\"\"",
			msgs:  []string{msgCloseSameLine},
			fixed: "_ = \"\"\"\n\"\"\"",
		},
		{
			name:  "closing after interpolation",
			src:   "_ = \"\"\"\n\\(1)\"\"\"",
			msgs:  []string{msgCloseSameLine},
			fixed: "_ = \"\"\"\n\\(1)\n\"\"\"",
		},
		{
			name: "unterminated content on opening line",
			src:  "_ = \"\"\"abc\n  def",
			msgs: []string{msgContentSameLine},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) { runMultiline(t, c) })
	}
}

func TestMultiline_Escapes(t *testing.T) {
	cases := []multilineCase{
		{
			name: "backslash before text",
			src:  "_ = \"\"\"\n  line one \\ non-whitespace\n  line two\n  \"\"\"",
			msgs: []string{"invalid escape sequence in literal"},
		},
		{
			name:  "last line",
			src:   "_ = \"\"\"\n  line one\n  line two\\\n  \"\"\"",
			msgs:  []string{msgLastLineEscape},
			fixed: "_ = \"\"\"\n  line one\n  line two\n  \"\"\"",
		},
		{
			name:  "after escaped backslash with trailing whitespace",
			src:   "_ = \"\"\"\n  \\\\\\\t   \n  \"\"\"",
			msgs:  []string{msgLastLineEscape},
			fixed: "_ = \"\"\"\n  \\\\\n  \"\"\"",
		},
		{
			name:  "after interpolation",
			src:   "_ = \"\"\"\n  \\(42)\\\t\t\n  \"\"\"",
			msgs:  []string{msgLastLineEscape},
			fixed: "_ = \"\"\"\n  \\(42)\n  \"\"\"",
		},
		{
			name:  "after text",
			src:   "_ = \"\"\"\n  foo\\\n  \"\"\"",
			msgs:  []string{msgLastLineEscape},
			fixed: "_ = \"\"\"\n  foo\n  \"\"\"",
		},
		{
			name:  "alone on the line",
			src:   "_ = \"\"\"\n\\\n  \"\"\"",
			msgs:  []string{msgLastLineEscape},
			fixed: "_ = \"\"\"\n  \n  \"\"\"",
		},
		{
			name:  "on the opening line",
			src:   "_ = \"\"\"\\\n  \"\"\"",
			msgs:  []string{msgContentSameLine, msgLastLineEscape},
			fixed: "_ = \"\"\"\n  \n  \"\"\"",
		},
		{
			name: "at end of file",
			src:  "_ = \"\"\"\n  foo\\",
			msgs: []string{"invalid escape sequence in literal"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) { runMultiline(t, c) })
	}
}

// Одна диагностика на группу строк, но исправление на каждую строку.
func TestMultiline_OneFixPerLine(t *testing.T) {
	src := "_ = \"\"\"\na\nb\nc\nd\n\te\n\tf\n    \"\"\""
	lx, reporter := makeTestLexer(src)
	collectAllTokens(lx)

	if len(reporter.diagnostics) != 2 {
		t.Fatalf("diagnostics: %v", reporter.ErrorMessages())
	}
	insufficient, tabs := reporter.diagnostics[0], reporter.diagnostics[1]
	if insufficient.Code != diag.LexInsufficientIndentation || len(insufficient.Fixes) != 4 {
		t.Fatalf("first run: %v with %d fixes", insufficient.Code, len(insufficient.Fixes))
	}
	if tabs.Code != diag.LexUnexpectedTabIndent || len(tabs.Fixes) != 2 {
		t.Fatalf("second run: %v with %d fixes", tabs.Code, len(tabs.Fixes))
	}
	if n := len(fix.All(reporter.diagnostics)); n != 6 {
		t.Fatalf("fixes total %d, want 6", n)
	}
	for _, d := range reporter.diagnostics {
		if len(d.Notes) != 1 || d.Notes[0].Msg != "should match indentation here" {
			t.Fatalf("notes: %+v", d.Notes)
		}
		if want := uint32(strings.LastIndex(src, `"""`)); d.Notes[0].Span.Start != want {
			t.Fatalf("note at %d, want %d", d.Notes[0].Span.Start, want)
		}
		if d.Fixes[0].Title != "change indentation of these lines to match closing delimiter" {
			t.Fatalf("fix title %q", d.Fixes[0].Title)
		}
	}
	// диагностика указывает на первую строку группы
	if want := uint32(strings.Index(src, "a\n")); insufficient.Primary.Start != want {
		t.Fatalf("primary at %d, want %d", insufficient.Primary.Start, want)
	}
}
