package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexis/internal/availability"
	"lexis/internal/diag"
	"lexis/internal/fix"
	"lexis/internal/parser"
	"lexis/internal/source"
)

func TestReadUIMode(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := readUIMode("sometimes")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log, err := newLogger(&buf, "json", true, "never")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.WithField("file", "a.swift").Debug("parsed")
	assert.Contains(t, buf.String(), `"file":"a.swift"`)

	buf.Reset()
	log, err = newLogger(&buf, "text", false, "never")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger(&buf, "xml", false, "never")
	require.Error(t, err)
}

func TestHandleApplyResult(t *testing.T) {
	t.Parallel()
	res := &fix.ApplyResult{
		Applied: []fix.AppliedFix{{
			ID: "f1", Title: "insert ';'", PrimaryPath: "a.swift", EditCount: 1,
			Applicability: diag.FixApplicabilityAlwaysSafe,
		}},
		FileChanges: []fix.FileChange{{Path: "a.swift", EditCount: 1}},
		Skipped:     []fix.SkippedFix{{ID: "f2", Reason: "applicability is manual-review"}},
	}
	var buf bytes.Buffer
	require.NoError(t, handleApplyResult(&buf, res, nil, true))
	out := buf.String()
	assert.Contains(t, out, "Would apply 1 fix(es):")
	assert.Contains(t, out, "insert ';' [f1] at a.swift (1 edits, always-safe)")
	assert.Contains(t, out, "Files that would change:")
	assert.Contains(t, out, "[f2]: applicability is manual-review")

	buf.Reset()
	require.NoError(t, handleApplyResult(&buf, &fix.ApplyResult{}, fix.ErrNoFixes, false))
	assert.Equal(t, "No applicable fixes found.\n", buf.String())

	boom := errors.New("write failed")
	require.ErrorIs(t, handleApplyResult(&buf, &fix.ApplyResult{}, boom, false), boom)
}

func TestOpenBrackets(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		"let a = 1\n":               0,
		"func f() {\n":              1,
		"foo(bar[1\n":               2,
		"let s = \"{(\"\n":          0,
		"// {\nstruct S {}\n":       0,
		"struct S {\n  var x = [\n": 2,
	}
	for src, want := range cases {
		assert.Equal(t, want, openBrackets(src), src)
	}
}

func TestEvalSnippet(t *testing.T) {
	var buf bytes.Buffer
	evalSnippet(&buf, "<repl:1>", "let a = 1\n", replViewTree)
	assert.Contains(t, buf.String(), "SourceFile")

	buf.Reset()
	evalSnippet(&buf, "<repl:2>", "let a = 1\n", replViewTokens)
	assert.Contains(t, buf.String(), "Identifier")
}

func TestPrintAvailability(t *testing.T) {
	fs := source.NewFileSet()
	src := "@available(macOS 10.15, *)\n@available(*, deprecated, message: \"use g\")\nfunc f() {}\n"
	res := parser.ParseFile(fs.Get(fs.AddVirtual("a.swift", []byte(src))), parser.Options{})
	require.Empty(t, res.Diagnostics)
	decls, errs := availability.Collect(res.Tree.Root)
	require.Empty(t, errs)
	require.Len(t, decls, 1)

	var buf bytes.Buffer
	printAvailability(&buf, decls, &availabilityQuery{platform: "macOS", version: semver.MustParse("11.0")})
	out := buf.String()
	assert.Contains(t, out, "f: available on macOS 11.0.0")
	assert.Contains(t, out, "  macOS, introduced 10.15.0\n")
	assert.Contains(t, out, "  *, deprecated, message \"use g\"\n")

	buf.Reset()
	printAvailability(&buf, decls, &availabilityQuery{platform: "macOS", version: semver.MustParse("10.14")})
	assert.Contains(t, buf.String(), "f: unavailable on macOS 10.14.0")
}
