// Package testkit holds invariant checks shared by package tests and fuzz
// targets.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"lexis/internal/diag"
	"lexis/internal/fix"
	"lexis/internal/source"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// CheckRoundTrip verifies that leading trivia, text and trailing trivia of
// every token, in order, reproduce the file content byte for byte.
func CheckRoundTrip(file *source.File, toks []token.Token) error {
	var sb strings.Builder
	for i := range toks {
		sb.WriteString(toks[i].FullText())
	}
	if got := sb.String(); got != string(file.Content) {
		return fmt.Errorf("round trip mismatch at byte %d", firstDiff(got, string(file.Content)))
	}
	return nil
}

// CheckTokenSpans проверяет, что токены идут по возрастанию смещений, не
// выходят за границы файла и что текст совпадает с содержимым под span.
func CheckTokenSpans(file *source.File, toks []token.Token) error {
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prev uint32
	for i := range toks {
		tok := &toks[i]
		sp := tok.Span
		if sp.File != file.ID {
			return fmt.Errorf("token %d (%s): file id %d, want %d", i, tok.Kind, sp.File, file.ID)
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("token %d (%s): span %v out of range", i, tok.Kind, sp)
		}
		if tok.IsMissing() {
			if tok.Text != "" || sp.Start != sp.End {
				return fmt.Errorf("token %d (%s): missing token with text %q", i, tok.Kind, tok.Text)
			}
			continue
		}
		if sp.Start < prev {
			return fmt.Errorf("token %d (%s): starts at %d before previous end %d", i, tok.Kind, sp.Start, prev)
		}
		if got := string(file.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %d (%s): text %q, content %q", i, tok.Kind, tok.Text, got)
		}
		prev = sp.End
	}
	return nil
}

// CheckTree verifies the full-fidelity text of the tree, the shape of every
// composite node and the spans of its tokens.
func CheckTree(file *source.File, tree *syntax.Tree) error {
	if tree == nil || tree.Root == nil {
		return fmt.Errorf("nil tree")
	}
	if got := tree.Root.FullText(); got != string(file.Content) {
		return fmt.Errorf("tree text mismatch at byte %d", firstDiff(got, string(file.Content)))
	}
	if err := syntax.Validate(tree.Root); err != nil {
		return fmt.Errorf("shape: %w", err)
	}
	return CheckTokenSpans(file, tree.Root.Tokens())
}

// Reparse produces the diagnostics of a buffer; tests pass a closure over
// the lexer or the parser.
type Reparse func(buf []byte) []diag.Diagnostic

// CheckFixClosure applies every fix of diags to buf, reparses the result and
// reports any diagnostic whose code was among the fixed ones. Only
// diagnostics that carry fixes and whose code is accepted by filter (nil
// accepts all) are checked.
func CheckFixClosure(buf []byte, diags []diag.Diagnostic, reparse Reparse, filter func(diag.Code) bool) error {
	fixed := make(map[diag.Code]bool)
	for _, d := range diags {
		if len(d.Fixes) > 0 && (filter == nil || filter(d.Code)) {
			fixed[d.Code] = true
		}
	}
	if len(fixed) == 0 {
		return nil
	}
	out, err := fix.ApplyToBuffer(buf, fix.All(diags), fix.BufferOptions{})
	if err != nil {
		return fmt.Errorf("apply fixes: %w", err)
	}
	for _, d := range reparse(out) {
		if fixed[d.Code] {
			return fmt.Errorf("%s survives fixes: %s\nfixed text: %q", d.Code.ID(), d.Message, out)
		}
	}
	return nil
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
