package fix

import (
	"bytes"
	"fmt"
	"sort"

	"lexis/internal/diag"
)

// BufferOptions configures ApplyToBuffer.
type BufferOptions struct {
	// NormalizeNewlines rewrites every "\r\n" and "\r" of the result to "\n".
	NormalizeNewlines bool
}

// ConflictError reports two edits touching the same bytes.
type ConflictError struct {
	First, Second diag.TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("fix: edit %d-%d conflicts with edit %d-%d",
		e.Second.Span.Start, e.Second.Span.End, e.First.Span.Start, e.First.Span.End)
}

// MismatchError reports an edit whose OldText guard does not match the buffer.
type MismatchError struct {
	Edit diag.TextEdit
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("fix: expected %q at %d-%d, found %q",
		e.Edit.OldText, e.Edit.Span.Start, e.Edit.Span.End, e.Got)
}

// All collects every fix of every diagnostic, in diagnostic order.
func All(diagnostics []diag.Diagnostic) []diag.Fix {
	var out []diag.Fix
	for i := range diagnostics {
		out = append(out, diagnostics[i].Fixes...)
	}
	return out
}

// ApplyToBuffer replays fixes against buf and returns the corrected text.
// Edit offsets refer to buf. buf itself is never modified.
func ApplyToBuffer(buf []byte, fixes []diag.Fix, opts BufferOptions) ([]byte, error) {
	var edits []diag.TextEdit
	for _, f := range fixes {
		edits = append(edits, f.Edits...)
	}
	out, err := applyEdits(buf, edits)
	if err != nil {
		return nil, err
	}
	if opts.NormalizeNewlines {
		out = normalizeNewlines(out)
	}
	return out, nil
}

// applyEdits validates edits against base and applies them in descending
// offset order so earlier offsets stay valid.
func applyEdits(base []byte, edits []diag.TextEdit) ([]byte, error) {
	type indexed struct {
		diag.TextEdit
		idx int
	}
	ordered := make([]indexed, len(edits))
	for i, e := range edits {
		if int(e.Span.End) > len(base) || e.Span.Start > e.Span.End {
			return nil, fmt.Errorf("fix: edit %d-%d out of range (len %d)", e.Span.Start, e.Span.End, len(base))
		}
		if e.OldText != "" {
			if got := string(base[e.Span.Start:e.Span.End]); got != e.OldText {
				return nil, &MismatchError{Edit: e, Got: got}
			}
		}
		ordered[i] = indexed{TextEdit: e, idx: i}
	}
	// по убыванию start, затем end; вставки в одну точку - в обратном порядке
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start > b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End > b.Span.End
		}
		return a.idx > b.idx
	})
	for i := 1; i < len(ordered); i++ {
		if spansConflict(ordered[i-1].TextEdit, ordered[i].TextEdit) {
			return nil, &ConflictError{First: ordered[i].TextEdit, Second: ordered[i-1].TextEdit}
		}
	}

	out := append([]byte(nil), base...)
	for _, e := range ordered {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return out, nil
}

// spansConflict reports whether two edits touch the same bytes.
// Spans are half-open. Insertions never conflict with each other and an
// insertion at either boundary of a replaced range is allowed; an insertion
// strictly inside a replaced range, or overlapping ranges, conflict.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func normalizeNewlines(b []byte) []byte {
	if !bytes.ContainsRune(b, '\r') {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\r' {
			if i+1 < len(b) && b[i+1] == '\n' {
				i++
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, b[i])
	}
	return out
}
