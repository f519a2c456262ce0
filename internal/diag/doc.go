// Package diag defines the diagnostic model shared by the lexer and parser.
//
// # Purpose
//
//   - Provide deterministic, serialisable records of findings produced while
//     lexing and parsing.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Model fix-its as structured text edits that internal/fix can replay
//     against the original buffer.
//
// Package diag performs no formatting and no IO. Rendering lives in
// internal/diagfmt; applying fixes lives in internal/fix.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning, Error.
//   - Code: numeric identifier with a stable string form (LEX1102, SYN2003).
//   - Message: the user-facing text, matched verbatim by tests.
//   - Primary: the span the diagnostic points at; may be empty (a point).
//   - Notes: secondary spans, e.g. "to match this opening '('".
//   - Fixes: Fix records, each an ordered list of TextEdit.
//
// A diagnostic is immutable once emitted. Consumers read Bag.Items after
// Bag.Sort, which orders by position and keeps emission order for ties.
//
// # Fix-its
//
// A Fix carries a Title ("insert newline"), Kind, Applicability, IsPreferred
// and Edits. Edit spans are byte offsets into the buffer the diagnostic was
// produced from; OldText optionally guards the replaced text.
//
// A diagnostic may carry several fixes that belong together: indentation
// diagnostics covering N lines carry one fix per line.
//
// # Emitting diagnostics
//
// The lexer emits through ReportBuilder
// (ReportError(...).WithNote(...).WithFixSuggestion(...).Emit()).
// The parser buffers diagnostics so that backtracking can discard them, and
// flushes the survivors to its Reporter at the end of a parse.
package diag
