package diag

import "lexis/internal/source"

// Reporter receives diagnostics as they are produced. The lexer reports
// while scanning; the parser reports once per parse, after sorting, and
// stops at Options.MaxErrors. A nil Reporter is valid everywhere and
// discards diagnostics: callers that need them read the parse result.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// ReportBuilder собирает одну диагностику лексера: заметки и исправления
// добавляются цепочкой, Emit отправляет её ровно один раз.
//
//	lx.errLex(code, sp, msg).
//		WithNote(open, "to match this opening '`'").
//		WithFixSuggestion(fix.InsertText(...)).
//		Emit()
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// ReportError starts an error diagnostic for r.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     NewError(code, primary, msg),
	}
}

// WithNote points at a related span, usually the opener of an unterminated
// construct or the line an indentation must match.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

// WithFixSuggestion attaches a fix built with the fix package helpers.
// Indentation diagnostics call it once per affected line.
func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithFixSuggestion(fix)
	return b
}

// Emit sends the diagnostic; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		b.reporter.Report(b.diag.Code, b.diag.Severity, b.diag.Primary, b.diag.Message, b.diag.Notes, b.diag.Fixes)
	}
}

// BagReporter collects into a Bag; the driver lexes through it. Reports
// beyond the bag's limit are dropped.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}
