package fix

import (
	"lexis/internal/diag"
	"lexis/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func build(title string, kind diag.FixKind, app diag.FixApplicability, edits []diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          kind,
		Applicability: app,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at the start of at.
func InsertText(title string, at source.Span, text string, opts ...Option) diag.Fix {
	edit := diag.TextEdit{
		Span:    source.Point(at.File, at.Start),
		NewText: text,
	}
	return build(title, diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, []diag.TextEdit{edit}, opts)
}

// DeleteSpan removes text covered by span; expect guards the removed text.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	edit := diag.TextEdit{
		Span:    span,
		OldText: expect,
	}
	return build(title, diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, []diag.TextEdit{edit}, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	edit := diag.TextEdit{
		Span:    span,
		NewText: newText,
		OldText: expect,
	}
	return build(title, diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, []diag.TextEdit{edit}, opts)
}

// WrapWith surrounds span with prefix and suffix insertions.
func WrapWith(title string, span source.Span, prefix, suffix string, opts ...Option) diag.Fix {
	edits := []diag.TextEdit{
		{
			Span:    source.Point(span.File, span.Start),
			NewText: prefix,
		},
		{
			Span:    source.Point(span.File, span.End),
			NewText: suffix,
		},
	}
	return build(title, diag.FixKindRewrite, diag.FixApplicabilitySafeWithHeuristics, edits, opts)
}
