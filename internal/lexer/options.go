package lexer

import (
	"lexis/internal/diag"
	"lexis/internal/source"
)

// DefaultMaxInterpolationDepth bounds nesting of "\(" inside string literals.
const DefaultMaxInterpolationDepth = 16

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// MaxInterpolationDepth caps nested interpolations; 0 selects DefaultMaxInterpolationDepth.
	MaxInterpolationDepth int
}

func (o Options) maxInterpolationDepth() int {
	if o.MaxInterpolationDepth <= 0 {
		return DefaultMaxInterpolationDepth
	}
	return o.MaxInterpolationDepth
}

// errLex starts an error diagnostic; the caller decides on notes and fixes and calls Emit.
func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(lx.opts.Reporter, code, sp, msg)
}
