package parser

import (
	"slices"

	"fortio.org/safecast"

	"lexis/internal/schema"
	"lexis/internal/source"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// cur - текущий токен так, как его видит грамматика: с отрезанным
// префиксом после разбиения и EOF вместо токенов внешнего литерала.
func (p *Parser) cur() token.Token {
	tok := p.toks[p.pos]
	if tok.Depth < p.minDepth {
		return token.Token{Kind: token.EOF, Span: source.Point(tok.Span.File, tok.Span.Start), Depth: tok.Depth}
	}
	if p.partial > 0 {
		return p.remainder(tok)
	}
	return tok
}

func (p *Parser) remainder(tok token.Token) token.Token {
	rest := tok.Text[p.partial:]
	start := tok.Span.Start + toU32(p.partial)
	out := tok
	out.Text = rest
	out.Span = source.Span{File: tok.Span.File, Start: start, End: tok.Span.End}
	out.Leading = nil
	switch rest {
	case "?":
		out.Kind = token.PostfixQuestionMark
	case "!":
		out.Kind = token.ExclamationMark
	}
	return out
}

// peek смотрит на n токенов вперёд, не учитывая разбиение текущего.
func (p *Parser) peek(n int) token.Token {
	if n == 0 {
		return p.cur()
	}
	i := min(p.pos+n, len(p.toks)-1)
	tok := p.toks[i]
	if tok.Depth < p.minDepth {
		return token.Token{Kind: token.EOF, Span: source.Point(tok.Span.File, tok.Span.Start)}
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.cur().Kind)
}

func (p *Parser) atEOF() bool {
	return p.at(token.EOF)
}

// advance - съедает текущий токен. EOF не потребляется.
func (p *Parser) advance() token.Token {
	tok := p.cur()
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.partial = 0
	if tok.Text != "" {
		p.lastEnd = tok.Span.End
	}
	return tok
}

// take оборачивает текущий токен в лист дерева.
func (p *Parser) take() *syntax.Node {
	return syntax.NewToken(p.advance())
}

// takeAs съедает токен, переназначая ему вид: ключевое слово в роли имени
// становится идентификатором, '<' оператора - угловой скобкой.
func (p *Parser) takeAs(k token.Kind) *syntax.Node {
	tok := p.advance()
	tok.Kind = k
	return syntax.NewToken(tok)
}

func (p *Parser) takeIf(k token.Kind) *syntax.Node {
	if p.at(k) {
		return p.take()
	}
	return nil
}

// splitPrefix съедает первые n байт текущего токена как токен вида k.
// Leading остаётся у первой части, Trailing - у последней.
func (p *Parser) splitPrefix(n int, k token.Kind) *syntax.Node {
	tok := p.toks[p.pos]
	off := p.partial
	start := tok.Span.Start + toU32(off)
	piece := token.Token{
		Kind:  k,
		Text:  tok.Text[off : off+n],
		Span:  source.Span{File: tok.Span.File, Start: start, End: start + toU32(n)},
		Flags: tok.Flags,
		Depth: tok.Depth,
	}
	if off == 0 {
		piece.Leading = tok.Leading
	}
	if off+n == len(tok.Text) {
		piece.Trailing = tok.Trailing
		p.pos++
		p.partial = 0
	} else {
		p.partial += n
	}
	p.lastEnd = piece.Span.End
	return syntax.NewToken(piece)
}

// atOperatorPrefix: текущий токен - оператор, который начинается с prefix.
func (p *Parser) atOperatorPrefix(prefix string) bool {
	tok := p.cur()
	return tok.IsOperator() && len(tok.Text) >= len(prefix) && tok.Text[:len(prefix)] == prefix
}

// missingAt - место для отсутствующего токена: сразу после текста
// последнего съеденного токена.
func (p *Parser) missingAt() source.Span {
	return source.Point(p.file.ID, p.lastEnd)
}

func (p *Parser) missingToken(k token.Kind) *syntax.Node {
	return syntax.NewToken(token.Missing(k, p.missingAt()))
}

// expect съедает токен вида k или синтезирует отсутствующий с диагностикой.
func (p *Parser) expect(k token.Kind, phrase string) *syntax.Node {
	if p.at(k) {
		return p.take()
	}
	p.reportMissing(missingKindCode(k), describeMissing(k), insertText(k), phrase, nil)
	return p.missingToken(k)
}

// expectClose - закрывающая скобка; при наличии открывающей добавляется заметка.
func (p *Parser) expectClose(k token.Kind, open *syntax.Node, phrase string) *syntax.Node {
	if p.at(k) {
		return p.take()
	}
	var note *matchNote
	if open != nil && !open.IsMissing() {
		note = &matchNote{span: open.Token().Span, text: open.Token().Text}
	}
	p.reportMissing(missingKindCode(k), describeMissing(k), insertText(k), phrase, note)
	return p.missingToken(k)
}

func (p *Parser) missingIdentifier(phrase string) *syntax.Node {
	p.reportMissing(missingKindCode(token.Identifier), "identifier", "<#identifier#>", phrase, nil)
	return p.missingToken(token.Identifier)
}

func (p *Parser) missingExpr(desc, phrase string) *syntax.Node {
	p.reportMissing(codeExpectedExpression, desc, "<#expression#>", phrase, nil)
	return syntax.NewComposite(schema.MissingExpr, p.missingToken(token.Identifier))
}

func (p *Parser) missingType(phrase string) *syntax.Node {
	p.reportMissing(codeExpectedType, "type", "<#type#>", phrase, nil)
	return syntax.NewComposite(schema.MissingType, p.missingToken(token.Identifier))
}

// silentMissingExpr - заглушка без диагностики, когда превышена глубина.
func (p *Parser) silentMissingExpr() *syntax.Node {
	return syntax.NewComposite(schema.MissingExpr, p.missingToken(token.Identifier))
}

type snapshot struct {
	pos, partial int
	lastEnd      uint32
	pending      int
	last         pendingDiag
	quiet        bool
	tooDeep      bool
}

// snapshot запоминает позицию вместе с отложенными диагностиками;
// restore откатывает и то и другое.
func (p *Parser) snapshot() snapshot {
	s := snapshot{pos: p.pos, partial: p.partial, lastEnd: p.lastEnd, pending: len(p.pending), quiet: p.quiet, tooDeep: p.tooDeep}
	if n := len(p.pending); n > 0 {
		s.last = p.pending[n-1]
	}
	return s
}

func (p *Parser) restore(s snapshot) {
	p.pos, p.partial, p.lastEnd = s.pos, s.partial, s.lastEnd
	p.quiet, p.tooDeep = s.quiet, s.tooDeep
	p.pending = p.pending[:s.pending]
	if s.pending > 0 {
		p.pending[s.pending-1] = s.last
	}
}

func phraseIn(k schema.Kind) string    { return "in " + schema.DiagnosticName(k) }
func phraseToEnd(k schema.Kind) string { return "to end " + schema.DiagnosticName(k) }

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return v
}
