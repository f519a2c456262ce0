package parser

import (
	"strings"

	"lexis/internal/diag"
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// parseStringLiteral собирает литерал из структурных токенов лексера.
// Свои токены литерала имеют Depth открывающей кавычки и FlagStringPart;
// токены выражений интерполяций лежат на уровень глубже.
func (p *Parser) parseStringLiteral() *syntax.Node {
	d := p.cur().Depth
	var openPounds *syntax.Node
	if p.at(token.RawStringPoundDelimiter) {
		openPounds = p.take()
	}
	var open *syntax.Node
	if p.atOr(token.StringQuote, token.MultilineStringQuote) {
		open = p.take()
	} else {
		open = p.expect(token.StringQuote, phraseIn(schema.StringLiteralExpr))
	}
	quoteKind := open.Token().Kind

	var segs []*syntax.Node
loop:
	for {
		tok := p.cur()
		if tok.Depth != d || tok.Flags&token.FlagStringPart == 0 || tok.Flags&token.FlagClosingDelimiter != 0 {
			break
		}
		switch tok.Kind {
		case token.StringSegment:
			segs = append(segs, syntax.NewComposite(schema.StringSegment, p.take()))
		case token.Backslash:
			segs = append(segs, p.parseInterpolation(d))
		default:
			break loop
		}
	}

	var closeQuote, closePounds *syntax.Node
	if p.atClosingQuote(quoteKind, d) {
		closeQuote = p.take()
		if openPounds != nil {
			if tok := p.cur(); tok.Kind == token.RawStringPoundDelimiter && tok.Flags&token.FlagClosingDelimiter != 0 {
				closePounds = p.take()
			} else {
				closePounds = p.missingToken(token.RawStringPoundDelimiter)
			}
		}
	} else {
		// кавычка и решётки - один отсутствующий элемент: '"#'
		text := quoteKind.Spelling()
		if openPounds != nil {
			text += strings.Repeat("#", len(openPounds.Token().Text))
		}
		p.reportMissing(diag.SynUnterminatedString, "'"+text+"'", text, phraseToEnd(schema.StringLiteralExpr), nil)
		closeQuote = p.missingToken(quoteKind)
		if openPounds != nil {
			closePounds = p.missingToken(token.RawStringPoundDelimiter)
		}
	}
	return syntax.NewComposite(schema.StringLiteralExpr,
		openPounds, open, syntax.NewCollection(schema.StringLiteralSegmentList, segs...), closeQuote, closePounds)
}

func (p *Parser) atClosingQuote(k token.Kind, depth uint16) bool {
	tok := p.cur()
	const closing = token.FlagStringPart | token.FlagClosingDelimiter
	return tok.Kind == k && tok.Depth == depth && tok.Flags&closing == closing
}

// parseInterpolation: \( выражения ). Пока разбираются выражения, токены
// самого литерала выглядят как конец ввода, поэтому чужая ')' или кавычка
// не может закрыть вложенную конструкцию.
func (p *Parser) parseInterpolation(d uint16) *syntax.Node {
	bs := p.take()
	var pounds *syntax.Node
	if tok := p.cur(); tok.Kind == token.RawStringPoundDelimiter && tok.Depth == d {
		pounds = p.take()
	}
	var lp *syntax.Node
	if tok := p.cur(); tok.Kind == token.LeftParen && tok.Depth == d {
		lp = p.take()
	} else {
		lp = p.expect(token.LeftParen, phraseIn(schema.StringLiteralExpr))
	}

	phrase := phraseIn(schema.StringLiteralExpr)
	saved := p.minDepth
	p.minDepth = d + 1
	exprs := p.parseLabeledExprs(phrase, true)
	var rest []*syntax.Node
	for !p.atEOF() {
		rest = append(rest, p.take())
	}
	unexpected := p.unexpectedNode(rest, diag.SynUnexpectedCode, "unexpected code", phrase)
	p.minDepth = saved

	var rp *syntax.Node
	if tok := p.cur(); tok.Kind == token.RightParen && tok.Depth == d && tok.Flags&token.FlagStringPart != 0 {
		rp = p.take()
	} else {
		var note *matchNote
		if !lp.IsMissing() {
			note = &matchNote{span: lp.Token().Span, text: lp.Token().Text}
		}
		p.reportMissing(diag.SynUnterminatedInterpolation, "')'", ")", phrase, note)
		rp = p.missingToken(token.RightParen)
	}
	return syntax.NewComposite(schema.ExpressionSegment,
		bs, pounds, lp, syntax.NewCollection(schema.LabeledExprList, exprs...), unexpected, rp)
}
