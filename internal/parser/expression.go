package parser

import (
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// parseExpr разбирает выражение в контексте ctx; ctx попадает в текст
// диагностики об отсутствующем операнде.
func (p *Parser) parseExpr(ctx schema.Kind) *syntax.Node {
	return p.parseSequence(phraseIn(ctx))
}

// parseSequence - операнды через бинарные операторы и '='. Приоритеты здесь
// не применяются: дерево хранит плоскую последовательность. Оператор в
// начале следующей строки продолжает выражение.
func (p *Parser) parseSequence(phrase string) *syntax.Node {
	ok := p.enter()
	defer p.leave()
	if !ok {
		return p.silentMissingExpr()
	}
	first := p.parseUnary(phrase)
	elems := []*syntax.Node{first}
	for {
		var op *syntax.Node
		switch p.cur().Kind {
		case token.BinaryOperator:
			op = syntax.NewComposite(schema.BinaryOperatorExpr, p.take())
		case token.Equal:
			op = syntax.NewComposite(schema.AssignmentExpr, p.take())
		}
		if op == nil {
			break
		}
		elems = append(elems, op, p.parseUnary(phrase))
	}
	if len(elems) == 1 {
		return first
	}
	return syntax.NewComposite(schema.SequenceExpr, syntax.NewCollection(schema.ExprList, elems...))
}

func (p *Parser) parseUnary(phrase string) *syntax.Node {
	if !p.atOr(token.PrefixOperator, token.PrefixAmpersand) {
		return p.parsePostfix(p.parsePrimary(phrase))
	}
	ok := p.enter()
	defer p.leave()
	if !ok {
		return p.silentMissingExpr()
	}
	op := p.take()
	return syntax.NewComposite(schema.PrefixOperatorExpr, op, p.parseUnary(phrase))
}

func (p *Parser) parsePrimary(phrase string) *syntax.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.Identifier:
		if tok.Flags&token.FlagEditorPlaceholder != 0 {
			p.checkPlaceholder(tok)
			return syntax.NewComposite(schema.EditorPlaceholderExpr, p.take())
		}
		return syntax.NewComposite(schema.DeclReferenceExpr, p.take())
	case token.KwSelf, token.KwCapitalSelf, token.KwSuper, token.KwInit, token.KwAny:
		return syntax.NewComposite(schema.DeclReferenceExpr, p.take())
	case token.Wildcard:
		return syntax.NewComposite(schema.DiscardAssignmentExpr, p.take())
	case token.IntegerLiteral:
		return syntax.NewComposite(schema.IntegerLiteralExpr, p.take())
	case token.FloatingLiteral:
		return syntax.NewComposite(schema.FloatLiteralExpr, p.take())
	case token.KwTrue, token.KwFalse:
		return syntax.NewComposite(schema.BooleanLiteralExpr, p.take())
	case token.KwNil:
		return syntax.NewComposite(schema.NilLiteralExpr, p.take())
	case token.StringQuote, token.MultilineStringQuote, token.RawStringPoundDelimiter:
		if tok.Flags&token.FlagClosingDelimiter == 0 {
			return p.parseStringLiteral()
		}
	case token.LeftParen:
		return p.parseTuple()
	case token.LeftSquare:
		return p.parseArray()
	case token.LeftBrace:
		return p.parseClosure()
	case token.Period:
		// неявный член: .some
		period := p.take()
		return syntax.NewComposite(schema.MemberAccessExpr, nil, period, p.parseMemberName())
	case token.Unknown:
		return syntax.NewComposite(schema.UnknownExpr, p.take())
	case token.BinaryOperator, token.PostfixOperator:
		if p.atOperatorReference() {
			return syntax.NewComposite(schema.DeclReferenceExpr, p.take())
		}
	}
	return p.missingExpr("expression", phrase)
}

// parseMemberName - имя после '.'. Ключевые слова, кроме допустимых в
// DeclReferenceExpr, становятся идентификаторами.
func (p *Parser) parseMemberName() *syntax.Node {
	tok := p.cur()
	switch {
	case tok.Kind == token.Identifier,
		tok.Kind == token.KwSelf, tok.Kind == token.KwInit:
		return syntax.NewComposite(schema.DeclReferenceExpr, p.take())
	case tok.Kind.IsKeyword() && !tok.AtLineStart():
		return syntax.NewComposite(schema.DeclReferenceExpr, p.takeAs(token.Identifier))
	}
	return syntax.NewComposite(schema.DeclReferenceExpr, p.missingIdentifier(phraseIn(schema.MemberAccessExpr)))
}

// parsePostfix: обращение к члену, вызов, замыкание после вызова и
// постфиксные операторы. Вызов и замыкание - только на той же строке.
func (p *Parser) parsePostfix(base *syntax.Node) *syntax.Node {
	for {
		tok := p.cur()
		switch {
		case tok.Kind == token.Period:
			period := p.take()
			base = syntax.NewComposite(schema.MemberAccessExpr, base, period, p.parseMemberName())
		case tok.Kind == token.LeftParen && !tok.AtLineStart():
			base = p.parseCall(base)
		case tok.Kind == token.LeftBrace && !tok.AtLineStart():
			closure := p.parseClosure()
			base = syntax.NewComposite(schema.FunctionCallExpr,
				base, nil, syntax.NewCollection(schema.LabeledExprList), nil, nil, closure)
		case tok.Kind == token.PostfixOperator, tok.Kind == token.ExclamationMark, tok.Kind == token.PostfixQuestionMark:
			base = syntax.NewComposite(schema.PostfixOperatorExpr, base, p.take())
		default:
			return base
		}
	}
}

func (p *Parser) parseCall(callee *syntax.Node) *syntax.Node {
	lp := p.take()
	args := p.parseLabeledExprs(phraseIn(schema.FunctionCallExpr), false)
	unexpected := p.unexpectedBefore(token.RightParen, phraseIn(schema.FunctionCallExpr))
	rp := p.expectClose(token.RightParen, lp, phraseToEnd(schema.FunctionCallExpr))
	var closure *syntax.Node
	if tok := p.cur(); tok.Kind == token.LeftBrace && !tok.AtLineStart() {
		closure = p.parseClosure()
	}
	return syntax.NewComposite(schema.FunctionCallExpr,
		callee, lp, syntax.NewCollection(schema.LabeledExprList, args...), unexpected, rp, closure)
}

// parseLabeledExprs разбирает "label: expr, expr, ..." до ')'. requireOne -
// пустой список считается отсутствующим значением.
func (p *Parser) parseLabeledExprs(phrase string, requireOne bool) []*syntax.Node {
	var out []*syntax.Node
	for {
		tok := p.cur()
		hasLabel := p.peek(1).Kind == token.Colon &&
			(tok.Kind == token.Identifier || tok.Kind == token.Wildcard || tok.Kind.IsKeyword())
		if !hasLabel && !p.canStartExpr(tok) && !p.atOperatorReference() {
			if requireOne && len(out) == 0 {
				missing := p.missingExpr("value", phrase)
				out = append(out, syntax.NewComposite(schema.LabeledExpr, nil, nil, missing, nil))
			}
			return out
		}
		var label, colon, value *syntax.Node
		if hasLabel {
			if tok.Kind.IsKeyword() {
				label = p.takeAs(token.Identifier)
			} else {
				label = p.take()
			}
			colon = p.take()
		}
		if p.canStartExpr(p.cur()) || p.atOperatorReference() || !hasLabel {
			value = p.parseSequence(phrase)
		} else {
			value = p.missingExpr("value", phrase)
		}
		comma := p.takeIf(token.Comma)
		out = append(out, syntax.NewComposite(schema.LabeledExpr, label, colon, value, comma))
		if comma == nil {
			return out
		}
	}
}

func (p *Parser) parseTuple() *syntax.Node {
	lp := p.take()
	elems := p.parseLabeledExprs(phraseIn(schema.TupleExpr), false)
	unexpected := p.unexpectedBefore(token.RightParen, phraseIn(schema.TupleExpr))
	rp := p.expectClose(token.RightParen, lp, phraseToEnd(schema.TupleExpr))
	return syntax.NewComposite(schema.TupleExpr, lp, syntax.NewCollection(schema.LabeledExprList, elems...), unexpected, rp)
}

func (p *Parser) parseArray() *syntax.Node {
	lb := p.take()
	var elems []*syntax.Node
	for p.canStartExpr(p.cur()) {
		value := p.parseSequence(phraseIn(schema.ArrayExpr))
		comma := p.takeIf(token.Comma)
		elems = append(elems, syntax.NewComposite(schema.ArrayElement, value, comma))
		if comma == nil {
			break
		}
	}
	unexpected := p.unexpectedBefore(token.RightSquare, phraseIn(schema.ArrayExpr))
	rb := p.expectClose(token.RightSquare, lb, phraseToEnd(schema.ArrayExpr))
	return syntax.NewComposite(schema.ArrayExpr, lb, syntax.NewCollection(schema.ArrayElementList, elems...), unexpected, rb)
}

func (p *Parser) parseClosure() *syntax.Node {
	lb := p.take()
	ok := p.enter()
	defer p.leave()
	var items []*syntax.Node
	var unexpected *syntax.Node
	if ok {
		items = p.parseCodeBlockItems(blockCode, phraseIn(schema.ClosureExpr))
	} else {
		unexpected = syntax.NewCollection(schema.UnexpectedCode, p.collectUnexpected(nil)...)
		if unexpected.NumChildren() == 0 {
			unexpected = nil
		}
	}
	rb := p.expectClose(token.RightBrace, lb, phraseToEnd(schema.ClosureExpr))
	return syntax.NewComposite(schema.ClosureExpr, lb, syntax.NewCollection(schema.CodeBlockItemList, items...), unexpected, rb)
}
