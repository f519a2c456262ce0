package parser

import (
	"lexis/internal/diag"
	"lexis/internal/fix"
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

type blockKind uint8

const (
	blockTopLevel blockKind = iota
	blockCode
	blockMembers
)

// parseCodeBlockItems разбирает инструкции до '}' (в блоке) или конца ввода.
// phrase - контекст для "unexpected code ... in <phrase>".
func (p *Parser) parseCodeBlockItems(kind blockKind, phrase string) []*syntax.Node {
	var items []*syntax.Node
	needSep := false // предыдущая инструкция не закрыта ';'
	for {
		tok := p.cur()
		if tok.Kind == token.EOF || (kind != blockTopLevel && tok.Kind == token.RightBrace) {
			return items
		}
		if needSep && !tok.AtLineStart() && p.canStartStatement(tok) {
			at := p.missingAt()
			p.errorAt(diag.SynExpectedToken, at, "consecutive statements on a line must be separated by ';'").
				fix(fix.InsertText("insert ';'", at, ";", fix.Preferred())).
				emit()
		}
		pos, partial := p.pos, p.partial
		item, semi := p.parseCodeBlockItem(kind, phrase)
		if p.pos == pos && p.partial == partial {
			// за пределом глубины инструкция ничего не съела: пропускаем
			// остаток вложенности, иначе цикл не продвинется
			skipped := syntax.NewCollection(schema.UnexpectedCode, p.skipNested()...)
			semi = p.takeIf(token.Semicolon)
			item = syntax.NewComposite(schema.CodeBlockItem, skipped, semi)
		}
		items = append(items, item)
		needSep = semi == nil
		if kind == blockTopLevel {
			p.quiet = false
		}
	}
}

func (p *Parser) parseCodeBlockItem(kind blockKind, phrase string) (item, semi *syntax.Node) {
	var body *syntax.Node
	switch {
	case !p.canStartStatement(p.cur()):
		garbage := p.collectStatementGarbage(kind)
		if kind == blockTopLevel {
			body = p.unexpectedNode(garbage, diag.SynExtraneousTopLevel, "extraneous code", "at top level")
		} else {
			body = p.unexpectedNode(garbage, diag.SynUnexpectedCode, "unexpected code", phrase)
		}
	default:
		body = p.parseStatement()
	}
	semi = p.takeIf(token.Semicolon)
	return syntax.NewComposite(schema.CodeBlockItem, body, semi), semi
}

func (p *Parser) parseStatement() *syntax.Node {
	ok := p.enter()
	defer p.leave()
	if !ok {
		return syntax.NewCollection(schema.UnexpectedCode, p.skipNested()...)
	}
	switch {
	case p.at(token.KwReturn):
		return p.parseReturn()
	case p.atDeclStart(false):
		return p.parseDecl()
	}
	return p.parseExpr(schema.CodeBlockItem)
}

func (p *Parser) parseReturn() *syntax.Node {
	kw := p.take()
	var value *syntax.Node
	if tok := p.cur(); !tok.AtLineStart() && p.canStartExpr(tok) {
		value = p.parseExpr(schema.ReturnStmt)
	}
	return syntax.NewComposite(schema.ReturnStmt, kw, value)
}

// parseCodeBlock - тело функции: { инструкции }.
func (p *Parser) parseCodeBlock(owner schema.Kind) *syntax.Node {
	lb := p.expect(token.LeftBrace, phraseIn(owner))
	var items []*syntax.Node
	if !lb.IsMissing() {
		items = p.parseCodeBlockItems(blockCode, phraseIn(owner))
	}
	rb := p.expectClose(token.RightBrace, lb, phraseToEnd(owner))
	return syntax.NewComposite(schema.CodeBlock,
		lb,
		syntax.NewCollection(schema.CodeBlockItemList, items...),
		nil,
		rb,
	)
}

func (p *Parser) canStartStatement(tok token.Token) bool {
	if tok.Kind == token.KwReturn || p.canStartExpr(tok) {
		return true
	}
	return p.atDeclStart(false)
}

// atOperatorReference: оператор как значение в списке аргументов,
// reduce(0, +) или f(a: 1, +).
func (p *Parser) atOperatorReference() bool {
	switch p.cur().Kind {
	case token.BinaryOperator, token.PostfixOperator:
		next := p.peek(1).Kind
		return next == token.Comma || next == token.RightParen
	}
	return false
}

// canStartExpr: с токена может начаться выражение.
func (p *Parser) canStartExpr(tok token.Token) bool {
	switch tok.Kind {
	case token.Identifier, token.Wildcard,
		token.IntegerLiteral, token.FloatingLiteral,
		token.KwTrue, token.KwFalse, token.KwNil,
		token.KwSelf, token.KwCapitalSelf, token.KwSuper, token.KwInit, token.KwAny,
		token.LeftParen, token.LeftSquare, token.LeftBrace, token.Period,
		token.PrefixOperator, token.PrefixAmpersand, token.Unknown:
		return true
	case token.StringQuote, token.MultilineStringQuote, token.RawStringPoundDelimiter:
		return tok.Flags&token.FlagClosingDelimiter == 0
	}
	return false
}
