package parser

import (
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// parseType: имя с generic-аргументами, [T], затем суффиксы .Name и '?'.
func (p *Parser) parseType(owner schema.Kind) *syntax.Node {
	ok := p.enter()
	defer p.leave()
	if !ok {
		return syntax.NewComposite(schema.MissingType, p.missingToken(token.Identifier))
	}

	var typ *syntax.Node
	switch tok := p.cur(); tok.Kind {
	case token.Identifier, token.KwCapitalSelf, token.KwAny:
		p.checkPlaceholder(tok)
		name := p.take()
		var args *syntax.Node
		if p.atOperatorPrefix("<") {
			args = p.parseGenericArgumentClause()
		}
		typ = syntax.NewComposite(schema.IdentifierType, name, args)
	case token.LeftSquare:
		lb := p.take()
		elem := p.parseType(schema.ArrayType)
		rb := p.expectClose(token.RightSquare, lb, phraseToEnd(schema.ArrayType))
		typ = syntax.NewComposite(schema.ArrayType, lb, elem, rb)
	default:
		return p.missingType(phraseIn(owner))
	}

	for {
		switch tok := p.cur(); {
		case tok.Kind == token.Period && p.memberNameFollows():
			period := p.take()
			typ = syntax.NewComposite(schema.MemberType, typ, period, p.takeAs(token.Identifier))
		case tok.Kind == token.PostfixQuestionMark:
			typ = syntax.NewComposite(schema.OptionalType, typ, p.take())
		default:
			return typ
		}
	}
}

// memberNameFollows: за '.' идёт имя (ключевые слова допустимы как имена членов).
func (p *Parser) memberNameFollows() bool {
	next := p.peek(1)
	if p.partial > 0 {
		return false
	}
	return next.Kind == token.Identifier || next.Kind.IsKeyword()
}

func (p *Parser) parseGenericArgumentClause() *syntax.Node {
	la := p.splitPrefix(1, token.LeftAngle)
	var args []*syntax.Node
	for {
		typ := p.parseType(schema.GenericArgumentClause)
		comma := p.takeIf(token.Comma)
		args = append(args, syntax.NewComposite(schema.GenericArgument, typ, comma))
		if comma == nil {
			break
		}
	}
	ra := p.closeAngle(la, phraseToEnd(schema.GenericArgumentClause))
	return syntax.NewComposite(schema.GenericArgumentClause, la, syntax.NewCollection(schema.GenericArgumentList, args...), ra)
}

func (p *Parser) parseGenericParameterClause() *syntax.Node {
	la := p.splitPrefix(1, token.LeftAngle)
	var params []*syntax.Node
	for {
		var name *syntax.Node
		if p.at(token.Identifier) {
			name = p.take()
		} else {
			name = p.missingIdentifier(phraseIn(schema.GenericParameterClause))
		}
		var colon, inherited *syntax.Node
		if p.at(token.Colon) {
			colon = p.take()
			inherited = p.parseType(schema.GenericParameter)
		}
		comma := p.takeIf(token.Comma)
		params = append(params, syntax.NewComposite(schema.GenericParameter, name, colon, inherited, comma))
		if comma == nil {
			break
		}
	}
	ra := p.closeAngle(la, phraseToEnd(schema.GenericParameterClause))
	return syntax.NewComposite(schema.GenericParameterClause, la, syntax.NewCollection(schema.GenericParameterList, params...), ra)
}

// closeAngle отрезает '>' от оператора: ">>" закрывает два уровня по очереди.
func (p *Parser) closeAngle(open *syntax.Node, phrase string) *syntax.Node {
	if p.atOperatorPrefix(">") {
		return p.splitPrefix(1, token.RightAngle)
	}
	return p.expectClose(token.RightAngle, open, phrase)
}
