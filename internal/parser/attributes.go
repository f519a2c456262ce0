package parser

import (
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

var availabilityLabels = map[string]bool{
	"message": true, "renamed": true, "introduced": true, "obsoleted": true, "deprecated": true,
}

func (p *Parser) parseAttributes() *syntax.Node {
	var attrs []*syntax.Node
	for p.at(token.AtSign) {
		attrs = append(attrs, p.parseAttribute())
	}
	return syntax.NewCollection(schema.AttributeList, attrs...)
}

// parseAttribute: @name или @name(аргументы). Скобка должна стоять вплотную к имени.
func (p *Parser) parseAttribute() *syntax.Node {
	at := p.take()
	var name *syntax.Node
	switch tok := p.cur(); {
	case tok.Kind == token.Identifier && len(at.Token().Trailing) == 0:
		name = p.take()
	case tok.Kind.IsKeyword() && len(at.Token().Trailing) == 0:
		name = p.takeAs(token.Identifier)
	default:
		name = p.missingIdentifier(phraseIn(schema.Attribute))
	}
	if !p.at(token.LeftParen) || name.IsMissing() || len(name.Token().Trailing) > 0 {
		return syntax.NewComposite(schema.Attribute, at, name, nil, nil, nil, nil)
	}
	lp := p.take()
	var args *syntax.Node
	if name.Token().Text == "available" {
		args = p.parseAvailabilityArguments()
	} else {
		args = syntax.NewCollection(schema.LabeledExprList, p.parseLabeledExprs(phraseIn(schema.Attribute), false)...)
	}
	unexpected := p.unexpectedBefore(token.RightParen, phraseIn(schema.Attribute))
	rp := p.expectClose(token.RightParen, lp, phraseToEnd(schema.Attribute))
	return syntax.NewComposite(schema.Attribute, at, name, lp, args, unexpected, rp)
}

// parseAvailabilityArguments разбирает аргументы @available. Для каждого
// аргумента по очереди пробуются: помеченный аргумент, одиночный токен,
// ограничение платформы с версией.
func (p *Parser) parseAvailabilityArguments() *syntax.Node {
	var args []*syntax.Node
	for !p.atEOF() && !p.at(token.RightParen) {
		entry := p.parseAvailabilityEntry()
		if entry == nil {
			break
		}
		comma := p.takeIf(token.Comma)
		args = append(args, syntax.NewComposite(schema.AvailabilityArgument, entry, comma))
		if comma == nil {
			break
		}
	}
	return syntax.NewCollection(schema.AvailabilitySpecList, args...)
}

func (p *Parser) parseAvailabilityEntry() *syntax.Node {
	snap := p.snapshot()
	if labeled := p.tryAvailabilityLabeled(); labeled != nil {
		return labeled
	}
	p.restore(snap)

	tok := p.cur()
	next := p.peek(1).Kind
	switch {
	case tok.IsOperator():
		// '*'
		return p.take()
	case tok.Kind == token.Identifier && (next == token.Comma || next == token.RightParen || next == token.EOF):
		return p.take()
	case tok.Kind == token.Identifier:
		platform := p.take()
		var version *syntax.Node
		if p.atOr(token.IntegerLiteral, token.FloatingLiteral) {
			version = p.parseVersionTuple()
		}
		return syntax.NewComposite(schema.AvailabilityVersionRestriction, platform, version)
	}
	return nil
}

// tryAvailabilityLabeled - "introduced: 10.15" или "message: ...". nil,
// если аргумент не помеченный; вызывающий откатывает позицию.
func (p *Parser) tryAvailabilityLabeled() *syntax.Node {
	tok := p.cur()
	if tok.Kind != token.Identifier || !availabilityLabels[tok.Text] || p.peek(1).Kind != token.Colon {
		return nil
	}
	label := p.take()
	colon := p.take()
	var value *syntax.Node
	switch cur := p.cur(); {
	case cur.Kind == token.StringQuote || cur.Kind == token.MultilineStringQuote || cur.Kind == token.RawStringPoundDelimiter:
		value = p.parseStringLiteral()
	case cur.Kind == token.IntegerLiteral || cur.Kind == token.FloatingLiteral:
		value = p.parseVersionTuple()
	default:
		return nil
	}
	return syntax.NewComposite(schema.AvailabilityLabeledArgument, label, colon, value)
}

// parseVersionTuple: "10", "10.15" или "10.15.3". Лексер читает "10.15" как
// одно число, третья компонента идёт отдельными '.' и целым.
func (p *Parser) parseVersionTuple() *syntax.Node {
	major := p.take()
	var period, patch *syntax.Node
	if major.Token().Kind == token.FloatingLiteral && len(major.Token().Trailing) == 0 &&
		p.at(token.Period) && len(p.cur().Leading) == 0 && len(p.cur().Trailing) == 0 &&
		p.peek(1).Kind == token.IntegerLiteral {
		period = p.take()
		patch = p.take()
	}
	return syntax.NewComposite(schema.VersionTuple, major, period, patch)
}
