package parser

import (
	"lexis/internal/diag"
	"lexis/internal/fix"
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// contextualModifiers - идентификаторы, которые перед объявлением работают
// как модификаторы.
var contextualModifiers = map[string]bool{
	"prefix": true, "postfix": true, "infix": true,
	"final": true, "override": true, "mutating": true, "nonmutating": true,
	"open": true, "required": true, "convenience": true, "lazy": true,
	"weak": true, "unowned": true, "dynamic": true, "optional": true, "indirect": true,
}

var fixities = map[string]bool{"prefix": true, "infix": true, "postfix": true}

func isDeclKeyword(k token.Kind, member bool) bool {
	switch k {
	case token.KwImport, token.KwFunc, token.KwClass, token.KwStruct, token.KwEnum,
		token.KwProtocol, token.KwExtension, token.KwAssociatedType, token.KwLet, token.KwVar:
		return true
	case token.KwCase:
		return member
	}
	return false
}

func isKeywordModifier(k token.Kind) bool {
	switch k {
	case token.KwStatic, token.KwPublic, token.KwPrivate, token.KwFileprivate, token.KwInternal:
		return true
	}
	return false
}

// isModifierAt: токен i - модификатор, если за ним идёт объявление или ещё модификатор.
func (p *Parser) isModifierAt(i int, member bool) bool {
	tok := p.peek(i)
	switch {
	case isKeywordModifier(tok.Kind):
		return true
	case tok.Kind == token.KwClass:
		// "class func", "class var" - модификатор; "class Foo" - объявление
		return isDeclKeyword(p.peek(i+1).Kind, member) || p.isModifierAt(i+1, member)
	case tok.Kind == token.Identifier && contextualModifiers[tok.Text]:
		next := p.peek(i + 1)
		return isDeclKeyword(next.Kind, member) || p.isModifierAt(i+1, member)
	}
	return false
}

// atDeclStart смотрит вперёд: атрибут, модификаторы и ключевое слово объявления.
func (p *Parser) atDeclStart(member bool) bool {
	tok := p.cur()
	if tok.Kind == token.AtSign {
		return true
	}
	if p.atOperatorDecl() {
		return true
	}
	i := 0
	for p.isModifierAt(i, member) {
		i++
	}
	return isDeclKeyword(p.peek(i).Kind, member)
}

func (p *Parser) atOperatorDecl() bool {
	tok := p.cur()
	return tok.Kind == token.Identifier && fixities[tok.Text] && p.peek(1).Kind == token.KwOperator
}

func (p *Parser) parseDecl() *syntax.Node {
	return p.parseDeclIn(false)
}

func (p *Parser) parseDeclIn(member bool) *syntax.Node {
	if p.atOperatorDecl() {
		return p.parseOperatorDecl()
	}
	attrs := p.parseAttributes()
	mods := p.parseModifiers(member)
	switch p.cur().Kind {
	case token.KwImport:
		return p.parseImportDecl(attrs, mods)
	case token.KwFunc:
		return p.parseFunctionDecl(attrs, mods)
	case token.KwClass:
		return p.parseNominalDecl(schema.ClassDecl, attrs, mods)
	case token.KwStruct:
		return p.parseNominalDecl(schema.StructDecl, attrs, mods)
	case token.KwEnum:
		return p.parseNominalDecl(schema.EnumDecl, attrs, mods)
	case token.KwProtocol:
		return p.parseNominalDecl(schema.ProtocolDecl, attrs, mods)
	case token.KwExtension:
		return p.parseExtensionDecl(attrs, mods)
	case token.KwAssociatedType:
		return p.parseAssociatedTypeDecl(attrs, mods)
	case token.KwLet, token.KwVar:
		return p.parseVariableDecl(attrs, mods)
	case token.KwCase:
		if member {
			return p.parseEnumCaseDecl(attrs, mods)
		}
	}
	p.reportMissing(diag.SynExpectedDecl, "declaration", "", "", nil)
	return syntax.NewComposite(schema.MissingDecl, attrs, mods, p.missingToken(token.Identifier))
}

func (p *Parser) parseModifiers(member bool) *syntax.Node {
	var mods []*syntax.Node
	for p.isModifierAt(0, member) {
		mods = append(mods, syntax.NewComposite(schema.DeclModifier, p.take()))
	}
	return syntax.NewCollection(schema.DeclModifierList, mods...)
}

// parseDeclName - имя объявления. Ключевое слово и '_' допускаются с
// диагностикой и становятся идентификатором.
func (p *Parser) parseDeclName(owner schema.Kind) *syntax.Node {
	tok := p.cur()
	switch {
	case tok.Kind == token.Identifier:
		p.checkPlaceholder(tok)
		return p.take()
	case tok.Kind == token.Wildcard:
		p.errorAt(diag.SynWildcardAsIdentifier, tok.Span, "'_' cannot be used as an identifier here").emit()
		return p.takeAs(token.Identifier)
	case tok.Kind.IsKeyword():
		p.errorAt(diag.SynKeywordAsIdentifier, tok.Span, "keyword '"+tok.Text+"' cannot be used as an identifier here").
			fix(fix.WrapWith("if this name is unavoidable, use backticks to escape it", tok.Span, "`", "`", fix.Preferred())).
			emit()
		return p.takeAs(token.Identifier)
	}
	return p.missingIdentifier(phraseIn(owner))
}

func (p *Parser) checkPlaceholder(tok token.Token) {
	if p.opts.RejectEditorPlaceholders && tok.Flags&token.FlagEditorPlaceholder != 0 {
		p.errorAt(diag.SynEditorPlaceholder, tok.Span, "editor placeholder in source file").emit()
	}
}

func (p *Parser) parseImportDecl(attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	var comps []*syntax.Node
	for {
		var name *syntax.Node
		if p.at(token.Identifier) {
			name = p.take()
		} else {
			name = p.missingIdentifier(phraseIn(schema.ImportDecl))
		}
		var period *syntax.Node
		if p.at(token.Period) && p.peek(1).Kind == token.Identifier {
			period = p.take()
		}
		comps = append(comps, syntax.NewComposite(schema.ImportPathComponent, name, period))
		if period == nil {
			break
		}
	}
	return syntax.NewComposite(schema.ImportDecl, attrs, mods, kw, syntax.NewCollection(schema.ImportPath, comps...))
}

func (p *Parser) parseFunctionDecl(attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	var name *syntax.Node
	if tok := p.cur(); tok.IsOperator() {
		name = p.take()
	} else {
		name = p.parseDeclName(schema.FunctionDecl)
	}
	var generics *syntax.Node
	if name.Token().Kind == token.Identifier && p.atOperatorPrefix("<") {
		generics = p.parseGenericParameterClause()
	}
	sig := p.parseFunctionSignature()
	var body *syntax.Node
	if p.at(token.LeftBrace) {
		body = p.parseCodeBlock(schema.FunctionDecl)
	}
	return syntax.NewComposite(schema.FunctionDecl, attrs, mods, kw, name, generics, sig, body)
}

func (p *Parser) parseFunctionSignature() *syntax.Node {
	params := p.parseParameterClause()
	var ret *syntax.Node
	if p.at(token.Arrow) {
		arrow := p.take()
		ret = syntax.NewComposite(schema.ReturnClause, arrow, p.parseType(schema.ReturnClause))
	}
	return syntax.NewComposite(schema.FunctionSignature, params, ret)
}

func (p *Parser) parseParameterClause() *syntax.Node {
	lp := p.expect(token.LeftParen, phraseIn(schema.FunctionDecl))
	var params []*syntax.Node
	var unexpected *syntax.Node
	if !lp.IsMissing() {
		for p.atParameterStart() {
			param := p.parseParameter()
			params = append(params, param)
			if param.Child("TrailingComma") == nil {
				break
			}
		}
		unexpected = p.unexpectedBefore(token.RightParen, phraseIn(schema.FunctionParameterClause))
	}
	rp := p.expectClose(token.RightParen, lp, phraseToEnd(schema.FunctionParameterClause))
	return syntax.NewComposite(schema.FunctionParameterClause,
		lp, syntax.NewCollection(schema.FunctionParameterList, params...), unexpected, rp)
}

func (p *Parser) atParameterStart() bool {
	tok := p.cur()
	switch {
	case tok.Kind == token.Identifier, tok.Kind == token.Wildcard, tok.Kind == token.AtSign:
		return true
	case tok.Kind.IsKeyword():
		// ключевое слово как метка аргумента: func f(in x: Int)
		next := p.peek(1).Kind
		return next == token.Identifier || next == token.Wildcard || next == token.Colon
	}
	return false
}

func (p *Parser) parseParameter() *syntax.Node {
	attrs := p.parseAttributes()
	var first *syntax.Node
	switch tok := p.cur(); {
	case tok.Kind == token.Identifier, tok.Kind == token.Wildcard:
		first = p.take()
	case tok.Kind.IsKeyword():
		first = p.takeAs(token.Identifier)
	default:
		first = p.missingIdentifier(phraseIn(schema.FunctionParameter))
	}
	var second *syntax.Node
	if p.atOr(token.Identifier, token.Wildcard) {
		second = p.take()
	}
	colon := p.expect(token.Colon, phraseIn(schema.FunctionParameter))
	typ := p.parseType(schema.FunctionParameter)
	var def *syntax.Node
	if p.at(token.Equal) {
		eq := p.take()
		def = syntax.NewComposite(schema.InitializerClause, eq, p.parseExpr(schema.InitializerClause))
	}
	comma := p.takeIf(token.Comma)
	return syntax.NewComposite(schema.FunctionParameter, attrs, first, second, colon, typ, def, comma)
}

func (p *Parser) parseOperatorDecl() *syntax.Node {
	fixity := p.take()
	kw := p.take()
	var name *syntax.Node
	if p.cur().IsOperator() {
		name = p.take()
	} else {
		p.reportMissing(diag.SynExpectedToken, "operator", "", phraseIn(schema.OperatorDecl), nil)
		name = p.missingToken(token.BinaryOperator)
	}
	return syntax.NewComposite(schema.OperatorDecl, fixity, kw, name)
}

// parseNominalDecl - class, struct, enum и protocol.
func (p *Parser) parseNominalDecl(kind schema.Kind, attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	name := p.parseDeclName(kind)
	var generics *syntax.Node
	if kind != schema.ProtocolDecl && p.atOperatorPrefix("<") {
		generics = p.parseGenericParameterClause()
	}
	inh := p.parseInheritanceClause()
	block := p.parseMemberBlock(kind)
	if kind == schema.ProtocolDecl {
		return syntax.NewComposite(kind, attrs, mods, kw, name, inh, block)
	}
	return syntax.NewComposite(kind, attrs, mods, kw, name, generics, inh, block)
}

func (p *Parser) parseExtensionDecl(attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	typ := p.parseType(schema.ExtensionDecl)
	inh := p.parseInheritanceClause()
	block := p.parseMemberBlock(schema.ExtensionDecl)
	return syntax.NewComposite(schema.ExtensionDecl, attrs, mods, kw, typ, inh, block)
}

func (p *Parser) parseAssociatedTypeDecl(attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	name := p.parseDeclName(schema.AssociatedTypeDecl)
	inh := p.parseInheritanceClause()
	return syntax.NewComposite(schema.AssociatedTypeDecl, attrs, mods, kw, name, inh)
}

func (p *Parser) parseInheritanceClause() *syntax.Node {
	if !p.at(token.Colon) {
		return nil
	}
	colon := p.take()
	var types []*syntax.Node
	for {
		typ := p.parseType(schema.InheritanceClause)
		comma := p.takeIf(token.Comma)
		types = append(types, syntax.NewComposite(schema.InheritedType, typ, comma))
		if comma == nil {
			break
		}
	}
	return syntax.NewComposite(schema.InheritanceClause, colon, syntax.NewCollection(schema.InheritedTypeList, types...))
}

func (p *Parser) parseMemberBlock(owner schema.Kind) *syntax.Node {
	lb := p.expect(token.LeftBrace, phraseIn(owner))
	var members []*syntax.Node
	if !lb.IsMissing() {
		members = p.parseMembers(owner)
	}
	rb := p.expectClose(token.RightBrace, lb, phraseToEnd(owner))
	return syntax.NewComposite(schema.MemberBlock,
		lb, syntax.NewCollection(schema.MemberBlockItemList, members...), nil, rb)
}

func (p *Parser) parseMembers(owner schema.Kind) []*syntax.Node {
	var members []*syntax.Node
	for !p.atEOF() && !p.at(token.RightBrace) {
		var decl *syntax.Node
		if p.atDeclStart(true) {
			decl = p.parseMember()
		} else {
			decl = p.unexpectedNode(p.collectStatementGarbage(blockMembers), diag.SynUnexpectedCode, "unexpected code", phraseIn(owner))
		}
		semi := p.takeIf(token.Semicolon)
		members = append(members, syntax.NewComposite(schema.MemberBlockItem, decl, semi))
	}
	return members
}

func (p *Parser) parseMember() *syntax.Node {
	ok := p.enter()
	defer p.leave()
	if !ok {
		return syntax.NewCollection(schema.UnexpectedCode, p.skipNested()...)
	}
	return p.parseDeclIn(true)
}

func (p *Parser) parseEnumCaseDecl(attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	var elems []*syntax.Node
	for {
		name := p.parseDeclName(schema.EnumCaseDecl)
		var raw *syntax.Node
		if p.at(token.Equal) {
			eq := p.take()
			raw = syntax.NewComposite(schema.InitializerClause, eq, p.parseExpr(schema.InitializerClause))
		}
		comma := p.takeIf(token.Comma)
		elems = append(elems, syntax.NewComposite(schema.EnumCaseElement, name, raw, comma))
		if comma == nil {
			break
		}
	}
	return syntax.NewComposite(schema.EnumCaseDecl, attrs, mods, kw, syntax.NewCollection(schema.EnumCaseElementList, elems...))
}

func (p *Parser) parseVariableDecl(attrs, mods *syntax.Node) *syntax.Node {
	kw := p.take()
	var bindings []*syntax.Node
	for {
		bindings = append(bindings, p.parsePatternBinding())
		if bindings[len(bindings)-1].Child("TrailingComma") == nil {
			break
		}
	}
	return syntax.NewComposite(schema.VariableDecl, attrs, mods, kw, syntax.NewCollection(schema.PatternBindingList, bindings...))
}

func (p *Parser) parsePatternBinding() *syntax.Node {
	var pattern *syntax.Node
	if p.at(token.Wildcard) {
		pattern = syntax.NewComposite(schema.WildcardPattern, p.take())
	} else {
		pattern = syntax.NewComposite(schema.IdentifierPattern, p.parseDeclName(schema.PatternBinding))
	}
	var ann *syntax.Node
	if p.at(token.Colon) {
		colon := p.take()
		ann = syntax.NewComposite(schema.TypeAnnotation, colon, p.parseType(schema.TypeAnnotation))
	}
	var init *syntax.Node
	if p.at(token.Equal) {
		eq := p.take()
		init = syntax.NewComposite(schema.InitializerClause, eq, p.parseExpr(schema.InitializerClause))
	}
	comma := p.takeIf(token.Comma)
	return syntax.NewComposite(schema.PatternBinding, pattern, ann, init, comma)
}
