package parser

import (
	"lexis/internal/diag"
	"lexis/internal/schema"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// collectUnexpected съедает токены до stop на нулевом балансе скобок,
// до несбалансированной закрывающей скобки или до конца ввода.
func (p *Parser) collectUnexpected(stop func(token.Token) bool) []*syntax.Node {
	var out []*syntax.Node
	balance := 0
	for {
		tok := p.cur()
		if tok.Kind == token.EOF {
			return out
		}
		if balance == 0 && stop != nil && stop(tok) {
			return out
		}
		switch tok.Kind {
		case token.LeftParen, token.LeftSquare, token.LeftBrace:
			balance++
		case token.RightParen, token.RightSquare, token.RightBrace:
			if balance == 0 {
				return out
			}
			balance--
		}
		out = append(out, p.take())
	}
}

// unexpectedBefore заполняет слот Unexpected* перед закрывающим токеном close.
// Внутри скобок сбор останавливается и на '{': это почти всегда тело.
func (p *Parser) unexpectedBefore(close token.Kind, phrase string) *syntax.Node {
	toks := p.collectUnexpected(func(t token.Token) bool {
		return t.Kind == close || (close != token.RightBrace && t.Kind == token.LeftBrace)
	})
	return p.unexpectedNode(toks, diag.SynUnexpectedCode, "unexpected code", phrase)
}

// collectStatementGarbage съедает то, с чего не начинается ни одна
// инструкция: первый токен всегда, дальше до конца строки. В блоке
// останавливается на '}' своего уровня.
func (p *Parser) collectStatementGarbage(kind blockKind) []*syntax.Node {
	var out []*syntax.Node
	balance := 0
	for first := true; ; first = false {
		tok := p.cur()
		if tok.Kind == token.EOF {
			break
		}
		if !first {
			if tok.AtLineStart() {
				break
			}
			if kind != blockTopLevel && tok.Kind == token.RightBrace && balance == 0 {
				break
			}
		}
		switch tok.Kind {
		case token.LeftBrace:
			balance++
		case token.RightBrace:
			if balance > 0 {
				balance--
			}
		}
		out = append(out, p.take())
	}
	return out
}

// skipNested съедает остаток слишком глубокого блока до его '}'.
func (p *Parser) skipNested() []*syntax.Node {
	out := p.collectUnexpected(nil)
	if len(out) == 0 && !p.atEOF() {
		out = append(out, p.take())
	}
	return out
}

func (p *Parser) unexpectedNode(toks []*syntax.Node, code diag.Code, what, phrase string) *syntax.Node {
	if len(toks) == 0 {
		return nil
	}
	n := syntax.NewCollection(schema.UnexpectedCode, toks...)
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return n
	}
	sp := first.Span.Cover(last.Span)
	msg := what
	if q, ok := quotedCode(n.Text()); ok {
		msg += " " + q
	}
	if phrase != "" {
		msg += " " + phrase
	}
	p.errorAt(code, sp, msg).emit()
	return n
}
