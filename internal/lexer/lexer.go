package lexer

import (
	"lexis/internal/source"
	"lexis/internal/token"
)

type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	pending []token.Token    // готовые токены; строковый литерал выдаёт сразу несколько
	hold    []token.Trivia   // накопленные leading trivia
	strings []*stringContext // открытые строковые литералы, вершина - самый внутренний
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize lexes the whole file. The last token is always EOF and carries
// the trailing trivia of the file as its leading trivia.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next возвращает следующий **значимый** токен с уже собранными Leading и Trailing.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if len(lx.pending) == 0 {
		lx.lexUnit()
	}
	tok := lx.pending[0]
	lx.pending = lx.pending[1:]
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if len(lx.pending) == 0 {
		lx.lexUnit()
	}
	return lx.pending[0]
}

// lexUnit кладёт в pending хотя бы один токен.
func (lx *Lexer) lexUnit() {
	lx.collectLeadingTrivia(false)
	if lx.cursor.EOF() {
		lx.push(token.Token{Kind: token.EOF, Span: lx.emptySpan()}, false)
		return
	}
	lx.scanToken(0)
}

// scanToken сканирует один токен с текущей позиции; depth - глубина интерполяции.
func (lx *Lexer) scanToken(depth uint16) {
	ch := lx.cursor.Peek()
	if ch == '"' || (ch == '#' && lx.atRawStringStart()) {
		lx.scanStringLiteral(depth)
		return
	}

	var tok token.Token
	switch {
	case ch == '`':
		tok = lx.scanBacktickIdent()
	case ch == '$' || isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		tok = lx.scanUnicode()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '<' && lx.cursor.PeekAt(1) == '#':
		if ph, ok := lx.scanEditorPlaceholder(); ok {
			tok = ph
		} else {
			tok = lx.scanOperatorOrPunct()
		}
	default:
		tok = lx.scanOperatorOrPunct()
	}
	tok.Depth = depth
	lx.push(tok, true)
}

// push прикрепляет hold как Leading и, если нужно, собирает Trailing.
func (lx *Lexer) push(tok token.Token, trailing bool) {
	tok.Leading = lx.takeHold()
	if trailing {
		tok.Trailing = lx.collectTrailingTrivia()
	}
	lx.pending = append(lx.pending, tok)
}

func (lx *Lexer) takeHold() []token.Trivia {
	h := lx.hold
	lx.hold = nil
	return h
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Point(lx.file.ID, lx.cursor.Off)
}

func (lx *Lexer) span(start, end uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: end}
}

func (lx *Lexer) text(start, end uint32) string {
	return string(lx.file.Content[start:end])
}

func (lx *Lexer) makeToken(k token.Kind, start uint32) token.Token {
	return token.Token{Kind: k, Span: lx.span(start, lx.cursor.Off), Text: lx.text(start, lx.cursor.Off)}
}
