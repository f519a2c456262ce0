package lexer

import (
	"unicode/utf8"

	"lexis/internal/diag"
	"lexis/internal/token"
)

// scanIdentOrKeyword сканирует ASCII-идентификатор (и его Unicode-продолжение)
// и проверяет через LookupKeyword. Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // первая буква, '_' или '$'
	lx.scanIdentContinue()

	tok := lx.makeToken(token.Identifier, start)
	if tok.Text == "_" {
		tok.Kind = token.Wildcard
		return tok
	}
	// Проверка на ключевое слово (регистрозависимо)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

func (lx *Lexer) scanIdentContinue() {
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

// scanUnicode разбирает токен, начинающийся с не-ASCII символа: идентификатор,
// оператор или недопустимый символ.
func (lx *Lexer) scanUnicode() token.Token {
	start := lx.cursor.Off
	r, sz := lx.peekRune()
	switch {
	case sz == 1 && r == utf8.RuneError:
		// битый UTF-8
		lx.cursor.Bump()
		tok := lx.makeToken(token.Unknown, start)
		lx.errLex(diag.LexInvalidCharacter, tok.Span, "invalid UTF-8 found in source file").Emit()
		return tok

	case isIdentStartRune(r):
		lx.bumpRune()
		lx.scanIdentContinue()
		return lx.makeToken(token.Identifier, start)

	case isCombining(r):
		// комбинируемый знак не может начинать имя; лексим имя целиком, чтобы
		// парсер увидел один идентификатор, и ставим флаг.
		lx.bumpRune()
		lx.errLex(diag.LexCombiningStart, lx.span(start, lx.cursor.Off), "identifiers cannot start with combining characters").Emit()
		lx.scanIdentContinue()
		tok := lx.makeToken(token.Identifier, start)
		tok.Flags |= token.FlagInvalidStart
		return tok

	case isOperatorRune(r) && !isPrivateUse(r):
		return lx.scanOperatorOrPunct()
	}

	lx.bumpRune()
	tok := lx.makeToken(token.Unknown, start)
	lx.errLex(diag.LexInvalidCharacter, tok.Span, "invalid character in source file").Emit()
	return tok
}

// scanBacktickIdent: `name` - экранированное имя, ключевые слова допустимы.
func (lx *Lexer) scanBacktickIdent() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // '`'
	nameStart := lx.cursor.Off
	if r, sz := lx.peekRune(); sz > 0 && (isIdentStartRune(r) || r == '$') {
		lx.bumpRune()
		lx.scanIdentContinue()
	}
	if lx.cursor.Off > nameStart && lx.cursor.Eat('`') {
		tok := lx.makeToken(token.Identifier, start)
		tok.Flags |= token.FlagBacktick
		return tok
	}
	if lx.cursor.Off == nameStart {
		tok := lx.makeToken(token.Unknown, start)
		lx.errLex(diag.LexUnterminatedBacktick, tok.Span, "expected identifier after '`'").Emit()
		return tok
	}
	tok := lx.makeToken(token.Identifier, start)
	tok.Flags |= token.FlagBacktick
	lx.errLex(diag.LexUnterminatedBacktick, lx.emptySpan(), "expected '`' to end escaped identifier").
		WithNote(lx.span(start, start+1), "to match this opening '`'").
		Emit()
	return tok
}

// scanEditorPlaceholder: <#...#> в пределах одной строки. Лексер только узнаёт
// форму; сообщать ли о ней, решает парсер.
func (lx *Lexer) scanEditorPlaceholder() (token.Token, bool) {
	start := lx.cursor.Off
	content := lx.file.Content
	for off := start + 2; off+1 < lx.cursor.Limit; off++ {
		switch content[off] {
		case '\n', '\r':
			return token.Token{}, false
		case '#':
			if content[off+1] == '>' {
				lx.cursor.Off = off + 2
				tok := lx.makeToken(token.Identifier, start)
				tok.Flags |= token.FlagEditorPlaceholder
				return tok, true
			}
		}
	}
	return token.Token{}, false
}
