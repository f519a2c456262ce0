package lexer

import (
	"fmt"

	"lexis/internal/diag"
	"lexis/internal/token"
)

type numberBase struct {
	radix int
	digit func(byte) bool
	// describe подставляется в сообщение о неверной цифре
	describe string
}

var (
	binaryBase = numberBase{radix: 2, digit: func(b byte) bool { return b == '0' || b == '1' }, describe: "binary digit (0 or 1)"}
	octalBase  = numberBase{radix: 8, digit: func(b byte) bool { return b >= '0' && b <= '7' }, describe: "octal digit (0-7)"}
	hexBase    = numberBase{radix: 16, digit: isHex, describe: "hexadecimal digit (0-9, A-F)"}
	decBase    = numberBase{radix: 10, digit: isDec, describe: "digit"}
)

// Поддержка: 123, 1_000, 0b..., 0o..., 0x..., 1.5, 1e-3, 0x1.8p3.
// Точка входит в литерал, только если за ней цифра: `1.foo` и `1.2.3` дают
// отдельный Period. Литерал, начинающийся с '.', числом не считается.
// Неверные формы - одна диагностика, токен всё равно выдаётся.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	kind := token.IntegerLiteral
	base := decBase

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b':
			base = binaryBase
		case 'o':
			base = octalBase
		case 'x':
			base = hexBase
		}
		if base.radix != 10 {
			lx.cursor.Off += 2
			if !base.digit(lx.cursor.Peek()) {
				lx.scanIdentContinue()
				tok := lx.makeToken(kind, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected "+base.describe+" in integer literal").Emit()
				return tok
			}
		}
	}

	lx.skipDigits(base)

	// дробная часть
	if lx.cursor.Peek() == '.' && base.digit(lx.cursor.PeekAt(1)) && (base.radix == 10 || base.radix == 16) {
		lx.cursor.Bump()
		lx.skipDigits(base)
		kind = token.FloatingLiteral
	}

	// экспонента: e для десятичных, p для шестнадцатеричных
	if exp := lx.cursor.Peek(); (base.radix == 10 && (exp == 'e' || exp == 'E')) ||
		(base.radix == 16 && (exp == 'p' || exp == 'P')) {
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		kind = token.FloatingLiteral
		if !isDec(lx.cursor.Peek()) {
			lx.scanIdentContinue()
			tok := lx.makeToken(kind, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected a digit in floating point exponent").Emit()
			return tok
		}
		lx.skipDigits(decBase)
	}

	// хвост из букв/цифр: 0b12, 12abc
	if r, sz := lx.peekRune(); sz > 0 && isIdentContinueRune(r) {
		badAt := lx.cursor.Off
		lx.scanIdentContinue()
		tok := lx.makeToken(kind, start)
		what := "integer literal"
		if kind == token.FloatingLiteral {
			what = "floating point literal"
		}
		msg := fmt.Sprintf("'%s' is not a valid %s in %s", lx.text(badAt, badAt+uint32(sz)), base.describe, what)
		lx.errLex(diag.LexBadNumber, lx.span(badAt, badAt+uint32(sz)), msg).Emit()
		return tok
	}

	return lx.makeToken(kind, start)
}

func (lx *Lexer) skipDigits(base numberBase) {
	for b := lx.cursor.Peek(); base.digit(b) || b == '_'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
}
