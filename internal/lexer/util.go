package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/rangetable"
)

const utf8RuneSelf = utf8.RuneSelf

// ===== Работа с рунами поверх Cursor =====

// peekRune декодирует руну в позиции курсора; size == 0 на EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	return lx.runeAt(lx.cursor.Off)
}

func (lx *Lexer) runeAt(off uint32) (r rune, size int) {
	if off >= lx.cursor.Limit {
		return utf8.RuneError, 0
	}
	b := lx.file.Content[off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[off:lx.cursor.Limit])
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== Классификаторы =====

var (
	// identStart: буквы всех письменностей, буквенные числа и знаки,
	// которые допускаются в начале имени.
	identStart = rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start)
	// combining: комбинируемые знаки. Продолжают идентификатор, но не начинают его.
	combining = rangetable.Merge(unicode.Mn, unicode.Mc, unicode.Me)
	// identContinue добавляет цифры, соединители и комбинируемые знаки.
	identContinue = rangetable.Merge(identStart, combining, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
	// privateUse никогда не допустим в исходнике.
	privateUse = unicode.Co
	// operatorChars: математические символы и блоки стрелок/псевдографики.
	operatorChars = rangetable.Merge(unicode.Sm, &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x00A1, Hi: 0x00A7, Stride: 1},
			{Lo: 0x00A9, Hi: 0x00AB, Stride: 2},
			{Lo: 0x00AC, Hi: 0x00AE, Stride: 2},
			{Lo: 0x00B0, Hi: 0x00B1, Stride: 1},
			{Lo: 0x00B6, Hi: 0x00BB, Stride: 5},
			{Lo: 0x00BF, Hi: 0x00D7, Stride: 24},
			{Lo: 0x00F7, Hi: 0x00F7, Stride: 1},
			{Lo: 0x2016, Hi: 0x2017, Stride: 1},
			{Lo: 0x2020, Hi: 0x2027, Stride: 1},
			{Lo: 0x2030, Hi: 0x203E, Stride: 1},
			{Lo: 0x2041, Hi: 0x2053, Stride: 1},
			{Lo: 0x2055, Hi: 0x205E, Stride: 1},
			{Lo: 0x2190, Hi: 0x23FF, Stride: 1},
			{Lo: 0x2500, Hi: 0x2775, Stride: 1},
			{Lo: 0x2794, Hi: 0x2BFF, Stride: 1},
			{Lo: 0x2E00, Hi: 0x2E7F, Stride: 1},
			{Lo: 0x3001, Hi: 0x3003, Stride: 1},
			{Lo: 0x3008, Hi: 0x3020, Stride: 1},
			{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		},
	})
)

// ASCII fast-path для идентификаторов; Unicode - через таблицы выше.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isIdentStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStartByte(byte(r))
	}
	return unicode.Is(identStart, r) && !unicode.Is(operatorChars, r)
}

func isIdentContinueRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentContinueByte(byte(r))
	}
	return unicode.Is(identContinue, r) && !unicode.Is(operatorChars, r)
}

func isCombining(r rune) bool { return unicode.Is(combining, r) }

func isPrivateUse(r rune) bool { return unicode.Is(privateUse, r) }

// isOperatorByte: ASCII символы операторов, кроме '.', которая обрабатывается отдельно.
func isOperatorByte(b byte) bool {
	switch b {
	case '/', '=', '-', '+', '!', '*', '%', '<', '>', '&', '|', '^', '~', '?':
		return true
	}
	return false
}

func isOperatorRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isOperatorByte(byte(r))
	}
	return unicode.Is(operatorChars, r)
}

func isHorizontalSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
