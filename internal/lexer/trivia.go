package lexer

import (
	"lexis/internal/diag"
	"lexis/internal/token"
)

// collectLeadingTrivia дописывает в lx.hold подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\v', '\f' коалесцируются в один TriviaSpace
//   - подряд идущие '\n', '\r', "\r\n" коалесцируются в один TriviaNewline
//   - //... и ///... до конца строки
//   - /* ... */ и /** ... */ с вложенностью
//   - BOM в начале файла и конфликтные маркеры в начале строки
//
// stopAtNewline оставляет перевод строки несъеденным: так заканчивается
// интерполяция внутри однострочного литерала.
func (lx *Lexer) collectLeadingTrivia(stopAtNewline bool) {
	for !lx.cursor.EOF() {
		start := lx.cursor.Off
		b := lx.cursor.Peek()

		if start == 0 && lx.cursor.HasPrefix("\xEF\xBB\xBF") {
			lx.cursor.Off += 3
			lx.holdTrivia(token.TriviaBOM, start)
			continue
		}
		if len(lx.strings) == 0 && lx.cursor.AtLineStart() && lx.scanConflictMarker() {
			continue
		}

		switch {
		case isHorizontalSpace(b):
			lx.skipHorizontalSpace()
			lx.holdTrivia(token.TriviaSpace, start)
			continue
		case b == '\n' || b == '\r':
			if stopAtNewline {
				return
			}
			for lx.cursor.EatNewline() {
				lx.noteLineStart(lx.cursor.Off)
			}
			lx.holdTrivia(token.TriviaNewline, start)
			continue
		case b == '/':
			if tr, ok := lx.scanComment(); ok {
				lx.hold = append(lx.hold, tr)
				continue
			}
		}
		return
	}
}

// collectTrailingTrivia собирает trivia до конца строки: пробелы и комментарии.
func (lx *Lexer) collectTrailingTrivia() []token.Trivia {
	var out []token.Trivia
	for !lx.cursor.EOF() {
		start := lx.cursor.Off
		b := lx.cursor.Peek()
		if isHorizontalSpace(b) {
			lx.skipHorizontalSpace()
			sp := lx.cursor.SpanFrom(Mark(start))
			out = append(out, token.Trivia{Kind: token.TriviaSpace, Span: sp, Text: lx.text(sp.Start, sp.End)})
			continue
		}
		if b == '/' {
			if tr, ok := lx.scanComment(); ok {
				out = append(out, tr)
				continue
			}
		}
		break
	}
	return out
}

func (lx *Lexer) holdTrivia(kind token.TriviaKind, start uint32) {
	sp := lx.span(start, lx.cursor.Off)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp.Start, sp.End)})
}

func (lx *Lexer) skipHorizontalSpace() {
	for isHorizontalSpace(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
}

// noteLineStart записывает начало строки, пересечённое внутри интерполяции
// многострочного литерала: эти строки тоже проверяются на отступ.
func (lx *Lexer) noteLineStart(off uint32) {
	if n := len(lx.strings); n > 0 && lx.strings[n-1].multiline {
		lx.strings[n-1].lines = append(lx.strings[n-1].lines, off)
	}
}

// scanComment: //... , ///... , /*...*/ , /**...*/
func (lx *Lexer) scanComment() (token.Trivia, bool) {
	start := lx.cursor.Off
	if lx.cursor.Peek() != '/' {
		return token.Trivia{}, false
	}
	switch lx.cursor.PeekAt(1) {
	case '/':
		kind := token.TriviaLineComment
		if lx.cursor.PeekAt(2) == '/' && lx.cursor.PeekAt(3) != '/' {
			kind = token.TriviaDocLineComment
		}
		for !lx.cursor.EOF() {
			if b := lx.cursor.Peek(); b == '\n' || b == '\r' {
				break
			}
			lx.cursor.Bump()
		}
		return lx.trivia(kind, start), true

	case '*':
		kind := token.TriviaBlockComment
		if lx.cursor.PeekAt(2) == '*' && lx.cursor.PeekAt(3) != '/' {
			kind = token.TriviaDocBlockComment
		}
		lx.cursor.Off += 2
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			switch {
			case lx.cursor.HasPrefix("/*"):
				lx.cursor.Off += 2
				depth++
			case lx.cursor.HasPrefix("*/"):
				lx.cursor.Off += 2
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.span(start, start+2), "unterminated '/*' comment").Emit()
		}
		return lx.trivia(kind, start), true
	}
	return token.Trivia{}, false
}

func (lx *Lexer) trivia(kind token.TriviaKind, start uint32) token.Trivia {
	sp := lx.span(start, lx.cursor.Off)
	return token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp.Start, sp.End)}
}
