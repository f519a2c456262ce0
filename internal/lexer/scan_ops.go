package lexer

import (
	"lexis/internal/diag"
	"lexis/internal/token"
)

var punctuation = map[byte]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	'[': token.LeftSquare,
	']': token.RightSquare,
	',': token.Comma,
	':': token.Colon,
	';': token.Semicolon,
	'@': token.AtSign,
	'#': token.Pound,
	'\\': token.Backslash,
}

// scanOperatorOrPunct: пунктуация или оператор по жадному правилу.
// Оператор - максимальная цепочка операторных символов; '.' входит в неё,
// только если оператор с неё начинается. "//" и "/*" внутри обрывают цепочку.
// Вид оператора определяется связностью слева и справа:
// обе или ни одной - бинарный, только слева - постфиксный, только справа - префиксный.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()
	if k, ok := punctuation[ch]; ok {
		lx.cursor.Bump()
		return lx.makeToken(k, start)
	}

	dotted := ch == '.'
	for !lx.cursor.EOF() {
		if lx.cursor.Off > start && (lx.cursor.HasPrefix("//") || lx.cursor.HasPrefix("/*")) {
			break
		}
		b := lx.cursor.Peek()
		if b == '.' {
			if !dotted {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isOperatorRune(r) || isPrivateUse(r) {
			break
		}
		lx.bumpRune()
	}

	if lx.cursor.Off == start {
		// сюда попадают управляющие символы и прочий мусор
		lx.bumpRune()
		tok := lx.makeToken(token.Unknown, start)
		lx.errLex(diag.LexInvalidCharacter, tok.Span, "invalid character in source file").Emit()
		return tok
	}

	tok := lx.makeToken(token.BinaryOperator, start)
	leftBound := lx.isLeftBound(start)
	rightBound := lx.isRightBound(lx.cursor.Off, leftBound)

	switch tok.Text {
	case ".":
		tok.Kind = token.Period
		return tok
	case "=":
		tok.Kind = token.Equal
		return tok
	case "->":
		tok.Kind = token.Arrow
		return tok
	case "&":
		if rightBound && !leftBound {
			tok.Kind = token.PrefixAmpersand
			return tok
		}
	case "?":
		if leftBound {
			tok.Kind = token.PostfixQuestionMark
		} else {
			tok.Kind = token.InfixQuestionMark
		}
		return tok
	case "!":
		if leftBound && !rightBound {
			tok.Kind = token.ExclamationMark
			return tok
		}
	}

	switch {
	case leftBound == rightBound:
		tok.Kind = token.BinaryOperator
	case leftBound:
		tok.Kind = token.PostfixOperator
	default:
		tok.Kind = token.PrefixOperator
	}
	return tok
}

// isLeftBound: оператор прилегает к предыдущему выражению.
func (lx *Lexer) isLeftBound(start uint32) bool {
	if start == 0 {
		return false
	}
	content := lx.file.Content
	switch content[start-1] {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0, '(', '[', '{', ',', ';', ':':
		return false
	case '/':
		// конец блочного комментария
		if start >= 2 && content[start-2] == '*' {
			return false
		}
	}
	return true
}

// isRightBound: оператор прилегает к следующему выражению.
func (lx *Lexer) isRightBound(end uint32, leftBound bool) bool {
	if end >= lx.cursor.Limit {
		return false
	}
	content := lx.file.Content
	switch content[end] {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0, ')', ']', '}', ',', ';', ':':
		return false
	case '.':
		return !leftBound
	case '/':
		if end+1 < lx.cursor.Limit && (content[end+1] == '/' || content[end+1] == '*') {
			return false
		}
	}
	return true
}
