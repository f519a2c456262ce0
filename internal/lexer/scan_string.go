package lexer

import (
	"strconv"
	"unicode/utf8"

	"lexis/internal/diag"
	"lexis/internal/fix"
	"lexis/internal/token"
)

// stringContext - состояние одного открытого строкового литерала.
type stringContext struct {
	multiline bool
	pounds    uint32 // число '#' у сырого литерала
	depth     uint16 // Depth собственных токенов литерала
	bodyStart uint32 // сразу после открывающей кавычки

	// lines - начала строк содержимого многострочного литерала, включая строки,
	// пересечённые внутри интерполяций. Вложенные литералы ведут свои.
	lines []uint32
	// escapes - экранированные переводы строки
	escapes []escapedNewline
	// sameLine - первый непробельный символ содержимого на строке открывающей кавычки
	sameLine    uint32
	hasSameLine bool
}

// escapedNewline: '\' [пробелы] перевод-строки
type escapedNewline struct {
	backslash uint32
	wsEnd     uint32 // начало перевода строки
}

func (lx *Lexer) atRawStringStart() bool {
	n := lx.cursor.RunLength('#')
	return lx.cursor.PeekAt(n) == '"'
}

// scanStringLiteral выдаёт в pending все токены литерала: разделители,
// сегменты и токены интерполяций. Незакрытый литерал просто обрывается:
// об отсутствующей кавычке сообщает парсер.
func (lx *Lexer) scanStringLiteral(depth uint16) {
	ctx := &stringContext{depth: depth}

	if n := lx.cursor.RunLength('#'); n > 0 {
		start := lx.cursor.Off
		lx.cursor.Off += n
		ctx.pounds = n
		lx.pushStringPart(token.RawStringPoundDelimiter, start, ctx)
	}

	quoteStart := lx.cursor.Off
	if lx.cursor.HasPrefix(`"""`) {
		ctx.multiline = true
		lx.cursor.Off += 3
	} else {
		lx.cursor.Bump()
	}
	ctx.bodyStart = lx.cursor.Off
	quoteKind := token.StringQuote
	if ctx.multiline {
		quoteKind = token.MultilineStringQuote
	}
	quote := lx.makeToken(quoteKind, quoteStart)
	quote.Flags |= token.FlagStringPart
	quote.Depth = depth
	quote.Leading = lx.takeHold()
	if ctx.multiline {
		quote.Trailing = lx.scanOpeningLine(ctx)
	}
	lx.pending = append(lx.pending, quote)

	lx.strings = append(lx.strings, ctx)
	defer func() { lx.strings = lx.strings[:len(lx.strings)-1] }()

	segStart := lx.cursor.Off
	for {
		if lx.cursor.EOF() {
			lx.flushSegment(ctx, segStart, lx.cursor.Off)
			if ctx.hasSameLine {
				// без закрывающего разделителя нужный отступ неизвестен, исправления нет
				lx.errLex(diag.LexMultilineContentSameLine, lx.span(ctx.bodyStart, ctx.bodyStart), "multi-line string literal content must begin on a new line").Emit()
			}
			return
		}
		if lx.atClosingDelimiter(ctx) {
			lx.closeString(ctx, segStart, quoteKind)
			return
		}

		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			bs := lx.cursor.Off
			if lx.cursor.PeekAt(1+ctx.pounds) == '(' && lx.poundsAfter(bs+1, ctx.pounds) {
				if int(ctx.depth)+1 > lx.opts.maxInterpolationDepth() {
					lx.cursor.Off += 1 + ctx.pounds
					lx.errLex(diag.LexInterpolationTooDeep, lx.span(bs, lx.cursor.Off), "string interpolation nested too deeply").Emit()
					continue
				}
				lx.flushSegment(ctx, segStart, bs)
				lx.scanInterpolation(ctx)
				segStart = lx.cursor.Off
				continue
			}
			lx.scanEscape(ctx)

		case b == '\n' || b == '\r':
			if !ctx.multiline {
				lx.flushSegment(ctx, segStart, lx.cursor.Off)
				return
			}
			// сегмент начинается с перевода строки: последний из них уйдёт
			// в trivia закрывающей кавычки
			lx.flushSegment(ctx, segStart, lx.cursor.Off)
			segStart = lx.cursor.Off
			lx.cursor.EatNewline()
			ctx.lines = append(ctx.lines, lx.cursor.Off)

		default:
			lx.bumpRune()
		}
	}
}

// scanOpeningLine разбирает остаток строки после открывающей """.
// Пробелы и перевод строки становятся trailing trivia кавычки; иначе
// запоминается содержимое на той же строке.
func (lx *Lexer) scanOpeningLine(ctx *stringContext) []token.Trivia {
	mark := lx.cursor.Mark()
	lx.skipHorizontalSpace()
	wsEnd := lx.cursor.Off
	switch {
	case lx.cursor.EOF(), lx.atClosingDelimiter(ctx):
		lx.cursor.Reset(mark)
		return nil
	case lx.cursor.Peek() == '\n' || lx.cursor.Peek() == '\r':
		var out []token.Trivia
		if wsEnd > uint32(mark) {
			out = append(out, lx.trivia(token.TriviaSpace, uint32(mark)))
		}
		nl := lx.cursor.Off
		lx.cursor.EatNewline()
		out = append(out, lx.trivia(token.TriviaNewline, nl))
		ctx.lines = append(ctx.lines, lx.cursor.Off)
		return out
	}
	ctx.sameLine = wsEnd
	ctx.hasSameLine = true
	lx.cursor.Reset(mark)
	return nil
}

func (lx *Lexer) poundsAfter(off, n uint32) bool {
	for i := uint32(0); i < n; i++ {
		if off+i >= lx.cursor.Limit || lx.file.Content[off+i] != '#' {
			return false
		}
	}
	return true
}

// atClosingDelimiter: " или """ и столько же '#', сколько у открывающего.
func (lx *Lexer) atClosingDelimiter(ctx *stringContext) bool {
	q := uint32(1)
	if ctx.multiline {
		if !lx.cursor.HasPrefix(`"""`) {
			return false
		}
		q = 3
	} else if lx.cursor.Peek() != '"' {
		return false
	}
	return lx.poundsAfter(lx.cursor.Off+q, ctx.pounds)
}

// closingOnOwnLine: между последним переводом строки внутри литерала и off только пробелы.
func (lx *Lexer) closingOnOwnLine(ctx *stringContext, off uint32) (nlStart, lineStart uint32, ok bool) {
	content := lx.file.Content
	i := off
	for i > ctx.bodyStart && (content[i-1] == ' ' || content[i-1] == '\t') {
		i--
	}
	if i <= ctx.bodyStart || (content[i-1] != '\n' && content[i-1] != '\r') {
		return 0, 0, false
	}
	nlStart = i - 1
	if content[nlStart] == '\n' && nlStart > ctx.bodyStart && content[nlStart-1] == '\r' {
		nlStart--
	}
	return nlStart, i, true
}

// lineIndentAt возвращает начало строки, содержащей off, и её ведущие пробелы.
func (lx *Lexer) lineIndentAt(off uint32) (lineStart uint32, indent string) {
	content := lx.file.Content
	ls := off
	for ls > 0 && content[ls-1] != '\n' && content[ls-1] != '\r' {
		ls--
	}
	we := ls
	for we < off && (content[we] == ' ' || content[we] == '\t') {
		we++
	}
	return ls, string(content[ls:we])
}

func (lx *Lexer) closeString(ctx *stringContext, segStart uint32, quoteKind token.Kind) {
	closeStart := lx.cursor.Off
	var leading []token.Trivia

	nlStart, closeLine, ownLine := uint32(0), uint32(0), false
	if ctx.multiline {
		nlStart, closeLine, ownLine = lx.closingOnOwnLine(ctx, closeStart)
	}
	if ownLine && segStart <= nlStart {
		lx.flushSegment(ctx, segStart, nlStart)
		leading = append(leading, token.Trivia{Kind: token.TriviaNewline, Span: lx.span(nlStart, closeLine), Text: lx.text(nlStart, closeLine)})
		if closeStart > closeLine {
			leading = append(leading, token.Trivia{Kind: token.TriviaSpace, Span: lx.span(closeLine, closeStart), Text: lx.text(closeLine, closeStart)})
		}
	} else {
		lx.flushSegment(ctx, segStart, closeStart)
	}

	if quoteKind == token.MultilineStringQuote {
		lx.cursor.Off += 3
	} else {
		lx.cursor.Off++
	}
	quote := lx.makeToken(quoteKind, closeStart)
	quote.Flags |= token.FlagStringPart | token.FlagClosingDelimiter
	quote.Depth = ctx.depth
	quote.Leading = append(lx.takeHold(), leading...)
	if ctx.pounds == 0 {
		quote.Trailing = lx.collectTrailingTrivia()
	}
	lx.pending = append(lx.pending, quote)

	if ctx.pounds > 0 {
		start := lx.cursor.Off
		lx.cursor.Off += ctx.pounds
		pounds := lx.makeToken(token.RawStringPoundDelimiter, start)
		pounds.Flags |= token.FlagStringPart | token.FlagClosingDelimiter
		pounds.Depth = ctx.depth
		pounds.Trailing = lx.collectTrailingTrivia()
		lx.pending = append(lx.pending, pounds)
	}

	if ctx.multiline {
		lx.finishMultiline(ctx, closeStart, ownLine)
	}
}

// finishMultiline проверяет размещение разделителей, последнюю строку и отступы.
func (lx *Lexer) finishMultiline(ctx *stringContext, closeStart uint32, ownLine bool) {
	closeLineStart, indent := lx.lineIndentAt(closeStart)
	newline := lx.file.Newline()

	if ctx.hasSameLine {
		lx.errLex(diag.LexMultilineContentSameLine, lx.span(ctx.bodyStart, ctx.bodyStart), "multi-line string literal content must begin on a new line").
			WithFixSuggestion(fix.ReplaceSpan("insert newline", lx.span(ctx.bodyStart, ctx.sameLine), newline+indent, lx.text(ctx.bodyStart, ctx.sameLine), fix.Preferred())).
			Emit()
	}

	if !ownLine {
		wsStart := closeStart
		for wsStart > ctx.bodyStart && (lx.file.Content[wsStart-1] == ' ' || lx.file.Content[wsStart-1] == '\t') {
			wsStart--
		}
		lx.errLex(diag.LexMultilineCloseSameLine, lx.span(closeStart, closeStart+3), "multi-line string literal closing delimiter must begin on a new line").
			WithFixSuggestion(fix.ReplaceSpan("insert newline", lx.span(wsStart, closeStart), newline+indent, lx.text(wsStart, closeStart), fix.Preferred())).
			Emit()
	}

	lines := ctx.lines
	for len(lines) > 0 && lines[len(lines)-1] >= closeLineStart {
		lines = lines[:len(lines)-1]
	}

	exempt := lx.checkLastLineEscape(ctx, lines, closeLineStart, indent, ownLine)
	lx.checkIndentation(lines, indent, closeStart, exempt)
}

// checkLastLineEscape сообщает об экранированном переводе строки перед
// строкой закрывающего разделителя. Возвращает начало строки, которая
// состоит из одного '\' и потому не проверяется на отступ.
func (lx *Lexer) checkLastLineEscape(ctx *stringContext, lines []uint32, closeLineStart uint32, indent string, ownLine bool) (exempt uint32) {
	exempt = ^uint32(0)
	if !ownLine || len(ctx.escapes) == 0 {
		return exempt
	}
	last := ctx.escapes[len(ctx.escapes)-1]
	// перевод строки после '\' должен быть последним перед строкой разделителя
	nl := last.wsEnd
	if nl >= closeLineStart || lx.skipNewline(nl) != closeLineStart {
		return exempt
	}

	content := lx.file.Content
	f := fix.DeleteSpan("remove '\\'", lx.span(last.backslash, last.wsEnd), lx.text(last.backslash, last.wsEnd), fix.Preferred())
	if n := len(lines); n > 0 {
		ls := lines[n-1]
		we := ls
		for we < last.backslash && (content[we] == ' ' || content[we] == '\t') {
			we++
		}
		if we == last.backslash && ls <= last.backslash {
			exempt = ls
			f = fix.ReplaceSpan("remove '\\'", lx.span(ls, last.wsEnd), indent, lx.text(ls, last.wsEnd), fix.Preferred())
		}
	}
	lx.errLex(diag.LexEscapedNewlineLastLine, lx.span(last.backslash, last.backslash+1), "escaped newline at the last line of a multi-line string literal is not allowed").
		WithFixSuggestion(f).
		Emit()
	return exempt
}

func (lx *Lexer) skipNewline(off uint32) uint32 {
	content := lx.file.Content
	if off < lx.cursor.Limit && content[off] == '\r' {
		off++
		if off < lx.cursor.Limit && content[off] == '\n' {
			off++
		}
		return off
	}
	if off < lx.cursor.Limit && content[off] == '\n' {
		off++
	}
	return off
}

// scanEscape разбирает '\' вне интерполяции. Курсор на '\'.
func (lx *Lexer) scanEscape(ctx *stringContext) {
	bs := lx.cursor.Off
	if !lx.poundsAfter(bs+1, ctx.pounds) {
		// в сыром литерале '\' без '#' - обычный символ
		lx.cursor.Bump()
		return
	}
	lx.cursor.Off += 1 + ctx.pounds
	invalid := func() {
		lx.errLex(diag.LexInvalidEscape, lx.span(bs, bs+1), "invalid escape sequence in literal").Emit()
	}

	switch b := lx.cursor.Peek(); {
	case lx.cursor.EOF():
		invalid()
	case b == '0' || b == '\\' || b == 't' || b == 'n' || b == 'r' || b == '"' || b == '\'':
		lx.cursor.Bump()
	case b == 'u':
		lx.cursor.Bump()
		lx.scanUnicodeEscape(bs)
	case ctx.multiline && (b == ' ' || b == '\t' || b == '\n' || b == '\r'):
		mark := lx.cursor.Mark()
		lx.skipHorizontalSpace()
		if nb := lx.cursor.Peek(); nb == '\n' || nb == '\r' {
			ctx.escapes = append(ctx.escapes, escapedNewline{backslash: bs, wsEnd: lx.cursor.Off})
			return
		}
		lx.cursor.Reset(mark)
		invalid()
	default:
		invalid()
	}
}

// scanUnicodeEscape: \u{1-8 hex}, курсор после 'u'.
func (lx *Lexer) scanUnicodeEscape(bs uint32) {
	if !lx.cursor.Eat('{') {
		lx.errLex(diag.LexInvalidUnicodeEscape, lx.span(bs, lx.cursor.Off), "expected '{' in \\u{...} escape sequence").Emit()
		return
	}
	digitsStart := lx.cursor.Off
	for isHex(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	digits := lx.text(digitsStart, lx.cursor.Off)
	if !lx.cursor.Eat('}') {
		lx.errLex(diag.LexInvalidUnicodeEscape, lx.span(bs, lx.cursor.Off), "expected '}' in \\u{...} escape sequence").Emit()
		return
	}
	if len(digits) == 0 || len(digits) > 8 {
		lx.errLex(diag.LexInvalidUnicodeEscape, lx.span(bs, lx.cursor.Off), "\\u{...} escape sequence expects between 1 and 8 hex digits").Emit()
		return
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		lx.errLex(diag.LexInvalidUnicodeEscape, lx.span(bs, lx.cursor.Off), "invalid unicode scalar").Emit()
	}
}

// scanInterpolation: курсор на '\'. Выдаёт \ [#...] ( , токены выражения и
// закрывающую ')', если она есть. Скобки считаются только внутри этой
// интерполяции, поэтому кавычки вложенных литералов её не закрывают.
// Однострочный литерал обрывает интерполяцию на переводе строки,
// многострочный - на строке, которая начинается с его закрывающего разделителя.
func (lx *Lexer) scanInterpolation(ctx *stringContext) {
	bs := lx.cursor.Off
	lx.cursor.Bump()
	lx.pushStringPart(token.Backslash, bs, ctx)
	if ctx.pounds > 0 {
		start := lx.cursor.Off
		lx.cursor.Off += ctx.pounds
		lx.pushStringPart(token.RawStringPoundDelimiter, start, ctx)
	}
	open := lx.cursor.Off
	lx.cursor.Bump()
	lx.pushStringPart(token.LeftParen, open, ctx)

	inner := ctx.depth + 1
	parens := 0
	for {
		lx.collectLeadingTrivia(!ctx.multiline)
		if lx.cursor.EOF() {
			return
		}
		b := lx.cursor.Peek()
		if !ctx.multiline && (b == '\n' || b == '\r') {
			return
		}
		if ctx.multiline && lx.atClosingDelimiter(ctx) {
			if _, _, own := lx.closingOnOwnLine(ctx, lx.cursor.Off); own {
				return
			}
		}
		if b == ')' && parens == 0 {
			closeParen := lx.cursor.Off
			lx.cursor.Bump()
			lx.pushStringPart(token.RightParen, closeParen, ctx)
			return
		}
		switch b {
		case '(':
			parens++
		case ')':
			parens--
		}
		lx.scanToken(inner)
	}
}

// pushStringPart выдаёт структурный токен литерала без trailing trivia.
func (lx *Lexer) pushStringPart(k token.Kind, start uint32, ctx *stringContext) {
	tok := lx.makeToken(k, start)
	tok.Flags |= token.FlagStringPart
	tok.Depth = ctx.depth
	lx.push(tok, false)
}

func (lx *Lexer) flushSegment(ctx *stringContext, start, end uint32) {
	if end <= start {
		return
	}
	tok := token.Token{
		Kind:  token.StringSegment,
		Span:  lx.span(start, end),
		Text:  lx.text(start, end),
		Flags: token.FlagStringPart,
		Depth: ctx.depth,
	}
	lx.push(tok, false)
}
