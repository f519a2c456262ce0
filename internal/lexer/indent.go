package lexer

import (
	"fmt"

	"lexis/internal/diag"
	"lexis/internal/fix"
)

// indentIssue - вид нарушения отступа строки многострочного литерала.
type indentIssue uint8

const (
	indentOK indentIssue = iota
	indentInsufficient
	indentUnexpectedSpace
	indentUnexpectedTab
)

// lineIndent - строка содержимого относительно требуемого отступа.
type lineIndent struct {
	issue     indentIssue
	lineStart uint32
	wsEnd     uint32 // первый не-пробельный символ
	at        uint32 // куда указывает диагностика
}

// classifyLine сравнивает ведущие пробелы строки с required.
// Расхождение символа важнее нехватки длины: "\tXi" при "  " - лишний таб.
// Строки из одних пробелов не проверяются.
func (lx *Lexer) classifyLine(ls uint32, required string) lineIndent {
	content := lx.file.Content
	li := lineIndent{lineStart: ls}
	we := ls
	for we < lx.cursor.Limit && (content[we] == ' ' || content[we] == '\t') {
		we++
	}
	li.wsEnd = we
	if we >= lx.cursor.Limit || content[we] == '\n' || content[we] == '\r' {
		return li
	}
	ws := content[ls:we]
	for i := 0; i < len(ws) && i < len(required); i++ {
		if ws[i] == required[i] {
			continue
		}
		li.at = ls + uint32(i)
		if ws[i] == ' ' {
			li.issue = indentUnexpectedSpace
		} else {
			li.issue = indentUnexpectedTab
		}
		return li
	}
	if len(ws) < len(required) {
		li.issue = indentInsufficient
		li.at = we
	}
	return li
}

// checkIndentation группирует подряд идущие строки с одинаковым нарушением
// в одну диагностику. Группу рвёт смена вида, корректная или пустая строка.
// Каждая строка группы получает собственное исправление.
func (lx *Lexer) checkIndentation(lines []uint32, required string, closeStart, exempt uint32) {
	var run []lineIndent
	flush := func() {
		if len(run) > 0 {
			lx.reportIndentRun(run, required, closeStart)
		}
		run = run[:0]
	}
	for _, ls := range lines {
		li := lineIndent{lineStart: ls}
		if ls != exempt {
			li = lx.classifyLine(ls, required)
		}
		if li.issue == indentOK {
			flush()
			continue
		}
		if len(run) > 0 && run[0].issue != li.issue {
			flush()
		}
		run = append(run, li)
	}
	flush()
}

func (lx *Lexer) reportIndentRun(run []lineIndent, required string, closeStart uint32) {
	var what string
	switch run[0].issue {
	case indentInsufficient:
		what = "insufficient indentation"
	case indentUnexpectedSpace:
		what = "unexpected space in indentation"
	default:
		what = "unexpected tab in indentation"
	}
	lines, title := "line", "change indentation of this line to match closing delimiter"
	if len(run) > 1 {
		lines = fmt.Sprintf("the next %d lines", len(run))
		title = "change indentation of these lines to match closing delimiter"
	}

	b := lx.errLex(indentCode(run[0].issue), lx.span(run[0].at, run[0].at), fmt.Sprintf("%s of %s in multi-line string literal", what, lines)).
		WithNote(lx.span(closeStart, closeStart), "should match indentation here")
	for _, li := range run {
		sp := lx.span(li.lineStart, li.wsEnd)
		b.WithFixSuggestion(fix.ReplaceSpan(title, sp, required, lx.text(sp.Start, sp.End), fix.Preferred()))
	}
	b.Emit()
}

func indentCode(issue indentIssue) diag.Code {
	switch issue {
	case indentInsufficient:
		return diag.LexInsufficientIndentation
	case indentUnexpectedSpace:
		return diag.LexUnexpectedSpaceIndent
	default:
		return diag.LexUnexpectedTabIndent
	}
}
