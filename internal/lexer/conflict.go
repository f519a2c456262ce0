package lexer

import (
	"lexis/internal/diag"
	"lexis/internal/token"
)

// conflictStyle describes one family of source control markers.
type conflictStyle struct {
	open, close byte
	width       uint32
}

var (
	gitConflict      = conflictStyle{open: '<', close: '>', width: 7} // <<<<<<< ... >>>>>>>
	perforceConflict = conflictStyle{open: '>', close: '<', width: 4} // >>>> ... <<<<
)

// scanConflictMarker пытается распознать конфликтный регион с текущей позиции
// (курсор в колонке 0). Весь регион, включая строку закрывающего маркера,
// становится одним TriviaConflictMarker с единственной диагностикой.
// Если закрывающего маркера нет, регион тянется до конца файла.
func (lx *Lexer) scanConflictMarker() bool {
	var style conflictStyle
	switch {
	case lx.markerAt(lx.cursor.Off, gitConflict.open, gitConflict.width):
		style = gitConflict
	case lx.markerAt(lx.cursor.Off, perforceConflict.open, perforceConflict.width):
		style = perforceConflict
	default:
		return false
	}

	start := lx.cursor.Off
	content := lx.file.Content
	end := lx.cursor.Limit
	for off := start + style.width; off < lx.cursor.Limit; off++ {
		if content[off-1] != '\n' && content[off-1] != '\r' {
			continue
		}
		if !lx.markerAt(off, style.close, style.width) {
			continue
		}
		end = off + style.width
		for end < lx.cursor.Limit && content[end] != '\n' && content[end] != '\r' {
			end++
		}
		break
	}

	lx.errLex(diag.LexConflictMarker, lx.span(start, start+style.width), "source control conflict marker in source file").Emit()
	lx.cursor.Off = end
	lx.holdTrivia(token.TriviaConflictMarker, start)
	return true
}

// markerAt: ровно width байтов b, затем пробел, таб, перевод строки или конец файла.
// Так `<<<<<<<"x"` и пользовательские операторы не принимаются за маркер.
func (lx *Lexer) markerAt(off uint32, b byte, width uint32) bool {
	content := lx.file.Content
	limit := lx.cursor.Limit
	if off+width > limit {
		return false
	}
	for i := uint32(0); i < width; i++ {
		if content[off+i] != b {
			return false
		}
	}
	if off+width == limit {
		return true
	}
	switch content[off+width] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
