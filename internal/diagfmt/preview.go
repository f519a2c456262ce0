package diagfmt

import (
	"fmt"
	"strings"

	"lexis/internal/diag"
	"lexis/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview вырезает строки, которые задевает правка, и
// возвращает их до и после применения.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	file := fs.Get(edit.Span.File)
	if edit.Span.End > file.Len() || edit.Span.Start > edit.Span.End {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	startLine := file.LineIndex(edit.Span.Start)
	endLine := max(file.LineIndex(edit.Span.End), startLine)

	blockStart := file.LineStarts[startLine]
	blockEnd := file.Len()
	if endLine+1 < len(file.LineStarts) {
		blockEnd = file.LineStarts[endLine+1]
	}

	original := file.Content[blockStart:blockEnd]
	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

// splitPreviewLines режет по любому переводу строки; хвостовой перевод
// строки пустой строкой не считается.
func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
