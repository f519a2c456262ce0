package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexInvalidCharacter         Code = 1001
	LexCombiningStart           Code = 1002
	LexConflictMarker           Code = 1003
	LexInvalidEscape            Code = 1004
	LexInvalidUnicodeEscape     Code = 1005
	LexUnterminatedBlockComment Code = 1006
	LexBadNumber                Code = 1007
	LexUnterminatedBacktick     Code = 1008
	LexInterpolationTooDeep     Code = 1009

	// multi-line string literals
	LexMultilineContentSameLine Code = 1100
	LexMultilineCloseSameLine   Code = 1101
	LexInsufficientIndentation  Code = 1102
	LexUnexpectedSpaceIndent    Code = 1103
	LexUnexpectedTabIndent      Code = 1104
	LexEscapedNewlineLastLine   Code = 1105

	// Парсерные
	SynInfo                      Code = 2000
	SynUnexpectedCode            Code = 2001
	SynExtraneousTopLevel        Code = 2002
	SynExpectedToken             Code = 2003
	SynUnterminatedString        Code = 2004
	SynUnterminatedInterpolation Code = 2005
	SynKeywordAsIdentifier       Code = 2006
	SynWildcardAsIdentifier      Code = 2007
	SynExpectedExpression        Code = 2008
	SynExpectedType              Code = 2009
	SynExpectedIdentifier        Code = 2010
	SynEditorPlaceholder         Code = 2011
	SynNestingTooDeep            Code = 2012
	SynExpectedDecl              Code = 2013

	// IO
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                  "Unknown error",
		LexInfo:                      "Lexical information",
		LexInvalidCharacter:          "Invalid character",
		LexCombiningStart:            "Identifier starts with a combining character",
		LexConflictMarker:            "Source control conflict marker",
		LexInvalidEscape:             "Invalid escape sequence",
		LexInvalidUnicodeEscape:      "Invalid unicode escape",
		LexUnterminatedBlockComment:  "Unterminated block comment",
		LexBadNumber:                 "Malformed number literal",
		LexUnterminatedBacktick:      "Unterminated escaped identifier",
		LexInterpolationTooDeep:      "String interpolation nested too deeply",
		LexMultilineContentSameLine:  "Multi-line string content on the delimiter line",
		LexMultilineCloseSameLine:    "Multi-line string closing delimiter after content",
		LexInsufficientIndentation:   "Insufficient indentation in multi-line string",
		LexUnexpectedSpaceIndent:     "Unexpected space in multi-line string indentation",
		LexUnexpectedTabIndent:       "Unexpected tab in multi-line string indentation",
		LexEscapedNewlineLastLine:    "Escaped newline on the last line of a multi-line string",
		SynInfo:                      "Syntax information",
		SynUnexpectedCode:            "Unexpected code",
		SynExtraneousTopLevel:        "Extraneous code at top level",
		SynExpectedToken:             "Expected token",
		SynUnterminatedString:        "Unterminated string literal",
		SynUnterminatedInterpolation: "Unterminated string interpolation",
		SynKeywordAsIdentifier:       "Keyword used as identifier",
		SynWildcardAsIdentifier:      "'_' used as identifier",
		SynExpectedExpression:        "Expected expression",
		SynExpectedType:              "Expected type",
		SynExpectedIdentifier:        "Expected identifier",
		SynEditorPlaceholder:         "Editor placeholder in source file",
		SynNestingTooDeep:            "Nesting too deep",
		SynExpectedDecl:              "Expected declaration",
		IOLoadFileError:              "I/O load file error",
		ObsInfo:                      "Observability information",
		ObsTimings:                   "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode resolves an ID such as "LEX1102".
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
