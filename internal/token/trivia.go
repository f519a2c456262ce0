package token

import (
	"strings"

	"lexis/internal/source"
)

// TriviaKind classifies a piece of non-semantic source text.
type TriviaKind uint8

const (
	// TriviaSpace is a run of horizontal whitespace (spaces, tabs, \v, \f).
	TriviaSpace TriviaKind = iota
	// TriviaNewline is a run of line terminators, "\n", "\r" and "\r\n" kept verbatim.
	TriviaNewline
	// TriviaLineComment is a '//' comment up to the line end.
	TriviaLineComment
	// TriviaBlockComment is a (possibly nested) '/* */' comment.
	TriviaBlockComment
	// TriviaDocLineComment is a '///' comment.
	TriviaDocLineComment
	// TriviaDocBlockComment is a '/** */' comment.
	TriviaDocBlockComment
	// TriviaBOM is the UTF-8 byte order mark at the start of a file.
	TriviaBOM
	// TriviaConflictMarker is a whole source control conflict region.
	TriviaConflictMarker
)

var triviaNames = [...]string{
	TriviaSpace:           "Space",
	TriviaNewline:         "Newline",
	TriviaLineComment:     "LineComment",
	TriviaBlockComment:    "BlockComment",
	TriviaDocLineComment:  "DocLineComment",
	TriviaDocBlockComment: "DocBlockComment",
	TriviaBOM:             "BOM",
	TriviaConflictMarker:  "ConflictMarker",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "Trivia(?)"
}

// Trivia is a verbatim piece of source text attached to a token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsNewline reports whether the piece contains a line break.
// Block comments and conflict regions spanning lines count as well.
func (t Trivia) IsNewline() bool {
	switch t.Kind {
	case TriviaNewline:
		return true
	case TriviaBlockComment, TriviaDocBlockComment, TriviaConflictMarker:
		return strings.ContainsAny(t.Text, "\n\r")
	default:
		return false
	}
}

// IsComment reports whether the piece is any kind of comment.
func (t Trivia) IsComment() bool {
	switch t.Kind {
	case TriviaLineComment, TriviaBlockComment, TriviaDocLineComment, TriviaDocBlockComment:
		return true
	default:
		return false
	}
}

// TriviaText concatenates the text of pieces.
func TriviaText(pieces []Trivia) string {
	switch len(pieces) {
	case 0:
		return ""
	case 1:
		return pieces[0].Text
	}
	var sb strings.Builder
	for _, p := range pieces {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// TriviaWidth is the byte length of pieces.
func TriviaWidth(pieces []Trivia) int {
	n := 0
	for _, p := range pieces {
		n += len(p.Text)
	}
	return n
}
