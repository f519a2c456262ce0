package token

import (
	"strings"

	"lexis/internal/source"
)

// Flags carries per-token facts the kind alone does not express.
type Flags uint8

const (
	// FlagMissing marks a token synthesized by the parser; its Text is empty.
	FlagMissing Flags = 1 << iota
	// FlagEditorPlaceholder marks an identifier spelled as <#...#>.
	FlagEditorPlaceholder
	// FlagStringPart marks the structural tokens of a string literal:
	// delimiters, segments and the \( ) of an interpolation.
	FlagStringPart
	// FlagBacktick marks an identifier written as `name`.
	FlagBacktick
	// FlagInvalidStart marks an identifier that starts with a combining mark.
	FlagInvalidStart
	// FlagClosingDelimiter marks the closing quote and pounds of a string literal.
	FlagClosingDelimiter
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Leading  []Trivia
	Trailing []Trivia
	Flags    Flags
	Depth    uint16 // string interpolation nesting, 0 at top level
}

// Missing builds a placeholder token of kind k located at the empty span at.
func Missing(k Kind, at source.Span) Token {
	return Token{Kind: k, Span: source.Span{File: at.File, Start: at.Start, End: at.Start}, Flags: FlagMissing}
}

// IsMissing reports whether the parser synthesized the token.
func (t Token) IsMissing() bool { return t.Flags&FlagMissing != 0 }

// IsLiteral reports whether the token is a numeric, boolean or nil literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntegerLiteral, FloatingLiteral, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

// IsContextual reports whether the token is an identifier spelled text.
func (t Token) IsContextual(text string) bool {
	return t.Kind == Identifier && t.Text == text
}

// IsOperator reports whether the token is a prefix, postfix or binary operator.
func (t Token) IsOperator() bool { return t.Kind.IsOperator() }

// IsEOF reports whether the token marks the end of input.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// AtLineStart reports whether a line break separates the token from the previous one.
func (t Token) AtLineStart() bool {
	for _, tr := range t.Leading {
		if tr.IsNewline() {
			return true
		}
	}
	return false
}

// HasLeadingSpace reports whether any trivia precedes the token text.
func (t Token) HasLeadingSpace() bool { return len(t.Leading) > 0 }

// FullText returns leading trivia, text and trailing trivia concatenated.
func (t Token) FullText() string {
	if len(t.Leading) == 0 && len(t.Trailing) == 0 {
		return t.Text
	}
	var sb strings.Builder
	sb.Grow(t.FullWidth())
	for _, tr := range t.Leading {
		sb.WriteString(tr.Text)
	}
	sb.WriteString(t.Text)
	for _, tr := range t.Trailing {
		sb.WriteString(tr.Text)
	}
	return sb.String()
}

// FullWidth returns the byte length of FullText.
func (t Token) FullWidth() int {
	return TriviaWidth(t.Leading) + len(t.Text) + TriviaWidth(t.Trailing)
}

// FullSpan covers the token and its trivia.
func (t Token) FullSpan() source.Span {
	s := t.Span
	if len(t.Leading) > 0 {
		s = s.Cover(t.Leading[0].Span)
	}
	if len(t.Trailing) > 0 {
		s = s.Cover(t.Trailing[len(t.Trailing)-1].Span)
	}
	return s
}
