package syntax

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"lexis/internal/token"
)

// Identifier returns the name spelled by tok: backticks stripped and the
// text in Unicode normalization form C, so "café" written with a combining
// accent equals the precomposed spelling.
func Identifier(tok *token.Token) string {
	if tok == nil {
		return ""
	}
	text := tok.Text
	if tok.Flags&token.FlagBacktick != 0 {
		text = strings.TrimPrefix(text, "`")
		text = strings.TrimSuffix(text, "`")
	}
	return norm.NFC.String(text)
}

// SameIdentifier compares two name tokens after normalization.
func SameIdentifier(a, b *token.Token) bool {
	return Identifier(a) == Identifier(b)
}

// NameOf returns the normalized text of the "Name" slot of a declaration,
// "" when the node has no such slot or it is missing.
func NameOf(n *Node) string {
	d := n.Descriptor()
	if d == nil || d.ChildIndex("Name") < 0 {
		return ""
	}
	tok := n.ChildToken("Name")
	if tok == nil || tok.IsMissing() {
		return ""
	}
	return Identifier(tok)
}
