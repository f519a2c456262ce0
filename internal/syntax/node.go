package syntax

import (
	"fmt"
	"strings"

	"lexis/internal/schema"
	"lexis/internal/token"
)

// Node - токен или составной узел. Отсутствующий необязательный слот - nil.
type Node struct {
	kind     schema.Kind
	tok      *token.Token
	children []*Node
	width    int // сумма FullWidth всех токенов
}

// NewToken wraps tok in a leaf node.
func NewToken(tok token.Token) *Node {
	t := tok
	return &Node{kind: schema.Token, tok: &t, width: t.FullWidth()}
}

// NewMissingToken builds a zero-width placeholder token of kind k.
func NewMissingToken(k token.Kind) *Node {
	return NewToken(token.Token{Kind: k, Flags: token.FlagMissing})
}

// NewComposite builds a composite node. children must match the slot list
// of kind in order and count; nil fills an absent optional slot.
func NewComposite(kind schema.Kind, children ...*Node) *Node {
	if err := ValidateComposite(kind, children); err != nil {
		panic(err)
	}
	return newNode(kind, children)
}

// NewCollection builds a collection node of kind from elems.
func NewCollection(kind schema.Kind, elems ...*Node) *Node {
	if err := ValidateCollection(kind, elems); err != nil {
		panic(err)
	}
	return newNode(kind, elems)
}

// New builds a node of either class, dispatching on the descriptor.
func New(kind schema.Kind, children []*Node) *Node {
	if schema.Describe(kind).Class == schema.Collection {
		return NewCollection(kind, children...)
	}
	return NewComposite(kind, children...)
}

func newNode(kind schema.Kind, children []*Node) *Node {
	n := &Node{kind: kind, children: children}
	for _, c := range children {
		if c != nil {
			n.width += c.width
		}
	}
	return n
}

// Kind returns schema.Token for token nodes.
func (n *Node) Kind() schema.Kind { return n.kind }

// IsToken reports whether n is a leaf.
func (n *Node) IsToken() bool { return n.tok != nil }

// IsCollection reports whether n is a collection node.
func (n *Node) IsCollection() bool {
	return n.tok == nil && schema.Describe(n.kind).Class == schema.Collection
}

// Token returns the token of a leaf, nil otherwise.
func (n *Node) Token() *token.Token { return n.tok }

// Descriptor returns the schema descriptor; nil for tokens.
func (n *Node) Descriptor() *schema.Descriptor {
	if n.tok != nil {
		return nil
	}
	return schema.Describe(n.kind)
}

// Children возвращает слоты (nil для отсутствующих). Только для чтения.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of slots or elements.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns slot i; nil when the slot is absent or out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Child returns the named slot of a composite. An unknown name panics.
func (n *Node) Child(name string) *Node {
	d := n.Descriptor()
	if d == nil || d.Class != schema.Composite {
		panic(fmt.Sprintf("syntax: Child(%q) on %s", name, n.kind))
	}
	i := d.ChildIndex(name)
	if i < 0 {
		panic(fmt.Sprintf("syntax: %s has no child %q", d.Name, name))
	}
	return n.children[i]
}

// ChildToken returns the token in the named slot, nil when absent.
func (n *Node) ChildToken(name string) *token.Token {
	c := n.Child(name)
	if c == nil {
		return nil
	}
	return c.tok
}

// Width is the byte length of FullText.
func (n *Node) Width() int { return n.width }

// IsMissing reports whether every token below n was synthesized.
func (n *Node) IsMissing() bool {
	missing := true
	n.eachToken(func(t *token.Token) bool {
		if !t.IsMissing() {
			missing = false
			return false
		}
		return true
	})
	return missing
}

// FullText returns the source text of n including all trivia.
func (n *Node) FullText() string {
	var sb strings.Builder
	sb.Grow(n.width)
	n.eachToken(func(t *token.Token) bool {
		for _, tr := range t.Leading {
			sb.WriteString(tr.Text)
		}
		sb.WriteString(t.Text)
		for _, tr := range t.Trailing {
			sb.WriteString(tr.Text)
		}
		return true
	})
	return sb.String()
}

// Text returns FullText without the leading trivia of the first token and
// the trailing trivia of the last one.
func (n *Node) Text() string {
	lead, trail := n.triviaEdges()
	full := n.FullText()
	if lead+trail >= len(full) {
		return ""
	}
	return full[lead : len(full)-trail]
}

// triviaEdges returns the width of leading trivia of the first present
// token and trailing trivia of the last one.
func (n *Node) triviaEdges() (lead, trail int) {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return 0, 0
	}
	return token.TriviaWidth(first.Leading), token.TriviaWidth(last.Trailing)
}

// Tokens returns every token below n in source order, missing ones included.
func (n *Node) Tokens() []token.Token {
	var out []token.Token
	n.eachToken(func(t *token.Token) bool {
		out = append(out, *t)
		return true
	})
	return out
}

// FirstToken returns the first token that has source text.
func (n *Node) FirstToken() *token.Token {
	var found *token.Token
	n.eachToken(func(t *token.Token) bool {
		if t.IsMissing() {
			return true
		}
		found = t
		return false
	})
	return found
}

// LastToken returns the last token that has source text.
func (n *Node) LastToken() *token.Token {
	if n.tok != nil {
		if n.tok.IsMissing() {
			return nil
		}
		return n.tok
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if c := n.children[i]; c != nil {
			if t := c.LastToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// eachToken обходит токены по порядку, пока fn возвращает true.
func (n *Node) eachToken(fn func(*token.Token) bool) bool {
	if n.tok != nil {
		return fn(n.tok)
	}
	for _, c := range n.children {
		if c != nil && !c.eachToken(fn) {
			return false
		}
	}
	return true
}

// String renders the kind and text for debugging.
func (n *Node) String() string {
	if n.tok != nil {
		return fmt.Sprintf("%s(%q)", n.tok.Kind, n.tok.Text)
	}
	return fmt.Sprintf("%s(%q)", n.kind, n.Text())
}
