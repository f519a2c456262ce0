package syntax

import (
	"fmt"
	"io"
	"strings"

	"lexis/internal/schema"
	"lexis/internal/token"
)

// Exported is the serializable form of a tree used by the json, yaml and
// msgpack outputs. Absent optional slots are kept as null entries so slot
// positions survive a round trip through the encoders.
type Exported struct {
	Kind     string         `json:"kind" yaml:"kind" msgpack:"kind"`
	Slot     string         `json:"slot,omitempty" yaml:"slot,omitempty" msgpack:"slot,omitempty"`
	Token    *ExportedToken `json:"token,omitempty" yaml:"token,omitempty" msgpack:"token,omitempty"`
	Children []*Exported    `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// ExportedToken mirrors token.Token with trivia flattened to text.
type ExportedToken struct {
	Kind     string `json:"kind" yaml:"kind" msgpack:"kind"`
	Text     string `json:"text" yaml:"text" msgpack:"text"`
	Leading  string `json:"leading,omitempty" yaml:"leading,omitempty" msgpack:"leading,omitempty"`
	Trailing string `json:"trailing,omitempty" yaml:"trailing,omitempty" msgpack:"trailing,omitempty"`
	Start    uint32 `json:"start" yaml:"start" msgpack:"start"`
	End      uint32 `json:"end" yaml:"end" msgpack:"end"`
	Missing  bool   `json:"missing,omitempty" yaml:"missing,omitempty" msgpack:"missing,omitempty"`
	Depth    uint16 `json:"depth,omitempty" yaml:"depth,omitempty" msgpack:"depth,omitempty"`
}

// Export converts n into its serializable form.
func Export(n *Node) *Exported {
	return export(n, "")
}

func export(n *Node, slot string) *Exported {
	if n == nil {
		return nil
	}
	if t := n.tok; t != nil {
		return &Exported{Kind: "Token", Slot: slot, Token: &ExportedToken{
			Kind:     t.Kind.String(),
			Text:     t.Text,
			Leading:  token.TriviaText(t.Leading),
			Trailing: token.TriviaText(t.Trailing),
			Start:    t.Span.Start,
			End:      t.Span.End,
			Missing:  t.IsMissing(),
			Depth:    t.Depth,
		}}
	}
	out := &Exported{Kind: n.kind.String(), Slot: slot, Children: make([]*Exported, len(n.children))}
	d := n.Descriptor()
	for i, c := range n.children {
		name := ""
		if d.Class == schema.Composite {
			name = d.Children[i].Name
		}
		out.Children[i] = export(c, name)
	}
	return out
}

// Dump writes an indented outline of n, one node per line.
func Dump(w io.Writer, n *Node) error {
	var err error
	Walk(n, func(p Path, c *Node) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", len(p))
		if t := c.tok; t != nil {
			marker := ""
			if t.IsMissing() {
				marker = " <missing>"
			}
			_, err = fmt.Fprintf(w, "%s%s %q%s\n", indent, t.Kind, t.Text, marker)
			return true
		}
		_, err = fmt.Fprintf(w, "%s%s\n", indent, c.kind)
		return true
	})
	return err
}
