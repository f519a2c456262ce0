package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"lexis/internal/schema"
	"lexis/internal/source"
)

// Path addresses a node by child indices from the root.
type Path []int

// Tree anchors a root node in a file. Token spans inside nodes keep their
// lexing positions; Tree recomputes positions from paths, so they stay
// correct after ReplaceChild and Detach.
type Tree struct {
	Root *Node
	File source.FileID
}

// NewTree wraps root.
func NewTree(root *Node, file source.FileID) *Tree {
	return &Tree{Root: root, File: file}
}

// At returns the node at p; ok is false when the path leaves the tree.
// An absent optional slot yields (nil, true).
func (t *Tree) At(p Path) (*Node, bool) {
	n := t.Root
	for _, i := range p {
		if n == nil || n.IsToken() || i < 0 || i >= len(n.children) {
			return nil, false
		}
		n = n.children[i]
	}
	return n, true
}

// Offset returns the byte offset where the full text of the node at p starts.
func (t *Tree) Offset(p Path) (uint32, bool) {
	n := t.Root
	off := 0
	for _, i := range p {
		if n == nil || n.IsToken() || i < 0 || i >= len(n.children) {
			return 0, false
		}
		for _, sib := range n.children[:i] {
			if sib != nil {
				off += sib.width
			}
		}
		n = n.children[i]
	}
	return toOffset(off), true
}

// FullRange returns the span of the node at p including its trivia.
func (t *Tree) FullRange(p Path) (source.Span, bool) {
	n, ok := t.At(p)
	start, ok2 := t.Offset(p)
	if !ok || !ok2 || n == nil {
		return source.Span{}, false
	}
	return source.Span{File: t.File, Start: start, End: start + toOffset(n.width)}, true
}

// TextRange returns the span of the node at p without leading trivia of its
// first token and trailing trivia of its last token.
func (t *Tree) TextRange(p Path) (source.Span, bool) {
	n, ok := t.At(p)
	start, ok2 := t.Offset(p)
	if !ok || !ok2 || n == nil {
		return source.Span{}, false
	}
	lead, trail := n.triviaEdges()
	end := start + toOffset(n.width-trail)
	start += toOffset(lead)
	if start > end {
		start = end
	}
	return source.Span{File: t.File, Start: start, End: end}, true
}

// ReplaceChild returns a tree where the node at p is n. Only the nodes on
// the path are rebuilt; everything else is shared with t. An empty path
// replaces the root. Replacing with a node the parent slot does not accept
// panics, as with the constructors.
func (t *Tree) ReplaceChild(p Path, n *Node) *Tree {
	return &Tree{Root: rebuild(t.Root, p, func(parent *Node, i int) []*Node {
		out := append([]*Node(nil), parent.children...)
		out[i] = n
		return out
	}, n), File: t.File}
}

// Detach removes the node at p: an optional slot becomes empty, a
// collection element is dropped. It returns the new tree and the removed node.
func (t *Tree) Detach(p Path) (*Tree, *Node) {
	if len(p) == 0 {
		panic("syntax: cannot detach the root")
	}
	removed, ok := t.At(p)
	if !ok {
		panic(fmt.Sprintf("syntax: path %v is outside the tree", p))
	}
	root := rebuild(t.Root, p, func(parent *Node, i int) []*Node {
		if parent.IsCollection() {
			out := make([]*Node, 0, len(parent.children)-1)
			out = append(out, parent.children[:i]...)
			return append(out, parent.children[i+1:]...)
		}
		out := append([]*Node(nil), parent.children...)
		out[i] = nil
		return out
	}, nil)
	return &Tree{Root: root, File: t.File}, removed
}

// rebuild копирует только узлы на пути p; edit строит новых детей родителя.
func rebuild(n *Node, p Path, edit func(parent *Node, i int) []*Node, replacement *Node) *Node {
	if len(p) == 0 {
		return replacement
	}
	if n == nil || n.IsToken() || p[0] < 0 || p[0] >= len(n.children) {
		panic(fmt.Sprintf("syntax: path %v is outside the tree", p))
	}
	if len(p) == 1 {
		return New(n.kind, edit(n, p[0]))
	}
	children := append([]*Node(nil), n.children...)
	children[p[0]] = rebuild(n.children[p[0]], p[1:], edit, replacement)
	return New(n.kind, children)
}

// PathTo returns the path of the first node (pre-order) for which pred holds.
func (t *Tree) PathTo(pred func(*Node) bool) (Path, bool) {
	var found Path
	Walk(t.Root, func(p Path, n *Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = append(Path{}, p...)
			return false
		}
		return true
	})
	return found, found != nil
}

// FindKind returns the path of the first node of kind k.
func (t *Tree) FindKind(k schema.Kind) (Path, bool) {
	return t.PathTo(func(n *Node) bool { return n.kind == k })
}

func toOffset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("syntax: offset overflow: %w", err))
	}
	return off
}
