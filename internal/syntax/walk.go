package syntax

// Walk visits n and its present descendants in pre-order. fn receives the
// path relative to n; returning false skips the children of that node.
// The path slice is reused between calls, copy it to keep it.
func Walk(n *Node, fn func(p Path, n *Node) bool) {
	if n == nil {
		return
	}
	var p Path
	walk(n, &p, fn)
}

func walk(n *Node, p *Path, fn func(Path, *Node) bool) {
	if !fn(*p, n) || n.tok != nil {
		return
	}
	for i, c := range n.children {
		if c == nil {
			continue
		}
		*p = append(*p, i)
		walk(c, p, fn)
		*p = (*p)[:len(*p)-1]
	}
}

// Collect returns the nodes below n (n included) for which pred holds.
func Collect(n *Node, pred func(*Node) bool) []*Node {
	var out []*Node
	Walk(n, func(_ Path, c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}
