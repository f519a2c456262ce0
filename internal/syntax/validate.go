package syntax

import (
	"fmt"

	"lexis/internal/schema"
)

// ShapeError describes a node that does not match its descriptor.
type ShapeError struct {
	Kind  schema.Kind
	Slot  string // имя слота или индекс элемента коллекции
	Cause string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("syntax: %s.%s: %s", e.Kind, e.Slot, e.Cause)
}

// ValidateComposite checks children against the slot list of kind.
func ValidateComposite(kind schema.Kind, children []*Node) error {
	d := schema.Describe(kind)
	if d.Class != schema.Composite {
		return &ShapeError{Kind: kind, Slot: "-", Cause: "not a composite kind"}
	}
	if len(children) != len(d.Children) {
		return &ShapeError{Kind: kind, Slot: "-", Cause: fmt.Sprintf("got %d children, want %d", len(children), len(d.Children))}
	}
	for i := range d.Children {
		if err := validateSlot(kind, &d.Children[i], children[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateSlot(kind schema.Kind, slot *schema.ChildSpec, c *Node) error {
	fail := func(format string, args ...any) error {
		return &ShapeError{Kind: kind, Slot: slot.Name, Cause: fmt.Sprintf(format, args...)}
	}
	if c == nil {
		if slot.Optional {
			return nil
		}
		return fail("required slot is empty")
	}
	switch slot.Shape {
	case schema.ShapeToken:
		if !c.IsToken() || !slot.AcceptsToken(c.tok) {
			return fail("does not accept %s", c)
		}
	case schema.ShapeNode, schema.ShapeCollection:
		if c.IsToken() || !slot.AcceptsNode(c.kind) {
			return fail("does not accept %s", c.kind)
		}
	case schema.ShapeChoices:
		if c.IsToken() {
			if !slot.AcceptsToken(c.tok) {
				return fail("does not accept %s", c)
			}
		} else if !slot.AcceptsNode(c.kind) {
			return fail("does not accept %s", c.kind)
		}
	}
	return nil
}

// ValidateCollection checks every element against the collection of kind.
func ValidateCollection(kind schema.Kind, elems []*Node) error {
	d := schema.Describe(kind)
	if d.Class != schema.Collection {
		return &ShapeError{Kind: kind, Slot: "-", Cause: "not a collection kind"}
	}
	for i, e := range elems {
		slot := fmt.Sprintf("[%d]", i)
		switch {
		case e == nil:
			return &ShapeError{Kind: kind, Slot: slot, Cause: "nil element"}
		case !d.AcceptsElement(e.kind):
			return &ShapeError{Kind: kind, Slot: slot, Cause: fmt.Sprintf("does not accept %s", e.kind)}
		}
	}
	return nil
}

// Validate re-checks n and every node below it.
func Validate(n *Node) error {
	if n == nil || n.IsToken() {
		return nil
	}
	var err error
	if n.IsCollection() {
		err = ValidateCollection(n.kind, n.children)
	} else {
		err = ValidateComposite(n.kind, n.children)
	}
	if err != nil {
		return err
	}
	for _, c := range n.children {
		if err := Validate(c); err != nil {
			return err
		}
	}
	return nil
}
