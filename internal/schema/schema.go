// Package schema holds the declarative catalog of syntax node kinds.
//
// The catalog lives in nodes.toml and is decoded once at init. Both the
// parser and the syntax package consult it: the parser for diagnostic
// names, the syntax package to validate node construction.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"lexis/internal/token"
)

//go:embed nodes.toml
var catalogSource string

// Kind identifies a syntax node kind. Token is the kind of every leaf.
type Kind uint16

const (
	Invalid Kind = iota
	Token
	firstNodeKind
)

// Class tells whether a node holds named slots or a homogeneous sequence.
type Class uint8

const (
	Composite Class = iota
	Collection
)

func (c Class) String() string {
	if c == Collection {
		return "collection"
	}
	return "composite"
}

// Shape is the constraint form of a child slot.
type Shape uint8

const (
	ShapeNode Shape = iota
	ShapeChoices
	ShapeCollection
	ShapeToken
)

// ChildSpec describes one slot of a composite node.
type ChildSpec struct {
	Name  string
	Shape Shape
	// Kinds are the permitted node kinds for ShapeNode, ShapeChoices and ShapeCollection.
	Kinds []Kind
	// Tokens are the permitted token kinds; ShapeChoices may also carry them.
	Tokens []token.Kind
	// Keywords restricts identifier text for token slots.
	Keywords []string
	Optional bool
	// RequiresLeadingSpace marks slots whose token must be separated from its predecessor.
	RequiresLeadingSpace bool
}

// AcceptsNode reports whether a node of kind k can fill the slot.
func (c *ChildSpec) AcceptsNode(k Kind) bool {
	for _, want := range c.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

// AcceptsToken reports whether tok can fill the slot.
func (c *ChildSpec) AcceptsToken(tok *token.Token) bool {
	if tok == nil {
		return false
	}
	matched := false
	for _, want := range c.Tokens {
		if want == tok.Kind {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if len(c.Keywords) == 0 || tok.IsMissing() {
		return true
	}
	for _, kw := range c.Keywords {
		if tok.Text == kw {
			return true
		}
	}
	return false
}

// Descriptor is the static description of one node kind.
type Descriptor struct {
	Kind           Kind
	Name           string
	DiagnosticName string
	Class          Class
	Children       []ChildSpec
	// Elements lists permitted element kinds of a collection; Token admits any token.
	Elements []Kind
}

// ChildIndex returns the slot index of name, or -1.
func (d *Descriptor) ChildIndex(name string) int {
	for i := range d.Children {
		if d.Children[i].Name == name {
			return i
		}
	}
	return -1
}

// AcceptsElement reports whether a collection admits an element of kind k.
func (d *Descriptor) AcceptsElement(k Kind) bool {
	for _, e := range d.Elements {
		if e == k {
			return true
		}
	}
	return false
}

type catalog struct {
	descs  []Descriptor
	byName map[string]Kind
	groups map[string][]Kind
}

// registry is built during variable initialization so the kind handles
// in kinds.go can resolve against it.
var registry = mustLoad(catalogSource)

func mustLoad(src string) *catalog {
	c, err := load(src)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return c
}

// Describe returns the descriptor of k. Unknown kinds are a programming error.
func Describe(k Kind) *Descriptor {
	if k < firstNodeKind || int(k) >= len(registry.descs) {
		panic(fmt.Sprintf("schema: unknown node kind %d", k))
	}
	return &registry.descs[k]
}

// LookupByName resolves a node kind by its catalog name.
func LookupByName(name string) (Kind, bool) {
	k, ok := registry.byName[name]
	return k, ok
}

// DiagnosticName is the human phrase used in messages such as "expected ')' in string literal".
func DiagnosticName(k Kind) string {
	if k == Token {
		return "token"
	}
	return Describe(k).DiagnosticName
}

// All returns every node kind in catalog order.
func All() []Kind {
	out := make([]Kind, 0, len(registry.descs)-int(firstNodeKind))
	for k := firstNodeKind; int(k) < len(registry.descs); k++ {
		out = append(out, k)
	}
	return out
}

// Group returns the members of a named group such as "Expr".
func Group(name string) []Kind {
	return registry.groups[name]
}

// InGroup reports whether k belongs to the named group.
func InGroup(k Kind, name string) bool {
	for _, m := range registry.groups[name] {
		if m == k {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	switch {
	case k == Invalid:
		return "Invalid"
	case k == Token:
		return "Token"
	case registry != nil && int(k) < len(registry.descs):
		return registry.descs[k].Name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

func mustKind(name string) Kind {
	k, ok := LookupByName(name)
	if !ok {
		panic("schema: missing node kind " + name)
	}
	return k
}

// raw catalog shape as it appears in nodes.toml
type rawCatalog struct {
	Groups map[string][]string `toml:"groups"`
	Nodes  []rawNode           `toml:"node"`
}

type rawNode struct {
	Name       string     `toml:"name"`
	Diagnostic string     `toml:"diagnostic"`
	Class      string     `toml:"class"`
	Elements   []string   `toml:"elements"`
	Children   []rawChild `toml:"child"`
}

type rawChild struct {
	Name         string   `toml:"name"`
	Node         string   `toml:"node"`
	Choices      []string `toml:"choices"`
	Collection   string   `toml:"collection"`
	Tokens       []string `toml:"tokens"`
	Keywords     []string `toml:"keywords"`
	Optional     bool     `toml:"optional"`
	LeadingSpace bool     `toml:"leading_space"`
}

func load(src string) (*catalog, error) {
	var raw rawCatalog
	md, err := toml.Decode(src, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown catalog keys: %v", undecoded)
	}

	c := &catalog{
		descs:  make([]Descriptor, int(firstNodeKind), int(firstNodeKind)+len(raw.Nodes)),
		byName: make(map[string]Kind, len(raw.Nodes)+1),
		groups: make(map[string][]Kind, len(raw.Groups)),
	}
	c.descs[Invalid] = Descriptor{Kind: Invalid, Name: "Invalid"}
	c.descs[Token] = Descriptor{Kind: Token, Name: "Token", DiagnosticName: "token"}
	c.byName["Token"] = Token

	// first pass: assign kinds in declaration order
	for i, n := range raw.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node #%d has no name", i)
		}
		if _, dup := c.byName[n.Name]; dup {
			return nil, fmt.Errorf("duplicate node %q", n.Name)
		}
		k := Kind(int(firstNodeKind) + i)
		c.byName[n.Name] = k
		c.descs = append(c.descs, Descriptor{Kind: k, Name: n.Name, DiagnosticName: n.Diagnostic})
	}

	for name, members := range raw.Groups {
		kinds := make([]Kind, 0, len(members))
		for _, m := range members {
			k, ok := c.byName[m]
			if !ok {
				return nil, fmt.Errorf("group %s: unknown node %q", name, m)
			}
			kinds = append(kinds, k)
		}
		c.groups[name] = kinds
	}

	for i, n := range raw.Nodes {
		d := &c.descs[int(firstNodeKind)+i]
		if d.DiagnosticName == "" {
			d.DiagnosticName = strings.ToLower(n.Name)
		}
		switch n.Class {
		case "composite":
			d.Class = Composite
			if len(n.Elements) > 0 {
				return nil, fmt.Errorf("%s: composite node cannot list elements", n.Name)
			}
			for _, rc := range n.Children {
				cs, err := c.resolveChild(n.Name, rc)
				if err != nil {
					return nil, err
				}
				if d.ChildIndex(cs.Name) >= 0 {
					return nil, fmt.Errorf("%s: duplicate child %q", n.Name, cs.Name)
				}
				d.Children = append(d.Children, cs)
			}
		case "collection":
			d.Class = Collection
			if len(n.Children) > 0 {
				return nil, fmt.Errorf("%s: collection node cannot have children", n.Name)
			}
			if len(n.Elements) == 0 {
				return nil, fmt.Errorf("%s: collection has no element kinds", n.Name)
			}
			elems, err := c.resolveKinds(n.Name, n.Elements)
			if err != nil {
				return nil, err
			}
			d.Elements = elems
		default:
			return nil, fmt.Errorf("%s: unknown class %q", n.Name, n.Class)
		}
	}
	return c, nil
}

func (c *catalog) resolveKinds(owner string, names []string) ([]Kind, error) {
	out := make([]Kind, 0, len(names))
	for _, name := range names {
		if group, ok := strings.CutPrefix(name, "@"); ok {
			members, ok := c.groups[group]
			if !ok {
				return nil, fmt.Errorf("%s: unknown group %q", owner, group)
			}
			out = append(out, members...)
			continue
		}
		k, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("%s: unknown node %q", owner, name)
		}
		out = append(out, k)
	}
	return out, nil
}

func (c *catalog) resolveChild(owner string, rc rawChild) (ChildSpec, error) {
	cs := ChildSpec{
		Name:                 rc.Name,
		Keywords:             rc.Keywords,
		Optional:             rc.Optional,
		RequiresLeadingSpace: rc.LeadingSpace,
	}
	where := owner + "." + rc.Name
	if rc.Name == "" {
		return cs, fmt.Errorf("%s: child without name", owner)
	}
	for _, tk := range rc.Tokens {
		k, ok := token.KindByName(tk)
		if !ok {
			return cs, fmt.Errorf("%s: unknown token kind %q", where, tk)
		}
		cs.Tokens = append(cs.Tokens, k)
	}

	shapes := 0
	if rc.Node != "" {
		shapes++
		cs.Shape = ShapeNode
		kinds, err := c.resolveKinds(where, []string{rc.Node})
		if err != nil {
			return cs, err
		}
		cs.Kinds = kinds
	}
	if len(rc.Choices) > 0 {
		shapes++
		cs.Shape = ShapeChoices
		kinds, err := c.resolveKinds(where, rc.Choices)
		if err != nil {
			return cs, err
		}
		cs.Kinds = kinds
	}
	if rc.Collection != "" {
		shapes++
		cs.Shape = ShapeCollection
		k, ok := c.byName[rc.Collection]
		if !ok {
			return cs, fmt.Errorf("%s: unknown collection %q", where, rc.Collection)
		}
		cs.Kinds = []Kind{k}
	}
	switch {
	case shapes > 1:
		return cs, fmt.Errorf("%s: child has more than one shape", where)
	case shapes == 0 && len(cs.Tokens) == 0:
		return cs, fmt.Errorf("%s: child has no shape", where)
	case shapes == 0:
		cs.Shape = ShapeToken
	case len(cs.Tokens) > 0 && cs.Shape != ShapeChoices:
		return cs, fmt.Errorf("%s: only choice slots may mix tokens", where)
	}
	if cs.Shape == ShapeCollection && cs.Optional {
		return cs, fmt.Errorf("%s: collection slots are never optional", where)
	}
	if len(cs.Keywords) > 0 && cs.Shape != ShapeToken {
		return cs, fmt.Errorf("%s: keywords only apply to token slots", where)
	}
	return cs, nil
}
