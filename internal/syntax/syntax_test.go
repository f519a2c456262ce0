package syntax

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lexis/internal/schema"
	"lexis/internal/token"
)

func tk(k token.Kind, text, trailing string) *Node {
	t := token.Token{Kind: k, Text: text}
	if trailing != "" {
		t.Trailing = []token.Trivia{{Kind: token.TriviaSpace, Text: trailing}}
	}
	return NewToken(t)
}

func intLit(text string) *Node {
	return NewComposite(schema.IntegerLiteralExpr, tk(token.IntegerLiteral, text, ""))
}

// letFile строит дерево для "let a = 1\n".
func letFile() *Node {
	binding := NewComposite(schema.PatternBinding,
		NewComposite(schema.IdentifierPattern, tk(token.Identifier, "a", " ")),
		nil,
		NewComposite(schema.InitializerClause, tk(token.Equal, "=", " "), intLit("1")),
		nil,
	)
	decl := NewComposite(schema.VariableDecl,
		NewCollection(schema.AttributeList),
		NewCollection(schema.DeclModifierList),
		tk(token.KwLet, "let", " "),
		NewCollection(schema.PatternBindingList, binding),
	)
	eof := NewToken(token.Token{Kind: token.EOF, Leading: []token.Trivia{{Kind: token.TriviaNewline, Text: "\n"}}})
	return NewComposite(schema.SourceFile,
		NewCollection(schema.CodeBlockItemList, NewComposite(schema.CodeBlockItem, decl, nil)),
		eof,
	)
}

var (
	declPath    = Path{0, 0, 0}
	bindingPath = Path{0, 0, 0, 3, 0}
	initPath    = Path{0, 0, 0, 3, 0, 2}
	valuePath   = Path{0, 0, 0, 3, 0, 2, 1}
)

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestNodeText(t *testing.T) {
	root := letFile()
	if got := root.FullText(); got != "let a = 1\n" {
		t.Fatalf("FullText = %q", got)
	}
	if root.Width() != len("let a = 1\n") {
		t.Fatalf("Width = %d", root.Width())
	}
	tree := NewTree(root, 1)
	decl, _ := tree.At(declPath)
	if got := decl.Text(); got != "let a = 1" {
		t.Fatalf("decl Text = %q", got)
	}
	if n := len(root.Tokens()); n != 5 {
		t.Fatalf("Tokens = %d", n)
	}
	if decl.Child("BindingSpecifier").Token().Kind != token.KwLet {
		t.Fatal("Child by name")
	}
	if decl.Child("Attributes").NumChildren() != 0 {
		t.Fatal("empty collection expected")
	}
	binding, _ := tree.At(bindingPath)
	if binding.Child("TypeAnnotation") != nil {
		t.Fatal("absent optional slot must be nil")
	}
	expectPanic(t, "unknown child", func() { binding.Child("Nope") })
}

func TestConstructorsValidate(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"wrong token kind", func() { NewComposite(schema.IntegerLiteralExpr, tk(token.Identifier, "x", "")) }},
		{"wrong child count", func() { NewComposite(schema.IntegerLiteralExpr) }},
		{"required slot empty", func() { NewComposite(schema.InitializerClause, tk(token.Equal, "=", ""), nil) }},
		{"node where token expected", func() { NewComposite(schema.IntegerLiteralExpr, intLit("1")) }},
		{"keyword restriction", func() {
			NewComposite(schema.OperatorDecl, tk(token.Identifier, "around", " "), tk(token.KwOperator, "operator", " "), tk(token.BinaryOperator, "+++", ""))
		}},
		{"collection element", func() { NewCollection(schema.PatternBindingList, intLit("1")) }},
		{"collection kind as composite", func() { NewComposite(schema.PatternBindingList) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { expectPanic(t, tt.name, tt.fn) })
	}
}

func TestValidateReportsShapeError(t *testing.T) {
	err := ValidateComposite(schema.IntegerLiteralExpr, []*Node{tk(token.Identifier, "x", "")})
	var shape *ShapeError
	if !errors.As(err, &shape) || shape.Slot != "Literal" {
		t.Fatalf("err = %v", err)
	}
	if err := Validate(letFile()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestKeywordSlotsAcceptMissingTokens(t *testing.T) {
	n := NewComposite(schema.OperatorDecl,
		NewMissingToken(token.Identifier),
		tk(token.KwOperator, "operator", " "),
		tk(token.BinaryOperator, "+++", ""),
	)
	if !n.Child("Fixity").IsMissing() {
		t.Fatal("expected missing fixity")
	}
	if n.IsMissing() {
		t.Fatal("node with real tokens is not missing")
	}
}

func TestTreeRanges(t *testing.T) {
	tree := NewTree(letFile(), 7)
	tests := []struct {
		path       Path
		start, end uint32
	}{
		{valuePath, 8, 9},
		{initPath, 6, 9},
		{bindingPath, 4, 9},
		{append(append(Path{}, bindingPath...), 0), 4, 5},
		{declPath, 0, 9},
	}
	for _, tt := range tests {
		sp, ok := tree.TextRange(tt.path)
		if !ok || sp.Start != tt.start || sp.End != tt.end || sp.File != 7 {
			t.Errorf("TextRange(%v) = %v %v, want %d-%d", tt.path, sp, ok, tt.start, tt.end)
		}
	}
	full, ok := tree.FullRange(Path{1})
	if !ok || full.Start != 9 || full.End != 10 {
		t.Fatalf("EOF full range = %v", full)
	}
	if _, ok := tree.At(Path{0, 5}); ok {
		t.Fatal("out of range path must fail")
	}
	if n, ok := tree.At(append(append(Path{}, bindingPath...), 1)); !ok || n != nil {
		t.Fatal("absent slot must resolve to nil")
	}
}

func TestReplaceChildSharesUntouchedNodes(t *testing.T) {
	before := NewTree(letFile(), 1)
	after := before.ReplaceChild(valuePath, intLit("42"))

	if got := after.Root.FullText(); got != "let a = 42\n" {
		t.Fatalf("after = %q", got)
	}
	if got := before.Root.FullText(); got != "let a = 1\n" {
		t.Fatalf("original changed: %q", got)
	}
	oldAttrs, _ := before.At(Path{0, 0, 0, 0})
	newAttrs, _ := after.At(Path{0, 0, 0, 0})
	if oldAttrs != newAttrs {
		t.Fatal("untouched subtree must be shared")
	}
	oldDecl, _ := before.At(declPath)
	newDecl, _ := after.At(declPath)
	if oldDecl == newDecl {
		t.Fatal("spine must be rebuilt")
	}
	sp, _ := after.TextRange(Path{1})
	if sp.Start != 11 {
		t.Fatalf("positions must follow the new widths, EOF at %d", sp.Start)
	}

	expectPanic(t, "replace with wrong kind", func() {
		before.ReplaceChild(valuePath, tk(token.Identifier, "x", ""))
	})
}

func TestDetach(t *testing.T) {
	tree := NewTree(letFile(), 1)

	noInit, removed := tree.Detach(initPath)
	if removed.Kind() != schema.InitializerClause {
		t.Fatalf("removed %v", removed.Kind())
	}
	if got := noInit.Root.FullText(); got != "let a \n" {
		t.Fatalf("after detaching initializer: %q", got)
	}

	noBinding, _ := tree.Detach(bindingPath)
	list, _ := noBinding.At(Path{0, 0, 0, 3})
	if list.NumChildren() != 0 {
		t.Fatal("collection element must be dropped")
	}
	if got := noBinding.Root.FullText(); got != "let \n" {
		t.Fatalf("after detaching binding: %q", got)
	}

	expectPanic(t, "required slot", func() { tree.Detach(Path{0, 0, 0, 2}) })
	expectPanic(t, "root", func() { tree.Detach(nil) })
}

func TestWalkAndFind(t *testing.T) {
	root := letFile()
	var kinds []string
	Walk(root, func(_ Path, n *Node) bool {
		if !n.IsToken() {
			kinds = append(kinds, n.Kind().String())
		}
		return n.Kind() != schema.InitializerClause
	})
	if strings.Contains(strings.Join(kinds, ","), "IntegerLiteralExpr") {
		t.Fatal("returning false must skip children")
	}
	p, ok := NewTree(root, 1).FindKind(schema.IntegerLiteralExpr)
	if !ok || len(p) != len(valuePath) {
		t.Fatalf("FindKind = %v %v", p, ok)
	}
	if n := len(Collect(root, func(n *Node) bool { return n.IsToken() })); n != 5 {
		t.Fatalf("Collect tokens = %d", n)
	}
}

func TestIdentifierNormalization(t *testing.T) {
	composed := &token.Token{Kind: token.Identifier, Text: "caf\u00e9"}
	decomposed := &token.Token{Kind: token.Identifier, Text: "cafe\u0301"}
	escaped := &token.Token{Kind: token.Identifier, Text: "`cafe\u0301`", Flags: token.FlagBacktick}
	if !SameIdentifier(composed, decomposed) || !SameIdentifier(composed, escaped) {
		t.Fatal("identifiers must compare after NFC normalization")
	}
	if Identifier(escaped) != "caf\u00e9" {
		t.Fatalf("Identifier = %q", Identifier(escaped))
	}
}

func TestVersionOf(t *testing.T) {
	tests := []struct {
		major string
		patch string
		want  string
	}{
		{"10", "", "10.0.0"},
		{"10.15", "", "10.15.0"},
		{"10.15", "3", "10.15.3"},
	}
	for _, tt := range tests {
		var period, patch *Node
		if tt.patch != "" {
			period, patch = tk(token.Period, ".", ""), tk(token.IntegerLiteral, tt.patch, "")
		}
		kind := token.IntegerLiteral
		if strings.Contains(tt.major, ".") {
			kind = token.FloatingLiteral
		}
		n := NewComposite(schema.VersionTuple, tk(kind, tt.major, ""), period, patch)
		v, err := VersionOf(n)
		if err != nil {
			t.Fatalf("VersionOf(%s): %v", n.FullText(), err)
		}
		if v.String() != tt.want {
			t.Errorf("VersionOf(%s) = %s, want %s", n.FullText(), v, tt.want)
		}
	}
	if _, err := VersionOf(intLit("1")); !errors.Is(err, ErrNotVersionTuple) {
		t.Fatalf("err = %v", err)
	}
}

func TestExportAndDump(t *testing.T) {
	root := letFile()
	ex := Export(root)
	if ex.Kind != "SourceFile" || len(ex.Children) != 2 || ex.Children[1].Slot != "EndOfFile" {
		t.Fatalf("export root: %+v", ex)
	}
	if ex.Children[1].Token.Leading != "\n" {
		t.Fatalf("EOF leading %q", ex.Children[1].Token.Leading)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, root); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "SourceFile\n  CodeBlockItemList\n") || !strings.Contains(out, `KwLet "let"`) {
		t.Fatalf("dump:\n%s", out)
	}
}
