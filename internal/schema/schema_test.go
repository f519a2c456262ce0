package schema

import (
	"strings"
	"testing"

	"lexis/internal/token"
)

func TestCatalogLoads(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("empty catalog")
	}
	for _, k := range all {
		d := Describe(k)
		if d.Kind != k {
			t.Fatalf("%s: descriptor kind mismatch %d != %d", d.Name, d.Kind, k)
		}
		if d.DiagnosticName == "" {
			t.Fatalf("%s: empty diagnostic name", d.Name)
		}
		got, ok := LookupByName(d.Name)
		if !ok || got != k {
			t.Fatalf("LookupByName(%q) = %v, %v", d.Name, got, ok)
		}
	}
}

func TestDiagnosticNames(t *testing.T) {
	cases := map[Kind]string{
		StringLiteralExpr:              "string literal",
		AvailabilitySpecList:           "'@availability' arguments",
		AvailabilityVersionRestriction: "version restriction",
		VersionTuple:                   "version tuple",
		Token:                          "token",
	}
	for k, want := range cases {
		if got := DiagnosticName(k); got != want {
			t.Fatalf("DiagnosticName(%s) = %q, want %q", k, got, want)
		}
	}
}

func TestGroupsExpand(t *testing.T) {
	item := Describe(CodeBlockItem)
	slot := &item.Children[item.ChildIndex("Item")]
	if slot.Shape != ShapeChoices {
		t.Fatalf("Item shape = %v", slot.Shape)
	}
	for _, k := range []Kind{FunctionDecl, ReturnStmt, SequenceExpr, UnexpectedCode} {
		if !slot.AcceptsNode(k) {
			t.Fatalf("CodeBlockItem.Item should accept %s", k)
		}
	}
	if slot.AcceptsNode(IdentifierType) {
		t.Fatal("types are not statements")
	}
	if !InGroup(MissingType, "Type") || InGroup(MissingType, "Expr") {
		t.Fatal("MissingType group membership")
	}
}

func TestCollectionsAndTokens(t *testing.T) {
	uc := Describe(UnexpectedCode)
	if uc.Class != Collection || !uc.AcceptsElement(Token) {
		t.Fatal("UnexpectedCode must be a collection of tokens")
	}

	op := Describe(OperatorDecl)
	fixity := &op.Children[op.ChildIndex("Fixity")]
	prefix := token.Token{Kind: token.Identifier, Text: "prefix"}
	other := token.Token{Kind: token.Identifier, Text: "foo"}
	if !fixity.AcceptsToken(&prefix) || fixity.AcceptsToken(&other) {
		t.Fatal("fixity keyword restriction not applied")
	}
	missing := token.Token{Kind: token.Identifier, Flags: token.FlagMissing}
	if !fixity.AcceptsToken(&missing) {
		t.Fatal("missing tokens skip keyword restriction")
	}

	name := &op.Children[op.ChildIndex("Name")]
	if !name.RequiresLeadingSpace {
		t.Fatal("operator name must require leading space")
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown class", "[[node]]\nname = \"A\"\nclass = \"weird\"\n", "unknown class"},
		{"duplicate", "[[node]]\nname = \"A\"\nclass = \"composite\"\n[[node]]\nname = \"A\"\nclass = \"composite\"\n", "duplicate node"},
		{"unknown token", "[[node]]\nname = \"A\"\nclass = \"composite\"\n[[node.child]]\nname = \"X\"\ntokens = [\"Nope\"]\n", "unknown token kind"},
		{"two shapes", "[[node]]\nname = \"A\"\nclass = \"composite\"\n[[node.child]]\nname = \"X\"\nnode = \"A\"\ncollection = \"A\"\n", "more than one shape"},
		{"unknown group", "[[node]]\nname = \"A\"\nclass = \"collection\"\nelements = [\"@Nope\"]\n", "unknown group"},
		{"stray key", "[[node]]\nname = \"A\"\nclass = \"composite\"\ncolour = 1\n", "unknown catalog keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("load error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDescribePanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Describe(Kind(60000))
}
