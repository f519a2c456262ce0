package syntax

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"lexis/internal/schema"
)

// ErrNotVersionTuple is returned by VersionOf for nodes of another kind.
var ErrNotVersionTuple = errors.New("not a version tuple")

// VersionOf converts a VersionTuple node ("10", "10.15", "10.15.3") to a
// semantic version. The lexer reads "10.15" as one floating literal, so the
// major and minor parts come from a single token.
func VersionOf(n *Node) (*semver.Version, error) {
	if n == nil || n.Kind() != schema.VersionTuple {
		return nil, ErrNotVersionTuple
	}
	mm := n.ChildToken("MajorMinor")
	if mm == nil || mm.IsMissing() {
		return nil, fmt.Errorf("version tuple without major version")
	}
	text := mm.Text
	if patch := n.ChildToken("PatchVersion"); patch != nil && !patch.IsMissing() {
		text += "." + patch.Text
	}
	v, err := semver.NewVersion(normalizeVersion(text))
	if err != nil {
		return nil, fmt.Errorf("version %q: %w", text, err)
	}
	return v, nil
}

// normalizeVersion дополняет "10" и "10.15" до трёх компонент.
func normalizeVersion(text string) string {
	dots := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '.' {
			dots++
		}
	}
	for ; dots < 2; dots++ {
		text += ".0"
	}
	return text
}
