// Package availability reads @available attributes into per-platform
// version constraints.
//
//	@available(macOS 10.15, iOS 13, *)             // short form
//	@available(iOS, introduced: 13, obsoleted: 16) // long form
//	@available(*, deprecated, message: "use g")
package availability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"lexis/internal/schema"
	"lexis/internal/source"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// Wildcard is the platform name matching every platform.
const Wildcard = "*"

// ErrNotAvailability is returned for attributes other than @available.
var ErrNotAvailability = errors.New("not an @available attribute")

// ErrDuplicateLabel is returned when a long-form attribute repeats a label,
// e.g. two "introduced:" arguments.
var ErrDuplicateLabel = errors.New("duplicate availability label")

// Rule is the availability of a declaration on one platform.
type Rule struct {
	Platform    string
	Introduced  *semver.Version
	Deprecated  *semver.Version
	Obsoleted   *semver.Version
	Unavailable bool
	// IsDeprecated is set by a bare "deprecated" as well as by "deprecated: X".
	IsDeprecated bool
	Message      string
	Renamed      string
}

// Constraint returns the version range on which the rule makes the
// declaration available, nil when every version qualifies.
func (r Rule) Constraint() (*semver.Constraints, error) {
	var parts []string
	if r.Introduced != nil {
		parts = append(parts, ">= "+r.Introduced.String())
	}
	if r.Obsoleted != nil {
		parts = append(parts, "< "+r.Obsoleted.String())
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return semver.NewConstraint(strings.Join(parts, ", "))
}

// Availability is the set of rules one @available attribute declares.
type Availability struct {
	Rules []Rule
	Span  source.Span
}

// Rule returns the rule for platform: the exact (case-insensitive) match,
// else the wildcard rule.
func (a Availability) Rule(platform string) (Rule, bool) {
	var wild *Rule
	for i := range a.Rules {
		r := &a.Rules[i]
		if strings.EqualFold(r.Platform, platform) {
			return *r, true
		}
		if r.Platform == Wildcard && wild == nil {
			wild = r
		}
	}
	if wild != nil {
		return *wild, true
	}
	return Rule{}, false
}

// Satisfied reports whether the declaration is available on platform at
// version v. Platforms the attribute does not mention are unavailable
// unless a wildcard rule covers them.
func (a Availability) Satisfied(platform string, v *semver.Version) bool {
	r, ok := a.Rule(platform)
	if !ok || r.Unavailable {
		return false
	}
	c, err := r.Constraint()
	if err != nil {
		return false
	}
	if c == nil {
		return true
	}
	if v == nil {
		return false
	}
	return c.Check(v)
}

// FromAttribute reads an Attribute node named "available".
func FromAttribute(attr *syntax.Node) (Availability, error) {
	if attr == nil || attr.Kind() != schema.Attribute {
		return Availability{}, ErrNotAvailability
	}
	name := attr.ChildToken("AttributeName")
	if name == nil || name.Text != "available" {
		return Availability{}, ErrNotAvailability
	}
	out := Availability{}
	if first, last := attr.FirstToken(), attr.LastToken(); first != nil {
		out.Span = first.Span.Cover(last.Span)
	}
	args := attr.Child("Arguments")
	if args == nil || args.Kind() != schema.AvailabilitySpecList {
		return out, fmt.Errorf("@available without arguments")
	}
	var entries []*syntax.Node
	for _, arg := range args.Children() {
		if e := arg.Child("Entry"); e != nil {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return out, fmt.Errorf("@available without arguments")
	}
	if isLongForm(entries) {
		r, err := longForm(entries)
		if err != nil {
			return out, err
		}
		out.Rules = []Rule{r}
		return out, nil
	}
	rules, err := shortForm(entries)
	out.Rules = rules
	return out, err
}

func isLongForm(entries []*syntax.Node) bool {
	for _, e := range entries[1:] {
		if e.Kind() == schema.AvailabilityLabeledArgument {
			return true
		}
		if tok := e.Token(); tok != nil && (tok.Text == "unavailable" || tok.Text == "deprecated") {
			return true
		}
	}
	return false
}

func platformName(tok *token.Token) (string, error) {
	if tok == nil || tok.IsMissing() {
		return "", fmt.Errorf("missing platform name")
	}
	if tok.Kind == token.Identifier {
		return syntax.Identifier(tok), nil
	}
	if tok.Text == Wildcard {
		return Wildcard, nil
	}
	return "", fmt.Errorf("unexpected %q in place of a platform", tok.Text)
}

func shortForm(entries []*syntax.Node) ([]Rule, error) {
	rules := make([]Rule, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Kind() == schema.AvailabilityVersionRestriction:
			platform, err := platformName(e.ChildToken("Platform"))
			if err != nil {
				return rules, err
			}
			r := Rule{Platform: platform}
			if vt := e.Child("Version"); vt != nil {
				v, err := syntax.VersionOf(vt)
				if err != nil {
					return rules, fmt.Errorf("%s: %w", platform, err)
				}
				r.Introduced = v
			}
			rules = append(rules, r)
		case e.IsToken():
			platform, err := platformName(e.Token())
			if err != nil {
				return rules, err
			}
			rules = append(rules, Rule{Platform: platform})
		default:
			return rules, fmt.Errorf("unexpected %s in short availability form", e.Kind())
		}
	}
	return rules, nil
}

func longForm(entries []*syntax.Node) (Rule, error) {
	head := entries[0]
	var platformTok *token.Token
	switch {
	case head.IsToken():
		platformTok = head.Token()
	case head.Kind() == schema.AvailabilityVersionRestriction && head.Child("Version") == nil:
		platformTok = head.ChildToken("Platform")
	default:
		return Rule{}, fmt.Errorf("availability must start with a platform")
	}
	platform, err := platformName(platformTok)
	if err != nil {
		return Rule{}, err
	}
	r := Rule{Platform: platform}

	var labels []*token.Token
	for _, e := range entries[1:] {
		if tok := e.Token(); tok != nil {
			switch tok.Text {
			case "unavailable":
				r.Unavailable = true
			case "deprecated":
				r.IsDeprecated = true
			default:
				return r, fmt.Errorf("unknown availability flag %q", tok.Text)
			}
			continue
		}
		if e.Kind() == schema.AvailabilityVersionRestriction && e.Child("Version") == nil {
			// "noasync" и прочие флаги-идентификаторы
			flag := e.ChildToken("Platform").Text
			switch flag {
			case "unavailable":
				r.Unavailable = true
			case "deprecated":
				r.IsDeprecated = true
			}
			continue
		}
		if e.Kind() != schema.AvailabilityLabeledArgument {
			return r, fmt.Errorf("unexpected %s in availability arguments", e.Kind())
		}
		labelTok := e.ChildToken("Label")
		for _, prev := range labels {
			if syntax.SameIdentifier(prev, labelTok) {
				return r, fmt.Errorf("%w %q", ErrDuplicateLabel, syntax.Identifier(labelTok))
			}
		}
		labels = append(labels, labelTok)
		label := syntax.Identifier(labelTok)
		value := e.Child("Value")
		switch label {
		case "message", "renamed":
			text, err := stringValue(value)
			if err != nil {
				return r, fmt.Errorf("%s: %w", label, err)
			}
			if label == "message" {
				r.Message = text
			} else {
				r.Renamed = text
			}
		case "introduced", "deprecated", "obsoleted":
			v, err := syntax.VersionOf(value)
			if err != nil {
				return r, fmt.Errorf("%s: %w", label, err)
			}
			switch label {
			case "introduced":
				r.Introduced = v
			case "deprecated":
				r.Deprecated = v
				r.IsDeprecated = true
			case "obsoleted":
				r.Obsoleted = v
			}
		}
	}
	return r, nil
}

// stringValue склеивает сегменты литерала без интерполяций.
func stringValue(n *syntax.Node) (string, error) {
	if n == nil || n.Kind() != schema.StringLiteralExpr {
		return "", fmt.Errorf("expected a string literal")
	}
	var b strings.Builder
	for _, seg := range n.Child("Segments").Children() {
		if seg.Kind() != schema.StringSegment {
			return "", fmt.Errorf("string interpolation is not allowed here")
		}
		b.WriteString(seg.ChildToken("Content").Text)
	}
	return b.String(), nil
}

// Declaration pairs a declaration node with the availability attributes
// attached to it.
type Declaration struct {
	Path  syntax.Path
	Kind  schema.Kind
	Name  string
	Attrs []Availability
}

// Collect walks the tree and reads every @available attribute. Attributes
// that fail to read are returned as errors next to the result.
func Collect(root *syntax.Node) ([]Declaration, []error) {
	var (
		out  []Declaration
		errs []error
	)
	syntax.Walk(root, func(p syntax.Path, n *syntax.Node) bool {
		d := n.Descriptor()
		if d == nil || d.ChildIndex("Attributes") < 0 {
			return true
		}
		attrs := n.Child("Attributes")
		if attrs == nil {
			return true
		}
		var list []Availability
		for _, a := range attrs.Children() {
			av, err := FromAttribute(a)
			if errors.Is(err, ErrNotAvailability) {
				continue
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", av.Span, err))
				continue
			}
			list = append(list, av)
		}
		if len(list) > 0 {
			out = append(out, Declaration{
				Path:  append(syntax.Path(nil), p...),
				Kind:  n.Kind(),
				Name:  syntax.NameOf(n),
				Attrs: list,
			})
		}
		return true
	})
	return out, errs
}

// Satisfied reports whether every attribute of the declaration allows
// platform at v.
func (d Declaration) Satisfied(platform string, v *semver.Version) bool {
	for _, a := range d.Attrs {
		if !a.Satisfied(platform, v) {
			return false
		}
	}
	return true
}
