package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the lexis CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Parsed returns Version as semver; an unparsable Version yields an error.
func Parsed() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("version %q: %w", Version, err)
	}
	return v, nil
}

// Colored renders Version with major, minor and patch in their own colors.
// Unparsable versions are printed as is.
func Colored(enabled bool) string {
	v, err := Parsed()
	if err != nil {
		return Version
	}
	paint := func(c *color.Color, n uint64) string {
		if !enabled {
			return fmt.Sprint(n)
		}
		c.EnableColor()
		return c.Sprint(n)
	}
	out := paint(versionMajorColor, v.Major()) + "." + paint(versionMinorColor, v.Minor()) + "." + paint(versionPatchColor, v.Patch())
	if p := v.Prerelease(); p != "" {
		out += "-" + p
	}
	if m := v.Metadata(); m != "" {
		out += "+" + m
	}
	return out
}

// Banner is the text printed by `lexis version`.
func Banner(enabled bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "lexis %s\n", Colored(enabled))
	if GitCommit != "" {
		fmt.Fprintf(&b, "commit: %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, "built:  %s\n", BuildDate)
	}
	return b.String()
}
