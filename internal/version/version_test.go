package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if _, err := Parsed(); err != nil {
		t.Errorf("default version is not semver: %v", err)
	}
}

func TestVersion_SemanticVersionFormat(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	tests := []struct {
		version string
		plain   string
	}{
		{"0.1.0", "0.1.0"},
		{"1.2.3", "1.2.3"},
		{"2.0.0-alpha", "2.0.0-alpha"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"v1.2", "1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			if got := Colored(false); got != tt.plain {
				t.Errorf("Colored(false) = %q, want %q", got, tt.plain)
			}
		})
	}
}

func TestVersion_ColoredHasEscapes(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()
	Version = "1.2.3"
	if got := Colored(true); !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", got)
	}
}

func TestVersion_Unparsable(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()
	Version = "not-a-version"
	if _, err := Parsed(); err == nil {
		t.Fatal("expected parse error")
	}
	if got := Colored(true); got != "not-a-version" {
		t.Errorf("Colored = %q", got)
	}
}

func TestBanner(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123"
	BuildDate = ""
	b := Banner(false)
	if !strings.HasPrefix(b, "lexis ") || !strings.Contains(b, "commit: abc123") || strings.Contains(b, "built:") {
		t.Errorf("banner:\n%s", b)
	}
}
