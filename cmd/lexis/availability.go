package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"lexis/internal/availability"
	"lexis/internal/diagfmt"
	"lexis/internal/driver"
	"lexis/internal/source"
)

var availabilityCmd = &cobra.Command{
	Use:     "availability [flags] file.swift",
	Aliases: []string{"avail"},
	Short:   "List @available attributes of declarations",
	Long: `Availability parses a source file and lists every declaration carrying
@available attributes. With --platform and --at it also reports whether the
declaration is available there.`,
	Args: cobra.ExactArgs(1),
	RunE: runAvailability,
}

func init() {
	availabilityCmd.Flags().String("platform", "", "platform to check, e.g. macOS")
	availabilityCmd.Flags().String("at", "", "platform version to check, e.g. 12.0")
}

type availabilityQuery struct {
	platform string
	version  *semver.Version
}

func readAvailabilityQuery(cmd *cobra.Command) (*availabilityQuery, error) {
	platform, err := cmd.Flags().GetString("platform")
	if err != nil {
		return nil, fmt.Errorf("failed to get platform flag: %w", err)
	}
	at, err := cmd.Flags().GetString("at")
	if err != nil {
		return nil, fmt.Errorf("failed to get at flag: %w", err)
	}
	if platform == "" && at == "" {
		return nil, nil
	}
	if platform == "" || at == "" {
		return nil, fmt.Errorf("--platform and --at must be given together")
	}
	v, err := semver.NewVersion(at)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", at, err)
	}
	return &availabilityQuery{platform: platform, version: v}, nil
}

func runAvailability(cmd *cobra.Command, args []string) error {
	query, err := readAvailabilityQuery(cmd)
	if err != nil {
		return err
	}
	opts, err := state.driverOptions(false)
	if err != nil {
		return err
	}
	fileSet := source.NewFileSetFs(state.fs)
	fileSet.SetBaseDir(baseDir())
	result, err := driver.Parse(fileSet, args[0], opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, state.prettyOpts(os.Stderr))
	}

	decls, errs := availability.Collect(result.Tree.Root)
	for _, e := range errs {
		state.log.WithError(e).Warn("unreadable @available attribute")
	}
	printAvailability(os.Stdout, decls, query)
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func printAvailability(w io.Writer, decls []availability.Declaration, query *availabilityQuery) {
	for _, d := range decls {
		name := d.Name
		if name == "" {
			name = "<anonymous>"
		}
		header := fmt.Sprintf("%s %s", d.Kind, name)
		if query != nil {
			verdict := "unavailable"
			if d.Satisfied(query.platform, query.version) {
				verdict = "available"
			}
			header += fmt.Sprintf(": %s on %s %s", verdict, query.platform, query.version)
		}
		fmt.Fprintln(w, header)
		for _, a := range d.Attrs {
			for _, r := range a.Rules {
				fmt.Fprintf(w, "  %s\n", describeRule(r))
			}
		}
	}
}

func describeRule(r availability.Rule) string {
	parts := []string{r.Platform}
	if r.Introduced != nil {
		parts = append(parts, "introduced "+r.Introduced.String())
	}
	switch {
	case r.Deprecated != nil:
		parts = append(parts, "deprecated "+r.Deprecated.String())
	case r.IsDeprecated:
		parts = append(parts, "deprecated")
	}
	if r.Obsoleted != nil {
		parts = append(parts, "obsoleted "+r.Obsoleted.String())
	}
	if r.Unavailable {
		parts = append(parts, "unavailable")
	}
	if r.Renamed != "" {
		parts = append(parts, fmt.Sprintf("renamed %q", r.Renamed))
	}
	if r.Message != "" {
		parts = append(parts, fmt.Sprintf("message %q", r.Message))
	}
	return strings.Join(parts, ", ")
}
