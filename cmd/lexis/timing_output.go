package main

import (
	"fmt"
	"io"

	"lexis/internal/observ"
)

// printTimings writes the phase summary of timer to out.
func printTimings(out io.Writer, timer *observ.Timer, files int) {
	if out == nil || timer == nil {
		return
	}
	report := timer.Report()
	if len(report.Phases) == 0 {
		return
	}
	if _, err := fmt.Fprintf(out, "timings: %.1f ms over %d file(s)\n", report.TotalMS, files); err != nil {
		panic(err)
	}
	for _, ph := range report.Phases {
		line := fmt.Sprintf("  %-6s %8.1f ms", ph.Name, ph.DurationMS)
		if ph.Count > 1 {
			line += fmt.Sprintf(" (%d)", ph.Count)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			panic(err)
		}
	}
}
