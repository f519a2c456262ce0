package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lexis/internal/version"
)

// errDiagnostics is returned when error diagnostics were printed; main exits
// with status 1 without printing anything else.
var errDiagnostics = errors.New("diagnostics reported errors")

var rootCmd = &cobra.Command{
	Use:   "lexis",
	Short: "Full-fidelity lexer and parser with diagnostics and fix-its",
	Long: `lexis turns source files into lossless syntax trees, reports lexical and
syntax diagnostics and applies their fix-its.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|always|never)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = from config)")
	pf.String("config", "", "path to "+configFileName()+" (default: search upwards)")
	pf.String("log-format", "text", "log output format (text|json)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a runtime trace to this file")

	err := rootCmd.Execute()
	// PersistentPostRun не вызывается при ошибке, поэтому останавливаем здесь
	if stopErr := state.prof.Stop(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "profiling:", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
