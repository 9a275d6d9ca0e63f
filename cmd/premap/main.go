package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"premap/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "premap",
	Short: "Map preprocessed files back to their original sources",
	Long: `premap reads files carrying #line directives and resolves byte offsets of
the flattened text to the file and line they came from`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareRun,
}

// exitCode is set by commands that finish normally but must report failure
// (for example, when an error diagnostic was emitted).
var exitCode int

func main() {
	defer dumpTraceOnPanic()

	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to premap.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("plain", false, "treat inputs as plain files and ignore line directives")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to PATH (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "number of events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to PATH")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to PATH on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to PATH")

	err := rootCmd.Execute()
	tracerCleanup()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
