package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// debugMode gates the verbose tracing described in SPEC_FULL.md §2.4 on
// stderr: run's parse summary, one line per statement the evaluator
// executes, and one line per instruction the VM executes.
var debugMode bool

var rootCmd = &cobra.Command{
	Use:   "twlang",
	Short: "twlang interpreter and compiler",
	Long: `twlang is a dynamically-typed scripting language with two
interchangeable execution backends: a tree-walking evaluator and a
stack-based bytecode VM, sharing one value representation and a
mark-and-sweep heap.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "trace parsing and execution to stderr")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
