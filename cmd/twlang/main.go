// Command twlang is the CLI entry point: lex, parse, run, compile, and repl
// subcommands over the tree-walking/bytecode dual backend (SPEC_FULL.md §2).
package main

import (
	"os"

	"github.com/cwbudde/go-twlang/cmd/twlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
