package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cwbudde/go-twlang/internal/bytecode"
	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/cwbudde/go-twlang/internal/eval"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/spf13/cobra"
)

var replVM bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start an interactive session: each line is lexed, parsed, resolved,
and run against a Context that persists across lines, so top-level let
bindings and function definitions from earlier lines remain visible.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replVM, "vm", false, "execute each line on the bytecode VM instead of the tree-walking evaluator")
}

func runRepl(cmd *cobra.Command, args []string) error {
	rl, err := readline.New("twlang> ")
	if err != nil {
		return fmt.Errorf("failed to start readline: %w", err)
	}
	defer rl.Close()

	ctx := context.New()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		evalLine(ctx, line, rl.Stdout())
	}
	return nil
}

// evalLine runs one REPL line against ctx, which carries global bindings,
// struct templates, and the heap forward across calls.
func evalLine(ctx *context.Context, line string, out io.Writer) {
	l := lexer.New(line)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		for _, msg := range p.Errors() {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
		return
	}

	seen := len(ctx.Reporter.Diagnostics())
	resolver.Resolve(program, ctx.Reporter)

	if replVM {
		code, pool, structs := bytecode.Compile(program, ctx.Heap)
		vm := bytecode.NewVM(ctx.Heap, ctx.Reporter, out, code, pool, structs)
		vm.Debug = debugMode
		vm.Run()
	} else {
		ev := eval.New(ctx, out)
		ev.Trace = debugMode
		ev.Run(program)
	}

	for _, d := range ctx.Reporter.Diagnostics()[seen:] {
		fmt.Fprint(os.Stderr, d.Format(line, false))
	}
}
