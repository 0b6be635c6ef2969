package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-twlang/internal/bytecode"
	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/cwbudde/go-twlang/internal/eval"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/cwbudde/go-twlang/internal/trace"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runVM         bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a twlang program",
	Long: `Run a twlang program against the tree-walking evaluator (default) or
the bytecode VM (--vm).

If no file and no -e are provided, starts the interactive REPL. Use -e
to run a single expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false, "run an expression from the command line")
	runCmd.Flags().BoolVar(&runVM, "vm", false, "execute on the bytecode VM instead of the tree-walking evaluator")
}

func runScript(cmd *cobra.Command, args []string) error {
	if !runExpression && len(args) == 0 {
		replVM = runVM
		return runRepl(cmd, args)
	}

	input, name, err := resolveInput(runExpression, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, msg := range p.Errors() {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
		return fmt.Errorf("parsing %s failed with %d error(s)", name, len(p.Errors()))
	}

	trace.Printf(debugMode, os.Stderr, "parsed %s: %d top-level statement(s)\n", name, len(program.Statements))

	ctx := context.New()
	resolver.Resolve(program, ctx.Reporter)

	if runVM {
		code, pool, structs := bytecode.Compile(program, ctx.Heap)
		vm := bytecode.NewVM(ctx.Heap, ctx.Reporter, os.Stdout, code, pool, structs)
		vm.Debug = debugMode
		vm.Run()
	} else {
		ev := eval.New(ctx, os.Stdout)
		ev.Trace = debugMode
		ev.Run(program)
	}

	if ctx.Reporter.HasErrors() {
		fmt.Fprint(os.Stderr, ctx.Reporter.Format(input, false))
	}
	return nil
}
