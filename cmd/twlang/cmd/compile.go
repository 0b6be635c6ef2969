package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-twlang/internal/bytecode"
	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/spf13/cobra"
)

var compileExpression bool

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a program to bytecode and print its disassembly",
	Long: `Compile twlang source to the bytecode VM's instruction vector and
print the disassembled listing. This does not execute the program — use
"run --vm" for that.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().BoolVarP(&compileExpression, "expression", "e", false, "compile an expression from the command line")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, name, err := resolveInput(compileExpression, args)
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

	ctx := context.New()
	resolver.Resolve(program, ctx.Reporter)
	if ctx.Reporter.HasErrors() {
		fmt.Fprint(os.Stderr, ctx.Reporter.Format(input, false))
	}

	code, _, _ := bytecode.Compile(program, ctx.Heap)
	fmt.Print(bytecode.Disassemble(code))
	return nil
}
