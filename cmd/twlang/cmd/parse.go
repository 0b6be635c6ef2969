package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var (
	parseExpression bool
	parsePretty     bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source and print the AST",
	Long: `Parse twlang source code and print the Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression from the command line")
	parseCmd.Flags().BoolVar(&parsePretty, "pretty", false, "dump the AST's Go struct form instead of its source-like String()")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(parseExpression, args)
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
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	if parsePretty {
		fmt.Printf("%# v\n", pretty.Formatter(program))
	} else {
		fmt.Println(program.String())
	}
	return nil
}
