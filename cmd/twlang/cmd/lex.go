package cmd

import (
	"fmt"

	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/token"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var (
	lexExpression bool
	lexPretty     bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize source and print the token stream",
	Long: `Tokenize twlang source code and print each token.

If no file is provided, reads from stdin. Use -e to lex a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVarP(&lexExpression, "expression", "e", false, "lex an expression from the command line")
	lexCmd.Flags().BoolVar(&lexPretty, "pretty", false, "pretty-print each token's fields instead of the one-line form")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(lexExpression, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		if lexPretty {
			fmt.Printf("%# v\n", pretty.Formatter(tok))
		} else {
			fmt.Printf("%-12s %q\tline %d, col %d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		}
		if tok.Type == token.EOF {
			break
		}
	}
	return nil
}
