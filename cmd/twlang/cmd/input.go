package cmd

import (
	"fmt"
	"io"
	"os"
)

// resolveInput implements the file-or-expression-or-stdin input convention
// shared by lex/parse/run/compile: an -e flag takes precedence over a
// positional file argument, which takes precedence over stdin.
func resolveInput(exprFlag bool, args []string) (input, name string, err error) {
	switch {
	case exprFlag:
		if len(args) == 0 {
			return "", "", fmt.Errorf("no expression provided")
		}
		return args[0], "<expression>", nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), args[0], nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
}
