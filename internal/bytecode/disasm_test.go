package bytecode_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/bytecode"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/heap"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// TestDisassembleFactorial snapshots the disassembled listing for a small
// recursive function, catching accidental opcode/operand regressions in the
// compiler that a stdout-only test would not.
func TestDisassembleFactorial(t *testing.T) {
	source := "func fact(n) { if (n < 2) { return 1 } return n * fact(n - 1) }"
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	h := heap.New()
	r := diag.NewReporter()
	resolver.Resolve(program, r)

	code, _, _ := bytecode.Compile(program, h)
	snaps.MatchSnapshot(t, "factorial_disasm", bytecode.Disassemble(code))
}
