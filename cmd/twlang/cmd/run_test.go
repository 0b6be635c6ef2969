package cmd

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/bytecode"
	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/cwbudde/go-twlang/internal/eval"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runEval lexes, parses, resolves, and runs source against the
// tree-walking evaluator, returning everything written to stdout.
func runEval(t *testing.T, source string) string {
	t.Helper()
	program := mustParse(t, source)
	ctx := context.New()
	resolver.Resolve(program, ctx.Reporter)
	var out bytes.Buffer
	eval.New(ctx, &out).Run(program)
	return out.String()
}

// runOnVM lexes, parses, resolves, compiles, and runs source against the
// bytecode VM, returning everything written to stdout.
func runOnVM(t *testing.T, source string) string {
	t.Helper()
	program := mustParse(t, source)
	ctx := context.New()
	resolver.Resolve(program, ctx.Reporter)
	code, pool, structs := bytecode.Compile(program, ctx.Heap)
	var out bytes.Buffer
	bytecode.NewVM(ctx.Heap, ctx.Reporter, &out, code, pool, structs).Run()
	return out.String()
}

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parser errors for %q", source)
	return program
}

// Concrete scenarios from spec.md §8, asserted against both backends except
// where DESIGN.md documents a backend-parity gap (closures over locals).
func TestConcreteScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
		vmOK   bool // false if a documented VM-backend limitation applies
	}{
		{
			name:   "factorial",
			source: "func fact(n) { if (n < 2) { return 1 } return n * fact(n - 1) } println fact(6)",
			want:   "720\n",
			vmOK:   true,
		},
		{
			name:   "map_filter_reduce",
			source: "let xs := [1,2,3,4,5]; println reduce(filter(map(xs, &(x) -> x*x), &(x) -> x > 5), &(a,b) -> a + b)",
			want:   "50\n",
			vmOK:   true,
		},
		{
			name:   "range_comprehension",
			source: "println (1..5 | &(x) -> x*x | &(x) -> x > 1)",
			want:   "[ 4, 9, 16, 25 ]\n",
			vmOK:   true,
		},
		{
			name:   "struct_bless",
			source: "struct P { x; y } let p := bless P; p[x] := 3; p[y] := 4; println p[x] + p[y]",
			want:   "7\n",
			vmOK:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, runEval(t, tc.source), "evaluator backend")
			if tc.vmOK {
				assert.Equal(t, tc.want, runOnVM(t, tc.source), "VM backend")
			}
		})
	}
}

// TestClosureCounterEvaluator exercises the evaluator backend's linked-scope
// closures (spec.md §8 scenario 2). The VM backend only captures globals
// (DESIGN.md), so this scenario is evaluator-only; see
// TestClosureCounterVMLimitation for its documented divergent behavior.
func TestClosureCounterEvaluator(t *testing.T) {
	source := `func mk() { let n := 0; return &() { n := n + 1; return n } }
let c := mk(); println c(); println c(); println c()`
	assert.Equal(t, "1\n2\n3\n", runEval(t, source))
}

// TestPowerBothBackends exercises "**" on both backends: the VM carries an
// OpPow opcode mirroring heap.Pow, so the two agree.
func TestPowerBothBackends(t *testing.T) {
	source := "println 2 ** 10"
	assert.Equal(t, "1024\n", runEval(t, source))
	assert.Equal(t, "1024\n", runOnVM(t, source))
}

// TestClosureCounterVMLimitation documents the VM backend's global-only
// closure capture (DESIGN.md): the lambda's reference to mk's local `n`
// resolves to a fresh, Null-initialized local slot in the lambda's own
// frame, so the counter never
// reaches the evaluator backend's "1\n2\n3\n" — this divergence is expected,
// not a regression to fix.
func TestClosureCounterVMLimitation(t *testing.T) {
	source := `func mk() { let n := 0; return &() { n := n + 1; return n } }
let c := mk(); println c(); println c(); println c()`
	assert.NotEqual(t, "1\n2\n3\n", runOnVM(t, source))
}

// TestGCOfTransientList exercises spec.md §8 scenario 6: looping list
// allocation must not exhaust the heap. LiveCount settling back down after
// the loop demonstrates each transient `tmp` list is actually collected,
// not merely that the program ran without a native out-of-memory panic.
func TestGCOfTransientList(t *testing.T) {
	source := `let n := 0
while (n < 1000) { let tmp := [1, 2, 3]; n := n + 1 }
println n`

	program := mustParse(t, source)
	ctx := context.New()
	resolver.Resolve(program, ctx.Reporter)
	var out bytes.Buffer
	eval.New(ctx, &out).Run(program)

	assert.Equal(t, "1000\n", out.String())
	assert.Less(t, ctx.Heap.LiveCount(), 10, "transient tmp lists must be collected, not accumulated")
}
