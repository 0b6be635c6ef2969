package bytecode_test

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-twlang/internal/bytecode"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/heap"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVMSource(t *testing.T, source string) (string, *diag.Reporter) {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	h := heap.New()
	reporter := diag.NewReporter()
	resolver.Resolve(program, reporter)

	code, pool, structs := bytecode.Compile(program, h)
	var out bytes.Buffer
	vm := bytecode.NewVM(h, reporter, &out, code, pool, structs)
	vm.Run()
	return out.String(), reporter
}

func TestVMListBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"size", "println size([1,2,3])", "3\n"},
		{"empty_true", "println empty([])", "true\n"},
		{"empty_false", "println empty([1])", "false\n"},
		{"append", "println append([1,2], 3)", "[ 1, 2, 3 ]\n"},
		{"push", "println push([2,3], 1)", "[ 1, 2, 3 ]\n"},
		{"first", "println first([5,6,7])", "5\n"},
		{"rest", "println rest([5,6,7])", "[ 6, 7 ]\n"},
		{"sort", "println sort([3,1,2], &(a,b) -> a < b)", "[ 1, 2, 3 ]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, reporter := runVMSource(t, tc.source)
			assert.False(t, reporter.HasErrors(), "unexpected diagnostics: %v", reporter.Diagnostics())
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVMPowOpcode(t *testing.T) {
	got, reporter := runVMSource(t, "println 2 ** 8")
	assert.False(t, reporter.HasErrors())
	assert.Equal(t, "256\n", got)
}

func TestVMStructFieldAccess(t *testing.T) {
	source := "struct Pt { x; y } let p := bless Pt; p[x] := 10; p[y] := 20; println p[x] + p[y]"
	got, reporter := runVMSource(t, source)
	assert.False(t, reporter.HasErrors())
	assert.Equal(t, "30\n", got)
}

func TestVMOperandStackUnderflow(t *testing.T) {
	// A hand-built instruction stream with no values pushed before a binary
	// op must report a VMStackError and keep running rather than panicking.
	code := []bytecode.Instruction{
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpHalt},
	}
	h := heap.New()
	reporter := diag.NewReporter()
	pool := bytecode.NewConstantPool()
	var out bytes.Buffer
	vm := bytecode.NewVM(h, reporter, &out, code, pool, nil)
	vm.Run()
	require.True(t, reporter.HasErrors())
	assert.Equal(t, diag.VMStack, reporter.Diagnostics()[0].Kind)
}
