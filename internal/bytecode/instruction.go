package bytecode

import (
	"strconv"

	"github.com/cwbudde/go-twlang/internal/value"
)

// Instruction is one `{op, operand}` cell of the code vector; operand is
// value.NullValue when the opcode takes none (spec.md §4.G).
type Instruction struct {
	Op      Op
	Operand value.Value
}

func (i Instruction) String() string {
	if i.Operand.Kind == value.Null {
		return i.Op.String()
	}
	return i.Op.String() + " " + formatOperand(i.Operand)
}

func formatOperand(v value.Value) string {
	switch v.Kind {
	case value.Int:
		return strconv.FormatInt(v.IntVal, 10)
	case value.Bool:
		return strconv.FormatBool(v.BlVal)
	default:
		return v.Kind.String()
	}
}
