package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders code as one line per instruction, address-prefixed,
// for the `compile` CLI subcommand and golden-file tests.
func Disassemble(code []Instruction) string {
	var sb strings.Builder
	for addr, instr := range code {
		fmt.Fprintf(&sb, "%04d  %s\n", addr, instr)
	}
	return sb.String()
}
