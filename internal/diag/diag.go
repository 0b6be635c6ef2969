// Package diag implements the diagnostic-reporting policy of spec.md §7:
// every error kind (LexicalError, ParseError, NameError, TypeError,
// IndexError, DivisionByZero, VM stack under/overflow) is reported and
// evaluation continues — nothing in this interpreter aborts on a
// diagnostic. Diagnostic carries a Kind rather than being limited to one
// error category, with a source-line-and-caret rendering for display.
package diag

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-twlang/internal/token"
)

// Kind is one of the seven diagnostic categories named in spec.md §7.
type Kind string

const (
	Lexical        Kind = "LexicalError"
	Parse          Kind = "ParseError"
	Name           Kind = "NameError"
	Type           Kind = "TypeError"
	Index          Kind = "IndexError"
	DivisionByZero Kind = "DivisionByZero"
	VMStack        Kind = "VMStackError"
)

// Diagnostic is a single reported condition.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

// Format renders the diagnostic with a source-line-and-caret view.
func (d Diagnostic) Format(source string, color bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at line %d:%d: %s\n", d.Kind, d.Pos.Line, d.Pos.Column, d.Message))

	lines := strings.Split(source, "\n")
	if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
		line := lines[d.Pos.Line-1]
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Reporter accumulates diagnostics across a run. It is never asked to abort
// execution — callers substitute a best-effort value (typically Null) and
// keep going, per spec.md §7's policy.
type Reporter struct {
	diags []Diagnostic
}

func NewReporter() *Reporter { return &Reporter{} }

func (r *Reporter) Report(kind Kind, pos token.Position, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (r *Reporter) Diagnostics() []Diagnostic { return r.diags }
func (r *Reporter) HasErrors() bool           { return len(r.diags) > 0 }

// Format renders every accumulated diagnostic against source.
func (r *Reporter) Format(source string, color bool) string {
	var sb strings.Builder
	for _, d := range r.diags {
		sb.WriteString(d.Format(source, color))
	}
	return sb.String()
}
