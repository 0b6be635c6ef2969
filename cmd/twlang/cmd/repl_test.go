package cmd

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestREPLPersistentContext snapshots a multi-line transcript, asserting a
// let binding and a function defined on earlier lines remain visible on
// later ones (SPEC_FULL.md §2.2's persistent-Context REPL).
func TestREPLPersistentContext(t *testing.T) {
	ctx := context.New()
	var out bytes.Buffer

	lines := []string{
		"let x := 10",
		"func double(n) { return n * 2 }",
		"println double(x)",
		"x := x + 1",
		"println double(x)",
	}
	for _, line := range lines {
		evalLine(ctx, line, &out)
	}

	snaps.MatchSnapshot(t, "repl_transcript", out.String())
}
