// Package trace gates verbose diagnostic printf output behind the CLI's
// --debug flag: a plain verbose bool plus fmt.Fprintf(os.Stderr, ...), no
// external logging dependency — see DESIGN.md for why.
package trace

import (
	"fmt"
	"io"
	"os"
)

// Printf writes a trace line to w (os.Stderr when w is nil) when enabled is
// true; otherwise it is a no-op.
func Printf(enabled bool, w io.Writer, format string, args ...any) {
	if !enabled {
		return
	}
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}
