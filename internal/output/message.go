package output

import (
	"fmt"
	"io"
)

// Warn prints a warning message to w with a warning prefix. The CLI uses
// this for non-fatal problems during startup and teardown — a stale
// config file or a logger that failed to close — that should not abort
// the command but must still reach the operator.
func Warn(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, "Warning: "+msg)
}

// Warnf prints a formatted warning message to w.
func Warnf(w io.Writer, format string, args ...any) {
	Warn(w, fmt.Sprintf(format, args...))
}
