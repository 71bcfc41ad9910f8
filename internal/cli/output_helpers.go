package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// writeJSON encodes v as indented JSON, the format "rs verify", "rs shards",
// "sss shares" and "config show" write when the output formatter is set to
// JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
