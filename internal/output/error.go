package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	strataerr "github.com/mrz1836/strata/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display, in JSON or text depending
// on format. Both branches build the same ErrorDetail from err so a
// bundle-decode failure reports identical code/message/suggestion
// regardless of which mode the caller is in.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := errorDetail(err)
	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(ErrorOutput{Error: detail})
	}
	return writeErrorText(w, detail)
}

// errorDetail extracts an ErrorDetail from err, unwrapping a
// *strataerr.StrataError when present and falling back to a generic
// detail (shards/shares I/O can surface a plain os.PathError, for
// instance) otherwise.
func errorDetail(err error) ErrorDetail {
	var se *strataerr.StrataError
	if errors.As(err, &se) {
		return ErrorDetail{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: se.Suggestion,
			ExitCode:   se.ExitCode,
		}
	}
	return ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: strataerr.ExitGeneral,
	}
}

// writeErrorText renders detail as the plain-text error block printed
// to stderr: a headline, an optional sorted details list, and an
// optional suggestion.
func writeErrorText(w io.Writer, detail ErrorDetail) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", detail.Message))

	if len(detail.Details) > 0 {
		keys := make([]string, 0, len(detail.Details))
		for k := range detail.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, detail.Details[k]))
		}
	}

	if detail.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", detail.Suggestion))
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		output := map[string]string{"status": "success", "message": message}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
