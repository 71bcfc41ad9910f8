// Package errors provides structured error handling for strata's CLI.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors, wrapping the lightweight
// typed errors the internal/erasure and internal/sss packages return at
// their own boundary.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mrz1836/strata/internal/erasure"
	"github.com/mrz1836/strata/internal/sss"
)

// Exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitCorrupted  = 3 // Checksum/hash verification failed
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied
)

// StrataError is the structured error type surfaced to CLI callers.
type StrataError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for the CLI process
}

func (e *StrataError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *StrataError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for StrataError: two StrataErrors match when
// their codes match, regardless of message or details.
func (e *StrataError) Is(target error) bool {
	var t *StrataError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors. RS and SSS variants wrap the corresponding package's
// sentinel error via Cause so errors.Is still matches the underlying kind.
var (
	ErrGeneral = &StrataError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &StrataError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &StrataError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrPermission = &StrataError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	ErrConfigNotFound = &StrataError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &StrataError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &StrataError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong password or corrupted bundle",
		ExitCode: ExitPermission,
	}

	ErrUnknownConfigKey = &StrataError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown configuration key",
		ExitCode: ExitInput,
	}

	ErrInvalidFormat = &StrataError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid value for configuration key",
		ExitCode: ExitInput,
	}

	// Reed-Solomon erasure coding errors, one per erasure package sentinel.
	ErrInvalidConfiguration = &StrataError{
		Code:     "INVALID_CONFIGURATION",
		Message:  "invalid erasure coding configuration",
		ExitCode: ExitInput,
	}

	ErrInsufficientShards = &StrataError{
		Code:     "INSUFFICIENT_SHARDS",
		Message:  "not enough shards to reconstruct the original data",
		ExitCode: ExitInput,
	}

	ErrCorruptedShards = &StrataError{
		Code:     "CORRUPTED_SHARDS",
		Message:  "checksum mismatch after reconstruction",
		ExitCode: ExitCorrupted,
	}

	ErrShardMathError = &StrataError{
		Code:     "MATH_ERROR",
		Message:  "matrix inversion failed; shard set is inconsistent",
		ExitCode: ExitCorrupted,
	}

	// Shamir secret sharing errors, one per sss package sentinel.
	ErrInvalidSecret = &StrataError{
		Code:     "INVALID_SECRET",
		Message:  "invalid secret",
		ExitCode: ExitInput,
	}

	ErrInvalidShare = &StrataError{
		Code:     "INVALID_SHARE",
		Message:  "invalid or inconsistent share",
		ExitCode: ExitInput,
	}

	ErrInsufficientShares = &StrataError{
		Code:     "INSUFFICIENT_SHARES",
		Message:  "not enough shares to reconstruct the secret",
		ExitCode: ExitInput,
	}

	ErrCorruptedShare = &StrataError{
		Code:     "CORRUPTED_SHARE",
		Message:  "secret hash mismatch after reconstruction",
		ExitCode: ExitCorrupted,
	}

	ErrShareMathError = &StrataError{
		Code:     "SSS_MATH_ERROR",
		Message:  "interpolation failed; share set is inconsistent",
		ExitCode: ExitCorrupted,
	}
)

// FromErasure maps an internal/erasure sentinel error to its CLI-facing
// StrataError, preserving the original as Cause.
func FromErasure(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, erasure.ErrInvalidConfiguration):
		return wrapWith(ErrInvalidConfiguration, err)
	case errors.Is(err, erasure.ErrEmptyInput):
		return wrapWith(ErrInvalidInput, err)
	case errors.Is(err, erasure.ErrInsufficientShards):
		return wrapWith(ErrInsufficientShards, err)
	case errors.Is(err, erasure.ErrCorruptedShards):
		return wrapWith(ErrCorruptedShards, err)
	case errors.Is(err, erasure.ErrMathError):
		return wrapWith(ErrShardMathError, err)
	default:
		return Wrap(err, "erasure coding failed")
	}
}

// FromSSS maps an internal/sss sentinel error to its CLI-facing
// StrataError, preserving the original as Cause.
func FromSSS(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sss.ErrInvalidConfig):
		return wrapWith(ErrInvalidConfiguration, err)
	case errors.Is(err, sss.ErrInvalidSecret):
		return wrapWith(ErrInvalidSecret, err)
	case errors.Is(err, sss.ErrInvalidShare):
		return wrapWith(ErrInvalidShare, err)
	case errors.Is(err, sss.ErrInsufficientShares):
		return wrapWith(ErrInsufficientShares, err)
	case errors.Is(err, sss.ErrCorruptedShare):
		return wrapWith(ErrCorruptedShare, err)
	case errors.Is(err, sss.ErrMathError):
		return wrapWith(ErrShareMathError, err)
	default:
		return Wrap(err, "secret sharing failed")
	}
}

func wrapWith(sentinel *StrataError, cause error) *StrataError {
	clone := *sentinel
	clone.Cause = cause
	return &clone
}

// New creates a new StrataError with the given code and message.
func New(code, message string) *StrataError {
	return &StrataError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *StrataError
	if errors.As(err, &se) {
		return &StrataError{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &StrataError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var se *StrataError
	if errors.As(err, &se) {
		return &StrataError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &StrataError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var se *StrataError
	if errors.As(err, &se) {
		return &StrataError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &StrataError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate process exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *StrataError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *StrataError
	if errors.As(err, &se) {
		return se.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
