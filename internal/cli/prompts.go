package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/mrz1836/strata/internal/secure"
	strataerr "github.com/mrz1836/strata/pkg/errors"
)

// Function variables indirecting the prompt implementations, so tests can
// substitute deterministic stand-ins without a real terminal attached.
//
//nolint:gochecknoglobals // Dependency-injection seam for testing interactive prompts
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptConfirmFn     = promptConfirmation
)

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// promptNewPassword prompts for a new vault password with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPassword("Enter vault password: ")
	if err != nil {
		return nil, err
	}

	if len(password) < 8 {
		secure.Zero(password)
		return nil, strataerr.WithSuggestion(
			strataerr.ErrInvalidInput,
			"password must be at least 8 characters",
		)
	}

	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		secure.Zero(password)
		return nil, err
	}
	defer secure.Zero(confirm)

	if string(password) != string(confirm) {
		secure.Zero(password)
		return nil, strataerr.WithSuggestion(
			strataerr.ErrInvalidInput,
			"passwords do not match",
		)
	}

	return password, nil
}

// promptConfirmation asks the user to confirm a destructive or
// irreversible action before proceeding.
func promptConfirmation() bool {
	out(os.Stderr, "\nProceed? [y/N]: ")

	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
