package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/strata/internal/config"
	"github.com/mrz1836/strata/internal/output"
)

// writeBundleJSON marshals v and writes it to path, failing the test on error.
func writeBundleJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

// setupTestEnv creates a temporary environment for CLI testing.
// It saves and restores global state to avoid test pollution.
// Tests using this function should NOT use t.Parallel() as they
// modify package-level globals.
func setupTestEnv(t *testing.T) (string, func()) {
	t.Helper()

	origCfg := cfg
	origLogger := logger
	origFormatter := formatter

	tmpDir, err := os.MkdirTemp("", "strata-cli-test")
	if err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}

	testCfg := config.Defaults()
	testCfg.Home = tmpDir
	cfg = testCfg

	logger = config.NullLogger()
	formatter = output.NewFormatter(output.FormatText, os.Stdout)

	cleanup := func() {
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter
		_ = os.RemoveAll(tmpDir)
	}

	return tmpDir, cleanup
}

// newConfigTestCmd creates a cobra.Command for config run* testing with output capture.
func newConfigTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return cmd, &buf
}

// withMockPrompts replaces prompt functions for testing and restores on cleanup.
func withMockPrompts(t *testing.T, password []byte, confirm bool) {
	t.Helper()
	origPW := promptPasswordFn
	origNewPW := promptNewPasswordFn
	origConfirm := promptConfirmFn
	t.Cleanup(func() {
		promptPasswordFn = origPW
		promptNewPasswordFn = origNewPW
		promptConfirmFn = origConfirm
	})
	promptPasswordFn = func(_ string) ([]byte, error) {
		cp := make([]byte, len(password))
		copy(cp, password)
		return cp, nil
	}
	promptNewPasswordFn = func() ([]byte, error) {
		cp := make([]byte, len(password))
		copy(cp, password)
		return cp, nil
	}
	promptConfirmFn = func() bool { return confirm }
}
