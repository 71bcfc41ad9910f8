package cli

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/strata/internal/config"
	"github.com/mrz1836/strata/internal/output"
)

func TestNewCommandContext(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	logger := config.NullLogger()
	formatter := output.NewFormatter(output.FormatText, nil)

	ctx := NewCommandContext(cfg, logger, formatter)

	require.NotNil(t, ctx)
	assert.Same(t, cfg, ctx.Cfg)
	assert.Same(t, logger, ctx.Log)
	assert.Same(t, formatter, ctx.Fmt)
}

func TestSetGetCmdContext_Roundtrip(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	logger := config.NullLogger()
	formatter := output.NewFormatter(output.FormatJSON, nil)
	want := NewCommandContext(cfg, logger, formatter)

	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(t.Context())

	SetCmdContext(cmd, want)
	got := GetCmdContext(cmd)

	require.NotNil(t, got)
	assert.Same(t, want, got)
}

func TestGetCmdContext_NotSet(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(t.Context())

	assert.Nil(t, GetCmdContext(cmd))
}

func TestGetCmdContext_NilContext(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}

	assert.Nil(t, GetCmdContext(cmd))
}

func TestContextWithTimeout_UsesCommandContext(t *testing.T) {
	t.Parallel()

	parent, parentCancel := context.WithCancel(context.Background())
	cmd := &cobra.Command{}
	cmd.SetContext(parent)

	ctx, cancel := contextWithTimeout(cmd, time.Second)
	defer cancel()

	parentCancel()

	select {
	case <-ctx.Done():
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected derived context to cancel when parent command context is canceled")
	}
}

func TestContextWithTimeout_FallbackBackground(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	ctx, cancel := contextWithTimeout(cmd, 25*time.Millisecond)
	defer cancel()

	select {
	case <-ctx.Done():
		require.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected derived context deadline to trigger")
	}
}

