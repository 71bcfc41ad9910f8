// Package cli implements the strata command-line interface.
//
// This package provides two ways to access CLI state:
//  1. Global variables (legacy) - for backwards compatibility
//  2. Context-based access (recommended) - via GetCmdContext(cmd)
//
// The globals are initialized in PersistentPreRunE and cleaned up in
// PersistentPostRun. New code should prefer GetCmdContext(cmd) for better
// testability and explicit dependency passing.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/strata/internal/config"
	"github.com/mrz1836/strata/internal/output"
	"github.com/mrz1836/strata/internal/version"
	strataerr "github.com/mrz1836/strata/pkg/errors"
)

// versionCheckTimeout bounds how long "strata version --check-update"
// waits on the GitHub releases API before giving up.
const versionCheckTimeout = 10 * time.Second

// versionRepoOwner and versionRepoName identify this project's GitHub
// release feed, consulted by "strata version --check-update".
const (
	versionRepoOwner = "mrz1836"
	versionRepoName  = "strata"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	// Command context for dependency injection
	cmdCtx *CommandContext
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Reed-Solomon erasure coding and Shamir secret sharing over GF(2^8)",
	Long: `strata protects data against loss and exposure using two independent
GF(2^8) constructions: Reed-Solomon erasure coding, which splits a payload
into data and parity shards so that any sufficient subset reconstructs it,
and Shamir secret sharing, which splits a secret into shares so that any
threshold of them reconstructs it while fewer reveal nothing.`,
	Example: `  strata rs encode --data 4 --parity 2 payload.bin
  strata rs decode payload.bin.shards
  strata sss split --threshold 3 --shares 5 secret.bin
  strata sss combine secret.bin.shares`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// BuildInfo carries version metadata injected at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// buildInfo holds the BuildInfo passed to Execute, consulted by versionCmd.
var buildInfo BuildInfo

// Execute runs the root command.
func Execute(info BuildInfo) error {
	buildInfo = info
	enrichParentLong(rsCmd)
	enrichParentLong(sssCmd)
	enrichParentLong(configCmd)
	err := rootCmd.Execute()
	if err != nil {
		formatErr(err)
		return err
	}
	return nil
}

// formatVersion renders info as the human-readable version line printed by
// versionCmd, substituting placeholders for any field left unset.
func formatVersion(info BuildInfo) string {
	version := nonEmpty(info.Version, "dev")
	commit := nonEmpty(info.Commit, "unknown")
	date := nonEmpty(info.Date, "unknown")
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// formatErr prints the error with proper formatting.
func formatErr(err error) {
	format := output.FormatText
	if formatter != nil {
		format = formatter.Format()
	}
	if fmtErr := output.FormatError(os.Stderr, err, format); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (formatting failed: %v)\n", err, fmtErr)
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return strataerr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
//
//nolint:gocognit,gocyclo // Initialization logic requires multiple conditional branches
func initGlobals(cmd *cobra.Command) error {
	// Determine home directory
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	// Load or create config
	configPath := config.Path(home)
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Expected case: no config file yet, use defaults
			cfg = config.Defaults()
			cfg.Home = home
		} else {
			// Unexpected error: log warning but continue with defaults
			output.Warnf(os.Stderr, "failed to load config: %v", err)
			cfg = config.Defaults()
			cfg.Home = home
		}
	}

	// Apply environment variable overrides
	config.ApplyEnvironment(cfg)

	// Override with command-line flags
	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	// Expand tilde in Home path if present
	if strings.HasPrefix(cfg.Home, "~/") {
		if userHome, homeErr := os.UserHomeDir(); homeErr == nil {
			cfg.Home = filepath.Join(userHome, cfg.Home[2:])
		}
	}

	// Initialize logger
	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	logger, err = config.NewLogger(logLevel, cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}

	// Initialize formatter
	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	detectedFormat := output.DetectFormat(os.Stdout, explicitFormat)
	formatter = output.NewFormatter(detectedFormat, os.Stdout)

	// Create command context
	cmdCtx = NewCommandContext(cfg, logger, formatter)

	// Also store in cobra context for context-based access
	// This allows commands to use GetCmdContext(cmd) instead of globals
	SetCmdContext(cmd, cmdCtx)

	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		if closeErr := logger.Close(); closeErr != nil {
			output.Warnf(os.Stderr, "failed to close logger: %v", closeErr)
		}
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

// Context returns the global command context.
func Context() *CommandContext {
	return cmdCtx
}

// versionCmd shows version information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:    `Display the version, build commit, and build date.`,
	Example: "  strata version\n  strata version --check-update\n  strata version --min-version v1.2.0",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if versionCheckUpdate {
			return runVersionCheckUpdate(cmd)
		}

		if versionMinRequired != "" {
			if err := requireMinVersion(nonEmpty(buildInfo.Version, "dev"), versionMinRequired); err != nil {
				return err
			}
		}

		if formatter != nil && formatter.Format() == output.FormatJSON {
			cmd.Println("{")
			cmd.Printf(`  "version": "%s",`+"\n", nonEmpty(buildInfo.Version, "dev"))
			cmd.Printf(`  "commit": "%s",`+"\n", nonEmpty(buildInfo.Commit, "unknown"))
			cmd.Printf(`  "date": "%s"`+"\n", nonEmpty(buildInfo.Date, "unknown"))
			cmd.Println("}")
		} else {
			cmd.Printf("strata %s\n", formatVersion(buildInfo))
		}
		return nil
	},
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	versionCheckUpdate bool
	versionMinRequired string
)

// requireMinVersion fails with a *strataerr.StrataError when current is
// older than min, per version.CompareVersions. A dev build (an unset or
// "dev" Version, typically a local build run from source) always
// satisfies any floor, since there is no release number to compare.
func requireMinVersion(current, minVersion string) error {
	if version.CompareVersions(current, "dev") == 0 {
		return nil
	}
	if version.CompareVersions(current, minVersion) < 0 {
		return strataerr.New("VERSION_TOO_OLD",
			fmt.Sprintf("strata %s is older than the required minimum %s", current, minVersion))
	}
	return nil
}

// runVersionCheckUpdate queries GitHub for the latest strata release and
// reports whether a newer version is available than the running binary.
func runVersionCheckUpdate(cmd *cobra.Command) error {
	ctx, cancel := contextWithTimeout(cmd, versionCheckTimeout)
	defer cancel()

	release, err := version.GetLatestRelease(ctx, versionRepoOwner, versionRepoName)
	if err != nil {
		return strataerr.Wrap(err, "checking for updates")
	}

	current := nonEmpty(buildInfo.Version, "dev")
	w := cmd.OutOrStdout()

	if version.IsNewerVersion(current, release.TagName) {
		out(w, "A newer version is available: %s (you have %s)\n", release.TagName, current)
	} else {
		out(w, "You are running the latest version (%s)\n", current)
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "strata data directory (default: ~/.strata)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "check GitHub for a newer release")
	versionCmd.Flags().StringVar(&versionMinRequired, "min-version", "", "fail if the running binary is older than this version")
}
