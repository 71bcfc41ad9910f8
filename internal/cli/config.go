package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/strata/internal/config"
	"github.com/mrz1836/strata/internal/output"
	strataerr "github.com/mrz1836/strata/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify strata configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.strata/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  strata config init
  strata config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration settings.`,
	Example: `  strata config show
  strata config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.`,
	Example: `  strata config get rs.data_shards
  strata config get sss.threshold
  strata config get output.default_format
  strata config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.
The configuration file will be updated immediately.`,
	Example: `  strata config set rs.data_shards 6
  strata config set sss.threshold 3
  strata config set output.default_format json
  strata config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return strataerr.WithSuggestion(
			strataerr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	// Ensure directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Create default config
	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home

	// Write config file
	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - rs.data_shards / rs.parity_shards: default encode profile")
	outln(w, "  - sss.threshold / sss.total_shares: default split profile")
	outln(w, "  - output.default_format: Output format (text/json)")
	outln(w, "  - logging.level: Log level (off/error/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	format := formatter.Format()

	if format == output.FormatJSON {
		return displayConfigJSON(w, cfg)
	}

	return displayConfigText(w, cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	path := args[0]

	value, err := getConfigValue(cfg, path)
	if err != nil {
		return strataerr.WithSuggestion(
			strataerr.ErrNotFound,
			fmt.Sprintf("configuration path '%s' not found", path),
		)
	}

	w := cmd.OutOrStdout()
	outln(w, value)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := args[0]
	value := args[1]

	// Validate the path exists
	if _, err := getConfigValue(cfg, path); err != nil {
		return strataerr.WithSuggestion(
			strataerr.ErrNotFound,
			fmt.Sprintf("configuration path '%s' not found", path),
		)
	}

	// Load current config from file
	configPath := config.Path(cfg.Home)
	currentCfg, err := config.Load(configPath)
	if err != nil {
		// If file doesn't exist, start with defaults
		currentCfg = config.Defaults()
	}

	// Update the value
	if err := setConfigValue(currentCfg, path, value); err != nil {
		return fmt.Errorf("setting config value: %w", err)
	}

	// Save updated config
	if err := config.Save(currentCfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Set %s = %s\n", path, value)

	return nil
}

// getConfigValue retrieves a value from the config using dot notation.
func getConfigValue(c *config.Config, path string) (string, error) {
	parts := strings.Split(path, ".")

	switch len(parts) {
	case 1:
		switch parts[0] {
		case "home":
			return c.Home, nil
		default:
			return "", strataerr.WithDetails(
				strataerr.ErrUnknownConfigKey,
				map[string]string{"key": parts[0]},
			)
		}
	case 2:
		switch parts[0] {
		case "rs":
			return getRSValue(c, parts[1])
		case "sss":
			return getSSSValue(c, parts[1])
		case "security":
			return getSecurityValue(c, parts[1])
		case "output":
			return getOutputValue(c, parts[1])
		case "logging":
			return getLoggingValue(c, parts[1])
		default:
			return "", strataerr.WithDetails(
				strataerr.ErrUnknownConfigKey,
				map[string]string{"section": parts[0]},
			)
		}
	default:
		return "", strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"path": path},
		)
	}
}

func getRSValue(c *config.Config, key string) (string, error) {
	switch key {
	case "data_shards":
		return strconv.Itoa(c.RS.DataShards), nil
	case "parity_shards":
		return strconv.Itoa(c.RS.ParityShards), nil
	case "shard_size":
		return strconv.Itoa(c.RS.ShardSize), nil
	default:
		return "", strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "rs", "key": key},
		)
	}
}

func getSSSValue(c *config.Config, key string) (string, error) {
	switch key {
	case "threshold":
		return strconv.Itoa(c.SSS.Threshold), nil
	case "total_shares":
		return strconv.Itoa(c.SSS.TotalShares), nil
	case "secret_max_size":
		return strconv.Itoa(c.SSS.SecretMaxSize), nil
	case "use_secure_random":
		return strconv.FormatBool(c.SSS.UseSecureRandom), nil
	default:
		return "", strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "sss", "key": key},
		)
	}
}

func getSecurityValue(c *config.Config, key string) (string, error) {
	switch key {
	case "memory_lock":
		return strconv.FormatBool(c.Security.MemoryLock), nil
	default:
		return "", strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "security", "key": key},
		)
	}
}

func getOutputValue(c *config.Config, key string) (string, error) {
	switch key {
	case "default_format":
		return c.Output.DefaultFormat, nil
	case "verbose":
		return strconv.FormatBool(c.Output.Verbose), nil
	case "color":
		return c.Output.Color, nil
	default:
		return "", strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "output", "key": key},
		)
	}
}

func getLoggingValue(c *config.Config, key string) (string, error) {
	switch key {
	case "level":
		return c.Logging.Level, nil
	case "file":
		return c.Logging.File, nil
	default:
		return "", strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "logging", "key": key},
		)
	}
}

// setConfigValue sets a value in the config using dot notation.
func setConfigValue(c *config.Config, path, value string) error {
	parts := strings.Split(path, ".")

	switch len(parts) {
	case 1:
		switch parts[0] {
		case "home":
			c.Home = value
			return nil
		default:
			return strataerr.WithDetails(
				strataerr.ErrUnknownConfigKey,
				map[string]string{"key": parts[0]},
			)
		}
	case 2:
		switch parts[0] {
		case "rs":
			return setRSValue(c, parts[1], value)
		case "sss":
			return setSSSValue(c, parts[1], value)
		case "security":
			return setSecurityValue(c, parts[1], value)
		case "output":
			return setOutputValue(c, parts[1], value)
		case "logging":
			return setLoggingValue(c, parts[1], value)
		default:
			return strataerr.WithDetails(
				strataerr.ErrUnknownConfigKey,
				map[string]string{"section": parts[0]},
			)
		}
	default:
		return strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"path": path},
		)
	}
}

func setRSValue(c *config.Config, key, value string) error {
	switch key {
	case "data_shards":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.RS.DataShards = n
		return nil
	case "parity_shards":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.RS.ParityShards = n
		return nil
	case "shard_size":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.RS.ShardSize = n
		return nil
	default:
		return strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "rs", "key": key},
		)
	}
}

func setSSSValue(c *config.Config, key, value string) error {
	switch key {
	case "threshold":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.SSS.Threshold = n
		return nil
	case "total_shares":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.SSS.TotalShares = n
		return nil
	case "secret_max_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return strataerr.WithDetails(
				strataerr.ErrInvalidFormat,
				map[string]string{"value": value, "valid": "a non-negative integer"},
			)
		}
		c.SSS.SecretMaxSize = n
		return nil
	case "use_secure_random":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return strataerr.WithDetails(
				strataerr.ErrInvalidFormat,
				map[string]string{"value": value, "valid": "true or false"},
			)
		}
		c.SSS.UseSecureRandom = b
		return nil
	default:
		return strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "sss", "key": key},
		)
	}
}

func setSecurityValue(c *config.Config, key, value string) error {
	switch key {
	case "memory_lock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return strataerr.WithDetails(
				strataerr.ErrInvalidFormat,
				map[string]string{"value": value, "valid": "true or false"},
			)
		}
		c.Security.MemoryLock = b
		return nil
	default:
		return strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "security", "key": key},
		)
	}
}

func setOutputValue(c *config.Config, key, value string) error {
	switch key {
	case "default_format":
		if value != "text" && value != "json" && value != "auto" {
			return strataerr.WithDetails(
				strataerr.ErrInvalidFormat,
				map[string]string{"value": value, "valid": "text, json, or auto"},
			)
		}
		c.Output.DefaultFormat = value
		return nil
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return strataerr.WithDetails(
				strataerr.ErrInvalidFormat,
				map[string]string{"value": value, "valid": "true or false"},
			)
		}
		c.Output.Verbose = b
		return nil
	case "color":
		if value != "auto" && value != "always" && value != "never" {
			return strataerr.WithDetails(
				strataerr.ErrInvalidFormat,
				map[string]string{"value": value, "valid": "auto, always, or never"},
			)
		}
		c.Output.Color = value
		return nil
	default:
		return strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "output", "key": key},
		)
	}
}

func setLoggingValue(c *config.Config, key, value string) error {
	switch key {
	case "level":
		validLevels := []string{"off", "error", "debug"}
		for _, l := range validLevels {
			if value == l {
				c.Logging.Level = value
				return nil
			}
		}
		return strataerr.WithDetails(
			strataerr.ErrInvalidFormat,
			map[string]string{"value": value, "valid": "off, error, or debug"},
		)
	case "file":
		c.Logging.File = value
		return nil
	default:
		return strataerr.WithDetails(
			strataerr.ErrUnknownConfigKey,
			map[string]string{"section": "logging", "key": key},
		)
	}
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, strataerr.WithDetails(
			strataerr.ErrInvalidFormat,
			map[string]string{"key": key, "value": value, "valid": "a positive integer"},
		)
	}
	return n, nil
}

// displayConfigText shows the config in text format.
func displayConfigText(w io.Writer, c *config.Config) error {
	outln(w, "Configuration:")
	outln(w)
	out(w, "  Home: %s\n", c.Home)
	outln(w)
	outln(w, "  Reed-Solomon:")
	out(w, "    data_shards: %d\n", c.RS.DataShards)
	out(w, "    parity_shards: %d\n", c.RS.ParityShards)
	out(w, "    shard_size: %d\n", c.RS.ShardSize)
	outln(w)
	outln(w, "  Shamir Secret Sharing:")
	out(w, "    threshold: %d\n", c.SSS.Threshold)
	out(w, "    total_shares: %d\n", c.SSS.TotalShares)
	out(w, "    secret_max_size: %d\n", c.SSS.SecretMaxSize)
	out(w, "    use_secure_random: %t\n", c.SSS.UseSecureRandom)
	outln(w)
	outln(w, "  Security:")
	out(w, "    memory_lock: %t\n", c.Security.MemoryLock)
	outln(w)
	outln(w, "  Output:")
	out(w, "    default_format: %s\n", c.Output.DefaultFormat)
	out(w, "    verbose: %t\n", c.Output.Verbose)
	out(w, "    color: %s\n", c.Output.Color)
	outln(w)
	outln(w, "  Logging:")
	out(w, "    level: %s\n", c.Logging.Level)
	out(w, "    file: %s\n", c.Logging.File)

	return nil
}

// displayConfigJSON shows the config in JSON format.
func displayConfigJSON(w io.Writer, c *config.Config) error {
	return writeJSON(w, c)
}
