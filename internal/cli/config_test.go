package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/strata/internal/config"
	"github.com/mrz1836/strata/internal/output"
)

func TestGetConfigValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Home = "/test/home"
	testCfg.RS.DataShards = 6
	testCfg.SSS.Threshold = 3
	testCfg.Security.MemoryLock = false
	testCfg.Output.DefaultFormat = "json"
	testCfg.Logging.Level = "debug"

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "home", path: "home", want: "/test/home"},
		{name: "unknown single key", path: "unknown", wantErr: true},

		{name: "rs.data_shards", path: "rs.data_shards", want: "6"},
		{name: "rs.unknown", path: "rs.unknown", wantErr: true},

		{name: "sss.threshold", path: "sss.threshold", want: "3"},
		{name: "sss.unknown", path: "sss.unknown", wantErr: true},

		{name: "security.memory_lock", path: "security.memory_lock", want: "false"},
		{name: "security.unknown", path: "security.unknown", wantErr: true},

		{name: "output.default_format", path: "output.default_format", want: "json"},
		{name: "output.unknown", path: "output.unknown", wantErr: true},

		{name: "logging.level", path: "logging.level", want: "debug"},
		{name: "logging.unknown", path: "logging.unknown", wantErr: true},

		{name: "unknown.key", path: "unknown.key", wantErr: true},
		{name: "too many parts", path: "a.b.c.d", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := getConfigValue(testCfg, tc.path)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestGetRSValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.RS.DataShards = 8
	testCfg.RS.ParityShards = 4
	testCfg.RS.ShardSize = 16384

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "data_shards", want: "8"},
		{key: "parity_shards", want: "4"},
		{key: "shard_size", want: "16384"},
		{key: "unknown", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := getRSValue(testCfg, tc.key)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestGetSSSValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.SSS.Threshold = 2
	testCfg.SSS.TotalShares = 4
	testCfg.SSS.SecretMaxSize = 1024
	testCfg.SSS.UseSecureRandom = false

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "threshold", want: "2"},
		{key: "total_shares", want: "4"},
		{key: "secret_max_size", want: "1024"},
		{key: "use_secure_random", want: "false"},
		{key: "unknown", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := getSSSValue(testCfg, tc.key)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestGetSecurityValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Security.MemoryLock = true

	got, err := getSecurityValue(testCfg, "memory_lock")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	_, err = getSecurityValue(testCfg, "unknown")
	require.Error(t, err)
}

func TestGetOutputValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Output.DefaultFormat = "text"
	testCfg.Output.Verbose = true
	testCfg.Output.Color = "never"

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "default_format", want: "text"},
		{key: "verbose", want: "true"},
		{key: "color", want: "never"},
		{key: "unknown", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := getOutputValue(testCfg, tc.key)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestGetLoggingValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Logging.Level = "debug"
	testCfg.Logging.File = "/tmp/test.log"

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "level", want: "debug"},
		{key: "file", want: "/tmp/test.log"},
		{key: "unknown", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := getLoggingValue(testCfg, tc.key)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		value   string
		verify  func(*testing.T, *config.Config)
		wantErr bool
	}{
		{
			name:  "set home",
			path:  "home",
			value: "/new/home",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "/new/home", c.Home)
			},
		},
		{name: "set unknown single key", path: "unknown", value: "val", wantErr: true},

		{
			name:  "set rs.data_shards",
			path:  "rs.data_shards",
			value: "6",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 6, c.RS.DataShards)
			},
		},
		{name: "set rs.data_shards invalid", path: "rs.data_shards", value: "0", wantErr: true},
		{name: "set rs.data_shards non-numeric", path: "rs.data_shards", value: "x", wantErr: true},
		{name: "set rs.unknown", path: "rs.unknown", value: "val", wantErr: true},

		{
			name:  "set sss.threshold",
			path:  "sss.threshold",
			value: "3",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 3, c.SSS.Threshold)
			},
		},
		{
			name:  "set sss.use_secure_random",
			path:  "sss.use_secure_random",
			value: "false",
			verify: func(t *testing.T, c *config.Config) {
				assert.False(t, c.SSS.UseSecureRandom)
			},
		},
		{name: "set sss.use_secure_random invalid", path: "sss.use_secure_random", value: "nope", wantErr: true},
		{name: "set sss.unknown", path: "sss.unknown", value: "val", wantErr: true},

		{
			name:  "set security.memory_lock",
			path:  "security.memory_lock",
			value: "false",
			verify: func(t *testing.T, c *config.Config) {
				assert.False(t, c.Security.MemoryLock)
			},
		},
		{name: "set security.unknown", path: "security.unknown", value: "val", wantErr: true},

		{
			name:  "set output.default_format json",
			path:  "output.default_format",
			value: "json",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "json", c.Output.DefaultFormat)
			},
		},
		{name: "set output.default_format invalid", path: "output.default_format", value: "yaml", wantErr: true},
		{name: "set output.unknown", path: "output.unknown", value: "val", wantErr: true},

		{
			name:  "set logging.level debug",
			path:  "logging.level",
			value: "debug",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "debug", c.Logging.Level)
			},
		},
		{name: "set logging.level invalid", path: "logging.level", value: "trace", wantErr: true},
		{name: "set logging.unknown", path: "logging.unknown", value: "val", wantErr: true},

		{name: "set unknown.key", path: "unknown.key", value: "val", wantErr: true},
		{name: "set too many parts", path: "a.b.c.d", value: "val", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Defaults()
			err := setConfigValue(c, tc.path, tc.value)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				if tc.verify != nil {
					tc.verify(t, c)
				}
			}
		})
	}
}

func TestSetRSValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		verify  func(*testing.T, *config.Config)
		wantErr bool
	}{
		{
			name:  "parity_shards",
			key:   "parity_shards",
			value: "3",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 3, c.RS.ParityShards)
			},
		},
		{
			name:  "shard_size",
			key:   "shard_size",
			value: "4096",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 4096, c.RS.ShardSize)
			},
		},
		{name: "shard_size zero rejected", key: "shard_size", value: "0", wantErr: true},
		{name: "unknown key", key: "unknown", value: "val", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Defaults()
			err := setRSValue(c, tc.key, tc.value)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				if tc.verify != nil {
					tc.verify(t, c)
				}
			}
		})
	}
}

func TestSetSSSValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		verify  func(*testing.T, *config.Config)
		wantErr bool
	}{
		{
			name:  "total_shares",
			key:   "total_shares",
			value: "7",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 7, c.SSS.TotalShares)
			},
		},
		{
			name:  "secret_max_size",
			key:   "secret_max_size",
			value: "2048",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 2048, c.SSS.SecretMaxSize)
			},
		},
		{name: "secret_max_size negative rejected", key: "secret_max_size", value: "-1", wantErr: true},
		{
			name:  "use_secure_random true",
			key:   "use_secure_random",
			value: "true",
			verify: func(t *testing.T, c *config.Config) {
				assert.True(t, c.SSS.UseSecureRandom)
			},
		},
		{name: "unknown key", key: "unknown", value: "val", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Defaults()
			err := setSSSValue(c, tc.key, tc.value)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				if tc.verify != nil {
					tc.verify(t, c)
				}
			}
		})
	}
}

func TestSetSecurityValue(t *testing.T) {
	c := config.Defaults()
	require.NoError(t, setSecurityValue(c, "memory_lock", "false"))
	assert.False(t, c.Security.MemoryLock)

	err := setSecurityValue(c, "memory_lock", "nope")
	require.Error(t, err)

	err = setSecurityValue(c, "unknown", "val")
	require.Error(t, err)
}

func TestSetOutputValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		verify  func(*testing.T, *config.Config)
		wantErr bool
	}{
		{
			name:  "default_format text",
			key:   "default_format",
			value: "text",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "text", c.Output.DefaultFormat)
			},
		},
		{name: "default_format invalid", key: "default_format", value: "yaml", wantErr: true},
		{
			name:  "verbose true",
			key:   "verbose",
			value: "true",
			verify: func(t *testing.T, c *config.Config) {
				assert.True(t, c.Output.Verbose)
			},
		},
		{name: "verbose invalid", key: "verbose", value: "sorta", wantErr: true},
		{
			name:  "color always",
			key:   "color",
			value: "always",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "always", c.Output.Color)
			},
		},
		{name: "color invalid", key: "color", value: "sometimes", wantErr: true},
		{name: "unknown key", key: "unknown", value: "val", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Defaults()
			err := setOutputValue(c, tc.key, tc.value)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				if tc.verify != nil {
					tc.verify(t, c)
				}
			}
		})
	}
}

func TestSetLoggingValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		verify  func(*testing.T, *config.Config)
		wantErr bool
	}{
		{
			name:  "level debug",
			key:   "level",
			value: "debug",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "debug", c.Logging.Level)
			},
		},
		{name: "level invalid", key: "level", value: "trace", wantErr: true},
		{
			name:  "file path",
			key:   "file",
			value: "/tmp/strata.log",
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "/tmp/strata.log", c.Logging.File)
			},
		},
		{name: "unknown key", key: "unknown", value: "val", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Defaults()
			err := setLoggingValue(c, tc.key, tc.value)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				if tc.verify != nil {
					tc.verify(t, c)
				}
			}
		})
	}
}

func TestDisplayConfigText(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Home = "/test/strata"
	testCfg.RS.DataShards = 6
	testCfg.RS.ParityShards = 3
	testCfg.SSS.Threshold = 3
	testCfg.SSS.TotalShares = 5
	testCfg.Output.DefaultFormat = "json"
	testCfg.Output.Verbose = true
	testCfg.Logging.Level = "debug"

	buf := new(bytes.Buffer)
	err := displayConfigText(buf, testCfg)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Configuration:")
	assert.Contains(t, out, "Home: /test/strata")
	assert.Contains(t, out, "Reed-Solomon:")
	assert.Contains(t, out, "data_shards: 6")
	assert.Contains(t, out, "parity_shards: 3")
	assert.Contains(t, out, "Shamir Secret Sharing:")
	assert.Contains(t, out, "threshold: 3")
	assert.Contains(t, out, "total_shares: 5")
	assert.Contains(t, out, "Output:")
	assert.Contains(t, out, "default_format: json")
	assert.Contains(t, out, "verbose: true")
	assert.Contains(t, out, "Logging:")
	assert.Contains(t, out, "level: debug")
}

func TestDisplayConfigJSON(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Home = "/test/strata"

	buf := new(bytes.Buffer)
	err := displayConfigJSON(buf, testCfg)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"home": "/test/strata"`)
	assert.Contains(t, out, `"version": 1`)
}

// --- Tests for runConfigInit, runConfigShow, runConfigGet, runConfigSet ---

func TestRunConfigInit_Success(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()

	err := runConfigInit(cmd, nil)
	require.NoError(t, err)

	result := buf.String()
	assert.Contains(t, result, "Configuration initialized")

	configPath := config.Path(tmpDir)
	_, statErr := os.Stat(configPath)
	assert.NoError(t, statErr, "config file should exist")
}

func TestRunConfigInit_ForceOverwrite(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd, nil))

	configForce = true
	defer func() { configForce = false }()

	cmd2, buf2 := newConfigTestCmd()
	err := runConfigInit(cmd2, nil)
	require.NoError(t, err)
	assert.Contains(t, buf2.String(), "Configuration initialized")
}

func TestRunConfigInit_AlreadyExistsWithoutForce(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd, nil))

	configForce = false
	cmd2, _ := newConfigTestCmd()
	err := runConfigInit(cmd2, nil)
	require.Error(t, err, "should fail when config already exists without --force")
}

func TestRunConfigShow_TextFormat(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	formatter = output.NewFormatter(output.FormatText, os.Stdout)

	cmd, buf := newConfigTestCmd()
	err := runConfigShow(cmd, nil)
	require.NoError(t, err)

	result := buf.String()
	assert.Contains(t, result, "Configuration:")
	assert.Contains(t, result, "Home:")
}

func TestRunConfigShow_JSONFormat(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	formatter = output.NewFormatter(output.FormatJSON, os.Stdout)

	cmd, buf := newConfigTestCmd()
	err := runConfigShow(cmd, nil)
	require.NoError(t, err)

	result := buf.String()
	assert.Contains(t, result, `"home":`)
	assert.Contains(t, result, `"version":`)
}

func TestRunConfigGet_ValidPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()
	err := runConfigGet(cmd, []string{"home"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), cfg.Home)
}

func TestRunConfigGet_ValidNestedPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()
	err := runConfigGet(cmd, []string{"rs.data_shards"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "4")
}

func TestRunConfigGet_InvalidPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	err := runConfigGet(cmd, []string{"nonexistent"})
	require.Error(t, err, "should return error for invalid config path")
}

func TestRunConfigSet_ValidValue(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd0, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd0, nil))

	cmd, buf := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"logging.level", "debug"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Set logging.level = debug")

	configPath := config.Path(tmpDir)
	updatedCfg, loadErr := config.Load(configPath)
	require.NoError(t, loadErr)
	assert.Equal(t, "debug", updatedCfg.Logging.Level)
}

func TestRunConfigSet_InvalidPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"nonexistent", "value"})
	require.Error(t, err, "should return error for invalid config path")
}

func TestRunConfigSet_InvalidValue(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd0, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd0, nil))

	cmd, _ := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"output.default_format", "yaml"})
	require.Error(t, err, "should reject invalid format value")
}

func TestRunConfigSet_NoConfigFile(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"logging.level", "debug"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Set logging.level = debug")
}
