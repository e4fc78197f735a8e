package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                    = "debug"
	ConfigSeed                     = "seed"
	ConfigSearchDepth              = "search-depth"
	ConfigSearchStuckPolicy        = "search-stuck-policy"
	ConfigSearchThreads            = "search-threads"
	ConfigSearchMemo               = "search-memo"
	ConfigSearchMemoMemoryFraction = "search-memo-memory-fraction"
	ConfigSearchLogFile            = "search-log-file"
	ConfigAutoplayThreads          = "autoplay-threads"
	ConfigHistoryFile              = "history-file"
	ConfigCPUProfile               = "cpu-profile"
)

const envPrefix = "DOMINO"

type Config struct {
	*viper.Viper

	args []string
}

// DefaultConfig returns a config with every default set and no flags or
// environment applied. It is meant for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigSearchDepth, 3)
	c.SetDefault(ConfigSearchStuckPolicy, "pass")
	c.SetDefault(ConfigSearchThreads, 1)
	c.SetDefault(ConfigSearchMemo, true)
	c.SetDefault(ConfigSearchMemoMemoryFraction, 0.001)
	c.SetDefault(ConfigSearchLogFile, "")
	c.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	c.SetDefault(ConfigHistoryFile, "/tmp/domino_readline.tmp")
	c.SetDefault(ConfigCPUProfile, "")
}

// Load parses command-line flags and DOMINO_* environment variables on top
// of the defaults. Parsing stops at the first non-flag argument; everything
// from there on is available from Args.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("domino", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int64(ConfigSeed, 0, "random seed for dealing; 0 picks one at random")
	fs.Int(ConfigSearchDepth, 3, "plies the AI searches, counting its own move")
	fs.String(ConfigSearchStuckPolicy, "pass",
		"how the search scores a side that cannot move: pass or extreme")
	fs.Int(ConfigSearchThreads, 1, "goroutines used to search the AI's candidate moves")
	fs.Bool(ConfigSearchMemo, true, "remember searched positions within a move")
	fs.Float64(ConfigSearchMemoMemoryFraction, 0.001,
		"fraction of system memory to size the search memo table")
	fs.String(ConfigSearchLogFile, "", "write a YAML log of every AI search to this file")
	fs.Int(ConfigAutoplayThreads, runtime.NumCPU(), "worker goroutines for autoplay")
	fs.String(ConfigHistoryFile, "/tmp/domino_readline.tmp", "shell history file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.args = fs.Args()
	return c.validate()
}

// Args are the positional arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) validate() error {
	if d := c.GetInt(ConfigSearchDepth); d < 1 || d > 64 {
		return fmt.Errorf("%s must be between 1 and 64, got %d", ConfigSearchDepth, d)
	}
	switch c.GetString(ConfigSearchStuckPolicy) {
	case "pass", "extreme":
	default:
		return fmt.Errorf("%s must be pass or extreme, got %q",
			ConfigSearchStuckPolicy, c.GetString(ConfigSearchStuckPolicy))
	}
	if c.GetInt(ConfigSearchThreads) < 1 {
		return fmt.Errorf("%s must be at least 1", ConfigSearchThreads)
	}
	return nil
}

// SanitizedSettings is every setting, suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
