package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigSearchDepth), 3)
	is.Equal(c.GetString(ConfigSearchStuckPolicy), "pass")
	is.Equal(c.GetInt(ConfigSearchThreads), 1)
	is.True(c.GetBool(ConfigSearchMemo))
	is.True(!c.GetBool(ConfigDebug))
}

func TestLoadFlagsAndArgs(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--search-depth", "5", "--search-stuck-policy=extreme",
		"--debug", "autoplay", "10", "-threads", "2"})
	is.NoErr(err)
	is.Equal(c.GetInt(ConfigSearchDepth), 5)
	is.Equal(c.GetString(ConfigSearchStuckPolicy), "extreme")
	is.True(c.GetBool(ConfigDebug))
	is.Equal(c.Args(), []string{"autoplay", "10", "-threads", "2"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("DOMINO_SEARCH_THREADS", "4")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt(ConfigSearchThreads), 4)
}

func TestLoadValidates(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--search-depth", "0"}) != nil)
	c = &Config{}
	is.True(c.Load([]string{"--search-stuck-policy", "random"}) != nil)
}
