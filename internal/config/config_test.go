package config_test

import (
	"testing"

	"github.com/mmmm-dev/mmmm/internal/config"
	"github.com/stretchr/testify/require"
)

func TestGet_ReturnsValueAndPresence(t *testing.T) {
	c := config.New(map[string]string{"output_dir": "/tmp/out"})
	v, ok := c.Get("output_dir")
	require.True(t, ok)
	require.Equal(t, "/tmp/out", v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestRequire_TreatsEmptyValueAsAbsent(t *testing.T) {
	c := config.New(map[string]string{"minecraft_version": ""})
	_, ok := c.Require("minecraft_version")
	require.False(t, ok)
}

func TestHas_IgnoresValueEmptiness(t *testing.T) {
	c := config.New(map[string]string{"minecraft_version": ""})
	require.True(t, c.Has("minecraft_version"))
	require.False(t, c.Has("missing"))
}

func TestWithOverrides_TakesPrecedenceOverOriginal(t *testing.T) {
	base := config.New(map[string]string{"output_dir": "/base", "minecraft_version": "1.20.1"})
	merged := base.WithOverrides(map[string]string{"output_dir": "/override"})

	v, ok := merged.Get("output_dir")
	require.True(t, ok)
	require.Equal(t, "/override", v)

	v, ok = merged.Get("minecraft_version")
	require.True(t, ok)
	require.Equal(t, "1.20.1", v, "keys not in the override set must survive untouched")

	orig, _ := base.Get("output_dir")
	require.Equal(t, "/base", orig, "WithOverrides must not mutate the receiver")
}
