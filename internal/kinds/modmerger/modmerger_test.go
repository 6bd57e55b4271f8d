package modmerger_test

import (
	"context"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/kinds/modmerger"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestRun_FirstInputWinsOnNameCollision(t *testing.T) {
	first := []artifact.ResolvedMod{{Mod: artifact.Mod{Name: "sodium", Required: true}}}
	second := []artifact.ResolvedMod{
		{Mod: artifact.Mod{Name: "sodium", Required: false}},
		{Mod: artifact.Mod{Name: "lithium", Required: false}},
	}

	k, err := modmerger.New(nil)
	require.NoError(t, err)

	rt := registry.Runtime{
		Variadic: []registry.NamedArtifact{
			{Name: "first", Value: artifact.NewResolvedMods(first)},
			{Name: "second", Value: artifact.NewResolvedMods(second)},
		},
	}

	out, err := k.Run(context.Background(), rt)
	require.NoError(t, err)

	mods, err := out["default"].ResolvedModsList()
	require.NoError(t, err)
	require.Len(t, mods, 2)

	byName := make(map[string]artifact.ResolvedMod, len(mods))
	for _, m := range mods {
		byName[m.Name] = m
	}
	require.True(t, byName["sodium"].Required, "first input's sodium entry must win")
	require.False(t, byName["lithium"].Required)
}
