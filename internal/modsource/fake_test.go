package modsource_test

import (
	"context"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/stretchr/testify/require"
)

func TestFake_ResolvesRegisteredRequest(t *testing.T) {
	f := modsource.NewFake()
	req := modsource.ResolveRequest{Source: artifact.SourceModrinth, Name: "sodium", ID: "AANobbMI"}
	resolved := artifact.ResolvedMod{Mod: artifact.Mod{Name: "sodium"}, DownloadURL: "https://example.test/sodium.jar"}
	f.Register(req, resolved)

	got, err := f.Resolve(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, resolved, got)
}

func TestFake_RejectsUnregisteredRequest(t *testing.T) {
	f := modsource.NewFake()
	_, err := f.Resolve(context.Background(), modsource.ResolveRequest{Name: "unknown"})
	require.Error(t, err)
}

func TestFake_RegisteredKeysAreSorted(t *testing.T) {
	f := modsource.NewFake()
	f.Register(modsource.ResolveRequest{Name: "zeta"}, artifact.ResolvedMod{})
	f.Register(modsource.ResolveRequest{Name: "alpha"}, artifact.ResolvedMod{})

	keys := f.RegisteredKeys()
	require.Len(t, keys, 2)
	require.True(t, keys[0] < keys[1])
}

func TestResolveRequest_KeyDistinguishesFileID(t *testing.T) {
	a := modsource.ResolveRequest{Name: "sodium", FileID: "1"}
	b := modsource.ResolveRequest{Name: "sodium", FileID: "2"}
	require.NotEqual(t, a.Key(), b.Key())
}
