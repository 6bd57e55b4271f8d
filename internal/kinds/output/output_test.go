package output_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/config"
	"github.com/mmmm-dev/mmmm/internal/kinds/output"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesTextUnderConfiguredOutputDir(t *testing.T) {
	dir := t.TempDir()

	k, err := output.New(map[string]any{"filename": "modpack.nix"})
	require.NoError(t, err)

	rt := registry.Runtime{
		Inputs: map[string]artifact.Artifact{"source": artifact.NewText("hello")},
		Config: config.New(map[string]string{"output_dir": dir}),
	}

	_, err = k.Run(context.Background(), rt)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "modpack.nix"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestNew_RequiresFilename(t *testing.T) {
	_, err := output.New(map[string]any{})
	require.Error(t, err)
}
