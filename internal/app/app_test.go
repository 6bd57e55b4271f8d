package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/app"
	"github.com/stretchr/testify/require"
)

const minimalWorkflow = `
nodes:
  - id: greeting
    value: "hello world"
  - id: dst
    source: greeting
    filename: greeting.txt
`

func TestNewConfig_RejectsEmptyWorkflowPath(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	require.Error(t, err)
}

func TestNewConfig_AcceptsMinimalConfig(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{WorkflowPath: "pack.yaml"})
	require.NoError(t, err)
	require.Equal(t, "pack.yaml", cfg.WorkflowPath)
}

func TestApp_RunExecutesWorkflowEndToEnd(t *testing.T) {
	dir := t.TempDir()
	workflowPath := filepath.Join(dir, "pack.yaml")
	require.NoError(t, os.WriteFile(workflowPath, []byte(minimalWorkflow), 0o644))
	outputDir := filepath.Join(dir, "out")

	cfg, err := app.NewConfig(app.Config{
		WorkflowPath: workflowPath,
		OutputDir:    outputDir,
		ConfigDir:    filepath.Join(dir, "no-such-config-dir"),
		LogLevel:     "error",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a, err := app.NewApp(&out, cfg)
	require.NoError(t, err)
	require.NotNil(t, a.Registry())

	require.NoError(t, a.Run(context.Background(), cfg))

	got, err := os.ReadFile(filepath.Join(outputDir, "greeting.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}

func TestApp_RunFailsOnMissingWorkflowFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := app.NewConfig(app.Config{WorkflowPath: filepath.Join(dir, "missing.yaml")})
	require.NoError(t, err)

	var out bytes.Buffer
	a, err := app.NewApp(&out, cfg)
	require.NoError(t, err)

	err = a.Run(context.Background(), cfg)
	require.Error(t, err)
}
