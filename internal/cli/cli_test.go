package cli_test

import (
	"bytes"
	"testing"

	"github.com/mmmm-dev/mmmm/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestParse_PopulatesConfigFromFlagsAndPositional(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := cli.Parse([]string{"-output-dir", "/tmp/out", "-log-level", "debug", "pack.yaml"}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "pack.yaml", cfg.WorkflowPath)
	require.Equal(t, "/tmp/out", cfg.OutputDir)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_ShorthandFlagsMatchLongForm(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-o", "/tmp/out", "-c", "/tmp/cfg", "pack.yaml"}, &out)
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", cfg.OutputDir)
	require.Equal(t, "/tmp/cfg", cfg.ConfigDir)
}

func TestParse_MissingWorkflowPathIsExitError(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse(nil, &out)
	require.Error(t, err)
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "WORKFLOW_PATH")
}

func TestParse_ExtraPositionalArgsIsExitError(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"pack.yaml", "extra"}, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected extra arguments")
}

func TestParse_HelpFlagRequestsCleanExit(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := cli.Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_RejectsInvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-log-format", "xml", "pack.yaml"}, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "log-format")
}

func TestParse_RejectsInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-log-level", "verbose", "pack.yaml"}, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "log-level")
}
