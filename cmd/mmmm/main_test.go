package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_MissingWorkflowPath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{})

	require.Error(t, err, "run() should fail when no workflow path is given")
	require.Contains(t, err.Error(), "missing required argument")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	args := []string{"-h"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_MalformedWorkflow(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "workflow.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte("nodes: [unterminated"), 0600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-c", tempDir, filePath})

	require.Error(t, err, "run() should surface a workflow load failure")
	require.Contains(t, err.Error(), "failed to load workflow")
}

func TestRun_UnknownNodeKind(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "workflow.yaml")
	doc := "nodes:\n  - id: bogus\n    kind: ThisKindDoesNotExist\n"
	require.NoError(t, os.WriteFile(filePath, []byte(doc), 0600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-c", tempDir, filePath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown kind")
}
