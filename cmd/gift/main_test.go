package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in dir. Flags persist between runs, so
// every call passes --dir and --session explicitly.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--dir", dir, "--session", "cli"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_EditUndoRedo(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "dispatch", "NEWAUTOMATON", `{"name":"light"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "cli rev 2 v0")

	out, err = run(t, dir, "dispatch", "addnode", `{"automatonId":1}`)
	require.NoError(t, err)
	assert.Contains(t, out, "v1")

	out, err = run(t, dir, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "v0")
	assert.Contains(t, out, "redo:yes")

	out, err = run(t, dir, "redo")
	require.NoError(t, err)
	assert.Contains(t, out, "v1")

	out, err = run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "## light")

	out, err = run(t, dir, "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"))
	assert.Contains(t, out, `subgraph a1["light"]`)

	out, err = run(t, dir, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "- cli")
}

func TestCLI_DispatchRejected(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "dispatch", "REMOVENODE", `{"nodeId":5}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOVENODE rejected")
}

func TestCLI_ExportImportApply(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
actions:
  - type: ADDGLOBALINPUT
  - type: ADDGLOBALOUTPUT
`), 0o644))

	out, err := run(t, dir, "apply", script)
	require.NoError(t, err)
	assert.Contains(t, out, "v1")

	snap := filepath.Join(dir, "snap.json")
	_, err = run(t, dir, "export", snap)
	require.NoError(t, err)
	assert.FileExists(t, snap)

	_, err = run(t, dir, "session", "rm", "cli")
	require.NoError(t, err)

	out, err = run(t, dir, "import", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "v1")

	out, err = run(t, dir, "session", "inspect", "cli", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "x0")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gift version")
}
