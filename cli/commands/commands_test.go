package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meikuraledutech/wfgraph"
	"github.com/meikuraledutech/wfgraph/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBackend points the CLI at a fresh fs backend and returns its directory.
func setupBackend(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WFGRAPH_BACKEND", "fs")
	t.Setenv("WFGRAPH_DIR", dir)
	t.Setenv("WFGRAPH_KEY", "")
	t.Setenv("WFGRAPH_TRACE", "")

	envFile, storeKey, verbose = filepath.Join(dir, "none.env"), "", false
	exportFormat, exportOutput = "mermaid", ""
	showPretty, importForce = false, false
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func storedSnapshot(t *testing.T, dir string) wfgraph.Snapshot {
	t.Helper()
	kv, err := fs.New(context.Background(), dir)
	require.NoError(t, err)
	raw, err := kv.Get(context.Background(), wfgraph.DefaultKey)
	require.NoError(t, err)
	snap, err := wfgraph.Decode([]byte(raw))
	require.NoError(t, err)
	return snap
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestShowDefault(t *testing.T) {
	setupBackend(t)

	output, err := run(t, "show")
	require.NoError(t, err)

	snap, err := wfgraph.Decode([]byte(output))
	require.NoError(t, err)
	assert.Equal(t, wfgraph.Default(), snap)
}

func TestExportMermaid(t *testing.T) {
	dir := setupBackend(t)
	outputPath := filepath.Join(dir, "graph.md")

	output, err := run(t, "export", "--format", "mermaid", "--output", outputPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Graph exported to")

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph LR")
	assert.Contains(t, string(data), `n0["Node 1"]`)
	assert.Contains(t, string(data), `n0 -->|"edge1"| n1`)
}

func TestExportUnsupportedFormat(t *testing.T) {
	setupBackend(t)
	_, err := run(t, "export", "--format", "dot")
	assert.Error(t, err)
}

func TestImportAndDiff(t *testing.T) {
	dir := setupBackend(t)

	snap := wfgraph.Default()
	snap.Edges["edge4"] = wfgraph.Edge{Source: "node4", Target: "node1", Label: "loop"}
	data, err := wfgraph.EncodeYAML(snap)
	require.NoError(t, err)
	path := writeFile(t, dir, "graph.yaml", string(data))

	output, err := run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, output, "imported 4 nodes, 4 edges")
	assert.Equal(t, snap, storedSnapshot(t, dir))

	output, err = run(t, "diff")
	require.NoError(t, err)
	assert.Contains(t, output, "+    edge4:")
	assert.Contains(t, output, "+        label: loop")

	output, err = run(t, "diff", path)
	require.NoError(t, err)
	assert.Equal(t, "no differences\n", output)
}

func TestImportRejectsInvalid(t *testing.T) {
	dir := setupBackend(t)
	path := writeFile(t, dir, "bad.json",
		`{"nodes":{"a":{"name":"A","handler":"h","outputs":[],"condition":""}},"edges":{"e":{"source":"a","target":"ghost","label":""}},"layouts":{"nodes":{"a":{"x":0,"y":0}}}}`)

	_, err := run(t, "import", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, wfgraph.ErrDanglingEdge)

	_, err = run(t, "import", "--force", path)
	require.NoError(t, err)
	_, ok := storedSnapshot(t, dir).Edges["e"]
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	dir := setupBackend(t)

	output, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, output, "ok: 4 nodes, 3 edges")

	path := writeFile(t, dir, "bad.json",
		`{"nodes":{"a":{"name":"A","handler":"h","outputs":[],"condition":""}},"edges":{"e":{"source":"a","target":"ghost","label":""}}}`)
	_, err = run(t, "import", "--force", path)
	require.NoError(t, err)

	output, err = run(t, "validate")
	require.Error(t, err)
	assert.Contains(t, output, `target "ghost"`)
	assert.Contains(t, output, "no layout entry")
}

func TestReset(t *testing.T) {
	dir := setupBackend(t)
	snap := wfgraph.Default()
	delete(snap.Nodes, "node4")
	data, err := wfgraph.Encode(snap)
	require.NoError(t, err)
	path := writeFile(t, dir, "g.json", string(data))
	_, err = run(t, "import", "--force", path)
	require.NoError(t, err)

	output, err := run(t, "reset")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "deleted "))
	_, err = os.Stat(filepath.Join(dir, wfgraph.DefaultKey+".json"))
	assert.True(t, os.IsNotExist(err))
}

func TestKeys(t *testing.T) {
	dir := setupBackend(t)

	output, err := run(t, "keys")
	require.NoError(t, err)
	assert.Equal(t, "no keys stored\n", output)

	kv, err := fs.New(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), wfgraph.DefaultKey, "{}"))
	require.NoError(t, kv.Set(context.Background(), "draft", "{}"))

	output, err = run(t, "keys")
	require.NoError(t, err)
	assert.Equal(t, "  draft\n* workflowStore\n", output)
}
