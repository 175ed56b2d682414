package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/patchlayout/pkg/config"
	"github.com/matzehuels/patchlayout/pkg/errors"
	"github.com/matzehuels/patchlayout/pkg/graph"
)

const testSnapshot = `{
  "nodes": [
    {"id": 1, "name": "system", "type": "hardware"},
    {"id": 2, "name": "synth"},
    {"id": 3, "name": "delay"},
    {"id": 4, "name": "filter"}
  ],
  "edges": [
    {"from": 1, "to": 2},
    {"from": 2, "to": 3},
    {"from": 3, "to": 4},
    {"from": 4, "to": 3},
    {"from": 4, "to": 1}
  ]
}`

const testRequest = `{
  "boxes": [
    {"node": 1, "mode": "both", "x": 2, "y": 2, "width": 100, "height": 40},
    {"node": 2, "mode": "both", "x": 30, "y": 14, "width": 100, "height": 40}
  ],
  "repulsers": [{"node": 2, "mode": "both", "x": 30, "y": 14, "width": 100, "height": 40}],
  "hint": "right"
}`

// isolate points the config and cache directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

// execute runs the root command with args and returns what it wrote to
// the command output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestColumnsCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "session.json", testSnapshot)

	t.Run("json to stdout", func(t *testing.T) {
		out, err := execute(t, "columns", in)
		require.NoError(t, err)

		var res graph.ColumnsResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Contains(t, res.Split, 1, "hardware is always split")
		assert.Positive(t, res.Count)
	})

	t.Run("dot", func(t *testing.T) {
		out, err := execute(t, "columns", in, "--format", "dot")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "digraph"), out)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := execute(t, "columns", in, "--format", "png")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "columns", filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}

func TestColumnsCommand_Batch(t *testing.T) {
	dir := isolate(t)
	a := writeFile(t, dir, "a.json", testSnapshot)
	b := writeFile(t, dir, "b.json", testSnapshot)
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "columns", a, b, "--format", "dot", "-o", outDir, "--no-cache")
	require.NoError(t, err)

	for _, name := range []string{"a.columns.dot", "b.columns.dot"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "digraph")
	}
}

func TestColumnsOutput(t *testing.T) {
	assert.Equal(t, "x.svg", columnsOutput("in/a.json", "x.svg", "svg", false))
	assert.Equal(t, filepath.Join("in", "a.columns.json"), columnsOutput("in/a.json", "", "json", false))
	assert.Equal(t, filepath.Join("out", "a.columns.dot"), columnsOutput("in/a.json", "out", "dot", true))
}

func TestColumnsOutputs_Collision(t *testing.T) {
	_, err := columnsOutputs([]string{"a/x.json", "b/x.json"}, "out", "dot")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	outs, err := columnsOutputs([]string{"a/x.json", "b/x.json"}, "", "dot")
	require.NoError(t, err, "next to their inputs the names do not collide")
	assert.Equal(t, []string{filepath.Join("a", "x.columns.dot"), filepath.Join("b", "x.columns.dot")}, outs)
}

func TestColumnsCommand_BatchCollision(t *testing.T) {
	dir := isolate(t)
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
	}
	a := writeFile(t, dir, filepath.Join("a", "x.json"), testSnapshot)
	b := writeFile(t, dir, filepath.Join("b", "x.json"), testSnapshot)
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "columns", a, b, "-o", outDir, "--no-cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.columns.json")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when outputs collide")
}

func TestArrangeCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "session.json", testSnapshot)

	for _, mode := range []string{graph.ModeFollowSignal, graph.ModeFaceToFace} {
		t.Run(mode, func(t *testing.T) {
			out, err := execute(t, "arrange", in, "--mode", mode)
			require.NoError(t, err)

			var res graph.ArrangeResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			assert.Equal(t, mode, res.Mode)
			assert.NotEmpty(t, res.Positions)
		})
	}

	_, err := execute(t, "arrange", in, "--mode", "spiral")
	assert.Error(t, err)
}

func TestResolveCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "request.json", testRequest)

	out, err := execute(t, "resolve", in)
	require.NoError(t, err)
	var res graph.ResolveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.Moves)
	assert.Equal(t, 1, res.Moves[0].Node, "the box under the repulser moves")

	target := filepath.Join(dir, "moves.json")
	_, err = execute(t, "resolve", in, "--all", "-o", target)
	require.NoError(t, err)
	_, err = os.Stat(target)
	assert.NoError(t, err)
}

func TestConfigCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, config.Path(), path)

	_, err = execute(t, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "config", "init")
	assert.Error(t, err, "init refuses to overwrite without --force")
	_, err = execute(t, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	var shown config.Config
	_, err = toml.Decode(out, &shown)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Cache.Backend, shown.Cache.Backend)
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "custom.toml", "[cache]\nbackend = \"none\"\n")

	out, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `backend = "none"`)

	bad := writeFile(t, dir, "bad.toml", "[cache]\nbackend = \"tape\"\n")
	_, err = execute(t, "--config", bad, "config", "show")
	assert.Error(t, err)
}

func TestCacheCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, config.CacheDir(), strings.TrimSpace(out))

	_, err = execute(t, "cache", "clear")
	assert.NoError(t, err)
}
