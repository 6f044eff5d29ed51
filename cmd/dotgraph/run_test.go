package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

// execute runs the root command with args and returns what it wrote to
// stdout and stderr. Flags are reset first since rootCmd is shared.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	require.NoError(t, rootCmd.Flags().Set("format", formatDebug))
	require.NoError(t, rootCmd.Flags().Set("comments", "false"))
	require.NoError(t, rootCmd.Flags().Set("lint", "false"))
	require.NoError(t, rootCmd.PersistentFlags().Set("verbose", "false"))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	path := testdata(name)
	if *update {
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
		return
	}
	want, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file; run with -update")
	assert.Equal(t, string(want), got)
}

func TestGolden(t *testing.T) {
	tests := []struct {
		golden string
		args   []string
	}{
		{"chain.debug.golden", []string{testdata("chain.dot")}},
		{"chain.topo.golden", []string{"--format", "topo", testdata("chain.dot")}},
		{"islands.debug.golden", []string{testdata("islands.dot")}},
		{"islands.components.golden", []string{"-f", "components", testdata("islands.dot")}},
		{"commented.debug.golden", []string{"--comments", testdata("commented.dot")}},
	}
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assertGolden(t, tt.golden, out)
		})
	}
}

func TestParseFailureIsReported(t *testing.T) {
	out, _, err := execute(t, testdata("mixed.dot"))
	require.NoError(t, err, "a parse failure does not fail the command")
	assert.Contains(t, out, "Unable to parse, error: line 3, col 4: ")
	assert.Contains(t, out, "edge operator -- is only valid in undirected graphs")
}

func TestCommentsNeedFlag(t *testing.T) {
	out, _, err := execute(t, testdata("commented.dot"))
	require.NoError(t, err)
	assert.Contains(t, out, "Unable to parse, error: line 1, col 1: ")
}

func TestFormatDOT(t *testing.T) {
	out, _, err := execute(t, "--format", "dot", testdata("chain.dot"))
	require.NoError(t, err)
	assert.Contains(t, out, "digraph pipeline {")
	assert.Contains(t, out, "build [shape=box]")
	assert.Contains(t, out, "fetch -> build")
}

func TestFormatAST(t *testing.T) {
	out, _, err := execute(t, "--format", "ast", testdata("chain.dot"))
	require.NoError(t, err)
	assert.Contains(t, out, "(*dotparser.Graph)")
	assert.Contains(t, out, "Directed: (bool) true")
	assert.Contains(t, out, `(string) (len=5) "fetch"`)
	assert.Contains(t, out, "(*dotparser.EdgeStmt)")
	assert.Contains(t, out, `From: (string) (len=5) "fetch"`)
	assert.Contains(t, out, `To: (string) (len=5) "build"`)
	assert.NotContains(t, out, "fetch -> build", "the descriptor is dumped, not rendered as DOT")
	assert.NotContains(t, out, "0xc0", "pointer addresses are not printed")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{testdata("nope.dot")}, "reading graph file"},
		{"unknown format", []string{"--format", "xml", testdata("chain.dot")}, `unknown format "xml"`},
		{"topo on undirected", []string{"--format", "topo", testdata("islands.dot")}, "topo: format is not available"},
		{"components on directed", []string{"--format", "components", testdata("chain.dot")}, "components: format is not available"},
		{"cycle", []string{"--format", "topo", testdata("cycle.dot")}, "graph has 1 cycle(s): [0 1]"},
		{"dangling", []string{testdata("dangling.dot")}, `statement 0: edge (a, b) references undeclared node "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestArgsRequired(t *testing.T) {
	_, _, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestLint(t *testing.T) {
	_, stderr, err := execute(t, "--lint", testdata("dangling.dot"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linting graph: validation failed with 2 error(s)")
	assert.Contains(t, stderr, "[ERROR] edge_endpoint_declared")

	out, stderr, err := execute(t, "--lint", testdata("islands.dot"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "[INFO] self_loop")
	assert.Contains(t, out, "Undirected {")
}

func TestVerbose(t *testing.T) {
	out, _, err := execute(t, "-v", testdata("chain.dot"))
	require.NoError(t, err)
	assert.Contains(t, out, "Directed {")
}
