package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeAlgorithms creates a temp directory holding one CUE file.
func writeAlgorithms(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "algorithms.cue"), []byte(content), 0o644))
	return dir
}

const incrementCUE = `
algorithm: "binary-increment": {
	rules: ["1x -> x0", "0x ->. 1", "x -> x"]
	input: "110"
}
`

func TestCompile_Text(t *testing.T) {
	dir := writeAlgorithms(t, incrementCUE)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "binary-increment")
	assert.Contains(t, output, "1x -> x0")
	assert.Contains(t, output, "Compiled 1 algorithm(s)")
}

func TestCompile_JSON(t *testing.T) {
	dir := writeAlgorithms(t, incrementCUE)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestCompile_MissingDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/algorithms"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompile_MalformedRulesCollected(t *testing.T) {
	dir := writeAlgorithms(t, `
algorithm: "broken": {
	rules: ["a -> b", "!! -> c", " -> d"]
	input: "a"
}
`)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Both malformed rules are reported, not just the first.
	output := buf.String()
	assert.Contains(t, output, "E105")
	assert.Contains(t, output, "E103")
}

func TestCompile_NormalizedRendering(t *testing.T) {
	// Compiled rules render in canonical statement form: the fat arrow
	// is normalized and empty-word sides render as the marker.
	dir := writeAlgorithms(t, `
algorithm: "normalize": {
	rules: ["a=>b", "! ->. x"]
	input: "a"
}
`)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "a -> b")
	assert.Contains(t, output, "! ->. x")
}
