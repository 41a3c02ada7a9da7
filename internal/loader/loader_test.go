package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/markov/internal/rule"
)

func writeCUE(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_SingleAlgorithm(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "increment.cue", `
algorithm: "binary-increment": {
	rules: ["1 -> 0", "0 ->. 1", "! ->. 1"]
	input: "110"
}
`)

	result, errs := Load(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Algorithms, 1)

	algorithm := result.Algorithms[0]
	assert.Equal(t, "binary-increment", algorithm.Name)
	assert.Equal(t, "110", algorithm.Input)
	require.Equal(t, 3, algorithm.Rules.Len())

	statements := algorithm.Rules.Statements()
	assert.Equal(t, "1 -> 0", statements[0].String())
	assert.Equal(t, "0 ->. 1", statements[1].String())
	assert.Equal(t, "! ->. 1", statements[2].String())
	assert.Equal(t, "", statements[2].Pattern())
}

func TestLoad_MultipleAlgorithms(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "algorithms.cue", `
algorithm: "first": {
	rules: ["a -> b"]
	input: "a"
}
algorithm: "second": {
	rules: ["x ->. y"]
}
`)

	result, errs := Load(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Algorithms, 2)

	names := []string{result.Algorithms[0].Name, result.Algorithms[1].Name}
	assert.ElementsMatch(t, []string{"first", "second"}, names)
}

func TestLoad_InputOptional(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "a.cue", `
algorithm: "no-input": {
	rules: ["a -> b"]
}
`)

	result, errs := Load(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Algorithms, 1)
	assert.Equal(t, "", result.Algorithms[0].Input)
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "one.cue", `
algorithm: "direct": {
	rules: ["a ->. b"]
	input: "a"
}
`)

	result, errs := Load(filepath.Join(dir, "one.cue"), LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Algorithms, 1)
	assert.Equal(t, "direct", result.Algorithms[0].Name)
}

func TestLoad_NotACUEFile(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "readme.txt", "not cue")

	_, errs := Load(filepath.Join(dir, "readme.txt"), LoadModeFailFast)
	require.NotEmpty(t, errs)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoad_DirectoryNotFound(t *testing.T) {
	_, errs := Load("/nonexistent/path", LoadModeFailFast)
	require.Len(t, errs, 1)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoad_NoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "readme.txt", "not cue")

	_, errs := Load(dir, LoadModeFailFast)
	require.NotEmpty(t, errs)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoad_MissingAlgorithmField(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "other.cue", `something: "else"`)

	_, errs := Load(dir, LoadModeFailFast)
	require.NotEmpty(t, errs)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeBadAlgorithm, le.Code)
}

func TestLoad_MissingRules(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "a.cue", `
algorithm: "broken": {
	input: "abc"
}
`)

	_, errs := Load(dir, LoadModeFailFast)
	require.NotEmpty(t, errs)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeBadAlgorithm, le.Code)
	assert.Contains(t, le.Message, "rules")
}

func TestLoad_MalformedRuleKeepsValidationCode(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "a.cue", `
algorithm: "broken": {
	rules: ["a -> b", "!! -> c"]
	input: "a"
}
`)

	_, errs := Load(dir, LoadModeFailFast)
	require.NotEmpty(t, errs)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, rule.ErrCodeDoubledMarkerLHS, le.Code)
	assert.True(t, le.Pos.IsValid(), "error should carry the CUE position of the bad element")
}

func TestLoad_CollectAllGathersEveryError(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "a.cue", `
algorithm: "bad-rules": {
	rules: ["-> b", "a -> !!"]
}
algorithm: "good": {
	rules: ["a -> b"]
}
`)

	result, errs := Load(dir, LoadModeCollectAll)
	assert.Len(t, errs, 2, "one error per malformed rule")
	require.Len(t, result.Algorithms, 1, "the valid algorithm still compiles")
	assert.Equal(t, "good", result.Algorithms[0].Name)
}

func TestFindCUEFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeCUE(t, dir, "top.cue", `algorithm: "t": {rules: ["a -> b"]}`)
	writeCUE(t, sub, "deep.cue", `algorithm: "d": {rules: ["c -> d"]}`)
	writeCUE(t, dir, "skip.yaml", "ignored")

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
