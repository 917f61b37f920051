package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsniff/internal"
	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/lint"
)

func init() {
	lint.Progress = nil
}

// misalignedDump is
//
//	<?php
//	if ($a) {
//	  }
const misalignedDump = `
tokens:
  - {kind: T_OPEN_TAG, text: "<?php\n"}
  - {kind: T_IF, text: "if"}
  - {kind: T_WHITESPACE, text: " "}
  - {kind: T_OPEN_PARENTHESIS, text: "("}
  - {kind: T_VARIABLE, text: "$a"}
  - {kind: T_CLOSE_PARENTHESIS, text: ")"}
  - {kind: T_WHITESPACE, text: " "}
  - {kind: T_OPEN_CURLY_BRACKET, text: "{"}
  - {kind: T_WHITESPACE, text: "\n  "}
  - {kind: T_CLOSE_CURLY_BRACKET, text: "}"}
  - {kind: T_WHITESPACE, text: "\n"}
scopes:
  - {condition: 1, opener: 7, closer: 9}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("lint", pflag.ContinueOnError)
	flags.String("cache-dir", "", "")
	flags.StringSlice("extensions", nil, "")
	return flags
}

// The tests below share the package-level flag variables, so none of them
// runs in parallel.

func TestRunLint_Text(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tokens", misalignedDump)
	cfgFile = writeFile(t, dir, "tsniff.yaml", "rules: {}\n")
	t.Cleanup(func() { cfgFile = "" })

	var out bytes.Buffer
	count, err := runLint(context.Background(), testFlags(), &out, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Contains(t, out.String(), "scope-closing-brace.Indent")
	assert.Contains(t, out.String(), "Closing brace indented incorrectly; expected 0 spaces, found 2")
	assert.Contains(t, out.String(), "3 |   }")
}

func TestRunLint_IgnoreAndJSON(t *testing.T) {
	dir := t.TempDir()
	dump := writeFile(t, dir, "a.tokens", misalignedDump)
	cfgFile = writeFile(t, dir, "tsniff.yaml", "rules:\n  scope-closing-brace:\n    severity: warning\n")
	lintJsonOutput = true
	t.Cleanup(func() {
		cfgFile = ""
		lintJsonOutput = false
		ignoreRules = ""
	})

	var out bytes.Buffer
	count, err := runLint(context.Background(), testFlags(), &out, []string{dump})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	var byFile map[string][]tt.Issue
	require.NoError(t, json.Unmarshal(out.Bytes(), &byFile))
	require.Len(t, byFile[dump], 1)
	assert.Equal(t, tt.SeverityWarning, byFile[dump][0].Severity)
	assert.Equal(t, "Indent", byFile[dump][0].Code)

	ignoreRules = "multiple-blank-line, scope-closing-brace.Indent"
	out.Reset()
	count, err = runLint(context.Background(), testFlags(), &out, []string{dump})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunLint_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile = writeFile(t, dir, "tsniff.yaml", "rules:\n  scope-closing-brace:\n    options:\n      width: 2\n")
	t.Cleanup(func() { cfgFile = "" })

	_, err := runLint(context.Background(), testFlags(), &bytes.Buffer{}, []string{dir})
	assert.Error(t, err)
}

func TestPrintIssues_JSONFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "issues.json")
	issues := []tt.Issue{{Rule: "multiple-blank-line", Code: "MultipleBlankLines", Filename: "a.tokens"}}

	require.NoError(t, printIssues(&bytes.Buffer{}, issues, true, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"error"`)
	assert.Contains(t, string(data), `"a.tokens"`)
}

func TestInitConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tsniff.yaml")
	require.NoError(t, initConfigurationFile(path))

	cfg, err := lint.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultName, cfg.Name)
	assert.Len(t, cfg.Rules, 3)
	assert.Equal(t, tt.SeverityError, cfg.Rules["valid-function-name"].Severity)
	assert.EqualValues(t, 2, cfg.Rules["scope-closing-brace"].Options["indent"])

	_, err = lint.New(cfg, nil)
	assert.NoError(t, err)
}

func TestRenderRules(t *testing.T) {
	engine, err := internal.NewEngine(map[string]tt.ConfigRule{
		"multiple-blank-line": {Severity: tt.SeverityOff},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	renderRules(&out, engine)

	table := out.String()
	for _, want := range []string{"multiple-blank-line", "scope-closing-brace", "valid-function-name", "BreakIdent", "T_FUNCTION", "off"} {
		assert.Contains(t, table, want)
	}
}

func TestWrapList(t *testing.T) {
	assert.Equal(t, "a, b\nc", wrapList([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "", wrapList(nil, 2))
}
