package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subarray/internal/config"
	"subarray/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// setupGlobals installs a default config and a silent logger.
func setupGlobals(t *testing.T) *config.Config {
	t.Helper()
	cfg = config.DefaultConfig()
	logger = zap.NewNop()
	algorithmFlag, targetFlag, outputFlag = "", 0, outputText
	historyLimit = 20
	t.Cleanup(func() {
		cfg = nil
		algorithmFlag, targetFlag, outputFlag = "", 0, outputText
	})
	return cfg
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestParseValues(t *testing.T) {
	values, err := parseValues([]string{"-2", "3,-1", " 4 , -5", "2.5e1"})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 3, -1, 4, -5, 25}, values)

	empty, err := parseValues(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = parseValues([]string{"1,x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)

	_, err = parseValues([]string{"NaN"})
	assert.Error(t, err)
	_, err = parseValues([]string{"inf"})
	assert.Error(t, err)
}

func TestRunAnalyze_Text(t *testing.T) {
	setupGlobals(t)
	cmd, buf := newTestCmd()

	require.NoError(t, runAnalyze(cmd, []string{"-2,3,-1,4,-5"}))
	assert.Contains(t, buf.String(), "Kadane")
	assert.Contains(t, buf.String(), "[1..3]")
	assert.Contains(t, buf.String(), "total=6")
}

func TestRunAnalyze_JSONPrefixSumFromConfig(t *testing.T) {
	c := setupGlobals(t)
	c.Analysis.Algorithm = "prefixsum"
	c.Analysis.Target = 5
	outputFlag = outputJSON
	cmd, buf := newTestCmd()

	require.NoError(t, runAnalyze(cmd, []string{"1", "2", "2", "3"}))

	var doc resultDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, resultDoc{Algorithm: "PrefixSum", StartIndex: 0, EndIndex: 2, Total: 5, Found: true}, doc)
}

func TestRunAnalyze_YAMLNoMatch(t *testing.T) {
	setupGlobals(t)
	algorithmFlag = "targetsum"
	outputFlag = outputYAML
	cmd, buf := newTestCmd()

	require.NoError(t, runAnalyze(cmd, []string{"1,2,3,4"}))

	var doc resultDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, -1, doc.StartIndex)
	assert.Equal(t, -1, doc.EndIndex)
	assert.False(t, doc.Found)
}

func TestRunAnalyze_Errors(t *testing.T) {
	setupGlobals(t)
	cmd, _ := newTestCmd()

	algorithmFlag = "bogus"
	assert.Error(t, runAnalyze(cmd, []string{"1"}))

	algorithmFlag = ""
	outputFlag = "xml"
	assert.Error(t, runAnalyze(cmd, []string{"1"}))

	outputFlag = outputText
	assert.Error(t, runAnalyze(cmd, []string{"one"}))
}

func TestRunAnalyze_InvalidOutputRecordsNothing(t *testing.T) {
	c := setupGlobals(t)
	c.History.DatabasePath = filepath.Join(t.TempDir(), "history.db")
	outputFlag = "xml"
	cmd, buf := newTestCmd()

	err := runAnalyze(cmd, []string{"1,2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
	assert.Empty(t, buf.String())

	hs, err := store.NewHistoryStore(c.History.DatabasePath, nil)
	require.NoError(t, err)
	defer hs.Close()

	runs, err := hs.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs, "a failed command must not leave a history row")
}

func TestRunAnalyze_RecordsHistory(t *testing.T) {
	c := setupGlobals(t)
	c.History.DatabasePath = filepath.Join(t.TempDir(), "history.db")
	outputFlag = outputJSON

	cmd, buf := newTestCmd()
	require.NoError(t, runAnalyze(cmd, []string{"-5,-1,-8"}))

	var doc resultDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, 1, doc.StartIndex)

	cmd, buf = newTestCmd()
	require.NoError(t, runHistory(cmd, nil))
	out := buf.String()
	assert.Contains(t, out, doc.RunID)
	assert.Contains(t, out, "[-5 -1 -8]")
}

// recordOne runs analyze with history enabled and returns the run ID.
func recordOne(t *testing.T, c *config.Config, algorithm string, values string) string {
	t.Helper()
	c.History.DatabasePath = filepath.Join(t.TempDir(), "history.db")
	algorithmFlag, outputFlag = algorithm, outputJSON
	defer func() { algorithmFlag, outputFlag = "", outputText }()

	cmd, buf := newTestCmd()
	require.NoError(t, runAnalyze(cmd, []string{values}))

	var doc resultDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.NotEmpty(t, doc.RunID)
	return doc.RunID
}

func TestRunHistoryShow_Replays(t *testing.T) {
	c := setupGlobals(t)
	c.Analysis.Target = 5
	id := recordOne(t, c, "prefixsum", "1,2,2,3")

	cmd, buf := newTestCmd()
	require.NoError(t, runHistoryShow(cmd, []string{id}))

	out := buf.String()
	assert.Contains(t, out, id)
	assert.Contains(t, out, "[1 2 2 3]")
	assert.Contains(t, out, "[0..2]")
	assert.Contains(t, out, "replay matches")
}

func TestRunHistoryShow_NotFound(t *testing.T) {
	c := setupGlobals(t)
	recordOne(t, c, "kadane", "1")

	cmd, _ := newTestCmd()
	assert.ErrorIs(t, runHistoryShow(cmd, []string{"no-such-run"}), store.ErrRunNotFound)
}

func TestRunHistoryShow_DetectsMismatch(t *testing.T) {
	c := setupGlobals(t)
	id := recordOne(t, c, "kadane", "-2,3,-1,4,-5")

	db, err := sql.Open("sqlite", c.History.DatabasePath)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE analysis_runs SET total = 99 WHERE id = ?`, id)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cmd, _ := newTestCmd()
	err = runHistoryShow(cmd, []string{id})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differs")
}

func TestRunHistory_ShortRunID(t *testing.T) {
	c := setupGlobals(t)
	recordOne(t, c, "kadane", "1")

	db, err := sql.Open("sqlite", c.History.DatabasePath)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO analysis_runs (id, algorithm, target, input_json, start_index, end_index, total, created_at)
		VALUES ('x', 'Kadane', 0, '[4]', 0, 0, 4, 1)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cmd, buf := newTestCmd()
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, buf.String(), "[4]")
}

func TestRunHistory_Disabled(t *testing.T) {
	setupGlobals(t)
	cmd, _ := newTestCmd()
	assert.ErrorIs(t, runHistory(cmd, nil), errHistoryDisabled)
	assert.ErrorIs(t, runHistoryShow(cmd, []string{"id"}), errHistoryDisabled)
}

func TestRunHistory_Empty(t *testing.T) {
	c := setupGlobals(t)
	c.History.DatabasePath = filepath.Join(t.TempDir(), "history.db")
	cmd, buf := newTestCmd()

	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, buf.String(), "no recorded analyses")
}

func TestRunCompare(t *testing.T) {
	setupGlobals(t)
	cmd, buf := newTestCmd()

	require.NoError(t, runCompare(cmd, []string{"2,-2,3,1,-4"}))
	out := buf.String()
	assert.Contains(t, out, "Kadane")
	assert.Contains(t, out, "PrefixSum")
	assert.Contains(t, out, "5 values, target 0")
}

func TestRunBattery(t *testing.T) {
	setupGlobals(t)
	cmd, buf := newTestCmd()

	path := filepath.Join("..", "..", "internal", "battery", "testdata", "baseline.yaml")
	require.NoError(t, runBattery(cmd, []string{path}))
	assert.Contains(t, buf.String(), "10 passed, 0 failed")
}

func TestRunBattery_Failure(t *testing.T) {
	setupGlobals(t)
	path := filepath.Join(t.TempDir(), "battery.yaml")
	content := `version: 1
cases:
  - id: wrong
    algorithm: kadane
    values: [1, 2]
    expect: {start: 0, end: 0, total: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cmd, buf := newTestCmd()
	err := runBattery(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 cases failed")
	assert.Contains(t, buf.String(), "FAIL")
}

func TestListAlgorithms(t *testing.T) {
	setupGlobals(t)
	cmd, buf := newTestCmd()

	require.NoError(t, listAlgorithms(cmd, nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Kadane")
	assert.Contains(t, lines[1], "PrefixSum")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	for _, key := range []string{"SUBARRAY_ALGORITHM", "SUBARRAY_TARGET", "SUBARRAY_HISTORY_DB", "SUBARRAY_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	setupGlobals(t)

	path := filepath.Join(t.TempDir(), "subarray.yaml")
	content := "analysis:\n  algorithm: prefixsum\n  target: 0\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", path, "analyze", "-o", "json", "0,0,0"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath = config.DefaultPath
	})

	require.NoError(t, rootCmd.Execute())

	var doc resultDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "PrefixSum", doc.Algorithm)
	assert.Equal(t, 0, doc.StartIndex)
	assert.Equal(t, 2, doc.EndIndex)
}
