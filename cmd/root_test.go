package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterJSON = `{
  "players": [
    {"name": "alice", "overall_skill": 9},
    {"name": "bob", "overall_skill": 7},
    {"name": "carol", "overall_skill": 5},
    {"name": "dave", "overall_skill": 3}
  ],
  "partnerships": {"alice": ["dave"]}
}`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, ExecuteContext(context.Background()), out.String())
	return out.String()
}

func writeTemp(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestBalanceCommand(t *testing.T) {
	dir := t.TempDir()
	roster := writeTemp(t, dir, "roster.json", rosterJSON)
	chartPath := filepath.Join(dir, "teams.html")

	raw := execute(t, "balance", roster, "--teams", "2", "--strategy", "greedy",
		"--no-history", "--chart", chartPath, "--log-level", "error")

	var out lineupOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	assert.Equal(t, "greedy", out.Strategy)
	assert.Equal(t, "heuristic", out.Status)
	require.Len(t, out.Teams, 2)
	assert.Len(t, out.Teams[0], 2)
	assert.NotEmpty(t, out.RunID)

	html, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Team balance")
}

func TestSwapAndHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	roster := writeTemp(t, dir, "roster.json", rosterJSON)
	conf := writeTemp(t, dir, "config.yaml", "history:\n  backend: sqlite\n  path: "+filepath.Join(dir, "games.db")+"\n")

	raw := execute(t, "balance", roster, "-c", conf, "--strategy", "greedy", "--no-history=false", "--chart", "")
	var first lineupOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &first))

	a, b := first.Teams[0][0], first.Teams[1][0]
	raw = execute(t, "swap", roster, first.RunID, a, b, "-c", conf)
	var swapped lineupOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &swapped))
	assert.Contains(t, swapped.Teams[1], a)
	assert.Contains(t, swapped.Teams[0], b)

	raw = execute(t, "history", "-c", conf, "--player", a)
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	assert.Len(t, lines, 2)
	raw = execute(t, "history", "-c", conf, "--strategy", "manual", "--player", "")
	assert.Len(t, strings.Split(strings.TrimSpace(raw), "\n"), 1)

	raw = execute(t, "history", "-c", conf, "--strategy", "", "--format", "csv")
	lines = strings.Split(strings.TrimSpace(raw), "\n")
	assert.Equal(t, "game_id,timestamp,strategy,status,team,player", lines[0])
	assert.Len(t, lines, 1+2*4)
}
