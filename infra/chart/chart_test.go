package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/teambalance/core/balance"
	"github.com/kilianp07/teambalance/core/scoring"
)

func TestTeamsHTML(t *testing.T) {
	r := balance.Report{
		Teams: []balance.TeamReport{
			{Index: 0, Players: []string{"alice", "bob"}, Metrics: scoring.Metrics{TotalScore: 51, AvgSkill: 7}},
			{Index: 1, Players: []string{"carol"}, Metrics: scoring.Metrics{TotalScore: 72, AvgSkill: 9}},
		},
		ScoreSpread: 21,
		SizeSpread:  1,
	}
	html, err := TeamsHTML(r)
	require.NoError(t, err)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Team balance")
	assert.Contains(t, html, "Team 1 (2)")
	assert.Contains(t, html, "Team 2 (1)")
	assert.Contains(t, html, "score spread 21.00")
}
