package balance

import (
	"github.com/kilianp07/teambalance/core/model"
	"github.com/kilianp07/teambalance/core/relation"
	"github.com/kilianp07/teambalance/core/scoring"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TeamReport describes one team of a partition.
type TeamReport struct {
	Index   int             `json:"index"`
	Players []string        `json:"players"`
	Metrics scoring.Metrics `json:"metrics"`
}

// Report compares the teams of a partition.
type Report struct {
	Teams []TeamReport `json:"teams"`
	// ScoreSpread is the gap between the strongest and weakest team total.
	ScoreSpread float64 `json:"score_spread"`
	// ScoreStdDev is the standard deviation of team totals.
	ScoreStdDev float64 `json:"score_stddev"`
	SizeSpread  int     `json:"size_spread"`
	// SplitPartnerships lists partner pairs placed on different teams.
	SplitPartnerships []relation.Pair `json:"split_partnerships"`
	// SharedConflicts lists conflict pairs placed on the same team.
	SharedConflicts []relation.Pair `json:"shared_conflicts"`
}

// Summarize reports per-team metrics and the relations a partition breaks.
// Pairs naming players absent from teams are skipped.
func Summarize(teams []model.Team, partnerships, conflicts *relation.Graph) Report {
	r := Report{Teams: make([]TeamReport, len(teams))}
	if len(teams) == 0 {
		return r
	}
	totals := make([]float64, len(teams))
	minSize, maxSize := len(teams[0]), len(teams[0])
	for t, team := range teams {
		m := scoring.TeamMetrics(team)
		r.Teams[t] = TeamReport{Index: t, Players: team.Names(), Metrics: m}
		totals[t] = m.TotalScore
		minSize = min(minSize, len(team))
		maxSize = max(maxSize, len(team))
	}
	r.ScoreSpread = floats.Max(totals) - floats.Min(totals)
	r.ScoreStdDev = stat.PopStdDev(totals, nil)
	r.SizeSpread = maxSize - minSize

	for _, pr := range partnerships.Pairs() {
		ta, _ := model.FindPlayer(teams, pr.A)
		tb, _ := model.FindPlayer(teams, pr.B)
		if ta >= 0 && tb >= 0 && ta != tb {
			r.SplitPartnerships = append(r.SplitPartnerships, pr)
		}
	}
	for _, pr := range conflicts.Pairs() {
		ta, _ := model.FindPlayer(teams, pr.A)
		tb, _ := model.FindPlayer(teams, pr.B)
		if ta >= 0 && ta == tb {
			r.SharedConflicts = append(r.SharedConflicts, pr)
		}
	}
	return r
}
