// Package scoring computes the fitness values used to compare players and
// teams.
package scoring

import (
	"github.com/kilianp07/teambalance/core/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Age and height are rescaled so that a typical player (25 years, 170 cm)
// contributes 5 points each, in line with the 1-10 skill scales.
const (
	ageDivisor    = 5.0
	heightDivisor = 34.0
)

// PlayerScore returns the scalar fitness of a player. Missing attributes use
// their neutral defaults, so an empty record scores exactly 25.
func PlayerScore(p model.Player) float64 {
	return float64(p.Running()) +
		float64(p.Goals()) +
		float64(p.AgeYears())/ageDivisor +
		float64(p.HeightCM())/heightDivisor +
		float64(p.Skill())
}

// Scores returns PlayerScore for each player, in order.
func Scores(players []model.Player) []float64 {
	out := make([]float64, len(players))
	for i, p := range players {
		out[i] = PlayerScore(p)
	}
	return out
}

// Metrics aggregates the attributes of one team.
type Metrics struct {
	AvgRunning float64                `json:"avg_running"`
	AvgGoals   float64                `json:"avg_goals"`
	AvgAge     float64                `json:"avg_age"`
	AvgHeight  float64                `json:"avg_height"`
	AvgSkill   float64                `json:"avg_skill"`
	TotalScore float64                `json:"total_score"`
	Positions  map[model.Position]int `json:"position_dist"`
}

func emptyPositions() map[model.Position]int {
	m := make(map[model.Position]int, len(model.Positions))
	for _, p := range model.Positions {
		m[p] = 0
	}
	return m
}

// TeamMetrics returns averages, the summed player score and the position
// distribution of a team. An empty team yields all zero values.
func TeamMetrics(team []model.Player) Metrics {
	m := Metrics{Positions: emptyPositions()}
	if len(team) == 0 {
		return m
	}
	running := make([]float64, len(team))
	goals := make([]float64, len(team))
	age := make([]float64, len(team))
	height := make([]float64, len(team))
	skill := make([]float64, len(team))
	for i, p := range team {
		running[i] = float64(p.Running())
		goals[i] = float64(p.Goals())
		age[i] = float64(p.AgeYears())
		height[i] = float64(p.HeightCM())
		skill[i] = float64(p.Skill())
		m.Positions[p.Role()]++
	}
	m.AvgRunning = stat.Mean(running, nil)
	m.AvgGoals = stat.Mean(goals, nil)
	m.AvgAge = stat.Mean(age, nil)
	m.AvgHeight = stat.Mean(height, nil)
	m.AvgSkill = stat.Mean(skill, nil)
	m.TotalScore = floats.Sum(Scores(team))
	return m
}
