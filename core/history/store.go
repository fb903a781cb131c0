// Package history keeps a log of generated lineups so past games can be
// reviewed and queried by player, strategy or time range.
package history

import (
	"context"
	"sort"
	"time"
)

// Record captures one generated lineup.
type Record struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	NumTeams    int        `json:"num_teams"`
	Strategy    string     `json:"strategy"`
	Status      string     `json:"status"`
	Fallback    string     `json:"fallback,omitempty"`
	ScoreSpread float64    `json:"score_spread"`
	Teams       [][]string `json:"teams"`
}

// Has reports whether the named player appears in the lineup.
func (r Record) Has(player string) bool {
	for _, team := range r.Teams {
		for _, name := range team {
			if name == player {
				return true
			}
		}
	}
	return false
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start    time.Time
	End      time.Time
	Player   string
	Strategy string
	// Limit keeps only the most recent records when positive.
	Limit int
}

// Match reports whether r passes every filter of q except Limit.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Strategy != "" && r.Strategy != q.Strategy {
		return false
	}
	if q.Player != "" && !r.Has(q.Player) {
		return false
	}
	return true
}

// finish orders records chronologically and applies the limit.
func (q Query) finish(res []Record) []Record {
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[len(res)-q.Limit:]
	}
	return res
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
