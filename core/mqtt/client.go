package mqtt

import (
	"context"
	"time"
)

// Lineup is the announcement sent once teams have been generated.
type Lineup struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Strategy    string       `json:"strategy"`
	Status      string       `json:"status"`
	Teams       []LineupTeam `json:"teams"`
}

// LineupTeam lists the players of one team and their summed score.
type LineupTeam struct {
	Index   int      `json:"index"`
	Players []string `json:"players"`
	Total   float64  `json:"total"`
}

// Publisher announces generated lineups to subscribers.
type Publisher interface {
	// PublishLineup sends the lineup and returns the message identifier.
	PublishLineup(ctx context.Context, l Lineup) (string, error)
}
