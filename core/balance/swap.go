package balance

import (
	"errors"
	"fmt"

	"github.com/kilianp07/teambalance/core/model"
)

var (
	// ErrUnknownPlayer is returned when a swapped name is in no team.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrSameTeam is returned when both players already share a team.
	ErrSameTeam = errors.New("players are on the same team")
	// ErrLocked is returned when a swap would move a locked player.
	ErrLocked = errors.New("player is locked")
)

// Swap exchanges players a and b between their teams and returns the new
// partition. teams is left untouched. Players present in locks cannot be
// moved; pass nil to skip that check.
func Swap(teams []model.Team, a, b string, locks LockMap) ([]model.Team, error) {
	ta, ia := model.FindPlayer(teams, a)
	if ta < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, a)
	}
	tb, ib := model.FindPlayer(teams, b)
	if tb < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, b)
	}
	if ta == tb {
		return nil, fmt.Errorf("%w: %s and %s on team %d", ErrSameTeam, a, b, ta)
	}
	for _, name := range []string{a, b} {
		if t, ok := locks[name]; ok {
			return nil, fmt.Errorf("%w: %s on team %d", ErrLocked, name, t)
		}
	}

	out := make([]model.Team, len(teams))
	for t, team := range teams {
		out[t] = append(model.Team{}, team...)
	}
	out[ta][ia], out[tb][ib] = out[tb][ib], out[ta][ia]
	return out, nil
}
