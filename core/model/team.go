package model

// Team is an unordered group of players produced by a balancing run.
type Team []Player

// Names returns the player names in team order.
func (t Team) Names() []string {
	names := make([]string, len(t))
	for i, p := range t {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether a player with the given name is on the team.
func (t Team) Contains(name string) bool {
	for _, p := range t {
		if p.Name == name {
			return true
		}
	}
	return false
}

// FindPlayer returns the index of the team holding name and the player's
// index within it, or -1, -1 when absent.
func FindPlayer(teams []Team, name string) (int, int) {
	for ti, t := range teams {
		for pi, p := range t {
			if p.Name == name {
				return ti, pi
			}
		}
	}
	return -1, -1
}
