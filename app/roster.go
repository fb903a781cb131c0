package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/teambalance/core/balance"
	"github.com/kilianp07/teambalance/core/model"
	"github.com/kilianp07/teambalance/core/relation"
)

// Roster is the input of a balancing run.
type Roster struct {
	Players      []model.Player  `json:"players"`
	Partnerships *relation.Graph `json:"partnerships,omitempty"`
	Conflicts    *relation.Graph `json:"conflicts,omitempty"`
	// Locks pins players to a zero-based team index.
	Locks balance.LockMap `json:"locks,omitempty"`
}

// LoadRoster reads a roster from a JSON or YAML file. A file holding a bare
// list is read as the players alone.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("roster %s: %w", path, err)
		}
	case ".json":
	default:
		return nil, fmt.Errorf("unsupported roster format: %s", ext)
	}
	r, err := ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// ParseRoster decodes and validates a JSON roster.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &r.Players); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Partnerships == nil {
		r.Partnerships = relation.New()
	}
	if r.Conflicts == nil {
		r.Conflicts = relation.New()
	}
	if err := r.Normalize(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Normalize canonicalises positions and rejects invalid or duplicate players.
func (r *Roster) Normalize() error {
	seen := make(map[string]bool, len(r.Players))
	for i := range r.Players {
		p := &r.Players[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Position != "" {
			pos, err := model.ParsePosition(string(p.Position))
			if err != nil {
				return fmt.Errorf("player %s: %w", p.Name, err)
			}
			p.Position = pos
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player %s", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Teams rebuilds teams from player names, looking each name up in the roster.
func (r *Roster) Teams(names [][]string) ([]model.Team, error) {
	byName := make(map[string]model.Player, len(r.Players))
	for _, p := range r.Players {
		byName[p.Name] = p
	}
	teams := make([]model.Team, len(names))
	for t, team := range names {
		teams[t] = make(model.Team, 0, len(team))
		for _, name := range team {
			p, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s is not in the roster", balance.ErrUnknownPlayer, name)
			}
			teams[t] = append(teams[t], p)
		}
	}
	return teams, nil
}

// yamlToJSON re-encodes a YAML document so the JSON field names and
// decoders apply to both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
