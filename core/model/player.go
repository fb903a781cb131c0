package model

import (
	"fmt"
	"strings"
)

// Position is the preferred playing position of a player.
type Position string

const (
	Forward    Position = "Forward"
	Midfielder Position = "Midfielder"
	Defender   Position = "Defender"
	Goalkeeper Position = "Goalkeeper"
)

// Positions lists every known position in display order.
var Positions = []Position{Forward, Midfielder, Defender, Goalkeeper}

// Neutral values used when an attribute was not supplied.
const (
	DefaultSkill  = 5
	DefaultAge    = 25
	DefaultHeight = 170
)

// ParsePosition converts a case-insensitive name into a Position.
// An empty string maps to Midfielder.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Midfielder, nil
	}
	for _, p := range Positions {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Player is a roster entry. Numeric attributes left at zero were not
// supplied and read back as their neutral default through the accessors.
type Player struct {
	Name           string   `json:"name"`
	Position       Position `json:"position,omitempty"`
	RunningAbility int      `json:"running_ability,omitempty"` // 1-10
	GoalScoring    int      `json:"goal_scoring,omitempty"`    // 1-10
	OverallSkill   int      `json:"overall_skill,omitempty"`   // 1-10
	Age            int      `json:"age,omitempty"`
	Height         int      `json:"height,omitempty"` // cm
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Running returns the running ability or the neutral default.
func (p Player) Running() int { return orDefault(p.RunningAbility, DefaultSkill) }

// Goals returns the goal scoring ability or the neutral default.
func (p Player) Goals() int { return orDefault(p.GoalScoring, DefaultSkill) }

// Skill returns the overall skill or the neutral default.
func (p Player) Skill() int { return orDefault(p.OverallSkill, DefaultSkill) }

// AgeYears returns the age or the neutral default.
func (p Player) AgeYears() int { return orDefault(p.Age, DefaultAge) }

// HeightCM returns the height or the neutral default.
func (p Player) HeightCM() int { return orDefault(p.Height, DefaultHeight) }

// Role returns the position, defaulting to Midfielder when unset.
func (p Player) Role() Position {
	if p.Position == "" {
		return Midfielder
	}
	return p.Position
}

// Validate checks that the player can take part in a balancing run.
func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Position != "" && !p.Position.Valid() {
		return fmt.Errorf("player %s: unknown position %q", p.Name, p.Position)
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"running_ability", p.RunningAbility},
		{"goal_scoring", p.GoalScoring},
		{"overall_skill", p.OverallSkill},
	} {
		if f.value < 0 || f.value > 10 {
			return fmt.Errorf("player %s: %s must be within 1-10, got %d", p.Name, f.name, f.value)
		}
	}
	if p.Age < 0 || p.Height < 0 {
		return fmt.Errorf("player %s: age and height must not be negative", p.Name)
	}
	return nil
}
