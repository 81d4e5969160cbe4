package models

import "time"

// Team belongs to exactly one tournament. Wins, Losses and Points are a cache
// of the completed match log and are written only by the standings aggregator.
type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Seed         int       `json:"seed" db:"seed"`
	Wins         int       `json:"wins" db:"wins"`
	Losses       int       `json:"losses" db:"losses"`
	Points       int       `json:"points" db:"points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Players []Player `json:"players,omitempty" db:"-"`
}

// StatsDelta is a signed change to a team's aggregate counters.
type StatsDelta struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Points int `json:"points"`
}

func (d StatsDelta) IsZero() bool {
	return d.Wins == 0 && d.Losses == 0 && d.Points == 0
}
