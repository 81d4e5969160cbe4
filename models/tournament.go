package models

import "time"

// TournamentFormat is the bracket format a tournament is played under.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatSwiss             TournamentFormat = "swiss"
)

const DefaultMaxTeams = 16

// IsKnown reports whether f is one of the formats a tournament may be created with.
// Being known does not mean a bracket can be generated for it.
func (f TournamentFormat) IsKnown() bool {
	switch f {
	case FormatSingleElimination, FormatRoundRobin, FormatDoubleElimination, FormatSwiss:
		return true
	}
	return false
}

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	SportID   int              `json:"sport_id" db:"sport_id"`
	Format    TournamentFormat `json:"format" db:"format"`
	MaxTeams  int              `json:"max_teams" db:"max_teams"`
	StartDate *time.Time       `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time       `json:"end_date,omitempty" db:"end_date"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	SportName string `json:"sport_name,omitempty" db:"-"`
}
