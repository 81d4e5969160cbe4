package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Team1ID      *int        `json:"team1_id" db:"team1_id"`
	Team2ID      *int        `json:"team2_id" db:"team2_id"`
	Team1Score   *int        `json:"team1_score" db:"team1_score"`
	Team2Score   *int        `json:"team2_score" db:"team2_score"`
	WinnerID     *int        `json:"winner_id" db:"winner_id"`
	LoserID      *int        `json:"loser_id" db:"loser_id"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	Team1Name  *string `json:"team1_name,omitempty" db:"-"`
	Team2Name  *string `json:"team2_name,omitempty" db:"-"`
	WinnerName *string `json:"winner_name,omitempty" db:"-"`
}

// MatchDraft is a match produced by the bracket generator before it is stored.
type MatchDraft struct {
	TournamentID int `json:"tournament_id"`
	Round        int `json:"round"`
	MatchNumber  int `json:"match_number"`
	Team1ID      int `json:"team1_id"`
	Team2ID      int `json:"team2_id"`
}

// MatchResult is the outcome written to a match when a score is accepted.
type MatchResult struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
	WinnerID   int `json:"winner_id"`
	LoserID    int `json:"loser_id"`
}

// ScoreCorrection is the audit record of a completed match being re-scored.
type ScoreCorrection struct {
	ID                 int       `json:"id" db:"id"`
	MatchID            int       `json:"match_id" db:"match_id"`
	PreviousTeam1Score int       `json:"previous_team1_score" db:"previous_team1_score"`
	PreviousTeam2Score int       `json:"previous_team2_score" db:"previous_team2_score"`
	PreviousWinnerID   int       `json:"previous_winner_id" db:"previous_winner_id"`
	Team1Score         int       `json:"team1_score" db:"team1_score"`
	Team2Score         int       `json:"team2_score" db:"team2_score"`
	WinnerID           int       `json:"winner_id" db:"winner_id"`
	CorrectedBy        int       `json:"corrected_by" db:"corrected_by"`
	Reason             *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
