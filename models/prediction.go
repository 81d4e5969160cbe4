package models

import "time"

type Prediction struct {
	ID                int       `json:"id" db:"id"`
	MatchID           int       `json:"match_id" db:"match_id"`
	PredictedWinnerID int       `json:"predicted_winner_id" db:"predicted_winner_id"`
	ConfidenceScore   float64   `json:"confidence_score" db:"confidence_score"`
	Analysis          string    `json:"analysis" db:"analysis"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// TeamSnapshot is the state of a team at the moment a prediction was made.
type TeamSnapshot struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Points int    `json:"points"`
}
