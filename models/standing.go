package models

// StandingEntry is one row of a ranked leaderboard.
type StandingEntry struct {
	Rank        int    `json:"rank"`
	TeamID      int    `json:"team_id"`
	Name        string `json:"name"`
	Seed        int    `json:"seed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Points      int    `json:"points"`
	PlayerCount int    `json:"player_count"`
}

type TournamentAnalytics struct {
	Standings        []StandingEntry `json:"standings"`
	TotalMatches     int             `json:"total_matches"`
	CompletedMatches int             `json:"completed_matches"`
	PendingMatches   int             `json:"pending_matches"`
}
