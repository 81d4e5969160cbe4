// Package prediction estimates the winner of a match from the two teams'
// current records.
package prediction

import (
	"fmt"
	"math"
)

const (
	UnratedWinRate = 0.5

	MinConfidence = 55.0
	MaxConfidence = 95.0

	pointThreshold   = 3
	winRateThreshold = 0.2

	baseConfidence  = 60.0
	pointWeight     = 5.0
	winRateWeight   = 50.0
	closeConfidence = MinConfidence
)

// Branch names which rule produced an outcome.
type Branch string

const (
	BranchTeam1Favored Branch = "team1_favored"
	BranchTeam2Favored Branch = "team2_favored"
	BranchClose        Branch = "close"
)

type TeamStats struct {
	ID     int
	Name   string
	Wins   int
	Losses int
	Points int
}

// WinRate is wins over games played, or UnratedWinRate for a team that has
// not played.
func (s TeamStats) WinRate() float64 {
	played := s.Wins + s.Losses
	if played <= 0 {
		return UnratedWinRate
	}
	return float64(s.Wins) / float64(played)
}

type Outcome struct {
	WinnerID   int     `json:"winner_id"`
	Winner     string  `json:"winner"`
	Confidence float64 `json:"confidence"`
	Analysis   string  `json:"analysis"`
	Branch     Branch  `json:"branch"`
}

// Predict picks a winner between team1 and team2.
//
// A point lead over 3 or a win-rate lead over 0.2 makes a team the favourite,
// with team1 checked first. Otherwise the matchup is close: the team with at
// least as many points is picked (team1 on a tie) at the minimum confidence.
func Predict(team1, team2 TeamStats) Outcome {
	pointDiff := team1.Points - team2.Points
	winRateDiff := team1.WinRate() - team2.WinRate()

	switch {
	case pointDiff > pointThreshold || winRateDiff > winRateThreshold:
		return Outcome{
			WinnerID:   team1.ID,
			Winner:     team1.Name,
			Confidence: confidence(pointDiff, winRateDiff),
			Analysis: fmt.Sprintf("%s has a strong advantage with %d points vs %d. Their %d-%d record shows consistent performance.",
				team1.Name, team1.Points, team2.Points, team1.Wins, team1.Losses),
			Branch: BranchTeam1Favored,
		}
	case pointDiff < -pointThreshold || winRateDiff < -winRateThreshold:
		return Outcome{
			WinnerID:   team2.ID,
			Winner:     team2.Name,
			Confidence: confidence(pointDiff, winRateDiff),
			Analysis: fmt.Sprintf("%s leads with %d points vs %d. Their superior %d-%d record gives them the edge.",
				team2.Name, team2.Points, team1.Points, team2.Wins, team2.Losses),
			Branch: BranchTeam2Favored,
		}
	default:
		winner := team1
		if team2.Points > team1.Points {
			winner = team2
		}
		return Outcome{
			WinnerID:   winner.ID,
			Winner:     winner.Name,
			Confidence: closeConfidence,
			Analysis: fmt.Sprintf("Very close matchup! %s (%d points, %d-%d) and %s (%d points, %d-%d) are evenly matched. Expect a competitive game, with a slight lean to %s.",
				team1.Name, team1.Points, team1.Wins, team1.Losses,
				team2.Name, team2.Points, team2.Wins, team2.Losses,
				winner.Name),
			Branch: BranchClose,
		}
	}
}

// confidence is rounded to two decimals, the precision of the stored column.
func confidence(pointDiff int, winRateDiff float64) float64 {
	c := baseConfidence + math.Abs(float64(pointDiff))*pointWeight + math.Abs(winRateDiff)*winRateWeight
	c = math.Max(MinConfidence, math.Min(c, MaxConfidence))
	return math.Round(c*100) / 100
}
