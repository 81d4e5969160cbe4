// Package lifecycle models the state of a match from scheduling to a final
// score, including the audited correction of an already completed match.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrInvalidScore          = errors.New("scores must be non-negative")
	ErrMatchNotPlayable      = errors.New("match does not have two teams assigned")
	ErrMatchAlreadyCompleted = errors.New("match is already completed; submit a correction instead")
	ErrMatchNotCompleted     = errors.New("match has no result to correct")
	ErrUnknownStatus         = errors.New("match has an unknown status")
)

// Result is an accepted score together with the standings it implies.
type Result struct {
	MatchID int
	models.MatchResult
}

// Correction pairs the result being replaced with its replacement.
type Correction struct {
	Previous Result
	Next     Result
}

// Resolve validates a score for a scheduled match and decides the winner.
// The side with the strictly greater score wins; an exact tie goes to team1.
func Resolve(m models.Match, score1, score2 int) (Result, error) {
	switch m.Status {
	case models.MatchStatusScheduled:
	case models.MatchStatusCompleted:
		return Result{}, fmt.Errorf("match %d: %w", m.ID, ErrMatchAlreadyCompleted)
	default:
		return Result{}, fmt.Errorf("match %d status %q: %w", m.ID, m.Status, ErrUnknownStatus)
	}
	return decide(m, score1, score2)
}

// Correct validates a replacement score for a completed match. The returned
// Previous result is what must be reversed from the standings.
func Correct(m models.Match, score1, score2 int) (Correction, error) {
	if m.Status != models.MatchStatusCompleted {
		return Correction{}, fmt.Errorf("match %d: %w", m.ID, ErrMatchNotCompleted)
	}
	prev, err := Recorded(m)
	if err != nil {
		return Correction{}, err
	}
	next, err := decide(m, score1, score2)
	if err != nil {
		return Correction{}, err
	}
	return Correction{Previous: prev, Next: next}, nil
}

// Recorded reads the result already stored on a completed match.
func Recorded(m models.Match) (Result, error) {
	if m.Team1Score == nil || m.Team2Score == nil || m.WinnerID == nil || m.LoserID == nil {
		return Result{}, fmt.Errorf("match %d is completed but has no stored result: %w", m.ID, ErrMatchNotCompleted)
	}
	return Result{
		MatchID: m.ID,
		MatchResult: models.MatchResult{
			Team1Score: *m.Team1Score,
			Team2Score: *m.Team2Score,
			WinnerID:   *m.WinnerID,
			LoserID:    *m.LoserID,
		},
	}, nil
}

func decide(m models.Match, score1, score2 int) (Result, error) {
	if score1 < 0 || score2 < 0 {
		return Result{}, fmt.Errorf("%w: got %d-%d", ErrInvalidScore, score1, score2)
	}
	if m.Team1ID == nil || m.Team2ID == nil {
		return Result{}, fmt.Errorf("match %d: %w", m.ID, ErrMatchNotPlayable)
	}

	winner, loser := *m.Team1ID, *m.Team2ID
	if score2 > score1 {
		winner, loser = loser, winner
	}

	return Result{
		MatchID: m.ID,
		MatchResult: models.MatchResult{
			Team1Score: score1,
			Team2Score: score2,
			WinnerID:   winner,
			LoserID:    loser,
		},
	}, nil
}

// Apply returns a copy of m carrying the result and marked completed.
func Apply(m models.Match, r Result) models.Match {
	s1, s2 := r.Team1Score, r.Team2Score
	w, l := r.WinnerID, r.LoserID
	m.Team1Score = &s1
	m.Team2Score = &s2
	m.WinnerID = &w
	m.LoserID = &l
	m.Status = models.MatchStatusCompleted
	return m
}
