package lifecycle

import (
	"testing"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func scheduled() models.Match {
	return models.Match{ID: 1, TournamentID: 1, Round: 1, MatchNumber: 1, Team1ID: ptr(10), Team2ID: ptr(20), Status: models.MatchStatusScheduled}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		score1     int
		score2     int
		wantWinner int
		wantLoser  int
	}{
		{name: "team1 wins", score1: 3, score2: 1, wantWinner: 10, wantLoser: 20},
		{name: "team2 wins", score1: 0, score2: 2, wantWinner: 20, wantLoser: 10},
		{name: "tie goes to team1", score1: 2, score2: 2, wantWinner: 10, wantLoser: 20},
		{name: "goalless tie", score1: 0, score2: 0, wantWinner: 10, wantLoser: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(scheduled(), tt.score1, tt.score2)
			require.NoError(t, err)
			assert.Equal(t, Result{
				MatchID: 1,
				MatchResult: models.MatchResult{
					Team1Score: tt.score1,
					Team2Score: tt.score2,
					WinnerID:   tt.wantWinner,
					LoserID:    tt.wantLoser,
				},
			}, r)
		})
	}
}

func TestResolveRejects(t *testing.T) {
	completed := Apply(scheduled(), Result{MatchID: 1, MatchResult: models.MatchResult{Team1Score: 1, WinnerID: 10, LoserID: 20}})
	missingTeam := scheduled()
	missingTeam.Team2ID = nil
	unknown := scheduled()
	unknown.Status = "postponed"

	tests := []struct {
		name    string
		match   models.Match
		score1  int
		score2  int
		wantErr error
	}{
		{name: "negative score", match: scheduled(), score1: -1, score2: 2, wantErr: ErrInvalidScore},
		{name: "already completed", match: completed, score1: 1, score2: 0, wantErr: ErrMatchAlreadyCompleted},
		{name: "missing team", match: missingTeam, score1: 1, score2: 0, wantErr: ErrMatchNotPlayable},
		{name: "unknown status", match: unknown, score1: 1, score2: 0, wantErr: ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.match, tt.score1, tt.score2)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	m := scheduled()
	r, err := Resolve(m, 3, 1)
	require.NoError(t, err)

	got := Apply(m, r)

	assert.Equal(t, models.MatchStatusCompleted, got.Status)
	assert.Equal(t, 3, *got.Team1Score)
	assert.Equal(t, 1, *got.Team2Score)
	assert.Equal(t, 10, *got.WinnerID)
	assert.Equal(t, 20, *got.LoserID)
	assert.Equal(t, models.MatchStatusScheduled, m.Status, "original is untouched")
	assert.Nil(t, m.WinnerID)
}

func TestCorrect(t *testing.T) {
	first, err := Resolve(scheduled(), 3, 1)
	require.NoError(t, err)
	completed := Apply(scheduled(), first)

	c, err := Correct(completed, 1, 4)
	require.NoError(t, err)

	assert.Equal(t, first, c.Previous)
	assert.Equal(t, 20, c.Next.WinnerID)
	assert.Equal(t, 10, c.Next.LoserID)
	assert.Equal(t, 1, c.Next.Team1Score)
	assert.Equal(t, 4, c.Next.Team2Score)
}

func TestCorrectRejects(t *testing.T) {
	noResult := scheduled()
	noResult.Status = models.MatchStatusCompleted

	first, err := Resolve(scheduled(), 3, 1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		match   models.Match
		score1  int
		wantErr error
	}{
		{name: "scheduled match", match: scheduled(), score1: 1, wantErr: ErrMatchNotCompleted},
		{name: "completed without stored result", match: noResult, score1: 1, wantErr: ErrMatchNotCompleted},
		{name: "negative replacement", match: Apply(scheduled(), first), score1: -2, wantErr: ErrInvalidScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Correct(tt.match, tt.score1, 0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
