package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentService_CreateTournament(t *testing.T) {
	var stored *models.Tournament
	repo := &FakeTournamentRepository{
		CreateFunc: func(ctx context.Context, t *models.Tournament) error {
			if t.SportID == 99 {
				return repositories.ErrTournamentInvalidSport
			}
			t.ID = 7
			stored = t
			return nil
		},
	}
	svc := NewTournamentService(repo, NewFakeTeamRepository(), NewFakeMatchRepository(), nil)
	ctx := context.Background()
	eight := 8
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		input   CreateTournamentInput
		wantErr error
	}{
		{name: "blank name", input: CreateTournamentInput{SportID: 1, Format: models.FormatRoundRobin}, wantErr: ErrValidationFailed},
		{name: "unknown format", input: CreateTournamentInput{Name: "Cup", SportID: 1, Format: "ladder"}, wantErr: brackets.ErrUnknownFormat},
		{name: "too few teams", input: CreateTournamentInput{Name: "Cup", SportID: 1, Format: models.FormatRoundRobin, MaxTeams: intPtr(1)}, wantErr: ErrValidationFailed},
		{name: "end before start", input: CreateTournamentInput{Name: "Cup", SportID: 1, Format: models.FormatRoundRobin, StartDate: &start, EndDate: &end}, wantErr: ErrValidationFailed},
		{name: "unknown sport", input: CreateTournamentInput{Name: "Cup", SportID: 99, Format: models.FormatRoundRobin}, wantErr: ErrSportNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTournament(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	created, err := svc.CreateTournament(ctx, CreateTournamentInput{Name: "Spring Cup", SportID: 1, Format: models.FormatSwiss})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	assert.Equal(t, models.DefaultMaxTeams, stored.MaxTeams)

	created, err = svc.CreateTournament(ctx, CreateTournamentInput{Name: "Summer Cup", SportID: 1, Format: models.FormatRoundRobin, MaxTeams: &eight})
	require.NoError(t, err)
	assert.Equal(t, 8, created.MaxTeams)
}

func TestTournamentService_GetTournamentAndAnalytics(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Lions", Seed: 1, Wins: 1, Points: 3},
		{ID: 2, Name: "Tigers", Seed: 2, Losses: 1},
		{ID: 3, Name: "Bears", Seed: 3},
	}
	teamRepo := NewFakeTeamRepository(teams...)
	teamRepo.PlayerCount[1] = 4
	matchRepo := NewFakeMatchRepository(completedMatch(1, 1, 2, 2, 0), scheduledMatch(2, 1, 3), scheduledMatch(3, 2, 3))
	tournaments := &FakeTournamentRepository{GetByIDFunc: tournamentLookup(models.FormatRoundRobin)}
	svc := NewTournamentService(tournaments, teamRepo, matchRepo, nil)
	ctx := context.Background()

	details, err := svc.GetTournament(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cup", details.Name)
	require.Len(t, details.Teams, 3)
	assert.Equal(t, "Lions", details.Teams[0].Name)

	analytics, err := svc.GetAnalytics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, analytics.TotalMatches)
	assert.Equal(t, 1, analytics.CompletedMatches)
	assert.Equal(t, 2, analytics.PendingMatches)
	require.Len(t, analytics.Standings, 3)
	assert.Equal(t, 4, analytics.Standings[0].PlayerCount)

	_, err = svc.GetTournament(ctx, 5)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	_, err = svc.GetAnalytics(ctx, 5)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
