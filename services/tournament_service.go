package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/standings"
	"golang.org/x/sync/errgroup"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*TournamentDetails, error)
	GetAnalytics(ctx context.Context, id int) (*models.TournamentAnalytics, error)
}

type CreateTournamentInput struct {
	Name      string                  `json:"name"`
	SportID   int                     `json:"sport_id"`
	Format    models.TournamentFormat `json:"format"`
	MaxTeams  *int                    `json:"max_teams"`
	StartDate *time.Time              `json:"start_date"`
	EndDate   *time.Time              `json:"end_date"`
}

// TournamentDetails is a tournament with its teams in standings order.
type TournamentDetails struct {
	*models.Tournament
	Teams []models.Team `json:"teams"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         loggerOrDefault(logger),
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.SportID <= 0 {
		return nil, fmt.Errorf("%w: sport_id is required", ErrValidationFailed)
	}
	if !input.Format.IsKnown() {
		return nil, fmt.Errorf("%w: %q", brackets.ErrUnknownFormat, input.Format)
	}

	maxTeams := models.DefaultMaxTeams
	if input.MaxTeams != nil {
		maxTeams = *input.MaxTeams
	}
	if maxTeams < 2 {
		return nil, fmt.Errorf("%w: max_teams must be at least 2", ErrValidationFailed)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", ErrValidationFailed)
	}

	t := &models.Tournament{
		Name:      name,
		SportID:   input.SportID,
		Format:    input.Format,
		MaxTeams:  maxTeams,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentInvalidSport) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", t.ID), slog.String("format", string(t.Format)))
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Format != nil && !filter.Format.IsKnown() {
		return nil, fmt.Errorf("%w: %q", brackets.ErrUnknownFormat, *filter.Format)
	}
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*TournamentDetails, error) {
	var (
		tournament *models.Tournament
		teams      []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.getTournament(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListRanked(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TournamentDetails{Tournament: tournament, Teams: teams}, nil
}

func (s *tournamentService) GetAnalytics(ctx context.Context, id int) (*models.TournamentAnalytics, error) {
	if _, err := s.getTournament(ctx, id); err != nil {
		return nil, err
	}

	var (
		teams        []models.Team
		playerCounts map[int]int
		byStatus     map[models.MatchStatus]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListRanked(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		playerCounts, err = s.teamRepo.PlayerCounts(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.matchRepo.CountByStatus(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load analytics for tournament %d: %w", id, err)
	}

	completed := byStatus[models.MatchStatusCompleted]
	pending := byStatus[models.MatchStatusScheduled]
	return &models.TournamentAnalytics{
		Standings:        standings.Entries(teams, playerCounts),
		TotalMatches:     completed + pending,
		CompletedMatches: completed,
		PendingMatches:   pending,
	}, nil
}

func (s *tournamentService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}
