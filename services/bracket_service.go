package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/metrics"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID int) (*BracketOutcome, error)
}

// BracketOutcome reports what GenerateBracket stored. Byes are informational:
// a bye is never written as a match.
type BracketOutcome struct {
	TournamentID   int                     `json:"tournament_id"`
	Format         models.TournamentFormat `json:"format"`
	MatchesCreated int                     `json:"matches_created"`
	Matches        []models.Match          `json:"matches"`
	Byes           []brackets.Bye          `json:"byes"`
}

type bracketService struct {
	transactor     db.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	notifier       Notifier
	metrics        metrics.Recorder
	logger         *slog.Logger
}

func NewBracketService(
	transactor db.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		transactor:     transactor,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		notifier:       notifierOrNoop(notifier),
		metrics:        recorderOrNoop(recorder),
		logger:         loggerOrDefault(logger),
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int) (outcome *BracketOutcome, err error) {
	defer track(ctx, s.metrics, "generate_bracket", &err)()

	err = s.transactor.WithinTx(ctx, func(exec db.Executor) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
		}

		existing, err := s.matchRepo.CountByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: %d matches exist", ErrBracketAlreadyGenerated, existing)
		}

		teams, err := s.teamRepo.ListByTournamentOrderedBySeed(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		bracket, err := brackets.Generate(ctx, tournament.Format, brackets.GenerateBracketParams{
			TournamentID: tournamentID,
			Teams:        teams,
		})
		if err != nil {
			return fmt.Errorf("failed to generate %s bracket for tournament %d: %w", tournament.Format, tournamentID, err)
		}

		created, err := s.matchRepo.CreateBatch(ctx, exec, bracket.Matches)
		if err != nil {
			return err
		}

		outcome = &BracketOutcome{
			TournamentID:   tournamentID,
			Format:         tournament.Format,
			MatchesCreated: len(created),
			Matches:        created,
			Byes:           bracket.Byes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMatchesCreated(ctx, string(outcome.Format), outcome.MatchesCreated)
	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(outcome.Format)),
		slog.Int("matches_created", outcome.MatchesCreated),
		slog.Int("byes", len(outcome.Byes)))
	s.notifier.Publish(tournamentID, brackets.EventBracketGenerated, outcome)
	return outcome, nil
}
