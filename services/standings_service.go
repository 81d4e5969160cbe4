package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/lifecycle"
	"github.com/Dosada05/tournament-manager/metrics"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/standings"
	"github.com/Dosada05/tournament-manager/storage"
	"golang.org/x/sync/errgroup"
)

// StandingsService is the only writer of team win/loss/point counters.
type StandingsService interface {
	// ApplyResult credits the winner and debits the loser of r inside exec's transaction.
	ApplyResult(ctx context.Context, exec repositories.SQLExecutor, r lifecycle.Result) error
	// ReverseResult undoes a previously applied r inside exec's transaction.
	ReverseResult(ctx context.Context, exec repositories.SQLExecutor, r lifecycle.Result) error
	GetStandings(ctx context.Context, tournamentID int) ([]models.StandingEntry, error)
	Recount(ctx context.Context, tournamentID int) (*RecountResult, error)
	Export(ctx context.Context, tournamentID int) (*storage.UploadResult, error)
}

type RecountResult struct {
	TournamentID  int                       `json:"tournament_id"`
	TeamsAdjusted int                       `json:"teams_adjusted"`
	Drift         map[int]models.StatsDelta `json:"drift"`
}

// StandingsExport is the document uploaded by Export.
type StandingsExport struct {
	TournamentID int                    `json:"tournament_id"`
	Tournament   string                 `json:"tournament"`
	GeneratedAt  time.Time              `json:"generated_at"`
	Standings    []models.StandingEntry `json:"standings"`
}

type standingsService struct {
	transactor     db.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
	notifier       Notifier
	metrics        metrics.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

func NewStandingsService(
	transactor db.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		transactor:     transactor,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		notifier:       notifierOrNoop(notifier),
		metrics:        recorderOrNoop(recorder),
		logger:         loggerOrDefault(logger),
		now:            time.Now,
	}
}

func (s *standingsService) ApplyResult(ctx context.Context, exec repositories.SQLExecutor, r lifecycle.Result) error {
	winner, loser := standings.ApplyResult()
	return s.increment(ctx, exec, r, winner, loser)
}

func (s *standingsService) ReverseResult(ctx context.Context, exec repositories.SQLExecutor, r lifecycle.Result) error {
	winner, loser := standings.ApplyResult()
	return s.increment(ctx, exec, r, standings.Reverse(winner), standings.Reverse(loser))
}

func (s *standingsService) increment(ctx context.Context, exec repositories.SQLExecutor, r lifecycle.Result, winner, loser models.StatsDelta) error {
	if err := s.teamRepo.IncrementStats(ctx, exec, r.WinnerID, winner); err != nil {
		return fmt.Errorf("failed to update winner %d of match %d: %w", r.WinnerID, r.MatchID, err)
	}
	if err := s.teamRepo.IncrementStats(ctx, exec, r.LoserID, loser); err != nil {
		return fmt.Errorf("failed to update loser %d of match %d: %w", r.LoserID, r.MatchID, err)
	}
	return nil
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]models.StandingEntry, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.entries(ctx, tournamentID)
}

func (s *standingsService) entries(ctx context.Context, tournamentID int) ([]models.StandingEntry, error) {
	var (
		teams        []models.Team
		playerCounts map[int]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListRanked(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		playerCounts, err = s.teamRepo.PlayerCounts(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}
	return standings.Entries(teams, playerCounts), nil
}

func (s *standingsService) Recount(ctx context.Context, tournamentID int) (result *RecountResult, err error) {
	defer track(ctx, s.metrics, "recount_standings", &err)()

	var drift map[int]models.StatsDelta
	err = s.transactor.WithinTx(ctx, func(exec db.Executor) error {
		if _, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
		}

		teams, err := s.teamRepo.ListByTournamentOrderedBySeed(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		matches, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		drift = standings.Drift(teams, standings.Recompute(teams, matches))
		for teamID, delta := range drift {
			if err := s.teamRepo.IncrementStats(ctx, exec, teamID, delta); err != nil {
				return fmt.Errorf("failed to correct counters of team %d: %w", teamID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(drift) > 0 {
		s.logger.WarnContext(ctx, "standings drift corrected",
			slog.Int("tournament_id", tournamentID), slog.Int("teams_adjusted", len(drift)))
	}
	result = &RecountResult{TournamentID: tournamentID, TeamsAdjusted: len(drift), Drift: drift}
	s.notifier.Publish(tournamentID, brackets.EventStandingsRecounted, result)
	return result, nil
}

func (s *standingsService) Export(ctx context.Context, tournamentID int) (res *storage.UploadResult, err error) {
	defer track(ctx, s.metrics, "export_standings", &err)()

	if s.uploader == nil {
		return nil, storage.ErrStorageDisabled
	}
	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(StandingsExport{
		TournamentID: t.ID,
		Tournament:   t.Name,
		GeneratedAt:  s.now().UTC(),
		Standings:    entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings export: %w", err)
	}

	res, err = s.uploader.Upload(ctx, storage.StandingsExportKey(tournamentID), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "standings exported",
		slog.Int("tournament_id", tournamentID), slog.String("key", res.Key))
	return res, nil
}

func (s *standingsService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}
