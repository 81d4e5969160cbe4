package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/lifecycle"
	"github.com/Dosada05/tournament-manager/metrics"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/prediction"
	"github.com/Dosada05/tournament-manager/repositories"
	"golang.org/x/sync/errgroup"
)

type PredictionService interface {
	// PredictMatch records a new prediction on every call; earlier ones are kept.
	PredictMatch(ctx context.Context, matchID int) (*PredictionOutcome, error)
	History(ctx context.Context, matchID int) ([]models.Prediction, error)
}

type PredictionOutcome struct {
	Prediction models.Prediction   `json:"prediction"`
	Team1      models.TeamSnapshot `json:"team1"`
	Team2      models.TeamSnapshot `json:"team2"`
}

type predictionService struct {
	transactor     db.Transactor
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	predictionRepo repositories.PredictionRepository
	metrics        metrics.Recorder
	logger         *slog.Logger
}

func NewPredictionService(
	transactor db.Transactor,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	predictionRepo repositories.PredictionRepository,
	recorder metrics.Recorder,
	logger *slog.Logger,
) PredictionService {
	return &predictionService{
		transactor:     transactor,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		predictionRepo: predictionRepo,
		metrics:        recorderOrNoop(recorder),
		logger:         loggerOrDefault(logger),
	}
}

func (s *predictionService) PredictMatch(ctx context.Context, matchID int) (outcome *PredictionOutcome, err error) {
	defer track(ctx, s.metrics, "predict_match", &err)()

	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, fmt.Errorf("match %d: %w", matchID, lifecycle.ErrMatchNotPlayable)
	}

	var team1, team2 *models.Team
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		team1, err = s.getTeam(gctx, *match.Team1ID)
		return err
	})
	g.Go(func() error {
		var err error
		team2, err = s.getTeam(gctx, *match.Team2ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := prediction.Predict(teamStats(team1), teamStats(team2))
	record := models.Prediction{
		MatchID:           matchID,
		PredictedWinnerID: result.WinnerID,
		ConfidenceScore:   result.Confidence,
		Analysis:          result.Analysis,
	}

	err = s.transactor.WithinTx(ctx, func(exec db.Executor) error {
		return s.predictionRepo.Create(ctx, exec, &record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store prediction for match %d: %w", matchID, err)
	}

	s.metrics.RecordPrediction(ctx, string(result.Branch))
	s.logger.InfoContext(ctx, "prediction recorded",
		slog.Int("match_id", matchID),
		slog.Int("predicted_winner_id", result.WinnerID),
		slog.Float64("confidence", result.Confidence),
		slog.String("branch", string(result.Branch)))

	return &PredictionOutcome{
		Prediction: record,
		Team1:      snapshot(team1),
		Team2:      snapshot(team2),
	}, nil
}

func (s *predictionService) History(ctx context.Context, matchID int) ([]models.Prediction, error) {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.predictionRepo.ListByMatch(ctx, matchID)
}

func (s *predictionService) getMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *predictionService) getTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func teamStats(t *models.Team) prediction.TeamStats {
	return prediction.TeamStats{ID: t.ID, Name: t.Name, Wins: t.Wins, Losses: t.Losses, Points: t.Points}
}

func snapshot(t *models.Team) models.TeamSnapshot {
	return models.TeamSnapshot{ID: t.ID, Name: t.Name, Wins: t.Wins, Losses: t.Losses, Points: t.Points}
}
