package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/lifecycle"
	"github.com/Dosada05/tournament-manager/metrics"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type MatchService interface {
	SubmitScore(ctx context.Context, input SubmitScoreInput) (*ScoreOutcome, error)
	// CorrectScore replaces the result of a completed match, moving the
	// standings from the old result to the new one.
	CorrectScore(ctx context.Context, input CorrectScoreInput, actorID int) (*CorrectionOutcome, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
}

// Scores are pointers so an omitted field is told apart from a zero.
type SubmitScoreInput struct {
	MatchID    int  `json:"match_id"`
	Team1Score *int `json:"team1_score"`
	Team2Score *int `json:"team2_score"`
}

type CorrectScoreInput struct {
	MatchID    int     `json:"-"`
	Team1Score *int    `json:"team1_score"`
	Team2Score *int    `json:"team2_score"`
	Reason     *string `json:"reason"`
}

type ScoreOutcome struct {
	MatchID  int          `json:"match_id"`
	WinnerID int          `json:"winner_id"`
	LoserID  int          `json:"loser_id"`
	Match    models.Match `json:"match"`
}

type CorrectionOutcome struct {
	Correction models.ScoreCorrection `json:"correction"`
	Match      models.Match           `json:"match"`
}

type matchService struct {
	transactor     db.Transactor
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	correctionRepo repositories.CorrectionRepository
	standings      StandingsService
	notifier       Notifier
	metrics        metrics.Recorder
	logger         *slog.Logger
}

func NewMatchService(
	transactor db.Transactor,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	correctionRepo repositories.CorrectionRepository,
	standingsService StandingsService,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		transactor:     transactor,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		correctionRepo: correctionRepo,
		standings:      standingsService,
		notifier:       notifierOrNoop(notifier),
		metrics:        recorderOrNoop(recorder),
		logger:         loggerOrDefault(logger),
	}
}

func (s *matchService) SubmitScore(ctx context.Context, input SubmitScoreInput) (outcome *ScoreOutcome, err error) {
	defer track(ctx, s.metrics, "submit_score", &err)()

	score1, score2, err := requireScores(input.Team1Score, input.Team2Score)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTx(ctx, func(exec db.Executor) error {
		match, err := s.lockMatch(ctx, exec, input.MatchID)
		if err != nil {
			return err
		}

		result, err := lifecycle.Resolve(*match, score1, score2)
		if err != nil {
			return err
		}

		if err := s.matchRepo.UpdateResult(ctx, exec, match.ID, result.MatchResult); err != nil {
			return fmt.Errorf("failed to record result of match %d: %w", match.ID, err)
		}
		if err := s.standings.ApplyResult(ctx, exec, result); err != nil {
			return err
		}

		outcome = &ScoreOutcome{
			MatchID:  match.ID,
			WinnerID: result.WinnerID,
			LoserID:  result.LoserID,
			Match:    lifecycle.Apply(*match, result),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match completed",
		slog.Int("match_id", outcome.MatchID),
		slog.Int("winner_id", outcome.WinnerID),
		slog.Int("loser_id", outcome.LoserID))
	s.notifier.Publish(outcome.Match.TournamentID, brackets.EventMatchCompleted, outcome)
	return outcome, nil
}

func (s *matchService) CorrectScore(ctx context.Context, input CorrectScoreInput, actorID int) (outcome *CorrectionOutcome, err error) {
	defer track(ctx, s.metrics, "correct_score", &err)()

	score1, score2, err := requireScores(input.Team1Score, input.Team2Score)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTx(ctx, func(exec db.Executor) error {
		match, err := s.lockMatch(ctx, exec, input.MatchID)
		if err != nil {
			return err
		}

		correction, err := lifecycle.Correct(*match, score1, score2)
		if err != nil {
			return err
		}

		if err := s.standings.ReverseResult(ctx, exec, correction.Previous); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, match.ID, correction.Next.MatchResult); err != nil {
			return fmt.Errorf("failed to record corrected result of match %d: %w", match.ID, err)
		}
		if err := s.standings.ApplyResult(ctx, exec, correction.Next); err != nil {
			return err
		}

		audit := models.ScoreCorrection{
			MatchID:            match.ID,
			PreviousTeam1Score: correction.Previous.Team1Score,
			PreviousTeam2Score: correction.Previous.Team2Score,
			PreviousWinnerID:   correction.Previous.WinnerID,
			Team1Score:         correction.Next.Team1Score,
			Team2Score:         correction.Next.Team2Score,
			WinnerID:           correction.Next.WinnerID,
			CorrectedBy:        actorID,
			Reason:             input.Reason,
		}
		if err := s.correctionRepo.Create(ctx, exec, &audit); err != nil {
			return fmt.Errorf("failed to record correction of match %d: %w", match.ID, err)
		}

		outcome = &CorrectionOutcome{
			Correction: audit,
			Match:      lifecycle.Apply(*match, correction.Next),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match result corrected",
		slog.Int("match_id", outcome.Correction.MatchID),
		slog.Int("previous_winner_id", outcome.Correction.PreviousWinnerID),
		slog.Int("winner_id", outcome.Correction.WinnerID),
		slog.Int("corrected_by", actorID))
	s.notifier.Publish(outcome.Match.TournamentID, brackets.EventMatchCorrected, outcome)
	return outcome, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID)
}

func (s *matchService) lockMatch(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return match, nil
}

func requireScores(score1, score2 *int) (int, int, error) {
	if score1 == nil || score2 == nil {
		return 0, 0, fmt.Errorf("%w: team1_score and team2_score are required", ErrValidationFailed)
	}
	return *score1, *score2, nil
}
