package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var ErrPredictionInvalidMatch = errors.New("prediction references an unknown match or team")

type PredictionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, prediction *models.Prediction) error
	// ListByMatch returns every prediction recorded for a match, newest first.
	ListByMatch(ctx context.Context, matchID int) ([]models.Prediction, error)
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPredictionRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (match_id, predicted_winner_id, confidence_score, analysis)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.MatchID, p.PredictedWinnerID, p.ConfidenceScore, p.Analysis,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrPredictionInvalidMatch
		}
		return err
	}
	return nil
}

func (r *postgresPredictionRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Prediction, error) {
	query := `
		SELECT id, match_id, predicted_winner_id, confidence_score, analysis, created_at
		FROM predictions
		WHERE match_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions for match %d: %w", matchID, err)
	}
	defer rows.Close()

	predictions := make([]models.Prediction, 0)
	for rows.Next() {
		var p models.Prediction
		if scanErr := rows.Scan(&p.ID, &p.MatchID, &p.PredictedWinnerID, &p.ConfidenceScore, &p.Analysis, &p.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		predictions = append(predictions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return predictions, nil
}
