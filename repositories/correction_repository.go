package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/tournament-manager/models"
)

type CorrectionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, correction *models.ScoreCorrection) error
}

type postgresCorrectionRepository struct {
	db *sql.DB
}

func NewPostgresCorrectionRepository(db *sql.DB) CorrectionRepository {
	return &postgresCorrectionRepository{db: db}
}

func (r *postgresCorrectionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.ScoreCorrection) error {
	var executor SQLExecutor = r.db
	if exec != nil {
		executor = exec
	}

	query := `
		INSERT INTO score_corrections (
			match_id, previous_team1_score, previous_team2_score, previous_winner_id,
			team1_score, team2_score, winner_id, corrected_by, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		c.MatchID, c.PreviousTeam1Score, c.PreviousTeam2Score, c.PreviousWinnerID,
		c.Team1Score, c.Team2Score, c.WinnerID, c.CorrectedBy, c.Reason,
	).Scan(&c.ID, &c.CreatedAt)
}
