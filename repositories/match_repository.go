package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNumberConflict = errors.New("match number already used in this round")
	ErrMatchTeamInvalid    = errors.New("match team reference invalid")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, drafts []models.MatchDraft) ([]models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row until exec's transaction ends.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, result models.MatchResult) error
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	CountByStatus(ctx context.Context, tournamentID int) (map[models.MatchStatus]int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	m.id, m.tournament_id, m.round, m.match_number, m.team1_id, m.team2_id,
	m.team1_score, m.team2_score, m.winner_id, m.loser_id, m.status, m.created_at, m.updated_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match, extra ...interface{}) error {
	dest := []interface{}{
		&m.ID, &m.TournamentID, &m.Round, &m.MatchNumber, &m.Team1ID, &m.Team2ID,
		&m.Team1Score, &m.Team2Score, &m.WinnerID, &m.LoserID, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, drafts []models.MatchDraft) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (tournament_id, round, match_number, team1_id, team2_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	created := make([]models.Match, 0, len(drafts))
	for _, d := range drafts {
		team1, team2 := d.Team1ID, d.Team2ID
		m := models.Match{
			TournamentID: d.TournamentID,
			Round:        d.Round,
			MatchNumber:  d.MatchNumber,
			Team1ID:      &team1,
			Team2ID:      &team2,
			Status:       models.MatchStatusScheduled,
		}
		err := executor.QueryRowContext(ctx, query,
			m.TournamentID, m.Round, m.MatchNumber, m.Team1ID, m.Team2ID, m.Status,
		).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert match %d of round %d: %w", d.MatchNumber, d.Round, r.handleMatchError(err))
		}
		created = append(created, m)
	}
	return created, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return r.get(ctx, r.db, id, "")
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.get(ctx, r.getExecutor(exec), id, " FOR UPDATE")
}

func (r *postgresMatchRepository) get(ctx context.Context, executor SQLExecutor, id int, lock string) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches m WHERE m.id = $1` + lock

	m := &models.Match{}
	if err := scanMatch(executor.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	query := `SELECT` + matchColumns + `, t1.name, t2.name, w.name
		FROM matches m
		LEFT JOIN teams t1 ON t1.id = m.team1_id
		LEFT JOIN teams t2 ON t2.id = m.team2_id
		LEFT JOIN teams w ON w.id = m.winner_id
		WHERE m.tournament_id = $1
		ORDER BY m.round ASC, m.match_number ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := scanMatch(rows, &m, &m.Team1Name, &m.Team2Name, &m.WinnerName); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, res models.MatchResult) error {
	query := `
		UPDATE matches
		SET team1_score = $1, team2_score = $2, winner_id = $3, loser_id = $4,
		    status = $5, updated_at = NOW()
		WHERE id = $6`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		res.Team1Score, res.Team2Score, res.WinnerID, res.LoserID, models.MatchStatusCompleted, id,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountByStatus(ctx context.Context, tournamentID int) (map[models.MatchStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM matches WHERE tournament_id = $1 GROUP BY status`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.MatchStatus]int)
	for rows.Next() {
		var status models.MatchStatus
		var count int
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, scanErr
		}
		counts[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "matches_round_number_key" {
				return ErrMatchNumberConflict
			}
		case pqForeignKeyViolation:
			return ErrMatchTeamInvalid
		}
	}
	return err
}
