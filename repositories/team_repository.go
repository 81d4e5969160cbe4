package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamSeedConflict      = errors.New("seed already taken in this tournament")
	ErrTeamInvalidTournament = errors.New("invalid tournament reference")
	ErrTeamStatsNegative     = errors.New("team counters cannot become negative")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	ListByTournamentOrderedBySeed(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error)
	// ListRanked returns teams ordered by points then wins, highest first.
	ListRanked(ctx context.Context, tournamentID int) ([]models.Team, error)
	IncrementStats(ctx context.Context, exec SQLExecutor, teamID int, delta models.StatsDelta) error
	UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error
	PlayerCounts(ctx context.Context, tournamentID int) (map[int]int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, tournament_id, seed, wins, losses, points, logo_key, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }, t *models.Team) error {
	return row.Scan(&t.ID, &t.Name, &t.TournamentID, &t.Seed, &t.Wins, &t.Losses, &t.Points, &t.LogoKey, &t.CreatedAt)
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, tournament_id, seed)
		VALUES ($1, $2, $3)
		RETURNING id, wins, losses, points, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, team.Name, team.TournamentID, team.Seed).
		Scan(&team.ID, &team.Wins, &team.Losses, &team.Points, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team := &models.Team{}
	if err := scanTeam(r.db.QueryRowContext(ctx, query, id), team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresTeamRepository) ListByTournamentOrderedBySeed(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY seed ASC`
	return r.list(ctx, r.getExecutor(exec), query, tournamentID)
}

func (r *postgresTeamRepository) ListRanked(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY points DESC, wins DESC, seed ASC`
	return r.list(ctx, r.db, query, tournamentID)
}

func (r *postgresTeamRepository) list(ctx context.Context, executor SQLExecutor, query string, tournamentID int) ([]models.Team, error) {
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := scanTeam(rows, &t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team: %w", scanErr)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) IncrementStats(ctx context.Context, exec SQLExecutor, teamID int, delta models.StatsDelta) error {
	query := `
		UPDATE teams
		SET wins = wins + $1, losses = losses + $2, points = points + $3
		WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, delta.Wins, delta.Losses, delta.Points, teamID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, teamID)
	if err != nil {
		return fmt.Errorf("failed to update team logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) PlayerCounts(ctx context.Context, tournamentID int) (map[int]int, error) {
	query := `
		SELECT t.id, COUNT(p.id)
		FROM teams t
		LEFT JOIN players p ON p.team_id = t.id
		WHERE t.tournament_id = $1
		GROUP BY t.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count players for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var teamID, count int
		if scanErr := rows.Scan(&teamID, &count); scanErr != nil {
			return nil, scanErr
		}
		counts[teamID] = count
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "teams_tournament_seed_key" {
				return ErrTeamSeedConflict
			}
		case pqForeignKeyViolation:
			if pqErr.Constraint == "teams_tournament_id_fkey" {
				return ErrTeamInvalidTournament
			}
		case pqCheckViolation:
			return ErrTeamStatsNegative
		}
	}
	return err
}
