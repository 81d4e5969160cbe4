package repositories

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tournamentColumnNames = []string{"id", "name", "sport_id", "format", "max_teams", "start_date", "end_date", "created_at", "sport_name"}

func TestTournamentGetByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTournamentRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE t\.id = \$1 FOR UPDATE OF t$`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(tournamentColumnNames).
			AddRow(3, "Spring Cup", 1, "round_robin", 8, nil, nil, now, "Football"))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	got, err := repo.GetByIDForUpdate(context.Background(), tx, 3)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, models.FormatRoundRobin, got.Format)
	assert.Equal(t, 8, got.MaxTeams)
	assert.Equal(t, "Football", got.SportName)
	assert.Nil(t, got.StartDate)
}

func TestTournamentGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTournamentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tournaments t")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(tournamentColumnNames))

	_, err := repo.GetByID(context.Background(), 1)

	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentListBuildsFilter(t *testing.T) {
	sportID := 2
	format := models.FormatSingleElimination

	tests := []struct {
		name   string
		filter ListTournamentsFilter
		query  string
		args   []driver.Value
	}{
		{
			name:  "no filter",
			query: `WHERE 1=1 ORDER BY t\.created_at DESC, t\.id DESC$`,
		},
		{
			name:   "sport and format with paging",
			filter: ListTournamentsFilter{SportID: &sportID, Format: &format, Limit: 10, Offset: 20},
			query:  `AND t\.sport_id = \$1 AND t\.format = \$2 ORDER BY .* LIMIT \$3 OFFSET \$4$`,
			args:   []driver.Value{2, "single_elimination", 10, 20},
		},
		{
			name:   "limit only",
			filter: ListTournamentsFilter{Limit: 5},
			query:  `WHERE 1=1 ORDER BY .* LIMIT \$1$`,
			args:   []driver.Value{5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresTournamentRepository(db)

			expect := mock.ExpectQuery(tt.query)
			if len(tt.args) > 0 {
				expect = expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(sqlmock.NewRows(tournamentColumnNames))

			got, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestTournamentCreateInvalidSport(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTournamentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tournaments")).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "tournaments_sport_id_fkey"})

	err := repo.Create(context.Background(), &models.Tournament{Name: "Cup", SportID: 42, Format: models.FormatSwiss, MaxTeams: 8})

	assert.ErrorIs(t, err, ErrTournamentInvalidSport)
}
