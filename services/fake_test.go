package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/storage"
)

type tracer struct {
	mu    sync.Mutex
	trace []string
}

func (t *tracer) record(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trace = append(t.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (t *tracer) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.trace))
	copy(out, t.trace)
	return out
}

// ------------------------
// Fake Transactor
// ------------------------

// FakeTransactor runs fn with a nil executor and records the outcome.
type FakeTransactor struct {
	tracer
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn func(exec db.Executor) error) error {
	f.record("Begin")
	if err := fn(nil); err != nil {
		f.record("Rollback")
		return err
	}
	f.record("Commit")
	return nil
}

var _ db.Transactor = (*FakeTransactor)(nil)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepository struct {
	tracer

	CreateFunc           func(ctx context.Context, t *models.Tournament) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.Tournament, error)
	GetByIDForUpdateFunc func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error)
	ListFunc             func(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
}

func (f *FakeTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, t)
	}
	t.ID = 1
	return nil
}

func (f *FakeTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTournamentNotFound
}

func (f *FakeTournamentRepository) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	f.record("GetByIDForUpdate")
	if f.GetByIDForUpdateFunc != nil {
		return f.GetByIDForUpdateFunc(ctx, exec, id)
	}
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTournamentNotFound
}

func (f *FakeTournamentRepository) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return []models.Tournament{}, nil
}

var _ repositories.TournamentRepository = (*FakeTournamentRepository)(nil)

// ------------------------
// Fake Team Repo
// ------------------------

type statsCall struct {
	TeamID int
	Delta  models.StatsDelta
}

type FakeTeamRepository struct {
	tracer

	Teams        map[int]*models.Team
	StatsCalls   []statsCall
	PlayerCount  map[int]int
	CreatedTeams []models.Team

	CreateFunc            func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error
	CountByTournamentFunc func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error)
	IncrementStatsFunc    func(ctx context.Context, exec repositories.SQLExecutor, teamID int, delta models.StatsDelta) error
	UpdateLogoKeyFunc     func(ctx context.Context, teamID int, logoKey *string) error
}

func NewFakeTeamRepository(teams ...models.Team) *FakeTeamRepository {
	f := &FakeTeamRepository{Teams: make(map[int]*models.Team), PlayerCount: make(map[int]int)}
	for i := range teams {
		t := teams[i]
		f.Teams[t.ID] = &t
	}
	return f
}

func (f *FakeTeamRepository) sorted(less func(a, b models.Team) bool) []models.Team {
	out := make([]models.Team, 0, len(f.Teams))
	for _, t := range f.Teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (f *FakeTeamRepository) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	f.record("Create")
	if f.CreateFunc != nil {
		if err := f.CreateFunc(ctx, exec, team); err != nil {
			return err
		}
	}
	if team.ID == 0 {
		team.ID = 100 + len(f.CreatedTeams)
	}
	f.CreatedTeams = append(f.CreatedTeams, *team)
	return nil
}

func (f *FakeTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	f.record("GetByID")
	t, ok := f.Teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *FakeTeamRepository) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	f.record("CountByTournament")
	if f.CountByTournamentFunc != nil {
		return f.CountByTournamentFunc(ctx, exec, tournamentID)
	}
	return len(f.Teams), nil
}

func (f *FakeTeamRepository) ListByTournamentOrderedBySeed(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
	f.record("ListByTournamentOrderedBySeed")
	return f.sorted(func(a, b models.Team) bool { return a.Seed < b.Seed }), nil
}

func (f *FakeTeamRepository) ListRanked(ctx context.Context, tournamentID int) ([]models.Team, error) {
	f.record("ListRanked")
	return f.sorted(func(a, b models.Team) bool {
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Seed < b.Seed
	}), nil
}

func (f *FakeTeamRepository) IncrementStats(ctx context.Context, exec repositories.SQLExecutor, teamID int, delta models.StatsDelta) error {
	f.record("IncrementStats")
	if f.IncrementStatsFunc != nil {
		if err := f.IncrementStatsFunc(ctx, exec, teamID, delta); err != nil {
			return err
		}
	}
	t, ok := f.Teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Wins += delta.Wins
	t.Losses += delta.Losses
	t.Points += delta.Points
	f.StatsCalls = append(f.StatsCalls, statsCall{TeamID: teamID, Delta: delta})
	return nil
}

func (f *FakeTeamRepository) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	f.record("UpdateLogoKey")
	if f.UpdateLogoKeyFunc != nil {
		return f.UpdateLogoKeyFunc(ctx, teamID, logoKey)
	}
	t, ok := f.Teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (f *FakeTeamRepository) PlayerCounts(ctx context.Context, tournamentID int) (map[int]int, error) {
	f.record("PlayerCounts")
	return f.PlayerCount, nil
}

var _ repositories.TeamRepository = (*FakeTeamRepository)(nil)

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepository struct {
	tracer

	Players    []models.Player
	CreateFunc func(ctx context.Context, p *models.Player) error
}

func (f *FakePlayerRepository) Create(ctx context.Context, p *models.Player) error {
	f.record("Create")
	if f.CreateFunc != nil {
		if err := f.CreateFunc(ctx, p); err != nil {
			return err
		}
	}
	p.ID = len(f.Players) + 1
	f.Players = append(f.Players, *p)
	return nil
}

func (f *FakePlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	f.record("ListByTeam")
	out := []models.Player{}
	for _, p := range f.Players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repositories.PlayerRepository = (*FakePlayerRepository)(nil)

// ------------------------
// Fake Match Repo
// ------------------------

type FakeMatchRepository struct {
	tracer

	Matches map[int]*models.Match
	Created []models.MatchDraft
	Results map[int]models.MatchResult

	CreateBatchFunc  func(ctx context.Context, exec repositories.SQLExecutor, drafts []models.MatchDraft) ([]models.Match, error)
	UpdateResultFunc func(ctx context.Context, exec repositories.SQLExecutor, id int, result models.MatchResult) error
}

func NewFakeMatchRepository(matches ...models.Match) *FakeMatchRepository {
	f := &FakeMatchRepository{Matches: make(map[int]*models.Match), Results: make(map[int]models.MatchResult)}
	for i := range matches {
		m := matches[i]
		f.Matches[m.ID] = &m
	}
	return f
}

func (f *FakeMatchRepository) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, drafts []models.MatchDraft) ([]models.Match, error) {
	f.record("CreateBatch")
	if f.CreateBatchFunc != nil {
		return f.CreateBatchFunc(ctx, exec, drafts)
	}
	created := make([]models.Match, 0, len(drafts))
	for _, d := range drafts {
		t1, t2 := d.Team1ID, d.Team2ID
		m := models.Match{
			ID:           len(f.Matches) + 1,
			TournamentID: d.TournamentID,
			Round:        d.Round,
			MatchNumber:  d.MatchNumber,
			Team1ID:      &t1,
			Team2ID:      &t2,
			Status:       models.MatchStatusScheduled,
		}
		f.Matches[m.ID] = &m
		created = append(created, m)
	}
	f.Created = append(f.Created, drafts...)
	return created, nil
}

func (f *FakeMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	f.record("GetByID")
	return f.get(id)
}

func (f *FakeMatchRepository) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	f.record("GetByIDForUpdate")
	return f.get(id)
}

func (f *FakeMatchRepository) get(id int) (*models.Match, error) {
	m, ok := f.Matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *FakeMatchRepository) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	f.record("ListByTournament")
	out := []models.Match{}
	for _, m := range f.Matches {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (f *FakeMatchRepository) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, id int, result models.MatchResult) error {
	f.record("UpdateResult")
	if f.UpdateResultFunc != nil {
		if err := f.UpdateResultFunc(ctx, exec, id, result); err != nil {
			return err
		}
	}
	m, ok := f.Matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	s1, s2, w, l := result.Team1Score, result.Team2Score, result.WinnerID, result.LoserID
	m.Team1Score, m.Team2Score, m.WinnerID, m.LoserID = &s1, &s2, &w, &l
	m.Status = models.MatchStatusCompleted
	f.Results[id] = result
	return nil
}

func (f *FakeMatchRepository) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	f.record("CountByTournament")
	return len(f.Matches), nil
}

func (f *FakeMatchRepository) CountByStatus(ctx context.Context, tournamentID int) (map[models.MatchStatus]int, error) {
	f.record("CountByStatus")
	counts := map[models.MatchStatus]int{}
	for _, m := range f.Matches {
		counts[m.Status]++
	}
	return counts, nil
}

var _ repositories.MatchRepository = (*FakeMatchRepository)(nil)

// ------------------------
// Fake Prediction / Correction Repos
// ------------------------

type FakePredictionRepository struct {
	tracer

	Records []models.Prediction
}

func (f *FakePredictionRepository) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Prediction) error {
	f.record("Create")
	p.ID = len(f.Records) + 1
	f.Records = append(f.Records, *p)
	return nil
}

func (f *FakePredictionRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Prediction, error) {
	f.record("ListByMatch")
	out := []models.Prediction{}
	for i := len(f.Records) - 1; i >= 0; i-- {
		if f.Records[i].MatchID == matchID {
			out = append(out, f.Records[i])
		}
	}
	return out, nil
}

var _ repositories.PredictionRepository = (*FakePredictionRepository)(nil)

type FakeCorrectionRepository struct {
	tracer

	Records []models.ScoreCorrection
}

func (f *FakeCorrectionRepository) Create(ctx context.Context, exec repositories.SQLExecutor, c *models.ScoreCorrection) error {
	f.record("Create")
	c.ID = len(f.Records) + 1
	f.Records = append(f.Records, *c)
	return nil
}

var _ repositories.CorrectionRepository = (*FakeCorrectionRepository)(nil)

// ------------------------
// Fake Sport / User Repos
// ------------------------

type FakeSportRepository struct {
	tracer

	CreateFunc func(ctx context.Context, sport *models.Sport) error
	Sports     []models.Sport
}

func (f *FakeSportRepository) Create(ctx context.Context, sport *models.Sport) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, sport)
	}
	sport.ID = len(f.Sports) + 1
	f.Sports = append(f.Sports, *sport)
	return nil
}

func (f *FakeSportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	f.record("GetByID")
	for _, s := range f.Sports {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repositories.ErrSportNotFound
}

func (f *FakeSportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	f.record("GetAll")
	return f.Sports, nil
}

var _ repositories.SportRepository = (*FakeSportRepository)(nil)

type FakeUserRepository struct {
	tracer

	Users map[string]models.User
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make(map[string]models.User)}
}

func (f *FakeUserRepository) Create(ctx context.Context, user *models.User) error {
	f.record("Create")
	if _, ok := f.Users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = len(f.Users) + 1
	f.Users[user.Email] = *user
	return nil
}

func (f *FakeUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	f.record("GetByID")
	for _, u := range f.Users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *FakeUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.record("GetByEmail")
	u, ok := f.Users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

var _ repositories.UserRepository = (*FakeUserRepository)(nil)

// ------------------------
// Fake Uploader / Notifier
// ------------------------

type FakeUploader struct {
	tracer

	Objects map[string][]byte
	Deleted []string
}

func NewFakeUploader() *FakeUploader {
	return &FakeUploader{Objects: make(map[string][]byte)}
}

func (f *FakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	f.record("Upload")
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	f.Objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *FakeUploader) Delete(ctx context.Context, key string) error {
	f.record("Delete")
	delete(f.Objects, key)
	f.Deleted = append(f.Deleted, key)
	return nil
}

func (f *FakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

var _ storage.FileUploader = (*FakeUploader)(nil)

type publishedEvent struct {
	TournamentID int
	Type         string
	Payload      interface{}
}

type FakeNotifier struct {
	Events []publishedEvent
}

func (f *FakeNotifier) Publish(tournamentID int, eventType string, payload interface{}) {
	f.Events = append(f.Events, publishedEvent{TournamentID: tournamentID, Type: eventType, Payload: payload})
}
