package brackets

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrNotEnoughTeams       = errors.New("not enough teams to generate a bracket (minimum 2)")
	ErrFormatNotImplemented = errors.New("bracket generation is not implemented for this format")
	ErrUnknownFormat        = errors.New("unknown tournament format")
)

type GenerateBracketParams struct {
	TournamentID int
	// Teams in seed order. Generators re-sort by seed, so callers may pass
	// them in any order as long as seeds are set.
	Teams []models.Team
}

// Bye is a team that advances without playing in the given round.
type Bye struct {
	TeamID int `json:"team_id"`
	Seed   int `json:"seed"`
	Round  int `json:"round"`
}

// Bracket is the output of one generation: paired matches and byes.
// Byes never take a match number.
type Bracket struct {
	Format  models.TournamentFormat `json:"format"`
	Matches []models.MatchDraft     `json:"matches"`
	Byes    []Bye                   `json:"byes"`
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// NewGenerator returns the generation strategy for format. Formats that are
// valid tournament metadata but have no pairing logic get a generator that
// always fails with ErrFormatNotImplemented.
func NewGenerator(format models.TournamentFormat) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.FormatDoubleElimination, models.FormatSwiss:
		return &unimplementedGenerator{format: format}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type unimplementedGenerator struct {
	format models.TournamentFormat
}

func (g *unimplementedGenerator) GetName() string {
	return string(g.format)
}

func (g *unimplementedGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	return nil, fmt.Errorf("%w: %s", ErrFormatNotImplemented, g.format)
}

func seedOrdered(teams []models.Team) ([]models.Team, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}
	ordered := slices.Clone(teams)
	slices.SortStableFunc(ordered, func(a, b models.Team) int {
		return a.Seed - b.Seed
	})
	return ordered, nil
}

// Generate selects the strategy for format and runs it.
func Generate(ctx context.Context, format models.TournamentFormat, params GenerateBracketParams) (*Bracket, error) {
	generator, err := NewGenerator(format)
	if err != nil {
		return nil, err
	}
	return generator.GenerateBracket(ctx, params)
}
