package brackets

import (
	"context"

	"github.com/Dosada05/tournament-manager/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket pairs teams consecutively by seed: 1v2, 3v4, ... in round 1.
// With an odd count the last seed gets a bye instead of a match.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	teams, err := seedOrdered(params.Teams)
	if err != nil {
		return nil, err
	}

	const round = 1
	bracket := &Bracket{
		Format:  models.FormatSingleElimination,
		Matches: make([]models.MatchDraft, 0, len(teams)/2),
		Byes:    []Bye{},
	}

	for i := 0; i+1 < len(teams); i += 2 {
		bracket.Matches = append(bracket.Matches, models.MatchDraft{
			TournamentID: params.TournamentID,
			Round:        round,
			MatchNumber:  i/2 + 1,
			Team1ID:      teams[i].ID,
			Team2ID:      teams[i+1].ID,
		})
	}

	if len(teams)%2 != 0 {
		last := teams[len(teams)-1]
		bracket.Byes = append(bracket.Byes, Bye{TeamID: last.ID, Seed: last.Seed, Round: round})
	}

	return bracket, nil
}
