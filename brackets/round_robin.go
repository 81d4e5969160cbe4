package brackets

import (
	"context"

	"github.com/Dosada05/tournament-manager/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one match for every unordered pair of teams.
// All matches are in round 1, numbered in (i, j) order with the lower seed as team1.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	teams, err := seedOrdered(params.Teams)
	if err != nil {
		return nil, err
	}

	n := len(teams)
	bracket := &Bracket{
		Format:  models.FormatRoundRobin,
		Matches: make([]models.MatchDraft, 0, n*(n-1)/2),
		Byes:    []Bye{},
	}

	matchNumber := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matchNumber++
			bracket.Matches = append(bracket.Matches, models.MatchDraft{
				TournamentID: params.TournamentID,
				Round:        1,
				MatchNumber:  matchNumber,
				Team1ID:      teams[i].ID,
				Team2ID:      teams[j].ID,
			})
		}
	}

	return bracket, nil
}
