// Package standings holds the rules that turn match results into team
// records and rank teams into a leaderboard.
package standings

import (
	"cmp"
	"slices"

	"github.com/Dosada05/tournament-manager/models"
)

// PointsPerWin is the fixed reward for a win. Losses score nothing.
const PointsPerWin = 3

// ApplyResult returns the counter changes for the winner and loser of one match.
func ApplyResult() (winner, loser models.StatsDelta) {
	return models.StatsDelta{Wins: 1, Points: PointsPerWin}, models.StatsDelta{Losses: 1}
}

// Reverse negates a delta so a previously applied result can be undone.
func Reverse(d models.StatsDelta) models.StatsDelta {
	return models.StatsDelta{Wins: -d.Wins, Losses: -d.Losses, Points: -d.Points}
}

// Add applies d to a team's counters.
func Add(t *models.Team, d models.StatsDelta) {
	t.Wins += d.Wins
	t.Losses += d.Losses
	t.Points += d.Points
}

// compareTeams orders by points then wins, both descending.
func compareTeams(a, b models.Team) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	return cmp.Compare(b.Wins, a.Wins)
}

// Rank sorts teams for a leaderboard: points descending, then wins
// descending. Teams equal on both keep their input order.
func Rank(teams []models.Team) []models.Team {
	ranked := slices.Clone(teams)
	slices.SortStableFunc(ranked, compareTeams)
	return ranked
}

// Entries ranks teams and numbers them from 1. Teams tied on points and wins
// share a rank.
func Entries(teams []models.Team, playerCounts map[int]int) []models.StandingEntry {
	ranked := Rank(teams)
	entries := make([]models.StandingEntry, len(ranked))
	for i, t := range ranked {
		rank := i + 1
		if i > 0 && compareTeams(ranked[i-1], t) == 0 {
			rank = entries[i-1].Rank
		}
		entries[i] = models.StandingEntry{
			Rank:        rank,
			TeamID:      t.ID,
			Name:        t.Name,
			Seed:        t.Seed,
			Wins:        t.Wins,
			Losses:      t.Losses,
			Points:      t.Points,
			PlayerCount: playerCounts[t.ID],
		}
	}
	return entries
}

// Recompute rebuilds every team's counters from the completed matches alone,
// ignoring whatever the teams currently hold. Matches referencing teams not
// in the list are skipped.
func Recompute(teams []models.Team, matches []models.Match) []models.Team {
	rebuilt := make([]models.Team, len(teams))
	index := make(map[int]int, len(teams))
	for i, t := range teams {
		t.Wins, t.Losses, t.Points = 0, 0, 0
		rebuilt[i] = t
		index[t.ID] = i
	}

	winnerDelta, loserDelta := ApplyResult()
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil || m.LoserID == nil {
			continue
		}
		wi, okW := index[*m.WinnerID]
		li, okL := index[*m.LoserID]
		if !okW || !okL {
			continue
		}
		Add(&rebuilt[wi], winnerDelta)
		Add(&rebuilt[li], loserDelta)
	}
	return rebuilt
}

// Drift returns, per team ID, the delta needed to move the stored counters to
// the recomputed ones. Teams already in agreement are omitted.
func Drift(stored, recomputed []models.Team) map[int]models.StatsDelta {
	current := make(map[int]models.Team, len(stored))
	for _, t := range stored {
		current[t.ID] = t
	}
	drift := make(map[int]models.StatsDelta)
	for _, t := range recomputed {
		c := current[t.ID]
		d := models.StatsDelta{Wins: t.Wins - c.Wins, Losses: t.Losses - c.Losses, Points: t.Points - c.Points}
		if !d.IsZero() {
			drift[t.ID] = d
		}
	}
	return drift
}
