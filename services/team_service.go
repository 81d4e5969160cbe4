package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/storage"
)

type TeamService interface {
	// RegisterTeam adds a team to a tournament with the next free seed.
	RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
	AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
}

type RegisterTeamInput struct {
	TournamentID int    `json:"tournament_id"`
	Name         string `json:"name"`
}

type AddPlayerInput struct {
	TeamID   int     `json:"team_id"`
	Name     string  `json:"name"`
	Position *string `json:"position"`
}

type teamService struct {
	transactor     db.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTeamService(
	transactor db.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		transactor:     transactor,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		uploader:       uploader,
		logger:         loggerOrDefault(logger),
	}
}

func (s *teamService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if input.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrValidationFailed)
	}

	team := &models.Team{Name: name, TournamentID: input.TournamentID}
	err := s.transactor.WithinTx(ctx, func(exec db.Executor) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, input.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %d: %w", input.TournamentID, err)
		}

		count, err := s.teamRepo.CountByTournament(ctx, exec, tournament.ID)
		if err != nil {
			return err
		}
		if count >= tournament.MaxTeams {
			return fmt.Errorf("%w: %d of %d", ErrTournamentFull, count, tournament.MaxTeams)
		}

		team.Seed = count + 1
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			if errors.Is(err, repositories.ErrTeamSeedConflict) {
				return ErrSeedConflict
			}
			if errors.Is(err, repositories.ErrTeamInvalidTournament) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to create team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team registered",
		slog.Int("team_id", team.ID), slog.Int("tournament_id", team.TournamentID), slog.Int("seed", team.Seed))
	return team, nil
}

func (s *teamService) AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if input.TeamID <= 0 {
		return nil, fmt.Errorf("%w: team_id is required", ErrValidationFailed)
	}

	player := &models.Player{Name: name, TeamID: input.TeamID, Position: input.Position}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerInvalidTeam) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	return player, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Players = players
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, storage.ErrStorageDisabled
	}
	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	oldKey := team.LogoKey

	uploaded, err := s.uploader.Upload(ctx, storage.TeamLogoKey(teamID, ext), contentType, file)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &uploaded.Key); err != nil {
		if delErr := s.uploader.Delete(ctx, uploaded.Key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove orphaned logo",
				slog.String("key", uploaded.Key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to store logo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous logo",
				slog.Int("team_id", teamID), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	team.LogoKey = &uploaded.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}
