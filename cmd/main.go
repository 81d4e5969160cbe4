package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/tournament-manager/config"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/services"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
)

const dbConnectTimeout = 5 * time.Second

func main() {
	app := &cli.App{
		Name:  "tournament-manager",
		Usage: "bracket generation, scoring, standings and predictions",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			createUserCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Action: func(c *cli.Context) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}

			conn, err := db.Connect(c.Context, cfg.DatabaseURL, dbConnectTimeout, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer conn.Close()

			applied, err := db.Migrate(c.Context, conn, logger)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				logger.Info("no new migrations to apply")
				return nil
			}
			logger.Info("migrations applied", slog.Any("migrations", applied))
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "create an operator account with the given role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"CREATE_USER_PASSWORD"}},
			&cli.StringFlag{Name: "role", Value: string(models.RoleAdmin), Usage: "admin, organizer or viewer"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}

			conn, err := db.Connect(c.Context, cfg.DatabaseURL, dbConnectTimeout, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer conn.Close()

			authService := services.NewAuthService(repositories.NewPostgresUserRepository(conn))

			ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
			defer cancel()

			user, err := authService.Register(ctx, services.RegisterInput{
				Email:    c.String("email"),
				Password: c.String("password"),
				Role:     models.UserRole(c.String("role")),
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			logger.Info("user created", slog.Int("user_id", user.ID), slog.String("role", string(user.Role)))
			return nil
		},
	}
}
