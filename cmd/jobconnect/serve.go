package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/fetch"
	"github.com/jonathan/jobconnect/internal/server"
	"github.com/jonathan/jobconnect/internal/server/ratelimit"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		port      int
		noMigrate bool
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Start the HTTP API server. Pending database migrations are applied first unless --no-migrate is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.setup()
			if err != nil {
				return err
			}
			defer func() { _ = rt.log.Sync() }()

			if cmd.Flags().Changed("port") {
				rt.cfg.Port = port
			}
			return runServe(rt, !noMigrate, !noBrowser)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "Skip applying database migrations on startup")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Never render job pages with headless Chrome")
	return cmd
}

func runServe(rt *cliEnv, migrate, browser bool) error {
	cfg, log := rt.cfg, rt.log
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	jwtConfig, err := config.NewJWTConfig(cfg.JWT)
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig(cfg.Password)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if migrate {
		applied, err := database.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("database ready", zap.Strings("applied_migrations", applied))
	}

	aiService, closeAI, err := newAIService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAI()

	var renderer fetch.Renderer
	if browser {
		renderer = fetch.NewChromeRenderer(log)
	}

	srv, err := server.New(server.Deps{
		Store:     database,
		AI:        aiService,
		Fetcher:   fetch.NewFetcher(nil, renderer, log),
		JWT:       server.NewJWTService(jwtConfig),
		Passwords: passwords,
		Limiter:   ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit)),
		Logger:    log,
		HTTP:      cfg.HTTP,
		Port:      cfg.Port,
	})
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
