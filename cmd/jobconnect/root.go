package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobconnect/internal/ai"
	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/llm"
	"github.com/jonathan/jobconnect/internal/logger"
)

const app = "jobconnect"

// Actual version can be specified in build command.
var version = "unknown"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	debug      bool
	json       bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           app,
		Short:         "JobConnect job board and professional network API",
		Long:          "JobConnect serves a REST API for profiles, connections, job postings, applications and a social feed, with AI-assisted matching.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file; environment variables override it")
	root.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&flags.json, "json", "j", false, "json format for logging")

	root.AddCommand(
		newServeCmd(flags),
		newMigrateCmd(flags),
		newCreateUserCmd(flags),
		newExtractSkillsCmd(flags),
		newVersionCmd(),
	)
	return root
}

// cliEnv is what every command needs before doing its work.
type cliEnv struct {
	cfg *config.Config
	log *zap.Logger
}

// setup loads configuration and builds the logger. Command line flags turn on
// debug and JSON logging in addition to LOG_DEBUG and LOG_JSON.
func (f *globalFlags) setup() (*cliEnv, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(f.json || cfg.Log.JSON, f.debug || cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &cliEnv{cfg: cfg, log: log}, nil
}

// newAIService connects the configured model provider. Missing credentials
// are not an error: the service then runs on its rule-based fallbacks.
// The returned close function is never nil.
func newAIService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*ai.Service, func(), error) {
	noop := func() {}
	if cfg.AI.Provider == config.ProviderNone {
		log.Info("AI disabled, using fallbacks")
		return ai.NewService(nil, config.ProviderNone, log), noop, nil
	}

	llmConfig := llm.ConfigFor(llm.Provider(cfg.AI.Provider)).WithTimeout(cfg.AI.Timeout)
	creds := llm.Credentials{Project: cfg.AI.VertexProject, Location: cfg.AI.VertexLocation}
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		creds.APIKey = cfg.AI.GeminiAPIKey
	case config.ProviderAnthropic:
		creds.APIKey = cfg.AI.AnthropicAPIKey
	}

	client, err := llm.NewClient(ctx, llmConfig, creds)
	if errors.Is(err, llm.ErrNotConfigured) {
		log.Warn("AI provider has no credentials, using fallbacks", zap.String(logger.FieldProvider, cfg.AI.Provider))
		return ai.NewService(nil, config.ProviderNone, log), noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create %s client: %w", cfg.AI.Provider, err)
	}

	log.Info("AI enabled",
		zap.String(logger.FieldProvider, cfg.AI.Provider),
		zap.String("model", client.GetModel(llm.TierStandard)))
	return ai.NewService(client, cfg.AI.Provider, log), func() { _ = client.Close() }, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}
