package main

import (
	"context"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chat-backend/handler"
	"chat-backend/internal/config"
	"chat-backend/internal/domain"
	"chat-backend/internal/integrations/paramstore"
	"chat-backend/internal/usecase"
)

type app struct {
	cfg     config.Config
	logger  *slog.Logger
	handler *handler.Handler
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "chat-backend",
		Short:        "Keyword-routing chat endpoint",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), configPath, "")
			if err != nil {
				return err
			}
			switch a.cfg.Mode {
			case config.ModeLambda:
				return runLambda(cmd.Context(), a)
			default:
				return runService(cmd.Context(), a)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to an optional YAML configuration file")
	cmd.AddCommand(
		newServeCommand(&configPath),
		newLambdaCommand(&configPath),
	)
	return cmd
}

// setup loads configuration and wires logger, responder, use case and handler.
// A non-empty mode overrides the configured one.
func setup(ctx context.Context, configPath, mode string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if mode != "" {
		cfg.Mode = mode
	}

	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: cfg.Logging.AddSource,
		Level:     level,
	})).With("mode", cfg.Mode)

	respond, err := newResponder(ctx, cfg)
	if err != nil {
		logger.Error("failed to build responder", "err", err)
		return nil, errors.Wrap(err, "failed to build responder")
	}

	svc, err := usecase.NewChatService(respond, usecase.WithLogger(logger.With("component", "chat")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chat service")
	}

	h, err := handler.NewHandler(svc,
		handler.WithLogger(logger.With("component", "handler")),
		handler.WithMaxBodyBytes(cfg.Service.MaxBodyBytes),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create handler")
	}

	return &app{cfg: cfg, logger: logger, handler: h}, nil
}

func newResponder(ctx context.Context, cfg config.Config) (usecase.Responder, error) {
	if cfg.Responder == config.ResponderEcho {
		return usecase.EchoResponder(usecase.EchoPrefix), nil
	}

	routes := usecase.DefaultRoutes()
	if cfg.RoutesParam != "" {
		loaded, err := fetchRoutes(ctx, cfg.RoutesParam)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load routes from %s", cfg.RoutesParam)
		}
		routes = loaded
	}
	return usecase.KeywordResponder(routes, usecase.KeywordFallbackPrefix), nil
}

// fetchRoutes reads the routing table from SSM. Replaced in tests.
var fetchRoutes = func(ctx context.Context, name string) ([]domain.Route, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}
	client, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, err
	}
	return client.Routes(ctx, name)
}
