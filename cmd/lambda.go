package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"chat-backend/internal/config"
)

func newLambdaCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function behind API Gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), *configPath, config.ModeLambda)
			if err != nil {
				return err
			}
			return runLambda(cmd.Context(), a)
		},
	}
}

func runLambda(ctx context.Context, a *app) error {
	a.logger.Info("lambda starting")
	lambda.StartWithOptions(a.handler.Handle, lambda.WithContext(ctx))
	return nil
}
