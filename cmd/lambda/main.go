package main

import (
	"context"
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/de-tools/relationship-roi/pkg/runtime/app"
	"github.com/de-tools/relationship-roi/pkg/server/lambda"
	"github.com/de-tools/relationship-roi/pkg/services/config"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load(os.Getenv("ROI_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize services: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	awslambda.Start(lambda.NewHandler(a.WebAPI(logger).Router()))
}
