package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/relationship-roi/pkg/runtime/app"
	"github.com/de-tools/relationship-roi/pkg/runtime/terminal"
	"github.com/de-tools/relationship-roi/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load(os.Getenv("ROI_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	profiles, err := config.NewRegistry(config.DefaultProfilePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Profiles: profiles,
		Open:     app.OpenProfile,
		Auth:     app.NewAuthorizer(cfg.Token),
		Coach:    app.NewCoach(cfg.Coach),
		Output:   os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
