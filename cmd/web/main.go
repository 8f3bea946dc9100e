package main

import (
	"fmt"
	"os"

	"github.com/de-tools/relationship-roi/pkg/runtime/app"
	"github.com/de-tools/relationship-roi/pkg/services/config"
	"github.com/de-tools/relationship-roi/pkg/services/workflow"
	"github.com/de-tools/relationship-roi/pkg/store/kv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Relationship ROI",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer a.Close()

	jobs := workflow.NewController()
	defer jobs.Shutdown(ctx)

	if purger, ok := a.KV.(kv.Purger); ok {
		err = jobs.Start(ctx, workflow.PurgeJob{Purger: purger}, workflow.RunnerConfig{Interval: cfg.KV.PurgeInterval})
		if err != nil {
			return fmt.Errorf("failed to start purge job: %w", err)
		}
	}

	uploader, err := app.NewUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create backup uploader: %w", err)
	}
	if uploader != nil {
		job := workflow.BackupJob{Source: a.Snapshots, Uploader: uploader}
		if err := jobs.Start(ctx, job, workflow.RunnerConfig{Interval: cfg.Backup.Interval}); err != nil {
			return fmt.Errorf("failed to start backup job: %w", err)
		}
	}

	logger.Info().Str("store", cfg.Store.Driver).Str("kv", cfg.KV.Backend).Strs("jobs", jobs.Running()).
		Msg("services initialized")

	return a.WebAPI(logger).Start()
}
