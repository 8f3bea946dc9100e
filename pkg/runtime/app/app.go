// Package app assembles the services from configuration. The web server, the Lambda
// handler and the CLI share it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/server"
	"github.com/de-tools/relationship-roi/pkg/services/billing"
	"github.com/de-tools/relationship-roi/pkg/services/coach"
	"github.com/de-tools/relationship-roi/pkg/services/config"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/ratelimit"
	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/de-tools/relationship-roi/pkg/store/backup"
	"github.com/de-tools/relationship-roi/pkg/store/database"
	"github.com/de-tools/relationship-roi/pkg/store/kv"
	"github.com/de-tools/relationship-roi/pkg/store/snapshot"
	"github.com/rs/zerolog"
)

type App struct {
	Config    *config.Config
	DB        *sql.DB
	Snapshots snapshot.Store
	Ledgers   ledger.Service
	KV        kv.Store
	Auth      *token.Authorizer
	Coach     coach.Service
	Unlocker  *billing.Unlocker
	Verifier  *billing.Verifier
	Limiter   *ratelimit.Limiter
}

// NewAuthorizer builds the bearer token policy from the token settings.
func NewAuthorizer(cfg config.TokenConfig) *token.Authorizer {
	return &token.Authorizer{
		Signed:       token.NewSignedCodec(cfg.Secret),
		Legacy:       &token.LegacyCodec{AllowUnversioned: cfg.AllowUnversioned},
		AcceptLegacy: cfg.AcceptLegacy,
		StaticTokens: billing.ParseCodes(cfg.StaticTokens),
	}
}

// NewCoach returns the coach service. Without an API key only the local rules answer.
func NewCoach(cfg config.CoachConfig) coach.Service {
	var llm coach.Completer
	if cfg.APIKey != "" {
		llm = coach.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model)
	}
	return coach.NewService(llm, coach.Rules{}, cfg.Fallback)
}

// New opens the store and wires every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	db, err := database.NewDB(database.Settings{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	snapshots, err := snapshot.NewStore(db, cfg.Store.Driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}

	store, err := newKV(ctx, cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if store == nil {
		logger.Warn().Msg("no kv backend configured, rate limiting and payment idempotency are off")
	}

	auth := NewAuthorizer(cfg.Token)
	a := &App{
		Config:    cfg,
		DB:        db,
		Snapshots: snapshots,
		Ledgers:   ledger.NewService(snapshots),
		KV:        store,
		Auth:      auth,
		Coach:     NewCoach(cfg.Coach),
		Unlocker: &billing.Unlocker{
			Codes:  billing.ParseCodes(cfg.Billing.UnlockCodes),
			Codec:  auth.Signed,
			Prefix: cfg.Token.Prefix,
		},
		Verifier: &billing.Verifier{
			Codec:  auth.Signed,
			Prefix: cfg.Token.Prefix,
			KV:     store,
		},
		Limiter: ratelimit.New(store, cfg.Coach.RateLimit),
	}
	if cfg.Billing.PortOneSecret != "" {
		a.Verifier.Payments = billing.NewPortOneClient(cfg.Billing.PortOneBaseURL, cfg.Billing.PortOneSecret)
	}
	return a, nil
}

func newKV(ctx context.Context, cfg *config.Config, db *sql.DB) (kv.Store, error) {
	if cfg.KV.Backend == "" {
		return nil, nil
	}

	opts := kv.Options{DB: db, Driver: cfg.Store.Driver, TableName: cfg.KV.TableName}
	if cfg.KV.Backend == "dynamodb" {
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		opts.Dynamo = dynamodb.NewFromConfig(awsCfg)
	}
	return kv.DefaultRegistry().Create(cfg.KV.Backend, opts)
}

// OpenProfile opens the ledger store a CLI profile points at. Closing the returned
// closer releases the database.
func OpenProfile(_ context.Context, p domain.ConfigProfile) (ledger.Service, io.Closer, error) {
	db, err := database.NewDB(database.Settings{Driver: p.StoreDriver, DSN: p.StoreDSN})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open profile %s: %w", p, err)
	}
	snapshots, err := snapshot.NewStore(db, p.StoreDriver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}
	return ledger.NewService(snapshots), db, nil
}

// NewUploader returns the S3 uploader when a bucket is set, the directory uploader when a
// directory is set, and nil otherwise.
func NewUploader(ctx context.Context, cfg *config.Config) (backup.Uploader, error) {
	switch {
	case cfg.Backup.Bucket != "":
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		return backup.NewS3UploaderFromConfig(awsCfg, cfg.Backup.Bucket, cfg.Backup.Prefix)
	case cfg.Backup.Dir != "":
		return backup.NewDirUploader(cfg.Backup.Dir)
	}
	return nil, nil
}

// WebAPI builds the HTTP API over the wired services.
func (a *App) WebAPI(logger zerolog.Logger) *server.WebAPI {
	return server.NewWebAPI(logger, server.Config{
		Addr: a.Config.Addr(),
		Dependencies: server.Dependencies{
			Ledgers:      a.Ledgers,
			Coach:        a.Coach,
			Unlocker:     a.Unlocker,
			Verifier:     a.Verifier,
			Auth:         a.Auth,
			RequireToken: a.Config.Coach.RequireToken,
			Limiter:      a.Limiter,
		},
	})
}

func (a *App) Close() error {
	return a.DB.Close()
}
