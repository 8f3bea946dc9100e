package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/store/backup"
	"github.com/de-tools/relationship-roi/pkg/store/kv"
	"github.com/rs/zerolog"
)

// PurgeJob deletes expired rate-limit and payment keys.
type PurgeJob struct {
	Purger kv.Purger
}

func (j PurgeJob) Name() string { return "kv-purge" }

func (j PurgeJob) Run(ctx context.Context) error {
	n, err := j.Purger.Purge(ctx)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Int64("removed", n).Msg("expired keys purged")
	return nil
}

type ProfileSource interface {
	Profiles(ctx context.Context) ([]string, error)
	Load(ctx context.Context, profile string) (domain.Ledger, error)
}

// BackupJob exports every stored profile as a JSON backup.
type BackupJob struct {
	Source   ProfileSource
	Uploader backup.Uploader
	Now      func() time.Time
}

func (j BackupJob) Name() string { return "ledger-backup" }

func (j BackupJob) Run(ctx context.Context) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	profiles, err := j.Source.Profiles(ctx)
	if err != nil {
		return err
	}

	for _, profile := range profiles {
		if _, err := BackupProfile(ctx, j.Source, j.Uploader, profile, now()); err != nil {
			return err
		}
	}
	return nil
}

// BackupProfile uploads one profile's JSON export to {profile}/{timestamp}.json.
func BackupProfile(ctx context.Context, source ProfileSource, uploader backup.Uploader, profile string, now time.Time) (string, error) {
	l, err := source.Load(ctx, profile)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", profile, err)
	}
	data, err := ledger.ExportJSON(l, now)
	if err != nil {
		return "", fmt.Errorf("failed to export %s: %w", profile, err)
	}

	key := fmt.Sprintf("%s/%s.json", profile, now.UTC().Format("20060102T150405Z"))
	location, err := uploader.Upload(ctx, key, data, "application/json")
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Info().Str("profile", profile).Str("location", location).Msg("ledger backed up")
	return location, nil
}
