package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const (
	DefaultProfile     = "default"
	DefaultProfileFile = ".roicfg"
)

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (domain.ConfigProfile, error)
	SaveProfile(ctx context.Context, profile domain.ConfigProfile) error
}

type cfgRegistry struct {
	path string
	cfg  *ini.File
}

// DefaultProfilePath returns $HOME/.roicfg.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFile
	}
	return filepath.Join(home, DefaultProfileFile)
}

// NewRegistry loads the profile file at path. A missing file yields an empty registry
// that still serves the default profile.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = ini.Empty()
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{path: path, cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.ConfigProfile, error) {
	profile := domain.ConfigProfile{
		Name:          name,
		StoreDriver:   "duckdb",
		StoreDSN:      fmt.Sprintf("roi-%s.db", name),
		HourlyRateWon: domain.DefaultHourlyRateWon,
	}

	section, err := cr.cfg.GetSection(name)
	if err != nil {
		if name == DefaultProfile {
			return profile, nil
		}
		return domain.ConfigProfile{}, fmt.Errorf("profile %s not found", name)
	}

	profile.StoreDriver = section.Key("store_driver").MustString(profile.StoreDriver)
	profile.StoreDSN = section.Key("store_dsn").MustString(profile.StoreDSN)
	profile.HourlyRateWon = section.Key("hourly_rate").MustInt64(profile.HourlyRateWon)
	return profile, nil
}

func (cr *cfgRegistry) SaveProfile(_ context.Context, p domain.ConfigProfile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	section := cr.cfg.Section(p.Name)
	section.Key("store_driver").SetValue(p.StoreDriver)
	section.Key("store_dsn").SetValue(p.StoreDSN)
	section.Key("hourly_rate").SetValue(fmt.Sprintf("%d", p.HourlyRateWon))

	if err := cr.cfg.SaveTo(cr.path); err != nil {
		return fmt.Errorf("failed to save profiles to %s: %w", cr.path, err)
	}
	return nil
}
