package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/runtime/terminal/export"
	"github.com/de-tools/relationship-roi/pkg/services/config"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
)

// Opener connects to the store a profile points at.
type Opener func(ctx context.Context, profile domain.ConfigProfile) (ledger.Service, io.Closer, error)

// Session carries the state shared by every command: the selected profile, the output
// format and how to reach the profile's ledger.
type Session struct {
	Profiles config.Registry
	Open     Opener
	Output   io.Writer
	Now      func() time.Time

	Profile string
	Format  string
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Session) Reporter() (*export.Reporter, error) {
	return export.NewReporter(s.Output, s.Format)
}

// Ledgers resolves the selected profile and opens its ledger. The caller closes the
// returned closer.
func (s *Session) Ledgers(ctx context.Context) (ledger.Service, domain.ConfigProfile, io.Closer, error) {
	name := s.Profile
	if name == "" {
		name = config.DefaultProfile
	}
	profile, err := s.Profiles.GetProfile(ctx, name)
	if err != nil {
		return nil, domain.ConfigProfile{}, nil, err
	}
	svc, closer, err := s.Open(ctx, profile)
	if err != nil {
		return nil, domain.ConfigProfile{}, nil, fmt.Errorf("failed to open ledger for profile %s: %w", profile, err)
	}
	return svc, profile, closer, nil
}

// withLedger runs fn against the selected profile's ledger.
func (s *Session) withLedger(ctx context.Context, fn func(svc ledger.Service, profile domain.ConfigProfile) error) error {
	svc, profile, closer, err := s.Ledgers(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(svc, profile)
}
