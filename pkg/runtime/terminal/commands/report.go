package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/report"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	session *Session
	month   string
	preset  int
	person  string
	cause   string
}

func NewReportCmd(session *Session) *cobra.Command {
	rc := &ReportCmd{session: session}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the relationship loss report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.month, "month", "", "Month to report on (YYYY-MM)")
	cmd.Flags().IntVar(&rc.preset, "last", 0, "Report on a preset window: 7 or 30 days, 1 for this month")
	cmd.Flags().StringVar(&rc.person, "person", "", "Only include this person id")
	cmd.Flags().StringVar(&rc.cause, "cause", "", "Only include people with this dominant cause")

	return cmd
}

func (rc *ReportCmd) filter(now time.Time) (domain.ReportFilter, error) {
	filter := domain.ReportFilter{
		Month:    rc.month,
		PersonID: rc.person,
		Cause:    domain.CauseKey(rc.cause),
	}
	if err := ledger.ValidateMonth(filter.Month); err != nil {
		return filter, err
	}
	if filter.Cause != "" && !filter.Cause.Valid() {
		return filter, fmt.Errorf("unknown cause %q", rc.cause)
	}

	presets := report.Presets(now)
	switch rc.preset {
	case 0:
	case 7:
		filter.Range = &presets[0]
	case 30:
		filter.Range = &presets[1]
	case 1:
		filter.Range = &presets[2]
	default:
		return filter, fmt.Errorf("unsupported window %d, use 7, 30 or 1", rc.preset)
	}
	return filter, nil
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	filter, err := rc.filter(rc.session.now())
	if err != nil {
		return err
	}
	reporter, err := rc.session.Reporter()
	if err != nil {
		return err
	}

	return rc.session.withLedger(cmd.Context(), func(svc ledger.Service, profile domain.ConfigProfile) error {
		l, err := svc.Get(cmd.Context(), profile.Name)
		if err != nil {
			return err
		}
		return reporter.Report(adapters.MapDomainReportToAPI(report.Build(l, filter)))
	})
}
