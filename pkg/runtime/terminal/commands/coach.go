package commands

import (
	"strings"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/coach"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/report"
	"github.com/spf13/cobra"
)

type CoachCmd struct {
	session *Session
	coach   coach.Service
	tone    string
	context string
	month   string
	model   bool
}

func NewCoachCmd(session *Session, svc coach.Service) *cobra.Command {
	cc := &CoachCmd{session: session, coach: svc}
	cmd := &cobra.Command{
		Use:   "coach SITUATION",
		Short: "Get a verdict on a situation from this month's report",
		Args:  cobra.MinimumNArgs(1),
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.tone, "tone", string(domain.ToneCold), "Tone: 냉정, 정중 or 유머")
	cmd.Flags().StringVar(&cc.context, "context", string(domain.ContextPersonal), "Context: personal or client")
	cmd.Flags().StringVar(&cc.month, "month", "", "Month of the report (YYYY-MM), defaults to this month")
	cmd.Flags().BoolVar(&cc.model, "model", false, "Ask the configured language model instead of the local rules")

	return cmd
}

func (cc *CoachCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	situation := strings.TrimSpace(strings.Join(args, " "))
	if situation == "" {
		return coach.ErrSituationRequired
	}
	month := cc.month
	if month == "" {
		month = report.MonthLabel(cc.session.now())
	}
	if err := ledger.ValidateMonth(month); err != nil {
		return err
	}
	reporter, err := cc.session.Reporter()
	if err != nil {
		return err
	}

	return cc.session.withLedger(ctx, func(svc ledger.Service, profile domain.ConfigProfile) error {
		l, err := svc.Dispatch(ctx, profile.Name, ledger.CoachUsed{})
		if err != nil {
			return err
		}
		rep := report.Build(l, domain.ReportFilter{Month: month})
		tone := coach.ClientTone(coach.SanitizeTone(cc.tone))
		payload := coach.ToPayload(rep, situation, tone, coach.SanitizeContext(cc.context))

		if cc.model {
			payload.Tone = coach.ServerTone(tone)
			advice, err := cc.coach.Advise(ctx, payload)
			if err != nil {
				return err
			}
			return reporter.Verdict(adapters.MapDomainVerdictToAPI(coach.VerdictFromAdvice(advice, payload.Report)))
		}

		verdict, err := cc.coach.Judge(ctx, payload)
		if err != nil {
			return err
		}
		return reporter.Verdict(adapters.MapDomainVerdictToAPI(verdict))
	})
}
