package commands

import (
	"fmt"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/spf13/cobra"
)

// dispatch applies ev to the selected profile and prints the resulting ledger.
func (s *Session) dispatch(cmd *cobra.Command, ev ledger.Event) error {
	reporter, err := s.Reporter()
	if err != nil {
		return err
	}
	return s.withLedger(cmd.Context(), func(svc ledger.Service, profile domain.ConfigProfile) error {
		l, err := svc.Dispatch(cmd.Context(), profile.Name, ev)
		if err != nil {
			return err
		}
		return reporter.Ledger(adapters.MapDomainLedgerToAPI(l))
	})
}

func (s *Session) show(cmd *cobra.Command) error {
	reporter, err := s.Reporter()
	if err != nil {
		return err
	}
	return s.withLedger(cmd.Context(), func(svc ledger.Service, profile domain.ConfigProfile) error {
		l, err := svc.Get(cmd.Context(), profile.Name)
		if err != nil {
			return err
		}
		return reporter.Ledger(adapters.MapDomainLedgerToAPI(l))
	})
}

type PersonCmd struct {
	session  *Session
	client   bool
	category string
}

func NewPersonCmd(session *Session) *cobra.Command {
	pc := &PersonCmd{session: session}
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage the people on the ledger",
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			person := adapters.MapAPIPersonRequestToDomain(api.PersonRequest{
				Name:     args[0],
				IsClient: pc.client,
				Category: pc.category,
			})
			return session.dispatch(cmd, ledger.PersonAdd{Person: person})
		},
	}
	add.Flags().BoolVar(&pc.client, "client", false, "Mark the person as a client")
	add.Flags().StringVar(&pc.category, "category", "", "Category: work, family, friend, client or other")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a person and their entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.dispatch(cmd, ledger.PersonDelete{PersonID: args[0]})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return session.show(cmd)
		},
	}

	cmd.AddCommand(add, rm, list)
	return cmd
}

type EntryCmd struct {
	session *Session
	req     api.EntryRequest
}

func NewEntryCmd(session *Session) *cobra.Command {
	ec := &EntryCmd{session: session}
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record interactions",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Record one interaction",
		RunE:  ec.runAdd,
	}
	add.Flags().StringVar(&ec.req.PersonID, "person", "", "Person id")
	add.Flags().StringVar(&ec.req.Date, "date", "", "Date (YYYY-MM-DD), defaults to today")
	add.Flags().IntVar(&ec.req.Minutes, "minutes", 0, "Minutes spent")
	add.Flags().Int64Var(&ec.req.MoneyWon, "money", 0, "Money spent in won")
	add.Flags().IntVar(&ec.req.MoodDelta, "mood", 0, "Mood change from -2 to 2")
	add.Flags().IntVar(&ec.req.Reciprocity, "reciprocity", 3, "Reciprocity from 1 to 5")
	add.Flags().BoolVar(&ec.req.BoundaryHit, "boundary", false, "A boundary was crossed")
	add.Flags().StringVar(&ec.req.Note, "note", "", "Free text note")
	_ = add.MarkFlagRequired("person")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.dispatch(cmd, ledger.EntryDelete{EntryID: args[0]})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func (ec *EntryCmd) runAdd(cmd *cobra.Command, _ []string) error {
	req := ec.req
	if req.Date == "" {
		req.Date = ec.session.now().Format("2006-01-02")
	}
	entry := adapters.MapAPIEntryRequestToDomain("", req)
	if err := ledger.ValidateEntry(entry, ec.session.now()); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	return ec.session.dispatch(cmd, ledger.EntryAdd{Entry: entry})
}
