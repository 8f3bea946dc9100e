package commands

import (
	"fmt"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	session *Session
	profile domain.ConfigProfile
}

func NewProfilesCmd(session *Session) *cobra.Command {
	pc := &ProfilesCmd{session: session}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and create ledger profiles",
		RunE:  pc.runList,
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create or update a profile and seed its hourly rate",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.runAdd,
	}
	add.Flags().StringVar(&pc.profile.StoreDriver, "driver", "duckdb", "Store driver: duckdb, sqlite3 or postgres")
	add.Flags().StringVar(&pc.profile.StoreDSN, "dsn", "", "Store location, defaults to roi-NAME.db")
	add.Flags().Int64Var(&pc.profile.HourlyRateWon, "hourly-rate", domain.DefaultHourlyRateWon, "Value of one hour in won")

	cmd.AddCommand(add)
	return cmd
}

func (pc *ProfilesCmd) runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	names, err := pc.session.Profiles.GetProfiles(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured, the default profile is used.")
		return nil
	}
	for _, name := range names {
		p, err := pc.session.Profiles.GetProfile(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-10s %-30s %d\n", p.Name, p.StoreDriver, p.StoreDSN, p.HourlyRateWon)
	}
	return nil
}

func (pc *ProfilesCmd) runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := pc.profile
	p.Name = args[0]
	if p.StoreDSN == "" {
		p.StoreDSN = fmt.Sprintf("roi-%s.db", p.Name)
	}
	if err := ledger.ValidateMoneyWon(p.HourlyRateWon); err != nil {
		return err
	}
	if err := pc.session.Profiles.SaveProfile(ctx, p); err != nil {
		return err
	}

	pc.session.Profile = p.Name
	return pc.session.dispatch(cmd, ledger.SettingsPatch{HourlyRateWon: &p.HourlyRateWon})
}
