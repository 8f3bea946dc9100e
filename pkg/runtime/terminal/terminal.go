package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/de-tools/relationship-roi/pkg/runtime/terminal/commands"
	"github.com/de-tools/relationship-roi/pkg/runtime/terminal/export"
	"github.com/de-tools/relationship-roi/pkg/services/coach"
	"github.com/de-tools/relationship-roi/pkg/services/config"
	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	session *commands.Session
	auth    *token.Authorizer
	coach   coach.Service
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Profiles config.Registry
	Open     commands.Opener
	Auth     *token.Authorizer
	Coach    coach.Service
	Output   io.Writer
	Now      func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		session: &commands.Session{
			Profiles: opts.Profiles,
			Open:     opts.Open,
			Output:   opts.Output,
			Now:      opts.Now,
		},
		auth:  opts.Auth,
		coach: opts.Coach,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the command tree with ctx, which carries the logger.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides the process arguments.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roi",
		Short:         "Relationship ROI ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.session.Profile, "profile", "p", config.DefaultProfile, "Ledger profile")
	cmd.PersistentFlags().StringVarP(&cli.session.Format, "output", "o", export.FormatText, "Output format: text, json or yaml")

	cmd.AddCommand(commands.NewReportCmd(cli.session))
	cmd.AddCommand(commands.NewPersonCmd(cli.session))
	cmd.AddCommand(commands.NewEntryCmd(cli.session))
	cmd.AddCommand(commands.NewScanCmd(cli.session))
	cmd.AddCommand(commands.NewMaskCmd(cli.session))
	cmd.AddCommand(commands.NewTokenCmd(cli.auth))
	cmd.AddCommand(commands.NewBackupCmd(cli.session))
	cmd.AddCommand(commands.NewCoachCmd(cli.session, cli.coach))
	cmd.AddCommand(commands.NewProfilesCmd(cli.session))

	return cmd
}
