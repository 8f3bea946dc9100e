package commands

import (
	"fmt"

	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/spf13/cobra"
)

type TokenCmd struct {
	auth   *token.Authorizer
	prefix string
	days   int
}

func NewTokenCmd(auth *token.Authorizer) *cobra.Command {
	tc := &TokenCmd{auth: auth}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and inspect access tokens",
	}

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed token",
		RunE:  tc.runIssue,
	}
	issue.Flags().StringVar(&tc.prefix, "prefix", token.DefaultPrefix, "Token prefix")
	issue.Flags().IntVar(&tc.days, "days", token.DefaultDays, "Days until the token expires")

	inspect := &cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Show the generation, expiry and validity of a token",
		Args:  cobra.ExactArgs(1),
		RunE:  tc.runInspect,
	}

	cmd.AddCommand(issue, inspect)
	return cmd
}

func (tc *TokenCmd) runIssue(cmd *cobra.Command, _ []string) error {
	if tc.days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	raw, expiresAt, err := tc.auth.Signed.Issue(tc.prefix, tc.days)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nexpires %s\n", raw, expiresAt.UTC().Format("2006-01-02T15:04:05Z"))
	return err
}

func (tc *TokenCmd) runInspect(cmd *cobra.Command, args []string) error {
	in, err := tc.auth.Inspect(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "generation: %s\n", in.Token.Generation)
	if in.Token.Prefix != "" {
		fmt.Fprintf(out, "prefix:     %s\n", in.Token.Prefix)
	}
	if in.ExpiresAt != "" {
		fmt.Fprintf(out, "expires:    %s\n", in.ExpiresAt)
	}
	_, err = fmt.Fprintf(out, "valid:      %t\n", in.Valid)
	return err
}
