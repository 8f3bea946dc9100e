package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/privacy"
	"github.com/spf13/cobra"
)

// inputTexts returns args, or the lines of stdin when no args are given.
func inputTexts(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var texts []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		texts = append(texts, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return texts, nil
}

func NewScanCmd(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [TEXT...]",
		Short: "Check text for personal information before sharing",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := inputTexts(cmd, args)
			if err != nil {
				return err
			}
			reporter, err := session.Reporter()
			if err != nil {
				return err
			}
			report := privacy.BuildShareSafetyReport(texts)
			return reporter.ShareReport(adapters.MapDomainShareReportToAPI(report))
		},
	}
}

type MaskCmd struct {
	session   *Session
	anonymize bool
}

func NewMaskCmd(session *Session) *cobra.Command {
	mc := &MaskCmd{session: session}
	cmd := &cobra.Command{
		Use:   "mask [TEXT...]",
		Short: "Mask personal information in text",
		RunE:  mc.run,
	}
	cmd.Flags().BoolVar(&mc.anonymize, "anonymize", false, "Also replace the names of people on the ledger")
	return cmd
}

func (mc *MaskCmd) run(cmd *cobra.Command, args []string) error {
	texts, err := inputTexts(cmd, args)
	if err != nil {
		return err
	}
	text := privacy.Mask(strings.Join(texts, "\n"))

	if mc.anonymize {
		err := mc.session.withLedger(cmd.Context(), func(svc ledger.Service, profile domain.ConfigProfile) error {
			l, err := svc.Get(cmd.Context(), profile.Name)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(l.People))
			for _, p := range l.People {
				names = append(names, p.Name)
			}
			text = privacy.BuildAliasMap(names).Text(text)
			return nil
		})
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
