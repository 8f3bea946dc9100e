package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/spf13/cobra"
)

type BackupCmd struct {
	session *Session
	format  string
	out     string
}

func NewBackupCmd(session *Session) *cobra.Command {
	bc := &BackupCmd{session: session}
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore the ledger",
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup or a CSV of the entries",
		RunE:  bc.runExport,
	}
	export.Flags().StringVar(&bc.format, "as", "json", "Backup format: json or csv")
	export.Flags().StringVarP(&bc.out, "file", "f", "", "Output file, defaults to stdout")

	restore := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the ledger with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE:  bc.runRestore,
	}

	cmd.AddCommand(export, restore)
	return cmd
}

func (bc *BackupCmd) runExport(cmd *cobra.Command, _ []string) error {
	var data []byte
	err := bc.session.withLedger(cmd.Context(), func(svc ledger.Service, profile domain.ConfigProfile) error {
		l, err := svc.Get(cmd.Context(), profile.Name)
		if err != nil {
			return err
		}
		switch bc.format {
		case "json":
			data, err = ledger.ExportJSON(l, bc.session.now())
			return err
		case "csv":
			data = []byte(ledger.ExportCSV(l))
			return nil
		default:
			return fmt.Errorf("unsupported backup format %q", bc.format)
		}
	})
	if err != nil {
		return err
	}

	if bc.out == "" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(bc.out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", bc.out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "backup written to %s\n", bc.out)
	return nil
}

func (bc *BackupCmd) runRestore(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	backup, err := ledger.ImportJSON(data)
	if err != nil {
		return err
	}
	return bc.session.dispatch(cmd, ledger.Restore{Backup: backup})
}
