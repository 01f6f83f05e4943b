package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/casesla/internal/wire"
)

// SweepCmd returns the sweep command.
func SweepCmd() *cobra.Command {
	var anchor, reference, now string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Snapshot every case and notify escalation roles",
		Long: `Snapshot every stored case and hand each AMBER or RED case to the
escalation notifier together with its roles. Notification failures are
reported per case and do not stop the sweep.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := snapshotOptions(anchor, reference, now)
			if err != nil {
				return err
			}
			_, err = wire.CaseAdapterWithOutput(cmd.OutOrStdout()).Sweep(NewContext(), opts)
			return err
		},
	}

	addSnapshotFlags(cmd, &anchor, &reference, &now)
	return cmd
}
