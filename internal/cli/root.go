package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/casesla/internal/version"
)

// RootCmd returns the casesla root command with every subcommand attached.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "casesla",
		Short:   "casesla - audit case SLA tracking and phase progression",
		Version: version.String(),
		Long: `casesla tracks tax-audit cases through their workflow phases and
classifies each case against a per-activity SLA rule as GREEN, AMBER, RED
or GRAY, naming the roles to escalate to when a case is at risk or overdue.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Bootstrap()
		},
	}

	rootCmd.PersistentFlags().StringVar(&globalActorID, "actor", "", "Actor recorded on phase transitions")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .casesla/config.json in cwd or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(RuleCmd())
	rootCmd.AddCommand(CaseCmd())
	rootCmd.AddCommand(SweepCmd())
	rootCmd.AddCommand(ConfigCmd())
	rootCmd.AddCommand(DevCmd())

	return rootCmd
}
