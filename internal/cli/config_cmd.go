package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/casesla/internal/config"
	"github.com/example/casesla/internal/wire"
)

// ConfigCmd returns the config command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), wire.Config().String())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to .casesla/config.json in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			if _, err := os.Stat(config.Path(cwd)); err == nil {
				return fmt.Errorf("%s already exists", config.Path(cwd))
			}
			if err := config.SaveConfig(cwd, wire.Config()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", config.Path(cwd))
			return nil
		},
	})

	return cmd
}
