package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/casesla/internal/ports/primary"
	"github.com/example/casesla/internal/wire"
)

// RuleCmd returns the rule command group.
func RuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage the SLA rule catalog",
		Long: `Manage SLA rules. Each rule belongs to one activity and splits its
allowed days into GREEN, AMBER and RED bands:

  1 <= green.from <= green.to < amber.from <= amber.to < red.from <= red.to <= total

Activities are matched trimmed and case-insensitively.`,
	}

	cmd.AddCommand(ruleSetCmd())
	cmd.AddCommand(ruleShowCmd())
	cmd.AddCommand(ruleListCmd())
	cmd.AddCommand(ruleRemoveCmd())
	cmd.AddCommand(ruleValidateCmd())
	cmd.AddCommand(ruleImportCmd())
	cmd.AddCommand(ruleExportCmd())
	return cmd
}

func ruleSetCmd() *cobra.Command {
	var (
		product, role, green, amber, red, amberTo string
		total                                     int
		redTo                                     []string
	)

	cmd := &cobra.Command{
		Use:   "set [activity]",
		Short: "Create or replace the rule for an activity",
		Example: `  casesla rule set ACTA_INICIO --role Auditor --total 5 \
    --green 1-3 --amber 4-4 --red 5-5 --amber-to Supervisor --red-to JefeSeccion`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := primary.Rule{
				Activity:         args[0],
				Product:          product,
				ResponsibleRole:  role,
				TotalAllowedDays: total,
				EscalateAmberTo:  amberTo,
				EscalateRedTo:    redTo,
			}
			var err error
			if rule.Green, err = parseBand(green); err != nil {
				return err
			}
			if rule.Amber, err = parseBand(amber); err != nil {
				return err
			}
			if rule.Red, err = parseBand(red); err != nil {
				return err
			}

			return wire.RuleAdapterWithOutput(cmd.OutOrStdout()).Set(NewContext(), rule)
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product label")
	cmd.Flags().StringVar(&role, "role", "", "Responsible role")
	cmd.Flags().IntVar(&total, "total", 0, "Total allowed days")
	cmd.Flags().StringVar(&green, "green", "", "GREEN band as from-to")
	cmd.Flags().StringVar(&amber, "amber", "", "AMBER band as from-to")
	cmd.Flags().StringVar(&red, "red", "", "RED band as from-to")
	cmd.Flags().StringVar(&amberTo, "amber-to", "", "Role to escalate to in AMBER")
	cmd.Flags().StringSliceVar(&redTo, "red-to", nil, "Roles to escalate to in RED, in order (at most 3)")
	cmd.MarkFlagRequired("total")
	cmd.MarkFlagRequired("green")
	cmd.MarkFlagRequired("amber")
	cmd.MarkFlagRequired("red")
	return cmd
}

func ruleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [activity]",
		Short: "Show the rule for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RuleAdapterWithOutput(cmd.OutOrStdout()).Show(NewContext(), args[0])
			return err
		},
	}
}

func ruleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RuleAdapterWithOutput(cmd.OutOrStdout()).List(NewContext())
			return err
		},
	}
}

func ruleRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [activity]",
		Short: "Remove the rule for an activity (no-op if absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RuleAdapterWithOutput(cmd.OutOrStdout()).Remove(NewContext(), args[0])
		},
	}
}

func ruleValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a YAML rule document without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			invalid, err := wire.RuleAdapterWithOutput(cmd.OutOrStdout()).Validate(NewContext(), in)
			if err != nil {
				return err
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid rule(s)", invalid)
			}
			return nil
		},
	}
}

func ruleImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a YAML rule document (all or nothing)",
		Long: `Import every rule in a YAML document, replacing existing rules for the
same activities. If any rule is invalid nothing is written. Use - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			_, err = wire.RuleAdapterWithOutput(cmd.OutOrStdout()).Import(NewContext(), in)
			return err
		},
	}
}

func ruleExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the catalog as a YAML document (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.RuleAdapterWithOutput(cmd.OutOrStdout())
			if len(args) == 0 || args[0] == "-" {
				return adapter.Export(NewContext(), cmd.OutOrStdout())
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := adapter.Export(NewContext(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported catalog to %s\n", args[0])
			return nil
		},
	}
}
