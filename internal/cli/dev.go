package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/casesla/internal/config"
	"github.com/example/casesla/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long: `Development utilities for working with a scratch casesla database.

These commands require CASESLA_DB_PATH to be set so they never touch the
database named in your config file by accident.`,
	}

	cmd.AddCommand(devResetCmd())
	cmd.AddCommand(devDoctorCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds sample SLA rules and cases spread across the phases`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			dbPath := os.Getenv(config.EnvDBPath)
			if dbPath == "" {
				return fmt.Errorf("%s not set\n\nThis safety check prevents accidental reset of your real database", config.EnvDBPath)
			}

			if !force {
				fmt.Fprintf(out, "This will delete and recreate: %s\n", dbPath)
				fmt.Fprint(out, "Continue? [y/N] ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.TrimSpace(response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			db.Close()

			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Fprintf(out, "✓ Deleted %s\n", dbPath)

			database, err := db.GetDB(dbPath)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Fprintln(out, "✓ Created fresh database with schema")

			if err := db.SeedFixtures(database, time.Now()); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Fprintln(out, "✓ Seeded fixture data")

			fmt.Fprintln(out, "\nDev database reset complete!")
			fmt.Fprintln(out, "\nSeeded entities:")
			fmt.Fprintln(out, "  - 3 SLA rules (ACTA_INICIO, REQUERIMIENTO, INFORME_FINAL)")
			fmt.Fprintln(out, "  - 4 cases, one without a matching rule")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func devDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check dev environment health",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			issues := 0

			fmt.Fprintln(out, "=== casesla Dev Environment Health Check ===")
			fmt.Fprintln(out)

			dbPath := os.Getenv(config.EnvDBPath)
			fmt.Fprintln(out, "1. Environment Configuration")
			if dbPath == "" {
				fmt.Fprintf(out, "   ✗ %s not set\n", config.EnvDBPath)
				return fmt.Errorf("dev environment not configured")
			}
			fmt.Fprintf(out, "   ✓ %s=%s\n", config.EnvDBPath, dbPath)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "2. Development Database")
			info, err := os.Stat(dbPath)
			if err != nil {
				fmt.Fprintf(out, "   ✗ Database not found: %s\n", dbPath)
				fmt.Fprintln(out, "\n   FIX: Run 'casesla dev reset'")
				return fmt.Errorf("dev database missing")
			}
			fmt.Fprintf(out, "   ✓ Database exists (%d KB)\n", info.Size()/1024)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "3. Schema Version")
			database, err := db.GetDB(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			v, err := db.CurrentVersion(database)
			if err != nil {
				issues++
				fmt.Fprintf(out, "   ✗ %v\n", err)
			} else {
				fmt.Fprintf(out, "   ✓ Schema at version %d\n", v)
			}

			fmt.Fprintln(out)
			if issues > 0 {
				return fmt.Errorf("%d issue(s) found", issues)
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}
}
