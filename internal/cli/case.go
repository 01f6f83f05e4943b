package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/casesla/internal/ports/primary"
	"github.com/example/casesla/internal/wire"
)

// CaseCmd returns the case command group.
func CaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Register, advance and inspect audit cases",
		Long: `Manage audit cases. Cases move through these phases:

  selection -> verification -> approval -> assignment -> audit_start ->
  supervisor_review -> section_chief_review -> close

Every transition is appended to the case history with its actor.`,
	}

	cmd.AddCommand(caseRegisterCmd())
	cmd.AddCommand(caseAdvanceCmd())
	cmd.AddCommand(caseNextCmd())
	cmd.AddCommand(caseShowCmd())
	cmd.AddCommand(caseListCmd())
	cmd.AddCommand(caseStatusCmd())
	return cmd
}

func caseRegisterCmd() *cobra.Command {
	var ruc, name, activity, category, status, deadline string

	cmd := &cobra.Command{
		Use:   "register [case-id]",
		Short: "Register a new case in the selection phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := parseOptionalDate(deadline)
			if err != nil {
				return err
			}
			_, err = wire.CaseAdapterWithOutput(cmd.OutOrStdout()).Register(NewContext(), primary.RegisterCaseRequest{
				ID:       args[0],
				RUC:      ruc,
				Name:     name,
				Activity: activity,
				Category: category,
				Status:   status,
				Deadline: dl,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&ruc, "ruc", "", "Taxpayer RUC")
	cmd.Flags().StringVar(&name, "name", "", "Taxpayer name")
	cmd.Flags().StringVar(&activity, "activity", "", "Activity used to select the SLA rule")
	cmd.Flags().StringVar(&category, "category", "", "Case category")
	cmd.Flags().StringVar(&status, "status", "", "Business status label")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	return cmd
}

func caseAdvanceCmd() *cobra.Command {
	var note, deadline string
	var ruc, name, activity, category, status string

	cmd := &cobra.Command{
		Use:   "advance [case-id] [phase]",
		Short: "Move a case to a phase (registers unknown cases)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := parseOptionalDate(deadline)
			if err != nil {
				return err
			}
			_, err = wire.CaseAdapterWithOutput(cmd.OutOrStdout()).Advance(NewContext(), primary.AdvanceCaseRequest{
				CaseID:   args[0],
				To:       args[1],
				Actor:    GetActorID(),
				Note:     note,
				Deadline: dl,
				RUC:      ruc,
				Name:     name,
				Activity: activity,
				Category: category,
				Status:   status,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note recorded with the transition")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline (YYYY-MM-DD); omitted keeps the current one")
	cmd.Flags().StringVar(&ruc, "ruc", "", "Taxpayer RUC (set on the case when given)")
	cmd.Flags().StringVar(&name, "name", "", "Taxpayer name (set on the case when given)")
	cmd.Flags().StringVar(&activity, "activity", "", "Activity used to select the SLA rule (set on the case when given)")
	cmd.Flags().StringVar(&category, "category", "", "Case category (set on the case when given)")
	cmd.Flags().StringVar(&status, "status", "", "Business status label (set on the case when given)")
	return cmd
}

func caseNextCmd() *cobra.Command {
	var note, deadline string

	cmd := &cobra.Command{
		Use:   "next [case-id]",
		Short: "Move a case to the next phase in canonical order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := parseOptionalDate(deadline)
			if err != nil {
				return err
			}
			_, err = wire.CaseAdapterWithOutput(cmd.OutOrStdout()).Next(NewContext(), primary.AdvanceCaseNextRequest{
				CaseID:   args[0],
				Actor:    GetActorID(),
				Note:     note,
				Deadline: dl,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note recorded with the transition")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline (YYYY-MM-DD)")
	return cmd
}

func caseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [case-id]",
		Short: "Show a case and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.CaseAdapterWithOutput(cmd.OutOrStdout()).Show(NewContext(), args[0])
			return err
		},
	}
}

func caseListCmd() *cobra.Command {
	var phase, activity string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.CaseAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), primary.CaseFilters{
				Phase:    phase,
				Activity: activity,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Filter by phase")
	cmd.Flags().StringVar(&activity, "activity", "", "Filter by activity")
	return cmd
}

func caseStatusCmd() *cobra.Command {
	var phase, activity, anchor, reference, now string

	cmd := &cobra.Command{
		Use:   "status [case-id...]",
		Short: "Show SLA tier and escalation for cases",
		Long: `Compute elapsed days, SLA tier and escalation roles. With no case IDs,
every case matching --phase/--activity is included.

Elapsed days are measured from the anchor:
  last_transition  the most recent history entry (default)
  deadline         the case deadline
  explicit         the date given with --reference`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := snapshotOptions(anchor, reference, now)
			if err != nil {
				return err
			}
			_, err = wire.CaseAdapterWithOutput(cmd.OutOrStdout()).Status(NewContext(), args, primary.CaseFilters{
				Phase:    phase,
				Activity: activity,
			}, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Filter by phase")
	cmd.Flags().StringVar(&activity, "activity", "", "Filter by activity")
	addSnapshotFlags(cmd, &anchor, &reference, &now)
	return cmd
}

func addSnapshotFlags(cmd *cobra.Command, anchor, reference, now *string) {
	cmd.Flags().StringVar(anchor, "anchor", "", "Reference anchor: last_transition, deadline or explicit")
	cmd.Flags().StringVar(reference, "reference", "", "Reference date for the explicit anchor (YYYY-MM-DD)")
	cmd.Flags().StringVar(now, "now", "", "Evaluate as of this date instead of today")
}
