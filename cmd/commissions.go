package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"ledgerkit/internal/access"
	"ledgerkit/internal/api"
	"ledgerkit/pkg/models"
)

var (
	commissionCompanyID int64
	commissionInvoiceID int64
	commissionUserID    int64
)

var commissionsCmd = &cobra.Command{
	Use:   "commissions",
	Short: "Manage commissions and their approval workflow",
	Long: `Commissions move through pending → approved → paid via dedicated
approve and mark-paid actions. The snapshot action asks the backend to
bulk-generate commission records from an invoice; the generated records
are merged into the local cache.`,
}

var commissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List commissions, filtered by company, invoice or user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		user, err := a.requireAuth(ctx)
		if err != nil {
			return err
		}
		if err := a.requirePermission(user, access.CommissionRead); err != nil {
			return err
		}
		commissions, err := a.clients.Commissions.List(ctx, api.CommissionFilter{
			CompanyID: commissionCompanyID,
			InvoiceID: commissionInvoiceID,
			UserID:    commissionUserID,
		})
		if err != nil {
			return err
		}
		a.stores.Commissions.SetAll(commissions)
		return writeJSON(commissions, outputFile)
	},
}

var (
	commissionBaseCents int64
	commissionPercent   float64
)

var commissionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a commission manually",
	Example: `  ledgerkit commissions create --company 1 --invoice 5 --user 7 \
      --base-cents 250000 --percent 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		user, err := a.requireAuth(ctx)
		if err != nil {
			return err
		}
		if err := a.requirePermission(user, access.CommissionRead); err != nil {
			return err
		}
		created, err := a.clients.Commissions.Create(ctx, api.CommissionPayload{
			CompanyID:       commissionCompanyID,
			InvoiceID:       commissionInvoiceID,
			UserID:          commissionUserID,
			BaseAmountCents: commissionBaseCents,
			Percent:         commissionPercent,
		})
		if err != nil {
			return err
		}
		a.stores.Commissions.Add(created)
		return writeJSON(created, outputFile)
	},
}

var commissionsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one commission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		user, err := a.requireAuth(ctx)
		if err != nil {
			return err
		}
		if err := a.requirePermission(user, access.CommissionRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		commission, err := a.clients.Commissions.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(commission, outputFile)
	},
}

var commissionsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a commission's writable fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		user, err := a.requireAuth(ctx)
		if err != nil {
			return err
		}
		if err := a.requirePermission(user, access.CommissionRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		updated, err := a.clients.Commissions.Update(ctx, id, api.CommissionPayload{
			CompanyID:       commissionCompanyID,
			InvoiceID:       commissionInvoiceID,
			UserID:          commissionUserID,
			BaseAmountCents: commissionBaseCents,
			Percent:         commissionPercent,
		})
		if err != nil {
			return err
		}
		if uerr := a.stores.Commissions.Update(updated); uerr != nil {
			a.stores.Commissions.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var commissionsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a commission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		user, err := a.requireAuth(ctx)
		if err != nil {
			return err
		}
		if err := a.requirePermission(user, access.CommissionRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.clients.Commissions.Delete(ctx, id); err != nil {
			return err
		}
		_ = a.stores.Commissions.Remove(id)
		return nil
	},
}

var commissionsSnapshotCmd = &cobra.Command{
	Use:   "snapshot [invoice-id]",
	Short: "Bulk-generate commissions from an invoice server-side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		user, err := a.requireAuth(ctx)
		if err != nil {
			return err
		}
		if err := a.requirePermission(user, access.CommissionCreateSnapshot); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		created, err := a.clients.Commissions.CreateSnapshot(ctx, id)
		if err != nil {
			return err
		}
		for _, c := range created {
			a.stores.Commissions.Add(c)
		}
		return writeJSON(created, outputFile)
	},
}

func commissionWorkflowAction(use, short string, perm access.Permission,
	call func(context.Context, *app, int64) (models.Commission, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			user, err := a.requireAuth(ctx)
			if err != nil {
				return err
			}
			if err := a.requirePermission(user, perm); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := call(ctx, a, id)
			if err != nil {
				return err
			}
			if uerr := a.stores.Commissions.Update(updated); uerr != nil {
				a.stores.Commissions.Add(updated)
			}
			return writeJSON(updated, outputFile)
		},
	}
}

func init() {
	commissionsCmd.PersistentFlags().Int64Var(&commissionCompanyID, "company", 0, "company id")
	commissionsCmd.PersistentFlags().Int64Var(&commissionInvoiceID, "invoice", 0, "invoice id")
	commissionsCmd.PersistentFlags().Int64Var(&commissionUserID, "user", 0, "user id")

	commissionsCreateCmd.Flags().Int64Var(&commissionBaseCents, "base-cents", 0, "base amount in cents")
	commissionsCreateCmd.Flags().Float64Var(&commissionPercent, "percent", 0, "commission percent, 0-100")
	_ = commissionsCreateCmd.MarkFlagRequired("base-cents")
	_ = commissionsCreateCmd.MarkFlagRequired("percent")

	commissionsUpdateCmd.Flags().Int64Var(&commissionBaseCents, "base-cents", 0, "base amount in cents")
	commissionsUpdateCmd.Flags().Float64Var(&commissionPercent, "percent", 0, "commission percent, 0-100")
	_ = commissionsUpdateCmd.MarkFlagRequired("base-cents")
	_ = commissionsUpdateCmd.MarkFlagRequired("percent")

	approveCmd := commissionWorkflowAction("approve [id]", "Approve a pending commission", access.CommissionApprove,
		func(ctx context.Context, a *app, id int64) (models.Commission, error) {
			return a.clients.Commissions.Approve(ctx, id)
		})
	markPaidCmd := commissionWorkflowAction("mark-paid [id]", "Mark an approved commission as paid", access.CommissionMarkPaid,
		func(ctx context.Context, a *app, id int64) (models.Commission, error) {
			return a.clients.Commissions.MarkPaid(ctx, id)
		})

	commissionsCmd.AddCommand(commissionsListCmd, commissionsGetCmd, commissionsCreateCmd,
		commissionsUpdateCmd, commissionsDeleteCmd, commissionsSnapshotCmd, approveCmd, markPaidCmd)
	rootCmd.AddCommand(commissionsCmd)
}
