package cmd

import (
	"github.com/spf13/cobra"

	"ledgerkit/internal/access"
)

var auditCompanyID int64

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the audit log entries of one company",
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
		if err := a.requirePermission(user, access.AuditRead); err != nil {
			return err
		}
		logs, err := a.clients.Audit.List(ctx, auditCompanyID)
		if err != nil {
			return err
		}
		return writeJSON(logs, outputFile)
	},
}

func init() {
	auditCmd.PersistentFlags().Int64Var(&auditCompanyID, "company", 0, "company id scope")
	_ = auditCmd.MarkPersistentFlagRequired("company")

	auditCmd.AddCommand(auditListCmd)
	rootCmd.AddCommand(auditCmd)
}
