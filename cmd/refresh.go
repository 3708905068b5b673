package cmd

import (
	"github.com/spf13/cobra"

	"ledgerkit/internal/preload"
)

var refreshCompanyID int64

var refreshCmd = &cobra.Command{
	Use:   "refresh [companies|users|products]",
	Short: "Re-fetch cached reference data",
	Long: `Without an argument every preloaded kind is re-fetched. With a kind
argument only that kind is re-fetched. Products are scoped to the
company given with --company; companies and users are global.`,
	Args: cobra.MaximumNArgs(1),
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
		scope := refreshCompanyID
		if scope == 0 && user.CompanyID != nil {
			scope = *user.CompanyID
		}
		if len(args) == 0 {
			return a.coord.RefreshAll(ctx, scope)
		}
		return a.coord.Refresh(ctx, preload.Kind(args[0]), scope)
	},
}

func init() {
	refreshCmd.Flags().Int64Var(&refreshCompanyID, "company", 0, "company id scope for products")
	rootCmd.AddCommand(refreshCmd)
}
