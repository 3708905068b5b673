package cmd

import (
	"github.com/spf13/cobra"

	"ledgerkit/internal/api"
	"ledgerkit/pkg/models"
)

var userCompanyID int64

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts and company membership",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, optionally scoped to a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if _, err := a.requireAuth(ctx); err != nil {
			return err
		}
		a.stores.Users.SetScope(userCompanyID)
		users, err := a.clients.Users.List(ctx, userCompanyID)
		if err != nil {
			return err
		}
		_ = a.stores.Users.ReplaceForScope(userCompanyID, users)
		return writeJSON(users, outputFile)
	},
}

var (
	userEmail    string
	userFullName string
	userPassword string
)

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if _, err := a.requireAuth(ctx); err != nil {
			return err
		}
		created, err := a.clients.Users.Create(ctx, api.UserPayload{
			Email:    userEmail,
			FullName: userFullName,
			Password: userPassword,
			IsActive: true,
		})
		if err != nil {
			return err
		}
		a.stores.Users.Add(created)
		return writeJSON(created, outputFile)
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if _, err := a.requireAuth(ctx); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		user, err := a.clients.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(user, outputFile)
	},
}

var userActive bool

var usersUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a user's writable fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if _, err := a.requireAuth(ctx); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		updated, err := a.clients.Users.Update(ctx, id, api.UserPayload{
			Email:    userEmail,
			FullName: userFullName,
			Password: userPassword,
			IsActive: userActive,
		})
		if err != nil {
			return err
		}
		if uerr := a.stores.Users.Update(updated); uerr != nil {
			a.stores.Users.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var (
	assignRole    string
	assignPercent float64
)

var usersAssignCmd = &cobra.Command{
	Use:   "assign-company [user-id]",
	Short: "Make a user a member of a company under a role",
	Example: `  ledgerkit users assign-company 7 --company 1 --role SALES \
      --commission-percent 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if _, err := a.requireAuth(ctx); err != nil {
			return err
		}
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}
		updated, err := a.clients.Users.AssignCompany(ctx, api.AssignCompanyPayload{
			UserID:            userID,
			CompanyID:         userCompanyID,
			Role:              models.Role(assignRole),
			CommissionPercent: assignPercent,
		})
		if err != nil {
			return err
		}
		if uerr := a.stores.Users.Update(updated); uerr != nil {
			a.stores.Users.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if _, err := a.requireAuth(ctx); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.clients.Users.Delete(ctx, id); err != nil {
			return err
		}
		_ = a.stores.Users.Remove(id)
		return nil
	},
}

func init() {
	usersCmd.PersistentFlags().Int64Var(&userCompanyID, "company", 0, "company id scope (optional for list)")

	usersCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	usersCreateCmd.Flags().StringVar(&userFullName, "full-name", "", "display name")
	usersCreateCmd.Flags().StringVar(&userPassword, "password", "", "initial password")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("full-name")

	usersUpdateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	usersUpdateCmd.Flags().StringVar(&userFullName, "full-name", "", "display name")
	usersUpdateCmd.Flags().StringVar(&userPassword, "password", "", "new password (optional)")
	usersUpdateCmd.Flags().BoolVar(&userActive, "active", true, "account enabled")
	_ = usersUpdateCmd.MarkFlagRequired("email")
	_ = usersUpdateCmd.MarkFlagRequired("full-name")

	usersAssignCmd.Flags().StringVar(&assignRole, "role", "", "role: OWNER, ACCOUNTANT or SALES")
	usersAssignCmd.Flags().Float64Var(&assignPercent, "commission-percent", 20, "default commission percent")
	_ = usersAssignCmd.MarkFlagRequired("role")

	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersCreateCmd, usersUpdateCmd,
		usersAssignCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}
