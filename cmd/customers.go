package cmd

import (
	"github.com/spf13/cobra"

	"ledgerkit/internal/access"
	"ledgerkit/internal/api"
)

var customerCompanyID int64

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage one company's customers",
	Long: `Customers are tenant-owned: every operation is scoped to a company via
the --company flag.`,
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the customers of one company",
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
		if err := a.requirePermission(user, access.CustomerRead); err != nil {
			return err
		}
		a.stores.Customers.SetScope(customerCompanyID)
		customers, err := a.clients.Customers.List(ctx, customerCompanyID)
		if err != nil {
			return err
		}
		_ = a.stores.Customers.ReplaceForScope(customerCompanyID, customers)
		return writeJSON(customers, outputFile)
	},
}

var customersGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one customer",
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
		if err := a.requirePermission(user, access.CustomerRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		customer, err := a.clients.Customers.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(customer, outputFile)
	},
}

var (
	customerName  string
	customerPhone string
	customerEmail string
)

var customersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer",
	Example: `  ledgerkit customers create --company 1 --name "Big Client Inc." \
      --email contact@bigclient.com --phone +1-800-555-0123`,
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
		if err := a.requirePermission(user, access.CustomerCreate); err != nil {
			return err
		}
		created, err := a.clients.Customers.Create(ctx, api.CustomerPayload{
			CompanyID: customerCompanyID,
			Name:      customerName,
			Phone:     customerPhone,
			Email:     customerEmail,
		})
		if err != nil {
			return err
		}
		a.stores.Customers.Add(created)
		return writeJSON(created, outputFile)
	},
}

var customersUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a customer",
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
		if err := a.requirePermission(user, access.CustomerUpdate); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		updated, err := a.clients.Customers.Update(ctx, id, api.CustomerPayload{
			CompanyID: customerCompanyID,
			Name:      customerName,
			Phone:     customerPhone,
			Email:     customerEmail,
		})
		if err != nil {
			return err
		}
		if uerr := a.stores.Customers.Update(updated); uerr != nil {
			a.stores.Customers.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var customersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a customer",
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
		if err := a.requirePermission(user, access.CustomerDelete); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.clients.Customers.Delete(ctx, id); err != nil {
			return err
		}
		_ = a.stores.Customers.Remove(id)
		return nil
	},
}

func init() {
	customersCmd.PersistentFlags().Int64Var(&customerCompanyID, "company", 0, "company id scope (required)")
	_ = customersCmd.MarkPersistentFlagRequired("company")

	for _, c := range []*cobra.Command{customersCreateCmd, customersUpdateCmd} {
		c.Flags().StringVar(&customerName, "name", "", "customer name")
		c.Flags().StringVar(&customerPhone, "phone", "", "phone number")
		c.Flags().StringVar(&customerEmail, "email", "", "email address")
	}
	_ = customersCreateCmd.MarkFlagRequired("name")

	customersCmd.AddCommand(customersListCmd, customersGetCmd, customersCreateCmd,
		customersUpdateCmd, customersDeleteCmd)
	rootCmd.AddCommand(customersCmd)
}
