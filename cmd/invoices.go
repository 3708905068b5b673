package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"ledgerkit/internal/access"
	"ledgerkit/internal/api"
	"ledgerkit/pkg/models"
)

var invoiceCompanyID int64

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices, their lock state and line items",
	Long: `Invoices belong to one company and one customer and move through
draft → sent → paid. A locked invoice refuses further mutation until an
owner unlocks it. Line items are a sub-resource; their totals are
computed client-side (quantity * unit price - discount, clamped at zero)
before submission.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the invoices of one company",
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
		if err := a.requirePermission(user, access.InvoiceRead); err != nil {
			return err
		}
		a.stores.Invoices.SetScope(invoiceCompanyID)
		invoices, err := a.clients.Invoices.List(ctx, invoiceCompanyID)
		if err != nil {
			return err
		}
		_ = a.stores.Invoices.ReplaceForScope(invoiceCompanyID, invoices)
		return writeJSON(invoices, outputFile)
	},
}

var withItems bool

var invoicesGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one invoice, optionally with its line items",
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
		if err := a.requirePermission(user, access.InvoiceRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var inv models.Invoice
		if withItems {
			inv, err = a.clients.Invoices.GetWithItems(ctx, id)
		} else {
			inv, err = a.clients.Invoices.Get(ctx, id)
		}
		if err != nil {
			return err
		}
		return writeJSON(inv, outputFile)
	},
}

var (
	invoiceCustomerID int64
	invoiceNumber     string
	invoiceSoldBy     int64
)

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft invoice",
	Example: `  ledgerkit invoices create --company 1 --customer 11 \
      --number INV-1-001 --sold-by 7`,
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
		if err := a.requirePermission(user, access.InvoiceCreate); err != nil {
			return err
		}
		payload := api.InvoicePayload{
			CompanyID:     invoiceCompanyID,
			CustomerID:    invoiceCustomerID,
			InvoiceNumber: invoiceNumber,
		}
		if invoiceSoldBy != 0 {
			payload.SoldByUserID = &invoiceSoldBy
		}
		created, err := a.clients.Invoices.Create(ctx, payload)
		if err != nil {
			return err
		}
		a.stores.Invoices.Add(created)
		return writeJSON(created, outputFile)
	},
}

var invoicesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace an invoice's writable fields",
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
		if err := a.requirePermission(user, access.InvoiceUpdate); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		payload := api.InvoicePayload{
			CompanyID:     invoiceCompanyID,
			CustomerID:    invoiceCustomerID,
			InvoiceNumber: invoiceNumber,
		}
		if invoiceSoldBy != 0 {
			payload.SoldByUserID = &invoiceSoldBy
		}
		updated, err := a.clients.Invoices.Update(ctx, id, payload)
		if err != nil {
			return err
		}
		if uerr := a.stores.Invoices.Update(updated); uerr != nil {
			a.stores.Invoices.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice",
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
		if err := a.requirePermission(user, access.InvoiceDelete); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.clients.Invoices.Delete(ctx, id); err != nil {
			return err
		}
		_ = a.stores.Invoices.Remove(id)
		return nil
	},
}

func invoiceLockAction(use, short string, perm access.Permission,
	call func(context.Context, *app, int64) (models.Invoice, error)) *cobra.Command {
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
			if uerr := a.stores.Invoices.Update(updated); uerr != nil {
				a.stores.Invoices.Add(updated)
			}
			return writeJSON(updated, outputFile)
		},
	}
}

var invoicesStatusCmd = &cobra.Command{
	Use:   "status [id] [draft|sent|paid|overdue]",
	Short: "Move an invoice to a new status",
	Args:  cobra.ExactArgs(2),
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
		if err := a.requirePermission(user, access.InvoiceUpdate); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		updated, err := a.clients.Invoices.UpdateStatus(ctx, id, models.InvoiceStatus(args[1]))
		if err != nil {
			return err
		}
		if uerr := a.stores.Invoices.Update(updated); uerr != nil {
			a.stores.Invoices.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var (
	itemDescription string
	itemQuantity    float64
	itemUnitPrice   int64
	itemDiscount    int64
)

var invoiceItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage an invoice's line items",
}

var invoiceItemsListCmd = &cobra.Command{
	Use:   "list [invoice-id]",
	Short: "List an invoice's line items",
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
		if err := a.requirePermission(user, access.InvoiceRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		items, err := a.clients.Invoices.ListItems(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(items, outputFile)
	},
}

var invoiceItemsAddCmd = &cobra.Command{
	Use:   "add [invoice-id]",
	Short: "Append a line item; the total is computed client-side",
	Example: `  ledgerkit invoices items add 5 --description "Consulting" \
      --quantity 3 --unit-price-cents 10000 --discount-cents 5000`,
	Args: cobra.ExactArgs(1),
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
		if err := a.requirePermission(user, access.InvoiceUpdate); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		item, err := a.clients.Invoices.AddItem(ctx, id, api.ItemPayload{
			Description:    itemDescription,
			Quantity:       itemQuantity,
			UnitPriceCents: itemUnitPrice,
			DiscountCents:  itemDiscount,
		})
		if err != nil {
			return err
		}
		return writeJSON(item, outputFile)
	},
}

var invoiceItemsUpdateCmd = &cobra.Command{
	Use:   "update [invoice-id] [item-id]",
	Short: "Replace a line item; the total is recomputed client-side",
	Args:  cobra.ExactArgs(2),
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
		if err := a.requirePermission(user, access.InvoiceUpdate); err != nil {
			return err
		}
		invoiceID, err := parseID(args[0])
		if err != nil {
			return err
		}
		itemID, err := parseID(args[1])
		if err != nil {
			return err
		}
		item, err := a.clients.Invoices.UpdateItem(ctx, invoiceID, itemID, api.ItemPayload{
			Description:    itemDescription,
			Quantity:       itemQuantity,
			UnitPriceCents: itemUnitPrice,
			DiscountCents:  itemDiscount,
		})
		if err != nil {
			return err
		}
		return writeJSON(item, outputFile)
	},
}

var invoiceItemsDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Remove a line item",
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
		if err := a.requirePermission(user, access.InvoiceUpdate); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.clients.Invoices.DeleteItem(ctx, id)
	},
}

func init() {
	invoicesCmd.PersistentFlags().Int64Var(&invoiceCompanyID, "company", 0, "company id scope")

	invoicesGetCmd.Flags().BoolVar(&withItems, "items", false, "include line items")

	invoicesCreateCmd.Flags().Int64Var(&invoiceCustomerID, "customer", 0, "customer id")
	invoicesCreateCmd.Flags().StringVar(&invoiceNumber, "number", "", "invoice number, unique per company")
	invoicesCreateCmd.Flags().Int64Var(&invoiceSoldBy, "sold-by", 0, "salesperson user id")
	_ = invoicesCreateCmd.MarkFlagRequired("customer")
	_ = invoicesCreateCmd.MarkFlagRequired("number")

	invoiceItemsAddCmd.Flags().StringVar(&itemDescription, "description", "", "line description")
	invoiceItemsAddCmd.Flags().Float64Var(&itemQuantity, "quantity", 0, "quantity")
	invoiceItemsAddCmd.Flags().Int64Var(&itemUnitPrice, "unit-price-cents", 0, "unit price in cents")
	invoiceItemsAddCmd.Flags().Int64Var(&itemDiscount, "discount-cents", 0, "discount in cents")
	_ = invoiceItemsAddCmd.MarkFlagRequired("description")

	invoicesUpdateCmd.Flags().Int64Var(&invoiceCustomerID, "customer", 0, "customer id")
	invoicesUpdateCmd.Flags().StringVar(&invoiceNumber, "number", "", "invoice number, unique per company")
	invoicesUpdateCmd.Flags().Int64Var(&invoiceSoldBy, "sold-by", 0, "salesperson user id")
	_ = invoicesUpdateCmd.MarkFlagRequired("customer")
	_ = invoicesUpdateCmd.MarkFlagRequired("number")

	invoiceItemsUpdateCmd.Flags().StringVar(&itemDescription, "description", "", "line description")
	invoiceItemsUpdateCmd.Flags().Float64Var(&itemQuantity, "quantity", 0, "quantity")
	invoiceItemsUpdateCmd.Flags().Int64Var(&itemUnitPrice, "unit-price-cents", 0, "unit price in cents")
	invoiceItemsUpdateCmd.Flags().Int64Var(&itemDiscount, "discount-cents", 0, "discount in cents")
	_ = invoiceItemsUpdateCmd.MarkFlagRequired("description")

	lockCmd := invoiceLockAction("lock [id]", "Lock an invoice against mutation", access.InvoiceLock,
		func(ctx context.Context, a *app, id int64) (models.Invoice, error) {
			return a.clients.Invoices.Lock(ctx, id)
		})
	unlockCmd := invoiceLockAction("unlock [id]", "Lift an invoice's lock", access.InvoiceUnlock,
		func(ctx context.Context, a *app, id int64) (models.Invoice, error) {
			return a.clients.Invoices.Unlock(ctx, id)
		})

	invoiceItemsCmd.AddCommand(invoiceItemsListCmd, invoiceItemsAddCmd, invoiceItemsUpdateCmd, invoiceItemsDeleteCmd)
	invoicesCmd.AddCommand(invoicesListCmd, invoicesGetCmd, invoicesCreateCmd, invoicesUpdateCmd,
		invoicesDeleteCmd, lockCmd, unlockCmd, invoicesStatusCmd, invoiceItemsCmd)
	rootCmd.AddCommand(invoicesCmd)
}
