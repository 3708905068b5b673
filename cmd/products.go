package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ledgerkit/internal/access"
	"ledgerkit/internal/api"
)

var productCompanyID int64

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage one company's product catalogue",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the products of one company",
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
		if err := a.requirePermission(user, access.ProductRead); err != nil {
			return err
		}
		a.stores.Products.SetScope(productCompanyID)
		products, err := a.clients.Products.List(ctx, productCompanyID)
		if err != nil {
			return err
		}
		_ = a.stores.Products.ReplaceForScope(productCompanyID, products)
		return writeJSON(products, outputFile)
	},
}

var (
	productName      string
	productSKU       string
	productUnitPrice int64
	productCostPrice int64
	productStock     int64
	productInactive  bool
)

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Example: `  ledgerkit products create --company 1 --name Widget --sku W-1 \
      --unit-price-cents 1999 --cost-price-cents 750 --stock 40`,
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
		if err := a.requirePermission(user, access.ProductCreate); err != nil {
			return err
		}
		created, err := a.clients.Products.Create(ctx, api.ProductPayload{
			CompanyID:      productCompanyID,
			Name:           productName,
			SKU:            productSKU,
			UnitPriceCents: productUnitPrice,
			CostPriceCents: productCostPrice,
			StockQuantity:  productStock,
			IsActive:       !productInactive,
		})
		if err != nil {
			return err
		}
		a.stores.Products.Add(created)
		return writeJSON(created, outputFile)
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one product",
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
		if err := a.requirePermission(user, access.ProductRead); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		product, err := a.clients.Products.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(product, outputFile)
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a product's writable fields",
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
		if err := a.requirePermission(user, access.ProductUpdate); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		updated, err := a.clients.Products.Update(ctx, id, api.ProductPayload{
			CompanyID:      productCompanyID,
			Name:           productName,
			SKU:            productSKU,
			UnitPriceCents: productUnitPrice,
			CostPriceCents: productCostPrice,
			StockQuantity:  productStock,
			IsActive:       !productInactive,
		})
		if err != nil {
			return err
		}
		if uerr := a.stores.Products.Update(updated); uerr != nil {
			a.stores.Products.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a product",
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
		if err := a.requirePermission(user, access.ProductDelete); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.clients.Products.Delete(ctx, id); err != nil {
			return err
		}
		_ = a.stores.Products.Remove(id)
		return nil
	},
}

var productsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy-search products by name (at most 10 matches)",
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
		if err := a.requirePermission(user, access.ProductRead); err != nil {
			return err
		}
		matches, err := a.clients.Products.Search(ctx, args[0], productCompanyID)
		if err != nil {
			return err
		}
		return writeJSON(matches, outputFile)
	},
}

var productsByCodeCmd = &cobra.Command{
	Use:   "by-code [sku]",
	Short: "Look up a product by exact SKU",
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
		if err := a.requirePermission(user, access.ProductRead); err != nil {
			return err
		}
		match, err := a.clients.Products.GetByCode(ctx, args[0], productCompanyID)
		if err != nil {
			return err
		}
		return writeJSON(match, outputFile)
	},
}

var productsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Upload a product file for the backend importer",
	Long: `Upload a spreadsheet or CSV for server-side import. The file is passed
through untouched; parsing, validation and the import verdict are the
backend's. The structured result (imported count, per-row errors) is
printed as JSON.`,
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
		if err := a.requirePermission(user, access.ProductImport); err != nil {
			return err
		}
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		result, err := a.clients.Products.ImportFromFile(ctx, args[0], file, productCompanyID)
		if err != nil {
			return err
		}
		return writeJSON(result, outputFile)
	},
}

func init() {
	productsCmd.PersistentFlags().Int64Var(&productCompanyID, "company", 0, "company id scope (required)")
	_ = productsCmd.MarkPersistentFlagRequired("company")

	productsCreateCmd.Flags().StringVar(&productName, "name", "", "product name")
	productsCreateCmd.Flags().StringVar(&productSKU, "sku", "", "stock keeping unit")
	productsCreateCmd.Flags().Int64Var(&productUnitPrice, "unit-price-cents", 0, "unit price in cents")
	productsCreateCmd.Flags().Int64Var(&productCostPrice, "cost-price-cents", 0, "cost price in cents")
	productsCreateCmd.Flags().Int64Var(&productStock, "stock", 0, "stock quantity")
	productsCreateCmd.Flags().BoolVar(&productInactive, "inactive", false, "create as inactive")
	_ = productsCreateCmd.MarkFlagRequired("name")

	productsUpdateCmd.Flags().StringVar(&productName, "name", "", "product name")
	productsUpdateCmd.Flags().StringVar(&productSKU, "sku", "", "stock keeping unit")
	productsUpdateCmd.Flags().Int64Var(&productUnitPrice, "unit-price-cents", 0, "unit price in cents")
	productsUpdateCmd.Flags().Int64Var(&productCostPrice, "cost-price-cents", 0, "cost price in cents")
	productsUpdateCmd.Flags().Int64Var(&productStock, "stock", 0, "stock quantity")
	productsUpdateCmd.Flags().BoolVar(&productInactive, "inactive", false, "mark inactive")
	_ = productsUpdateCmd.MarkFlagRequired("name")

	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsUpdateCmd,
		productsDeleteCmd, productsSearchCmd, productsByCodeCmd, productsImportCmd)
	rootCmd.AddCommand(productsCmd)
}
