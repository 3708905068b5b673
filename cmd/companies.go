package cmd

import (
	"github.com/spf13/cobra"

	"ledgerkit/internal/api"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage companies (tenant roots)",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every company visible to the caller",
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
		// The preload already populated the cache; read from it.
		return writeJSON(a.stores.Companies.All(), outputFile)
	},
}

var companiesGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one company",
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
		company, err := a.clients.Companies.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(company, outputFile)
	},
}

var companiesCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a company",
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
		created, err := a.clients.Companies.Create(ctx, api.CompanyPayload{Name: args[0]})
		if err != nil {
			return err
		}
		a.stores.Companies.Add(created)
		return writeJSON(created, outputFile)
	},
}

var companiesUpdateCmd = &cobra.Command{
	Use:   "update [id] [name]",
	Short: "Rename a company",
	Args:  cobra.ExactArgs(2),
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
		updated, err := a.clients.Companies.Update(ctx, id, api.CompanyPayload{Name: args[1]})
		if err != nil {
			return err
		}
		if uerr := a.stores.Companies.Update(updated); uerr != nil {
			a.stores.Companies.Add(updated)
		}
		return writeJSON(updated, outputFile)
	},
}

var companiesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a company and everything it owns",
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
		if err := a.clients.Companies.Delete(ctx, id); err != nil {
			return err
		}
		_ = a.stores.Companies.Remove(id)
		return nil
	},
}

func init() {
	companiesCmd.AddCommand(companiesListCmd, companiesGetCmd, companiesCreateCmd,
		companiesUpdateCmd, companiesDeleteCmd)
	rootCmd.AddCommand(companiesCmd)
}
