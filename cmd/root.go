package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledgerkit/internal/logger"
)

var version = "1.0.0"

// outputFile backs the package-wide -o/--output flag; writeJSON consults it.
var outputFile string

var rootCmd = &cobra.Command{
	Use:   "ledgerkit",
	Short: "Ledgerkit - admin client for the accounting backend",
	Long: `Ledgerkit is a command-line admin client for the multi-tenant
accounting backend: companies, customers, products, users, invoices and
commissions.

Log in once with 'ledgerkit login'; the session (token and user record)
persists to a credentials file and subsequent commands reuse it. On every
authenticated command the foundational entities (companies, users,
products) are preloaded into an in-memory cache that the command set
reads from.

Configuration comes from the environment (optionally via a .env file):
  LEDGER_API_BASE_URL      Backend base URL (default http://localhost:8000)
  LEDGER_CREDENTIALS_FILE  Session persistence path
  LEDGER_REQUEST_TIMEOUT   Per-request timeout in seconds (default 30)`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ledgerkit: use --help to see available commands.")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write JSON output to a file instead of stdout")
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
