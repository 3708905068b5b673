package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend and persist the session",
	Long: `Authenticate with email and password. On success the bearer token and
user record are written to the credentials file and the foundational
entities (companies, users, products) are preloaded.

The password is read from the LEDGER_PASSWORD environment variable when
set, otherwise from stdin.`,
	Example: `  ledgerkit login --email owner@acme.com
  LEDGER_PASSWORD=secret ledgerkit login --email owner@acme.com`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	password := os.Getenv("LEDGER_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	user, err := a.sessions.Login(ctx, loginEmail, password)
	if err != nil {
		return err
	}
	return writeJSON(user, "")
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the persisted session and clear the entity cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.sessions.Logout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
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
		return writeJSON(user, "")
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	_ = loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
