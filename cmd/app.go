package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ledgerkit/internal/access"
	"ledgerkit/internal/api"
	"ledgerkit/internal/config"
	"ledgerkit/internal/preload"
	"ledgerkit/internal/session"
	"ledgerkit/internal/store"
	"ledgerkit/pkg/models"
)

// app wires the full client stack once per invocation: config, transport,
// resource clients, entity stores, preload coordinator and session. Every
// command gets its dependencies from here; nothing reaches for globals.
type app struct {
	cfg      *config.Config
	clients  *api.Clients
	stores   *store.Stores
	coord    *preload.Coordinator
	sessions *session.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	transport := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
	clients := api.NewClients(transport)
	stores := store.New()
	coord := preload.New(stores, clients.Companies, clients.Users, clients.Products)
	sessions := session.NewManager(clients.Auth, transport, coord, cfg.CredentialsFile)

	return &app{
		cfg:      cfg,
		clients:  clients,
		stores:   stores,
		coord:    coord,
		sessions: sessions,
	}, nil
}

// parseID parses a positional id argument.
func parseID(arg string) (int64, error) {
	return strconv.ParseInt(arg, 10, 64)
}

// commandContext returns a context cancelled by SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// requireAuth restores the persisted session or explains how to start one.
func (a *app) requireAuth(ctx context.Context) (models.User, error) {
	user, err := a.sessions.Restore(ctx)
	if err != nil {
		if err == session.ErrNoSession {
			return models.User{}, fmt.Errorf("not logged in; run `ledgerkit login` first")
		}
		return models.User{}, fmt.Errorf("restoring session: %w", err)
	}
	return user, nil
}

// requirePermission checks the role gate before any wire traffic so the
// user gets a clear refusal instead of a backend 403.
func (a *app) requirePermission(user models.User, perm access.Permission) error {
	if access.Check(user.Role, perm) {
		return nil
	}
	role := "no role"
	if user.Role != nil {
		role = string(*user.Role)
	}
	return fmt.Errorf("role %s may not perform %s", role, perm)
}

// writeJSON prints v as indented JSON to stdout, or to path when set.
func writeJSON(v any, path string) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	raw = append(raw, '\n')
	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
