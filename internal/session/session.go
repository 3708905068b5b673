// Package session owns the authenticated-user lifecycle: login, token
// persistence between invocations, restore on startup, and logout. It is
// the only writer of the credentials file and the only caller of the
// preload coordinator's auth-success and reset transitions.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"ledgerkit/internal/logger"
	"ledgerkit/pkg/models"
)

var (
	// ErrNoSession is returned by Restore when no credentials are stored.
	ErrNoSession = errors.New("no stored session")
	// ErrNotAuthenticated is returned when an operation needs a login.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Authenticator is the slice of the auth API the session needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.User, string, error)
	Me(ctx context.Context) (models.User, error)
}

// TokenSink receives the bearer token for outgoing requests.
type TokenSink interface {
	SetToken(token string)
}

// Preloader is the slice of the preload coordinator the session drives.
type Preloader interface {
	OnAuthSuccess(ctx context.Context, user models.User) error
	Reset()
}

// credentials is the persisted session shape, the moral equivalent of the
// browser's local-storage record: token and user, nothing else.
type credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Manager tracks who is logged in. Safe for concurrent use.
type Manager struct {
	auth      Authenticator
	transport TokenSink
	preloader Preloader
	file      string
	log       zerolog.Logger

	mu    sync.Mutex
	user  *models.User
	token string
}

// NewManager returns a logged-out Manager persisting to file.
func NewManager(auth Authenticator, transport TokenSink, preloader Preloader, file string) *Manager {
	return &Manager{
		auth:      auth,
		transport: transport,
		preloader: preloader,
		file:      file,
		log:       logger.WithComponent("session"),
	}
}

// Login authenticates, installs the token on the transport, persists the
// credentials and fires the preload. A preload failure does not fail the
// login; the coordinator's fallback design handles it.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	user, token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}

	m.install(user, token)

	if err := m.persist(credentials{Token: token, User: user}); err != nil {
		m.log.Warn().Err(err).Msg("Could not persist credentials; session will not survive exit")
	}

	if err := m.preloader.OnAuthSuccess(ctx, user); err != nil {
		m.log.Warn().Err(err).Msg("Preload after login incomplete")
	}

	m.log.Info().Str("email", user.Email).Msg("Logged in")
	return user, nil
}

// Restore brings back a persisted session: load the credentials file,
// validate the token against the backend and fire the preload. Returns
// ErrNoSession when nothing is stored.
func (m *Manager) Restore(ctx context.Context) (models.User, error) {
	raw, err := os.ReadFile(m.file)
	if err != nil {
		if os.IsNotExist(err) {
			return models.User{}, ErrNoSession
		}
		return models.User{}, fmt.Errorf("reading credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return models.User{}, fmt.Errorf("decoding credentials: %w", err)
	}
	if creds.Token == "" {
		return models.User{}, ErrNoSession
	}

	m.transport.SetToken(creds.Token)
	user, err := m.auth.Me(ctx)
	if err != nil {
		m.transport.SetToken("")
		return models.User{}, err
	}

	m.install(user, creds.Token)

	if err := m.preloader.OnAuthSuccess(ctx, user); err != nil {
		m.log.Warn().Err(err).Msg("Preload after restore incomplete")
	}
	return user, nil
}

// Logout drops the token, deletes the credentials file and resets the
// preload coordinator, which also clears the entity stores.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	m.transport.SetToken("")
	m.preloader.Reset()

	if err := os.Remove(m.file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	m.log.Info().Msg("Logged out")
	return nil
}

// CurrentUser returns the logged-in user, or ErrNotAuthenticated.
func (m *Manager) CurrentUser() (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *m.user, nil
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

func (m *Manager) install(user models.User, token string) {
	m.mu.Lock()
	u := user
	m.user = &u
	m.token = token
	m.mu.Unlock()
	m.transport.SetToken(token)
}

func (m *Manager) persist(creds credentials) error {
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.file), 0o700); err != nil {
		return err
	}
	return os.WriteFile(m.file, raw, 0o600)
}
