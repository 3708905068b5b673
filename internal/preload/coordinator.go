// Package preload fetches the foundational, rarely-changing entities
// (companies, users, products) once per login so screens don't refetch
// them on every visit. Preload failure is deliberately soft: the stores
// stay usable and any screen can fall back to an on-demand fetch.
package preload

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ledgerkit/internal/logger"
	"ledgerkit/internal/store"
	"ledgerkit/pkg/models"
)

// State is the coordinator's lifecycle position.
type State int

const (
	// Idle means no preload has run for the current session.
	Idle State = iota
	// Preloading means the batch fetch is in flight.
	Preloading
	// Preloaded means every fetch issued for this session resolved.
	Preloaded
	// Failed means at least one issued fetch did not resolve. Not
	// terminal: the stores hold whatever did arrive, and on-demand
	// fetches remain available.
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preloading:
		return "preloading"
	case Preloaded:
		return "preloaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Kind names one preloadable entity kind for Refresh.
type Kind string

const (
	KindCompanies Kind = "companies"
	KindUsers     Kind = "users"
	KindProducts  Kind = "products"
)

// ErrUnknownKind is returned by Refresh for a kind outside the set above.
var ErrUnknownKind = fmt.Errorf("unknown preload kind")

// ErrScopeRequired is returned by Refresh when a tenant-owned kind is
// requested without a company scope. RefreshAll skips such kinds instead.
var ErrScopeRequired = fmt.Errorf("products need a company scope")

// CompanyLister fetches the unscoped company list.
type CompanyLister interface {
	List(ctx context.Context) ([]models.Company, error)
}

// UserLister fetches users, optionally scoped to a company.
type UserLister interface {
	List(ctx context.Context, companyID int64) ([]models.User, error)
}

// ProductLister fetches one company's products.
type ProductLister interface {
	List(ctx context.Context, companyID int64) ([]models.Product, error)
}

// Coordinator runs the post-login batch fetch and owns the session latch.
// All methods are safe for concurrent use.
type Coordinator struct {
	stores    *store.Stores
	companies CompanyLister
	users     UserLister
	products  ProductLister
	log       zerolog.Logger

	mu    sync.Mutex
	state State
	fired bool
}

// New returns an Idle coordinator over stores.
func New(stores *store.Stores, companies CompanyLister, users UserLister, products ProductLister) *Coordinator {
	return &Coordinator{
		stores:    stores,
		companies: companies,
		users:     users,
		products:  products,
		log:       logger.WithComponent("preload"),
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsPreloaded reports whether the session's batch fetch completed in full.
func (c *Coordinator) IsPreloaded() bool {
	return c.State() == Preloaded
}

// OnAuthSuccess runs the batch fetch for a fresh login. The latch makes it
// idempotent: however many times the auth-success event is observed, only
// the first call per session issues fetches; later calls return nil
// immediately until Reset re-arms the latch.
//
// Fetches issued: companies (unscoped) and users always; products only
// when the user belongs to a company. All run concurrently and the state
// reaches Preloaded only when every issued fetch resolves.
func (c *Coordinator) OnAuthSuccess(ctx context.Context, user models.User) error {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return nil
	}
	c.fired = true
	c.state = Preloading
	c.mu.Unlock()

	var companyID int64
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetchCompanies(gctx) })
	g.Go(func() error { return c.fetchUsers(gctx, companyID) })
	if companyID != 0 {
		g.Go(func() error { return c.fetchProducts(gctx, companyID) })
	}

	err := g.Wait()

	c.mu.Lock()
	if err != nil {
		c.state = Failed
	} else {
		c.state = Preloaded
	}
	c.mu.Unlock()

	if err != nil {
		// Soft failure: screens fetch on demand.
		c.log.Warn().Err(err).Int64("company_id", companyID).
			Msg("Preload incomplete; falling back to on-demand fetches")
		return err
	}
	c.log.Info().Int64("company_id", companyID).Msg("Preload complete")
	return nil
}

// Refresh reissues the fetch for one entity kind. scope is the company id
// for scoped kinds and ignored for companies.
func (c *Coordinator) Refresh(ctx context.Context, kind Kind, scope int64) error {
	switch kind {
	case KindCompanies:
		return c.fetchCompanies(ctx)
	case KindUsers:
		return c.fetchUsers(ctx, scope)
	case KindProducts:
		if scope == 0 {
			return ErrScopeRequired
		}
		return c.fetchProducts(ctx, scope)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// RefreshAll reissues all three fetches concurrently.
func (c *Coordinator) RefreshAll(ctx context.Context, scope int64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetchCompanies(gctx) })
	g.Go(func() error { return c.fetchUsers(gctx, scope) })
	if scope != 0 {
		g.Go(func() error { return c.fetchProducts(gctx, scope) })
	}
	return g.Wait()
}

// Reset returns the coordinator to Idle, re-arms the latch and clears
// every entity store, so nothing cached for one tenant survives into the
// next login.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.state = Idle
	c.fired = false
	c.mu.Unlock()
	c.stores.ClearAll()
}

func (c *Coordinator) fetchCompanies(ctx context.Context) error {
	col := c.stores.Companies
	col.SetLoading(true)
	defer col.SetLoading(false)

	records, err := c.companies.List(ctx)
	if err != nil {
		col.SetError(err)
		return err
	}
	col.SetError(nil)
	col.SetAll(records)
	return nil
}

func (c *Coordinator) fetchUsers(ctx context.Context, companyID int64) error {
	col := c.stores.Users
	col.SetLoading(true)
	defer col.SetLoading(false)

	col.SetScope(companyID)
	records, err := c.users.List(ctx, companyID)
	if err != nil {
		col.SetError(err)
		return err
	}
	col.SetError(nil)
	if rerr := col.ReplaceForScope(companyID, records); rerr != nil {
		// Scope moved on while the fetch was in flight; the result is
		// stale and dropping it is the correct outcome, not a failure.
		c.log.Debug().Int64("scope", companyID).Msg("Discarded stale user fetch")
	}
	return nil
}

func (c *Coordinator) fetchProducts(ctx context.Context, companyID int64) error {
	col := c.stores.Products
	col.SetLoading(true)
	defer col.SetLoading(false)

	col.SetScope(companyID)
	records, err := c.products.List(ctx, companyID)
	if err != nil {
		col.SetError(err)
		return err
	}
	col.SetError(nil)
	if rerr := col.ReplaceForScope(companyID, records); rerr != nil {
		c.log.Debug().Int64("scope", companyID).Msg("Discarded stale product fetch")
	}
	return nil
}
