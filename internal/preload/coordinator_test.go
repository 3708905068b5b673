package preload

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerkit/internal/store"
	"ledgerkit/pkg/models"
)

type fakeBackend struct {
	companyCalls int32
	userCalls    int32
	productCalls int32

	companiesErr error
	productsErr  error

	companies []models.Company
	users     []models.User
	products  []models.Product
}

func (f *fakeBackend) List(ctx context.Context) ([]models.Company, error) {
	atomic.AddInt32(&f.companyCalls, 1)
	return f.companies, f.companiesErr
}

type fakeUsers struct{ b *fakeBackend }

func (f fakeUsers) List(ctx context.Context, companyID int64) ([]models.User, error) {
	atomic.AddInt32(&f.b.userCalls, 1)
	return f.b.users, nil
}

type fakeProducts struct{ b *fakeBackend }

func (f fakeProducts) List(ctx context.Context, companyID int64) ([]models.Product, error) {
	atomic.AddInt32(&f.b.productCalls, 1)
	return f.b.products, f.b.productsErr
}

func newFixture() (*Coordinator, *store.Stores, *fakeBackend) {
	b := &fakeBackend{
		companies: []models.Company{{ID: 1, Name: "Acme"}},
		users:     []models.User{{ID: 10, Email: "owner@acme.com"}},
		products:  []models.Product{{ID: 100, CompanyID: 1}},
	}
	stores := store.New()
	return New(stores, b, fakeUsers{b}, fakeProducts{b}), stores, b
}

func userWithCompany(id int64) models.User {
	return models.User{ID: 10, CompanyID: &id}
}

func TestPreloadHappyPath(t *testing.T) {
	coord, stores, b := newFixture()
	assert.Equal(t, Idle, coord.State())

	require.NoError(t, coord.OnAuthSuccess(context.Background(), userWithCompany(1)))

	assert.Equal(t, Preloaded, coord.State())
	assert.True(t, coord.IsPreloaded())
	assert.Equal(t, 1, stores.Companies.Len())
	assert.Equal(t, 1, stores.Users.Len())
	assert.Equal(t, 1, stores.Products.Len())
	assert.Equal(t, int32(1), b.companyCalls)
	assert.Equal(t, int32(1), b.userCalls)
	assert.Equal(t, int32(1), b.productCalls)
}

func TestPreloadSkipsProductsWithoutCompany(t *testing.T) {
	coord, stores, b := newFixture()

	require.NoError(t, coord.OnAuthSuccess(context.Background(), models.User{ID: 10}))

	assert.Equal(t, Preloaded, coord.State())
	assert.Equal(t, int32(0), b.productCalls)
	assert.Equal(t, 0, stores.Products.Len())
	assert.Equal(t, int32(1), b.companyCalls)
	assert.Equal(t, int32(1), b.userCalls)
}

func TestLatchIsIdempotent(t *testing.T) {
	coord, _, b := newFixture()
	ctx := context.Background()
	user := userWithCompany(1)

	// The auth-success event observed several times in rapid succession
	// must issue exactly one set of fetches.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = coord.OnAuthSuccess(ctx, user)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), b.companyCalls)
	assert.Equal(t, int32(1), b.userCalls)
	assert.Equal(t, int32(1), b.productCalls)
}

func TestResetReArmsLatchAndClearsStores(t *testing.T) {
	coord, stores, b := newFixture()
	ctx := context.Background()

	require.NoError(t, coord.OnAuthSuccess(ctx, userWithCompany(1)))
	require.Equal(t, 1, stores.Companies.Len())

	coord.Reset()
	assert.Equal(t, Idle, coord.State())
	// Logout must not leak one tenant's cache into the next session.
	assert.Equal(t, 0, stores.Companies.Len())
	assert.Equal(t, 0, stores.Users.Len())
	assert.Equal(t, 0, stores.Products.Len())

	// A different user's login preloads fresh.
	require.NoError(t, coord.OnAuthSuccess(ctx, userWithCompany(2)))
	assert.Equal(t, int32(2), b.companyCalls)
	assert.Equal(t, Preloaded, coord.State())
}

func TestPreloadFailureIsSoft(t *testing.T) {
	coord, stores, b := newFixture()
	b.productsErr = errors.New("backend down")

	err := coord.OnAuthSuccess(context.Background(), userWithCompany(1))
	require.Error(t, err)

	assert.Equal(t, Failed, coord.State())
	assert.False(t, coord.IsPreloaded())
	// Whatever did arrive stays usable, and the failing store carries
	// the error for the presentation layer.
	assert.Error(t, stores.Products.Err())
	assert.False(t, stores.Products.Loading())
	assert.Equal(t, 1, stores.Companies.Len())
}

func TestRefresh(t *testing.T) {
	coord, stores, b := newFixture()
	ctx := context.Background()

	require.NoError(t, coord.Refresh(ctx, KindCompanies, 0))
	assert.Equal(t, 1, stores.Companies.Len())

	b.companies = []models.Company{{ID: 1}, {ID: 2}}
	require.NoError(t, coord.Refresh(ctx, KindCompanies, 0))
	assert.Equal(t, 2, stores.Companies.Len())

	assert.ErrorIs(t, coord.Refresh(ctx, Kind("widgets"), 0), ErrUnknownKind)
}

func TestRefreshProductsNeedsScope(t *testing.T) {
	coord, _, b := newFixture()
	ctx := context.Background()

	assert.ErrorIs(t, coord.Refresh(ctx, KindProducts, 0), ErrScopeRequired)
	assert.Equal(t, int32(0), b.productCalls)

	require.NoError(t, coord.Refresh(ctx, KindProducts, 1))
	assert.Equal(t, int32(1), b.productCalls)
}

func TestRefreshAll(t *testing.T) {
	coord, stores, b := newFixture()

	require.NoError(t, coord.RefreshAll(context.Background(), 1))
	assert.Equal(t, 1, stores.Companies.Len())
	assert.Equal(t, 1, stores.Users.Len())
	assert.Equal(t, 1, stores.Products.Len())
	assert.Equal(t, int32(1), b.companyCalls)
}
