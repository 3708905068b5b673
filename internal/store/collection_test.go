package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerkit/pkg/models"
)

func company(id int64, name string) models.Company {
	return models.Company{ID: id, Name: name}
}

func TestSetAllPreservesOrder(t *testing.T) {
	c := NewCollection[models.Company]()
	in := []models.Company{company(3, "c"), company(1, "a"), company(2, "b")}
	c.SetAll(in)

	got := c.All()
	require.Len(t, got, 3)
	assert.Equal(t, in, got)

	// The returned slice is a copy; mutating it must not touch the cache.
	got[0] = company(99, "zz")
	fresh := c.All()
	assert.Equal(t, int64(3), fresh[0].ID)
}

func TestSetAllReplacesWholesale(t *testing.T) {
	c := NewCollection[models.Company]()
	c.SetAll([]models.Company{company(1, "a"), company(2, "b")})
	c.SetAll([]models.Company{company(3, "c")})

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestUpdateMissingIsNoOp(t *testing.T) {
	c := NewCollection[models.Company]()
	c.SetAll([]models.Company{company(1, "a")})

	err := c.Update(company(2, "ghost"))
	assert.ErrorIs(t, err, ErrNoSuchRecord)
	assert.Equal(t, []models.Company{company(1, "a")}, c.All())
}

func TestUpdateReplacesMatching(t *testing.T) {
	c := NewCollection[models.Company]()
	c.SetAll([]models.Company{company(1, "a"), company(2, "b")})

	require.NoError(t, c.Update(company(2, "renamed")))
	got, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Name)
	// Position is stable.
	assert.Equal(t, int64(2), c.All()[1].ID)
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	c := NewCollection[models.Company]()
	c.SetAll([]models.Company{company(1, "a")})

	assert.ErrorIs(t, c.Remove(42), ErrNoSuchRecord)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Remove(1))
	assert.Equal(t, 0, c.Len())
}

func TestAddDuplicateIDLastWins(t *testing.T) {
	c := NewCollection[models.Company]()
	c.Add(company(1, "first"))
	c.Add(company(2, "second"))
	c.Add(company(1, "replaced"))

	assert.Equal(t, 2, c.Len())
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "replaced", got.Name)
}

func TestReplaceForScope(t *testing.T) {
	c := NewCollection[models.Customer]()
	c.SetScope(7)

	// A result fetched for company 7 applies.
	require.NoError(t, c.ReplaceForScope(7, []models.Customer{{ID: 1, CompanyID: 7}}))
	assert.Equal(t, 1, c.Len())

	// The user switches to company 9; the late company-7 response is stale.
	c.SetScope(9)
	err := c.ReplaceForScope(7, []models.Customer{{ID: 2, CompanyID: 7}})
	assert.ErrorIs(t, err, ErrStaleScope)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.ReplaceForScope(9, []models.Customer{{ID: 3, CompanyID: 9}}))
	got := c.All()
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestReplaceForScopeUnscopedAlwaysApplies(t *testing.T) {
	c := NewCollection[models.Company]()
	c.SetScope(5)
	require.NoError(t, c.ReplaceForScope(Unscoped, []models.Company{company(1, "a")}))
	assert.Equal(t, 1, c.Len())
}

func TestSelection(t *testing.T) {
	c := NewCollection[models.Invoice]()
	c.SetAll([]models.Invoice{{ID: 1}, {ID: 2}})

	assert.ErrorIs(t, c.Select(99), ErrNoSuchRecord)

	require.NoError(t, c.Select(2))
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)

	// Removing the selected record drops the selection.
	require.NoError(t, c.Remove(2))
	_, ok = c.Selected()
	assert.False(t, ok)

	// SetAll that no longer contains the selection drops it too.
	require.NoError(t, c.Select(1))
	c.SetAll([]models.Invoice{{ID: 3}})
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestStatusFlags(t *testing.T) {
	c := NewCollection[models.Product]()
	assert.False(t, c.Loading())
	c.SetLoading(true)
	assert.True(t, c.Loading())

	assert.NoError(t, c.Err())
	c.SetError(ErrNoSuchRecord)
	assert.Error(t, c.Err())
	c.SetError(nil)
	assert.NoError(t, c.Err())
}

func TestClear(t *testing.T) {
	c := NewCollection[models.Customer]()
	c.SetScope(3)
	c.SetAll([]models.Customer{{ID: 1, CompanyID: 3}})
	require.NoError(t, c.Select(1))
	c.SetLoading(true)
	c.SetError(ErrNoSuchRecord)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Unscoped, c.Scope())
	assert.False(t, c.Loading())
	assert.NoError(t, c.Err())
	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestClearAllWipesEveryCollection(t *testing.T) {
	s := New()
	s.Companies.Add(company(1, "a"))
	s.Customers.Add(models.Customer{ID: 1, CompanyID: 1})
	s.Invoices.Add(models.Invoice{ID: 1, CompanyID: 1})

	s.ClearAll()

	assert.Equal(t, 0, s.Companies.Len())
	assert.Equal(t, 0, s.Customers.Len())
	assert.Equal(t, 0, s.Invoices.Len())
}
