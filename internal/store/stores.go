package store

import "ledgerkit/pkg/models"

// Stores aggregates one collection per entity type. One instance is built
// at application start and passed explicitly to everything that reads or
// writes cached entities; no component reaches into another's collection.
type Stores struct {
	Companies   *Collection[models.Company]
	Customers   *Collection[models.Customer]
	Products    *Collection[models.Product]
	Users       *Collection[models.User]
	Invoices    *Collection[models.Invoice]
	Commissions *Collection[models.Commission]
}

// New returns a Stores with every collection empty.
func New() *Stores {
	return &Stores{
		Companies:   NewCollection[models.Company](),
		Customers:   NewCollection[models.Customer](),
		Products:    NewCollection[models.Product](),
		Users:       NewCollection[models.User](),
		Invoices:    NewCollection[models.Invoice](),
		Commissions: NewCollection[models.Commission](),
	}
}

// ClearAll empties every collection. Called on logout so no record cached
// for one tenant is observable after a different tenant logs in.
func (s *Stores) ClearAll() {
	s.Companies.Clear()
	s.Customers.Clear()
	s.Products.Clear()
	s.Users.Clear()
	s.Invoices.Clear()
	s.Commissions.Clear()
}
