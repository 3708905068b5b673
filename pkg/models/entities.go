// Package models defines the domain entities of the accounting backend as
// seen by this client, along with their closed status vocabularies and the
// monetary arithmetic applied to invoice items and commissions.
//
// All monetary fields are stored as int64 cents (smallest currency unit) to
// avoid floating-point drift. Every entity shares the backend's canonical
// shape: a server-assigned integer id plus created/updated timestamps.
package models

import (
	"encoding/json"
	"time"
)

// Company is the tenant root. Customers, products, invoices and commissions
// all hang off a company via CompanyID; users may optionally belong to one.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID implements store.Record.
func (c Company) GetID() int64 { return c.ID }

// Customer belongs to exactly one company and is referenced by invoices.
type Customer struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID implements store.Record.
func (c Customer) GetID() int64 { return c.ID }

// Product belongs to exactly one company. Looked up by SKU (exact) or by
// fuzzy name search, both delegated to the backend.
type Product struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	CostPriceCents int64     `json:"cost_price_cents"`
	StockQuantity  int64     `json:"stock_quantity"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetID implements store.Record.
func (p Product) GetID() int64 { return p.ID }

// User is an account holder. CompanyID and Role are nil for users not yet
// assigned to a company; Role drives the access policy.
//
// Username is a display name derived client-side from the email local-part
// when the backend does not provide one.
type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	CompanyID         *int64    `json:"company_id,omitempty"`
	Role              *Role     `json:"role,omitempty"`
	CommissionPercent float64   `json:"commission_percent"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetID implements store.Record.
func (u User) GetID() int64 { return u.ID }

// Invoice belongs to one company and one customer. Items are a sub-resource
// fetched separately and merged in; Items being nil means "not loaded", an
// empty slice means "loaded, none".
type Invoice struct {
	ID               int64         `json:"id"`
	CompanyID        int64         `json:"company_id"`
	CustomerID       int64         `json:"customer_id"`
	InvoiceNumber    string        `json:"invoice_number"`
	Status           InvoiceStatus `json:"status"`
	SoldByUserID     *int64        `json:"sold_by_user_id,omitempty"`
	CreatedByUserID  *int64        `json:"created_by_user_id,omitempty"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	IsLocked         bool          `json:"is_locked"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	Items            []InvoiceItem `json:"items,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// GetID implements store.Record.
func (i Invoice) GetID() int64 { return i.ID }

// InvoiceItem is one line of an invoice. TotalAmountCents is computed
// client-side via ItemTotal before submission and is not re-derived from
// Quantity/UnitPriceCents after load.
type InvoiceItem struct {
	ID               int64   `json:"id"`
	InvoiceID        int64   `json:"invoice_id"`
	Description      string  `json:"description"`
	Quantity         float64 `json:"quantity"`
	UnitPriceCents   int64   `json:"unit_price_cents"`
	DiscountCents    int64   `json:"discount_cents"`
	TotalAmountCents int64   `json:"total_amount_cents"`
}

// GetID implements store.Record.
func (i InvoiceItem) GetID() int64 { return i.ID }

// Commission is a salesperson's cut of one invoice, snapshotted server-side
// when the invoice is paid. Percent must lie in [0,100].
type Commission struct {
	ID                    int64            `json:"id"`
	CompanyID             int64            `json:"company_id"`
	InvoiceID             int64            `json:"invoice_id"`
	UserID                *int64           `json:"user_id,omitempty"`
	BaseAmountCents       int64            `json:"base_amount_cents"`
	Percent               float64          `json:"percent"`
	CommissionAmountCents int64            `json:"commission_amount_cents"`
	Status                CommissionStatus `json:"status"`
	PaidDate              *time.Time       `json:"paid_date,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// GetID implements store.Record.
func (c Commission) GetID() int64 { return c.ID }

// AuditLog is one entry of the backend's compliance trail. Read-only on the
// client; OldData/NewData are kept as raw JSON since their shape varies by
// entity type.
type AuditLog struct {
	ID         int64           `json:"id"`
	CompanyID  int64           `json:"company_id"`
	UserID     *int64          `json:"user_id,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	OldData    json.RawMessage `json:"old_data,omitempty"`
	NewData    json.RawMessage `json:"new_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// GetID implements store.Record.
func (a AuditLog) GetID() int64 { return a.ID }

// ImportResult is the backend importer's verdict on an uploaded product
// file. The client does no parsing or validation of file contents.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
	Message  string   `json:"message"`
}
