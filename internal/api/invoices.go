package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ledgerkit/pkg/models"
)

// InvoiceClient manages invoices, their lock state and their line-item
// sub-resource. Status values are translated between the client vocabulary
// (draft, sent, paid, overdue) and the server's (draft, issued, paid) at
// the wire.
type InvoiceClient struct {
	client *Client
}

// NewInvoiceClient returns an InvoiceClient on the shared transport.
func NewInvoiceClient(client *Client) *InvoiceClient {
	return &InvoiceClient{client: client}
}

type invoiceWire struct {
	ID              int64      `json:"id"`
	CompanyID       int64      `json:"company_id"`
	CustomerID      int64      `json:"customer_id"`
	InvoiceNumber   string     `json:"invoice_number"`
	Status          string     `json:"status"`
	SoldByUserID    *int64     `json:"sold_by_user_id"`
	CreatedByUserID *int64     `json:"created_by_user_id"`
	TotalAmount     float64    `json:"total_amount"`
	IsLocked        bool       `json:"is_locked"`
	PaidAt          *time.Time `json:"paid_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (w invoiceWire) toDomain() models.Invoice {
	return models.Invoice{
		ID:               w.ID,
		CompanyID:        w.CompanyID,
		CustomerID:       w.CustomerID,
		InvoiceNumber:    w.InvoiceNumber,
		Status:           models.InvoiceStatusFromServer(w.Status),
		SoldByUserID:     w.SoldByUserID,
		CreatedByUserID:  w.CreatedByUserID,
		TotalAmountCents: centsFromDecimal(w.TotalAmount),
		IsLocked:         w.IsLocked,
		PaidAt:           w.PaidAt,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

type invoiceItemWire struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	TotalAmount float64 `json:"total_amount"`
}

func (w invoiceItemWire) toDomain() models.InvoiceItem {
	return models.InvoiceItem{
		ID:               w.ID,
		InvoiceID:        w.InvoiceID,
		Description:      w.Description,
		Quantity:         w.Quantity,
		UnitPriceCents:   centsFromDecimal(w.UnitPrice),
		DiscountCents:    centsFromDecimal(w.Discount),
		TotalAmountCents: centsFromDecimal(w.TotalAmount),
	}
}

// InvoicePayload is the writable subset of an invoice.
type InvoicePayload struct {
	CompanyID     int64  `json:"company_id" validate:"required,gt=0"`
	CustomerID    int64  `json:"customer_id" validate:"required,gt=0"`
	InvoiceNumber string `json:"invoice_number" validate:"required"`
	SoldByUserID  *int64 `json:"sold_by_user_id,omitempty"`
}

// ItemPayload is the writable subset of an invoice line. TotalAmountCents
// is computed client-side via models.ItemTotal before submission.
type ItemPayload struct {
	Description    string  `json:"description" validate:"required"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	UnitPriceCents int64   `json:"-" validate:"gte=0"`
	DiscountCents  int64   `json:"-" validate:"gte=0"`
}

type itemBody struct {
	InvoiceID   int64   `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	TotalAmount float64 `json:"total_amount"`
}

func (p ItemPayload) wireBody(invoiceID int64) itemBody {
	total := models.ItemTotal(p.Quantity, p.UnitPriceCents, p.DiscountCents)
	return itemBody{
		InvoiceID:   invoiceID,
		Description: p.Description,
		Quantity:    p.Quantity,
		UnitPrice:   decimalFromCents(p.UnitPriceCents),
		Discount:    decimalFromCents(p.DiscountCents),
		TotalAmount: decimalFromCents(total),
	}
}

// List returns the invoices of one company.
func (i *InvoiceClient) List(ctx context.Context, companyID int64) ([]models.Invoice, error) {
	const op = "invoices.List"
	if companyID == 0 {
		return nil, validationError(op, map[string]string{"company_id": "invoices are tenant-owned; a company scope is required"})
	}
	query := url.Values{"company_id": {strconv.FormatInt(companyID, 10)}}
	var wires []invoiceWire
	if err := i.client.WithCompany(companyID).do(ctx, op, http.MethodGet, "/api/invoices", query, nil, &wires); err != nil {
		return nil, err
	}
	out := make([]models.Invoice, len(wires))
	for k, w := range wires {
		out[k] = w.toDomain()
	}
	return out, nil
}

// Get returns one invoice by id, items not loaded.
func (i *InvoiceClient) Get(ctx context.Context, id int64) (models.Invoice, error) {
	var wire invoiceWire
	if err := i.client.do(ctx, "invoices.Get", http.MethodGet, fmt.Sprintf("/api/invoices/%d", id), nil, nil, &wire); err != nil {
		return models.Invoice{}, err
	}
	return wire.toDomain(), nil
}

// GetWithItems returns one invoice with its line items merged in.
func (i *InvoiceClient) GetWithItems(ctx context.Context, id int64) (models.Invoice, error) {
	inv, err := i.Get(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	items, err := i.ListItems(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Items = items
	return inv, nil
}

// Create posts a new draft invoice and returns the server's canonical
// record.
func (i *InvoiceClient) Create(ctx context.Context, payload InvoicePayload) (models.Invoice, error) {
	const op = "invoices.Create"
	if err := i.client.checkPayload(op, payload); err != nil {
		return models.Invoice{}, err
	}
	var wire invoiceWire
	if err := i.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPost, "/api/invoices", nil, payload, &wire); err != nil {
		return models.Invoice{}, err
	}
	return wire.toDomain(), nil
}

// Update replaces the writable fields of an invoice.
func (i *InvoiceClient) Update(ctx context.Context, id int64, payload InvoicePayload) (models.Invoice, error) {
	const op = "invoices.Update"
	if err := i.client.checkPayload(op, payload); err != nil {
		return models.Invoice{}, err
	}
	var wire invoiceWire
	if err := i.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPut, fmt.Sprintf("/api/invoices/%d", id), nil, payload, &wire); err != nil {
		return models.Invoice{}, err
	}
	return wire.toDomain(), nil
}

// Delete removes an invoice.
func (i *InvoiceClient) Delete(ctx context.Context, id int64) error {
	return i.client.do(ctx, "invoices.Delete", http.MethodDelete, fmt.Sprintf("/api/invoices/%d", id), nil, nil, nil)
}

// Lock freezes an invoice against further mutation.
func (i *InvoiceClient) Lock(ctx context.Context, id int64) (models.Invoice, error) {
	return i.lockAction(ctx, "invoices.Lock", id, "lock")
}

// Unlock lifts an invoice's lock.
func (i *InvoiceClient) Unlock(ctx context.Context, id int64) (models.Invoice, error) {
	return i.lockAction(ctx, "invoices.Unlock", id, "unlock")
}

func (i *InvoiceClient) lockAction(ctx context.Context, op string, id int64, action string) (models.Invoice, error) {
	var wire invoiceWire
	if err := i.client.do(ctx, op, http.MethodPost, fmt.Sprintf("/api/invoices/%d/%s", id, action), nil, nil, &wire); err != nil {
		return models.Invoice{}, err
	}
	return wire.toDomain(), nil
}

// UpdateStatus moves an invoice to a new client-vocabulary status; the
// server vocabulary goes over the wire.
func (i *InvoiceClient) UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus) (models.Invoice, error) {
	const op = "invoices.UpdateStatus"
	if !status.Valid() {
		return models.Invoice{}, validationError(op, map[string]string{"status": fmt.Sprintf("unknown status %q", status)})
	}
	body := map[string]string{"status": status.ServerValue()}
	var wire invoiceWire
	if err := i.client.do(ctx, op, http.MethodPut, fmt.Sprintf("/api/invoices/%d", id), nil, body, &wire); err != nil {
		return models.Invoice{}, err
	}
	return wire.toDomain(), nil
}

// ListItems returns the ordered line items of one invoice.
func (i *InvoiceClient) ListItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	const op = "invoices.ListItems"
	query := url.Values{"invoice_id": {strconv.FormatInt(invoiceID, 10)}}
	var wires []invoiceItemWire
	if err := i.client.do(ctx, op, http.MethodGet, "/api/invoice-items", query, nil, &wires); err != nil {
		return nil, err
	}
	out := make([]models.InvoiceItem, len(wires))
	for k, w := range wires {
		out[k] = w.toDomain()
	}
	return out, nil
}

// AddItem appends a line to an invoice, computing its total client-side.
func (i *InvoiceClient) AddItem(ctx context.Context, invoiceID int64, payload ItemPayload) (models.InvoiceItem, error) {
	const op = "invoices.AddItem"
	if err := i.client.checkPayload(op, payload); err != nil {
		return models.InvoiceItem{}, err
	}
	var wire invoiceItemWire
	if err := i.client.do(ctx, op, http.MethodPost, "/api/invoice-items", nil, payload.wireBody(invoiceID), &wire); err != nil {
		return models.InvoiceItem{}, err
	}
	return wire.toDomain(), nil
}

// UpdateItem replaces one line of an invoice, recomputing its total.
func (i *InvoiceClient) UpdateItem(ctx context.Context, invoiceID, itemID int64, payload ItemPayload) (models.InvoiceItem, error) {
	const op = "invoices.UpdateItem"
	if err := i.client.checkPayload(op, payload); err != nil {
		return models.InvoiceItem{}, err
	}
	var wire invoiceItemWire
	path := fmt.Sprintf("/api/invoice-items/%d", itemID)
	if err := i.client.do(ctx, op, http.MethodPut, path, nil, payload.wireBody(invoiceID), &wire); err != nil {
		return models.InvoiceItem{}, err
	}
	return wire.toDomain(), nil
}

// DeleteItem removes one line from an invoice.
func (i *InvoiceClient) DeleteItem(ctx context.Context, itemID int64) error {
	return i.client.do(ctx, "invoices.DeleteItem", http.MethodDelete, fmt.Sprintf("/api/invoice-items/%d", itemID), nil, nil, nil)
}
