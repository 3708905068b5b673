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

// CommissionClient manages commission records and their approval workflow
// (pending → approved → paid), plus the server-side snapshot generator.
type CommissionClient struct {
	client *Client
}

// NewCommissionClient returns a CommissionClient on the shared transport.
func NewCommissionClient(client *Client) *CommissionClient {
	return &CommissionClient{client: client}
}

type commissionWire struct {
	ID               int64      `json:"id"`
	CompanyID        int64      `json:"company_id"`
	InvoiceID        int64      `json:"invoice_id"`
	UserID           *int64     `json:"user_id"`
	BaseAmount       float64    `json:"base_amount"`
	Percent          float64    `json:"percent"`
	CommissionAmount float64    `json:"commission_amount"`
	Status           string     `json:"status"`
	PaidDate         *time.Time `json:"paid_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (w commissionWire) toDomain() models.Commission {
	return models.Commission{
		ID:                    w.ID,
		CompanyID:             w.CompanyID,
		InvoiceID:             w.InvoiceID,
		UserID:                w.UserID,
		BaseAmountCents:       centsFromDecimal(w.BaseAmount),
		Percent:               w.Percent,
		CommissionAmountCents: centsFromDecimal(w.CommissionAmount),
		Status:                models.CommissionStatus(w.Status),
		PaidDate:              w.PaidDate,
		CreatedAt:             w.CreatedAt,
		UpdatedAt:             w.UpdatedAt,
	}
}

// CommissionFilter narrows a List call. Zero values mean "any".
type CommissionFilter struct {
	CompanyID int64
	InvoiceID int64
	UserID    int64
}

// CommissionPayload is the writable subset of a commission. The amount is
// computed client-side from base and percent before submission.
type CommissionPayload struct {
	CompanyID       int64   `json:"company_id" validate:"required,gt=0"`
	InvoiceID       int64   `json:"invoice_id" validate:"required,gt=0"`
	UserID          int64   `json:"user_id" validate:"required,gt=0"`
	BaseAmountCents int64   `json:"-" validate:"gte=0"`
	Percent         float64 `json:"percent" validate:"gte=0,lte=100"`
}

type commissionBody struct {
	CommissionPayload
	BaseAmount       float64 `json:"base_amount"`
	CommissionAmount float64 `json:"commission_amount"`
}

func (p CommissionPayload) wireBody() commissionBody {
	amount := models.CommissionAmount(p.BaseAmountCents, p.Percent)
	return commissionBody{
		CommissionPayload: p,
		BaseAmount:        decimalFromCents(p.BaseAmountCents),
		CommissionAmount:  decimalFromCents(amount),
	}
}

// List returns commissions matching the filter.
func (c *CommissionClient) List(ctx context.Context, filter CommissionFilter) ([]models.Commission, error) {
	const op = "commissions.List"
	client := c.client
	query := url.Values{}
	if filter.CompanyID != 0 {
		client = c.client.WithCompany(filter.CompanyID)
		query.Set("company_id", strconv.FormatInt(filter.CompanyID, 10))
	}
	if filter.InvoiceID != 0 {
		query.Set("invoice_id", strconv.FormatInt(filter.InvoiceID, 10))
	}
	if filter.UserID != 0 {
		query.Set("user_id", strconv.FormatInt(filter.UserID, 10))
	}
	var wires []commissionWire
	if err := client.do(ctx, op, http.MethodGet, "/api/commissions", query, nil, &wires); err != nil {
		return nil, err
	}
	out := make([]models.Commission, len(wires))
	for i, w := range wires {
		out[i] = w.toDomain()
	}
	return out, nil
}

// Get returns one commission by id.
func (c *CommissionClient) Get(ctx context.Context, id int64) (models.Commission, error) {
	var wire commissionWire
	if err := c.client.do(ctx, "commissions.Get", http.MethodGet, fmt.Sprintf("/api/commissions/%d", id), nil, nil, &wire); err != nil {
		return models.Commission{}, err
	}
	return wire.toDomain(), nil
}

// Create posts a manually entered commission.
func (c *CommissionClient) Create(ctx context.Context, payload CommissionPayload) (models.Commission, error) {
	const op = "commissions.Create"
	if err := c.client.checkPayload(op, payload); err != nil {
		return models.Commission{}, err
	}
	var wire commissionWire
	if err := c.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPost, "/api/commissions", nil, payload.wireBody(), &wire); err != nil {
		return models.Commission{}, err
	}
	return wire.toDomain(), nil
}

// Update replaces the writable fields of a commission.
func (c *CommissionClient) Update(ctx context.Context, id int64, payload CommissionPayload) (models.Commission, error) {
	const op = "commissions.Update"
	if err := c.client.checkPayload(op, payload); err != nil {
		return models.Commission{}, err
	}
	var wire commissionWire
	if err := c.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPut, fmt.Sprintf("/api/commissions/%d", id), nil, payload.wireBody(), &wire); err != nil {
		return models.Commission{}, err
	}
	return wire.toDomain(), nil
}

// Delete removes a commission.
func (c *CommissionClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, "commissions.Delete", http.MethodDelete, fmt.Sprintf("/api/commissions/%d", id), nil, nil, nil)
}

// Approve moves a pending commission to approved.
func (c *CommissionClient) Approve(ctx context.Context, id int64) (models.Commission, error) {
	return c.workflowAction(ctx, "commissions.Approve", id, "approve")
}

// MarkPaid moves an approved commission to paid.
func (c *CommissionClient) MarkPaid(ctx context.Context, id int64) (models.Commission, error) {
	return c.workflowAction(ctx, "commissions.MarkPaid", id, "mark-paid")
}

func (c *CommissionClient) workflowAction(ctx context.Context, op string, id int64, action string) (models.Commission, error) {
	var wire commissionWire
	if err := c.client.do(ctx, op, http.MethodPost, fmt.Sprintf("/api/commissions/%d/%s", id, action), nil, nil, &wire); err != nil {
		return models.Commission{}, err
	}
	return wire.toDomain(), nil
}

// CreateSnapshot asks the backend to bulk-generate commission records from
// an invoice's line items and assigned salespeople, and returns the new
// records for merging into the local collection. The generation itself is
// entirely server-side.
func (c *CommissionClient) CreateSnapshot(ctx context.Context, invoiceID int64) ([]models.Commission, error) {
	const op = "commissions.CreateSnapshot"
	var wires []commissionWire
	path := fmt.Sprintf("/api/invoices/%d/create-commission-snapshot", invoiceID)
	if err := c.client.do(ctx, op, http.MethodPost, path, nil, nil, &wires); err != nil {
		return nil, err
	}
	out := make([]models.Commission, len(wires))
	for i, w := range wires {
		out[i] = w.toDomain()
	}
	return out, nil
}
