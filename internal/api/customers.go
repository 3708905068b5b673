package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ledgerkit/pkg/models"
)

// CustomerClient manages one company's customers. Customers are
// tenant-owned: List requires a company id, and every request carries the
// tenant header.
type CustomerClient struct {
	client *Client
}

// NewCustomerClient returns a CustomerClient on the shared transport.
func NewCustomerClient(client *Client) *CustomerClient {
	return &CustomerClient{client: client}
}

// CustomerPayload is the writable subset of a customer.
type CustomerPayload struct {
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// List returns the customers of one company.
func (c *CustomerClient) List(ctx context.Context, companyID int64) ([]models.Customer, error) {
	const op = "customers.List"
	if companyID == 0 {
		return nil, validationError(op, map[string]string{"company_id": "customers are tenant-owned; a company scope is required"})
	}
	query := url.Values{"company_id": {strconv.FormatInt(companyID, 10)}}
	var out []models.Customer
	if err := c.client.WithCompany(companyID).do(ctx, op, http.MethodGet, "/api/customers", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one customer by id.
func (c *CustomerClient) Get(ctx context.Context, id int64) (models.Customer, error) {
	var out models.Customer
	err := c.client.do(ctx, "customers.Get", http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil, nil, &out)
	return out, err
}

// Create posts a new customer and returns the server's canonical record.
func (c *CustomerClient) Create(ctx context.Context, payload CustomerPayload) (models.Customer, error) {
	const op = "customers.Create"
	if err := c.client.checkPayload(op, payload); err != nil {
		return models.Customer{}, err
	}
	var out models.Customer
	err := c.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPost, "/api/customers", nil, payload, &out)
	return out, err
}

// Update replaces the writable fields of a customer.
func (c *CustomerClient) Update(ctx context.Context, id int64, payload CustomerPayload) (models.Customer, error) {
	const op = "customers.Update"
	if err := c.client.checkPayload(op, payload); err != nil {
		return models.Customer{}, err
	}
	var out models.Customer
	err := c.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPut, fmt.Sprintf("/api/customers/%d", id), nil, payload, &out)
	return out, err
}

// Delete removes a customer.
func (c *CustomerClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, "customers.Delete", http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil, nil, nil)
}
