package api

import (
	"context"
	"fmt"
	"net/http"

	"ledgerkit/pkg/models"
)

// CompanyClient manages the tenant roots. Companies are the one entity
// always listed unscoped.
type CompanyClient struct {
	client *Client
}

// NewCompanyClient returns a CompanyClient on the shared transport.
func NewCompanyClient(client *Client) *CompanyClient {
	return &CompanyClient{client: client}
}

// CompanyPayload is the writable subset of a company.
type CompanyPayload struct {
	Name string `json:"name" validate:"required"`
}

// List returns every company visible to the caller.
func (c *CompanyClient) List(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	if err := c.client.do(ctx, "companies.List", http.MethodGet, "/api/companies", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one company by id.
func (c *CompanyClient) Get(ctx context.Context, id int64) (models.Company, error) {
	var out models.Company
	err := c.client.do(ctx, "companies.Get", http.MethodGet, fmt.Sprintf("/api/companies/%d", id), nil, nil, &out)
	return out, err
}

// Create posts a new company and returns the server's canonical record.
func (c *CompanyClient) Create(ctx context.Context, payload CompanyPayload) (models.Company, error) {
	const op = "companies.Create"
	if err := c.client.checkPayload(op, payload); err != nil {
		return models.Company{}, err
	}
	var out models.Company
	err := c.client.do(ctx, op, http.MethodPost, "/api/companies", nil, payload, &out)
	return out, err
}

// Update replaces the writable fields of a company.
func (c *CompanyClient) Update(ctx context.Context, id int64, payload CompanyPayload) (models.Company, error) {
	const op = "companies.Update"
	if err := c.client.checkPayload(op, payload); err != nil {
		return models.Company{}, err
	}
	var out models.Company
	err := c.client.do(ctx, op, http.MethodPut, fmt.Sprintf("/api/companies/%d", id), nil, payload, &out)
	return out, err
}

// Delete removes a company and everything it owns.
func (c *CompanyClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, "companies.Delete", http.MethodDelete, fmt.Sprintf("/api/companies/%d", id), nil, nil, nil)
}
