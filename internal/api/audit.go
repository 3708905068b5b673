package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ledgerkit/pkg/models"
)

// AuditClient reads the backend's compliance trail. Audit entries are
// read-only on the client.
type AuditClient struct {
	client *Client
}

// NewAuditClient returns an AuditClient on the shared transport.
func NewAuditClient(client *Client) *AuditClient {
	return &AuditClient{client: client}
}

// List returns the audit entries of one company, newest first as the
// backend orders them.
func (a *AuditClient) List(ctx context.Context, companyID int64) ([]models.AuditLog, error) {
	const op = "audit.List"
	if companyID == 0 {
		return nil, validationError(op, map[string]string{"company_id": "audit entries are tenant-owned; a company scope is required"})
	}
	query := url.Values{"company_id": {strconv.FormatInt(companyID, 10)}}
	var out []models.AuditLog
	if err := a.client.WithCompany(companyID).do(ctx, op, http.MethodGet, "/api/audit-logs", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
