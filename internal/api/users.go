package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ledgerkit/pkg/models"
)

// UserClient manages user accounts and their company assignment.
type UserClient struct {
	client *Client
}

// NewUserClient returns a UserClient on the shared transport.
func NewUserClient(client *Client) *UserClient {
	return &UserClient{client: client}
}

type userWire struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	IsActive          bool      `json:"is_active"`
	Role              *string   `json:"role"`
	CompanyID         *int64    `json:"company_id"`
	CommissionPercent float64   `json:"commission_percent"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (w userWire) toDomain() models.User {
	u := models.User{
		ID:                w.ID,
		Email:             w.Email,
		Username:          w.Username,
		FullName:          w.FullName,
		IsActive:          w.IsActive,
		CompanyID:         w.CompanyID,
		CommissionPercent: w.CommissionPercent,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
	if u.Username == "" {
		u.Username = usernameFromEmail(w.Email)
	}
	if w.Role != nil {
		role := models.Role(*w.Role)
		u.Role = &role
	}
	return u
}

// usernameFromEmail derives a display username from the email local-part
// when the backend does not provide one.
func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// UserPayload is the writable subset of a user.
type UserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive bool   `json:"is_active"`
}

// List returns users, optionally restricted to one company.
func (u *UserClient) List(ctx context.Context, companyID int64) ([]models.User, error) {
	const op = "users.List"
	client := u.client
	query := url.Values{}
	if companyID != 0 {
		client = u.client.WithCompany(companyID)
		query.Set("company_id", strconv.FormatInt(companyID, 10))
	}
	var wires []userWire
	if err := client.do(ctx, op, http.MethodGet, "/api/users", query, nil, &wires); err != nil {
		return nil, err
	}
	out := make([]models.User, len(wires))
	for i, w := range wires {
		out[i] = w.toDomain()
	}
	return out, nil
}

// Get returns one user by id.
func (u *UserClient) Get(ctx context.Context, id int64) (models.User, error) {
	var wire userWire
	if err := u.client.do(ctx, "users.Get", http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, nil, &wire); err != nil {
		return models.User{}, err
	}
	return wire.toDomain(), nil
}

// Create posts a new user and returns the server's canonical record.
func (u *UserClient) Create(ctx context.Context, payload UserPayload) (models.User, error) {
	const op = "users.Create"
	if err := u.client.checkPayload(op, payload); err != nil {
		return models.User{}, err
	}
	var wire userWire
	if err := u.client.do(ctx, op, http.MethodPost, "/api/users", nil, payload, &wire); err != nil {
		return models.User{}, err
	}
	return wire.toDomain(), nil
}

// Update replaces the writable fields of a user.
func (u *UserClient) Update(ctx context.Context, id int64, payload UserPayload) (models.User, error) {
	const op = "users.Update"
	if err := u.client.checkPayload(op, payload); err != nil {
		return models.User{}, err
	}
	var wire userWire
	if err := u.client.do(ctx, op, http.MethodPut, fmt.Sprintf("/api/users/%d", id), nil, payload, &wire); err != nil {
		return models.User{}, err
	}
	return wire.toDomain(), nil
}

// Delete removes a user.
func (u *UserClient) Delete(ctx context.Context, id int64) error {
	return u.client.do(ctx, "users.Delete", http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil, nil)
}

// AssignCompanyPayload binds a user to a company with a role and default
// commission percentage.
type AssignCompanyPayload struct {
	UserID            int64       `json:"user_id" validate:"required,gt=0"`
	CompanyID         int64       `json:"company_id" validate:"required,gt=0"`
	Role              models.Role `json:"role" validate:"required,oneof=OWNER ACCOUNTANT SALES"`
	CommissionPercent float64     `json:"commission_percent" validate:"gte=0,lte=100"`
}

// AssignCompany makes the user a member of the company under the given
// role and returns the refreshed user record.
func (u *UserClient) AssignCompany(ctx context.Context, payload AssignCompanyPayload) (models.User, error) {
	const op = "users.AssignCompany"
	if err := u.client.checkPayload(op, payload); err != nil {
		return models.User{}, err
	}
	if err := u.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPost, "/api/company-users", nil, payload, nil); err != nil {
		return models.User{}, err
	}
	return u.Get(ctx, payload.UserID)
}
