package api

import (
	"context"
	"net/http"
	"time"

	"ledgerkit/pkg/models"
)

// AuthClient authenticates against the backend and resolves the current
// user. It does not retain the token; the session layer owns that.
type AuthClient struct {
	client *Client
}

// NewAuthClient returns an AuthClient on the shared transport.
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// The backend flattens the authenticated user into the login response.
type authUserWire struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	Role      *string   `json:"role"`
	CompanyID *int64    `json:"company_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w authUserWire) toDomain() models.User {
	u := models.User{
		ID:        w.ID,
		Email:     w.Email,
		Username:  usernameFromEmail(w.Email),
		FullName:  w.FullName,
		IsActive:  w.IsActive,
		CompanyID: w.CompanyID,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.Role != nil {
		role := models.Role(*w.Role)
		u.Role = &role
	}
	return u
}

// Login exchanges credentials for a bearer token and the authenticated
// user's record.
func (a *AuthClient) Login(ctx context.Context, email, password string) (models.User, string, error) {
	const op = "auth.Login"
	payload := loginRequest{Email: email, Password: password}
	if err := a.client.checkPayload(op, payload); err != nil {
		return models.User{}, "", err
	}
	var wire authUserWire
	if err := a.client.do(ctx, op, http.MethodPost, "/api/auth/login", nil, payload, &wire); err != nil {
		return models.User{}, "", err
	}
	return wire.toDomain(), wire.Token, nil
}

// Me returns the user the current token belongs to.
func (a *AuthClient) Me(ctx context.Context) (models.User, error) {
	const op = "auth.Me"
	var wire authUserWire
	if err := a.client.do(ctx, op, http.MethodGet, "/api/auth/me", nil, nil, &wire); err != nil {
		return models.User{}, err
	}
	return wire.toDomain(), nil
}
