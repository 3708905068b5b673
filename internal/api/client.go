// Package api talks to the accounting backend: one shared HTTP transport
// plus a typed resource client per entity. The resource clients translate
// between the backend's wire shapes (decimal amounts, server status
// vocabulary) and the domain shapes in pkg/models, and resolve every
// failure into the closed error taxonomy in errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ledgerkit/internal/logger"
)

// CompanyHeader is the advisory tenant header attached to scoped requests.
// Enforcement is entirely the backend's responsibility.
const CompanyHeader = "X-Company-Id"

// RequestHook inspects or mutates an outgoing request before it is sent.
type RequestHook func(*http.Request)

// ResponseHook inspects an incoming response before it is decoded.
type ResponseHook func(*http.Response)

// Client is the shared HTTP transport. Construct one per process with
// NewClient and derive tenant-scoped views with WithCompany.
type Client struct {
	baseURL   string
	http      *http.Client
	token     string
	companyID int64
	outgoing  RequestHook
	incoming  ResponseHook
	validate  *validator.Validate
	log       zerolog.Logger
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRequestHook installs the outgoing interceptor.
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) { c.outgoing = h }
}

// WithResponseHook replaces the incoming interceptor. The default logs a
// warning on 401 and otherwise passes through.
func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) { c.incoming = h }
}

// NewClient returns a transport rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.WithComponent("api"),
	}
	c.incoming = func(resp *http.Response) {
		if resp.StatusCode == http.StatusUnauthorized {
			c.log.Warn().
				Str("path", resp.Request.URL.Path).
				Msg("Request rejected with 401; token may be expired")
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token attached to every request. An empty
// string clears it.
func (c *Client) SetToken(token string) { c.token = token }

// WithCompany returns a view of the client that stamps every request with
// the tenant header for companyID. The underlying transport, token and
// hooks are shared.
func (c *Client) WithCompany(companyID int64) *Client {
	scoped := *c
	scoped.companyID = companyID
	return &scoped
}

// checkPayload runs declarative validation on a request payload before it
// goes on the wire, so an obviously bad create/update fails locally with
// field detail instead of a round-trip.
func (c *Client) checkPayload(op string, payload any) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationError(op, map[string]string{"payload": err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return validationError(op, fields)
}

// do performs one round-trip: encode body (if any), attach auth and tenant
// headers, run the interceptors, map the status code into the taxonomy and
// decode the response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Kind: ErrUnknown, Detail: err.Error()}
		}
		reader = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &APIError{Op: op, Kind: ErrUnknown, Detail: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, op, out)
}

// upload performs a multipart file upload under the field name "file".
func (c *Client) upload(ctx context.Context, op, path, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return &APIError{Op: op, Kind: ErrUnknown, Detail: err.Error()}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &APIError{Op: op, Kind: ErrUnknown, Detail: err.Error()}
	}
	if err := mw.Close(); err != nil {
		return &APIError{Op: op, Kind: ErrUnknown, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &APIError{Op: op, Kind: ErrUnknown, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, op, out)
}

func (c *Client) send(req *http.Request, op string, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.companyID != 0 {
		req.Header.Set(CompanyHeader, fmt.Sprintf("%d", c.companyID))
	}
	if c.outgoing != nil {
		c.outgoing(req)
	}

	log := logger.WithRequestID(requestID)
	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("op", op).
		Msg("Sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("op", op).Msg("Request failed before reaching server")
		return networkError(op, err)
	}
	defer resp.Body.Close()

	if c.incoming != nil {
		c.incoming(resp)
	}

	if resp.StatusCode >= 400 {
		detail, fields := decodeErrorBody(resp.Body)
		apiErr := newError(op, resp.StatusCode, detail)
		apiErr.Fields = fields
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Kind: ErrUnknown, Detail: "decoding response: " + err.Error()}
	}
	return nil
}

// decodeErrorBody pulls a human-readable detail plus optional per-field
// errors out of an error response. The backend speaks FastAPI's dialect:
// {"detail": "..."} or {"detail": [{"loc": [...], "msg": "..."}]}.
func decodeErrorBody(body io.Reader) (string, map[string]string) {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil || len(raw) == 0 {
		return "", nil
	}

	var simple struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &simple) == nil && simple.Detail != "" {
		return simple.Detail, nil
	}

	var structured struct {
		Detail []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if json.Unmarshal(raw, &structured) == nil && len(structured.Detail) > 0 {
		fields := make(map[string]string, len(structured.Detail))
		for _, d := range structured.Detail {
			name := "body"
			if n := len(d.Loc); n > 0 {
				name = fmt.Sprintf("%v", d.Loc[n-1])
			}
			fields[name] = d.Msg
		}
		return "request validation failed", fields
	}

	return strings.TrimSpace(string(raw)), nil
}

// centsFromDecimal converts a wire decimal (JSON number of currency units)
// into int64 cents, rounding half-up.
func centsFromDecimal(v float64) int64 {
	return int64(math.Round(v * 100))
}

// decimalFromCents converts int64 cents back into the wire's currency-unit
// decimal.
func decimalFromCents(cents int64) float64 {
	return float64(cents) / 100
}
