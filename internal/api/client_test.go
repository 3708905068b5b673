package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{401, ErrUnauthorized},
		{404, ErrNotFound},
		{400, ErrValidationFailed},
		{422, ErrValidationFailed},
		{500, ErrUnknown},
		{403, ErrUnknown},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		client := NewClient(srv.URL)
		err := client.do(context.Background(), "test.Op", http.MethodGet, "/api/companies", nil, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tt.status, apiErr.Status)
		assert.Equal(t, "test.Op", apiErr.Op)
		srv.Close()
	}
}

func TestNetworkFailure(t *testing.T) {
	// A server that is immediately closed guarantees a connect error.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL)
	err := client.do(context.Background(), "test.Op", http.MethodGet, "/api/companies", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestAuthAndTenantHeaders(t *testing.T) {
	var gotAuth, gotCompany string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCompany = r.Header.Get(CompanyHeader)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetToken("tok-9")

	require.NoError(t, client.WithCompany(7).do(context.Background(), "t", http.MethodGet, "/x", nil, nil, nil))
	assert.Equal(t, "Bearer tok-9", gotAuth)
	assert.Equal(t, "7", gotCompany)

	// The unscoped client carries no tenant header.
	require.NoError(t, client.do(context.Background(), "t", http.MethodGet, "/x", nil, nil, nil))
	assert.Empty(t, gotCompany)
}

func TestRequestHookRuns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.Header.Get("X-Custom"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithRequestHook(func(req *http.Request) {
		req.Header.Set("X-Custom", "1")
	}))
	require.NoError(t, client.do(context.Background(), "t", http.MethodGet, "/x", nil, nil, nil))
}

func TestValidationFieldsFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(422)
		w.Write([]byte(`{"detail":[{"loc":["body","name"],"msg":"field required"}]}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).do(context.Background(), "t", http.MethodPost, "/x", nil, map[string]string{}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "field required", apiErr.Fields["name"])
}

func TestLocalPayloadValidation(t *testing.T) {
	// The request must fail before any round-trip, so point the client at
	// a dead address.
	client := NewClient("http://127.0.0.1:0")
	companies := NewCompanyClient(client)

	_, err := companies.Create(context.Background(), CompanyPayload{Name: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "Name")
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, int64(1999), centsFromDecimal(19.99))
	assert.Equal(t, int64(100000), centsFromDecimal(1000.00))
	assert.Equal(t, 19.99, decimalFromCents(1999))
	// Float representation of 0.1+0.2 style decimals still lands on the
	// right cent after rounding.
	assert.Equal(t, int64(30), centsFromDecimal(0.30000000000000004))
}
