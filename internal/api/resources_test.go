package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerkit/pkg/models"
)

func TestInvoiceStatusVocabulary(t *testing.T) {
	var sentBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sentBody))
		}
		// The backend answers in its own vocabulary.
		fmt.Fprint(w, `{"id":5,"company_id":1,"customer_id":2,"invoice_number":"INV-1",
			"status":"issued","total_amount":1000.00,"is_locked":false}`)
	}))
	defer srv.Close()

	invoices := NewInvoiceClient(NewClient(srv.URL))

	inv, err := invoices.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, inv.Status)
	assert.Equal(t, int64(100000), inv.TotalAmountCents)

	// Both client-only statuses collapse to "issued" on the wire.
	_, err = invoices.UpdateStatus(context.Background(), 5, models.InvoiceOverdue)
	require.NoError(t, err)
	assert.Equal(t, "issued", sentBody["status"])

	_, err = invoices.UpdateStatus(context.Background(), 5, models.InvoiceStatus("bogus"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestItemTotalComputedBeforeSubmission(t *testing.T) {
	var sent itemBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		fmt.Fprint(w, `{"id":1,"invoice_id":5,"description":"x","quantity":3,
			"unit_price":1.00,"discount":0.50,"total_amount":2.50}`)
	}))
	defer srv.Close()

	invoices := NewInvoiceClient(NewClient(srv.URL))
	item, err := invoices.AddItem(context.Background(), 5, ItemPayload{
		Description:    "x",
		Quantity:       3,
		UnitPriceCents: 100,
		DiscountCents:  50,
	})
	require.NoError(t, err)

	assert.Equal(t, 2.50, sent.TotalAmount)
	assert.Equal(t, int64(5), sent.InvoiceID)
	assert.Equal(t, int64(250), item.TotalAmountCents)
}

func TestUsernameDerivedFromEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"email":"jane.sales@acme.com","full_name":"Jane Sales","is_active":true,"role":"SALES","company_id":1}]`)
	}))
	defer srv.Close()

	users, err := NewUserClient(NewClient(srv.URL)).List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jane.sales", users[0].Username)
	require.NotNil(t, users[0].Role)
	assert.Equal(t, models.RoleSales, *users[0].Role)
}

func TestProductSearchCapsAtTen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		var rows []string
		// A misbehaving backend returning more than the cap.
		for i := 0; i < 12; i++ {
			rows = append(rows, fmt.Sprintf(`{"id":%d,"name":"p%d","sku":"S%d","unit_price":9.99}`, i+1, i+1, i+1))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(rows, ","))
	}))
	defer srv.Close()

	got, err := NewProductClient(NewClient(srv.URL)).Search(context.Background(), "p", 1)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, int64(999), got[0].UnitPriceCents)
}

func TestGetByCodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/by-code/SKU-404", r.URL.Path)
		w.WriteHeader(404)
		fmt.Fprint(w, `{"detail":"Product not found"}`)
	}))
	defer srv.Close()

	_, err := NewProductClient(NewClient(srv.URL)).GetByCode(context.Background(), "SKU-404", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTenantScopeRequired(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	ctx := context.Background()

	_, err := NewCustomerClient(client).List(ctx, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = NewProductClient(client).List(ctx, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = NewInvoiceClient(client).List(ctx, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = NewAuditClient(client).List(ctx, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCommissionSnapshotMergesReturnedArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices/9/create-commission-snapshot", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, `[
			{"id":1,"company_id":1,"invoice_id":9,"user_id":3,"base_amount":1000.00,"percent":20.0,"commission_amount":200.00,"status":"pending"},
			{"id":2,"company_id":1,"invoice_id":9,"user_id":4,"base_amount":500.00,"percent":10.0,"commission_amount":50.00,"status":"pending"}
		]`)
	}))
	defer srv.Close()

	got, err := NewCommissionClient(NewClient(srv.URL)).CreateSnapshot(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(20000), got[0].CommissionAmountCents)
	assert.Equal(t, models.CommissionPending, got[0].Status)
}

func TestCommissionPayloadComputesAmount(t *testing.T) {
	var sent commissionBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		fmt.Fprint(w, `{"id":1,"company_id":1,"invoice_id":9,"user_id":3,"base_amount":1000.00,"percent":15.0,"commission_amount":150.00,"status":"pending"}`)
	}))
	defer srv.Close()

	_, err := NewCommissionClient(NewClient(srv.URL)).Create(context.Background(), CommissionPayload{
		CompanyID:       1,
		InvoiceID:       9,
		UserID:          3,
		BaseAmountCents: 100000,
		Percent:         15,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, sent.CommissionAmount)

	// Out-of-range percent is rejected locally.
	_, err = NewCommissionClient(NewClient("http://127.0.0.1:0")).Create(context.Background(), CommissionPayload{
		CompanyID:       1,
		InvoiceID:       9,
		UserID:          3,
		BaseAmountCents: 100000,
		Percent:         120,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestProductImportPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "products.csv", header.Filename)
		assert.Equal(t, "1", r.Header.Get(CompanyHeader))
		w.WriteHeader(201)
		fmt.Fprint(w, `{"success":true,"imported":12,"errors":["row 3: bad sku"],"message":"imported with warnings"}`)
	}))
	defer srv.Close()

	res, err := NewProductClient(NewClient(srv.URL)).ImportFromFile(
		context.Background(), "products.csv", strings.NewReader("sku,name\n"), 1)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 12, res.Imported)
	assert.Len(t, res.Errors, 1)
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		fmt.Fprint(w, `{"id":1,"email":"owner@acme.com","full_name":"John Owner","is_active":true,"role":"OWNER","company_id":1,"token":"tok-1"}`)
	}))
	defer srv.Close()

	user, token, err := NewAuthClient(NewClient(srv.URL)).Login(context.Background(), "owner@acme.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "owner", user.Username)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.RoleOwner, *user.Role)
}

func TestInvoiceUpdateRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/invoices/5", r.URL.Path)
		assert.Equal(t, "1", r.Header.Get(CompanyHeader))
		fmt.Fprint(w, `{"id":5,"company_id":1,"customer_id":3,"invoice_number":"INV-1-002",
			"status":"issued","total_amount":10.00,"is_locked":false}`)
	}))
	defer srv.Close()

	invoices := NewInvoiceClient(NewClient(srv.URL))
	updated, err := invoices.Update(context.Background(), 5, InvoicePayload{
		CompanyID:     1,
		CustomerID:    3,
		InvoiceNumber: "INV-1-002",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.CustomerID)
	assert.Equal(t, models.InvoiceSent, updated.Status)

	// Missing customer is caught locally, before any request.
	_, err = invoices.Update(context.Background(), 5, InvoicePayload{CompanyID: 1, InvoiceNumber: "x"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUpdateItemRecomputesTotal(t *testing.T) {
	var sent itemBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/invoice-items/9", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		fmt.Fprint(w, `{"id":9,"invoice_id":5,"description":"y","quantity":2,
			"unit_price":0.10,"discount":1.00,"total_amount":0.00}`)
	}))
	defer srv.Close()

	item, err := NewInvoiceClient(NewClient(srv.URL)).UpdateItem(context.Background(), 5, 9, ItemPayload{
		Description:    "y",
		Quantity:       2,
		UnitPriceCents: 10,
		DiscountCents:  100,
	})
	require.NoError(t, err)

	// Discount exceeds the line: total clamps to zero on the wire too.
	assert.Equal(t, 0.00, sent.TotalAmount)
	assert.Equal(t, int64(5), sent.InvoiceID)
	assert.Equal(t, int64(0), item.TotalAmountCents)
}

func TestProductGetAndUpdate(t *testing.T) {
	var sent productBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			assert.Equal(t, "/api/products/7", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		}
		fmt.Fprint(w, `{"id":7,"company_id":1,"name":"Widget","sku":"W-1",
			"unit_price":19.99,"cost_price":7.50,"stock_quantity":40,"is_active":true}`)
	}))
	defer srv.Close()

	products := NewProductClient(NewClient(srv.URL))

	got, err := products.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), got.UnitPriceCents)
	assert.Equal(t, int64(750), got.CostPriceCents)

	updated, err := products.Update(context.Background(), 7, ProductPayload{
		CompanyID:      1,
		Name:           "Widget",
		SKU:            "W-1",
		UnitPriceCents: 2099,
		CostPriceCents: 750,
		StockQuantity:  35,
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.99, sent.UnitPrice)
	assert.Equal(t, int64(1), sent.CompanyID)
	assert.Equal(t, int64(40), updated.StockQuantity)
}

func TestUserUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/7", r.URL.Path)
		fmt.Fprint(w, `{"id":7,"email":"jane@acme.com","full_name":"Jane Doe","is_active":false}`)
	}))
	defer srv.Close()

	users := NewUserClient(NewClient(srv.URL))
	updated, err := users.Update(context.Background(), 7, UserPayload{
		Email:    "jane@acme.com",
		FullName: "Jane Doe",
		IsActive: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane", updated.Username)
	assert.False(t, updated.IsActive)

	_, err = users.Update(context.Background(), 7, UserPayload{Email: "not-an-email", FullName: "x"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCommissionGetAndUpdate(t *testing.T) {
	var sent commissionBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			assert.Equal(t, "/api/commissions/4", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		}
		fmt.Fprint(w, `{"id":4,"company_id":1,"invoice_id":5,"user_id":7,"base_amount":2500.00,
			"percent":10,"commission_amount":250.00,"status":"pending"}`)
	}))
	defer srv.Close()

	commissions := NewCommissionClient(NewClient(srv.URL))

	got, err := commissions.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), got.BaseAmountCents)
	assert.Equal(t, models.CommissionPending, got.Status)

	_, err = commissions.Update(context.Background(), 4, CommissionPayload{
		CompanyID:       1,
		InvoiceID:       5,
		UserID:          7,
		BaseAmountCents: 250000,
		Percent:         10,
	})
	require.NoError(t, err)
	// The amount is recomputed client-side from base and percent.
	assert.Equal(t, 250.00, sent.CommissionAmount)
}

func TestRecordLookupsByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/customers/11":
			fmt.Fprint(w, `{"id":11,"company_id":1,"name":"Big Client Inc."}`)
		case "/api/companies/1":
			fmt.Fprint(w, `{"id":1,"name":"Acme"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	customer, err := NewCustomerClient(client).Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Big Client Inc.", customer.Name)

	company, err := NewCompanyClient(client).Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
}
