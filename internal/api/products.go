package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ledgerkit/pkg/models"
)

// searchLimit caps fuzzy search results for autocomplete.
const searchLimit = 10

// ProductClient manages one company's product catalogue, including the
// SKU/fuzzy lookups backing autocomplete and the pass-through file import.
type ProductClient struct {
	client *Client
}

// NewProductClient returns a ProductClient on the shared transport.
func NewProductClient(client *Client) *ProductClient {
	return &ProductClient{client: client}
}

type productWire struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	UnitPrice     float64   `json:"unit_price"`
	CostPrice     float64   `json:"cost_price"`
	StockQuantity int64     `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (w productWire) toDomain() models.Product {
	return models.Product{
		ID:             w.ID,
		CompanyID:      w.CompanyID,
		Name:           w.Name,
		SKU:            w.SKU,
		UnitPriceCents: centsFromDecimal(w.UnitPrice),
		CostPriceCents: centsFromDecimal(w.CostPrice),
		StockQuantity:  w.StockQuantity,
		IsActive:       w.IsActive,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

// ProductSuggestion is the minimal shape returned by fuzzy search.
type ProductSuggestion struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	UnitPriceCents int64  `json:"-"`
}

type suggestionWire struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	UnitPrice float64 `json:"unit_price"`
}

// ProductPayload is the writable subset of a product. Prices cross the
// wire as currency-unit decimals.
type ProductPayload struct {
	CompanyID      int64  `json:"-" validate:"required,gt=0"`
	Name           string `json:"name" validate:"required"`
	SKU            string `json:"sku,omitempty"`
	UnitPriceCents int64  `json:"-" validate:"gte=0"`
	CostPriceCents int64  `json:"-" validate:"gte=0"`
	StockQuantity  int64  `json:"stock_quantity" validate:"gte=0"`
	IsActive       bool   `json:"is_active"`
}

type productBody struct {
	ProductPayload
	CompanyID int64   `json:"company_id"`
	UnitPrice float64 `json:"unit_price"`
	CostPrice float64 `json:"cost_price"`
}

func (p ProductPayload) wireBody() productBody {
	return productBody{
		ProductPayload: p,
		CompanyID:      p.CompanyID,
		UnitPrice:      decimalFromCents(p.UnitPriceCents),
		CostPrice:      decimalFromCents(p.CostPriceCents),
	}
}

// List returns the products of one company.
func (p *ProductClient) List(ctx context.Context, companyID int64) ([]models.Product, error) {
	const op = "products.List"
	if companyID == 0 {
		return nil, validationError(op, map[string]string{"company_id": "products are tenant-owned; a company scope is required"})
	}
	query := url.Values{"company_id": {strconv.FormatInt(companyID, 10)}}
	var wires []productWire
	if err := p.client.WithCompany(companyID).do(ctx, op, http.MethodGet, "/api/products", query, nil, &wires); err != nil {
		return nil, err
	}
	out := make([]models.Product, len(wires))
	for i, w := range wires {
		out[i] = w.toDomain()
	}
	return out, nil
}

// Get returns one product by id.
func (p *ProductClient) Get(ctx context.Context, id int64) (models.Product, error) {
	var wire productWire
	if err := p.client.do(ctx, "products.Get", http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, nil, &wire); err != nil {
		return models.Product{}, err
	}
	return wire.toDomain(), nil
}

// Create posts a new product and returns the server's canonical record.
func (p *ProductClient) Create(ctx context.Context, payload ProductPayload) (models.Product, error) {
	const op = "products.Create"
	if err := p.client.checkPayload(op, payload); err != nil {
		return models.Product{}, err
	}
	var wire productWire
	if err := p.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPost, "/api/products", nil, payload.wireBody(), &wire); err != nil {
		return models.Product{}, err
	}
	return wire.toDomain(), nil
}

// Update replaces the writable fields of a product.
func (p *ProductClient) Update(ctx context.Context, id int64, payload ProductPayload) (models.Product, error) {
	const op = "products.Update"
	if err := p.client.checkPayload(op, payload); err != nil {
		return models.Product{}, err
	}
	var wire productWire
	if err := p.client.WithCompany(payload.CompanyID).do(ctx, op, http.MethodPut, fmt.Sprintf("/api/products/%d", id), nil, payload.wireBody(), &wire); err != nil {
		return models.Product{}, err
	}
	return wire.toDomain(), nil
}

// Delete removes a product.
func (p *ProductClient) Delete(ctx context.Context, id int64) error {
	return p.client.do(ctx, "products.Delete", http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil, nil)
}

// Search returns at most ten fuzzy name matches for autocomplete.
func (p *ProductClient) Search(ctx context.Context, q string, companyID int64) ([]ProductSuggestion, error) {
	const op = "products.Search"
	query := url.Values{
		"q":     {q},
		"limit": {strconv.Itoa(searchLimit)},
	}
	var wires []suggestionWire
	if err := p.client.WithCompany(companyID).do(ctx, op, http.MethodGet, "/api/products/search-suggestions", query, nil, &wires); err != nil {
		return nil, err
	}
	if len(wires) > searchLimit {
		wires = wires[:searchLimit]
	}
	out := make([]ProductSuggestion, len(wires))
	for i, w := range wires {
		out[i] = ProductSuggestion{
			ID:             w.ID,
			Name:           w.Name,
			SKU:            w.SKU,
			UnitPriceCents: centsFromDecimal(w.UnitPrice),
		}
	}
	return out, nil
}

// GetByCode returns the product with exactly this SKU, or ErrNotFound.
func (p *ProductClient) GetByCode(ctx context.Context, sku string, companyID int64) (ProductSuggestion, error) {
	const op = "products.GetByCode"
	var wire suggestionWire
	path := "/api/products/by-code/" + url.PathEscape(sku)
	if err := p.client.WithCompany(companyID).do(ctx, op, http.MethodGet, path, nil, nil, &wire); err != nil {
		return ProductSuggestion{}, err
	}
	return ProductSuggestion{
		ID:             wire.ID,
		Name:           wire.Name,
		SKU:            wire.SKU,
		UnitPriceCents: centsFromDecimal(wire.UnitPrice),
	}, nil
}

// ImportFromFile uploads a product file for the backend importer. The
// client does no parsing or validation of the contents; the backend's
// structured verdict comes back as-is.
func (p *ProductClient) ImportFromFile(ctx context.Context, filename string, file io.Reader, companyID int64) (models.ImportResult, error) {
	const op = "products.ImportFromFile"
	var out models.ImportResult
	err := p.client.WithCompany(companyID).upload(ctx, op, "/api/products/import", filename, file, &out)
	return out, err
}
