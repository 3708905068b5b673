package api

// Clients bundles one resource client per entity on a shared transport.
// Build it once at startup and pass it to whatever needs the backend.
type Clients struct {
	Transport   *Client
	Auth        *AuthClient
	Companies   *CompanyClient
	Customers   *CustomerClient
	Products    *ProductClient
	Users       *UserClient
	Invoices    *InvoiceClient
	Commissions *CommissionClient
	Audit       *AuditClient
}

// NewClients wires every resource client to transport.
func NewClients(transport *Client) *Clients {
	return &Clients{
		Transport:   transport,
		Auth:        NewAuthClient(transport),
		Companies:   NewCompanyClient(transport),
		Customers:   NewCustomerClient(transport),
		Products:    NewProductClient(transport),
		Users:       NewUserClient(transport),
		Invoices:    NewInvoiceClient(transport),
		Commissions: NewCommissionClient(transport),
		Audit:       NewAuditClient(transport),
	}
}
