package models

// Role is a user's role within a company. The set is closed; the access
// policy fails closed for anything outside it.
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleAccountant Role = "ACCOUNTANT"
	RoleSales      Role = "SALES"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAccountant, RoleSales:
		return true
	}
	return false
}

// InvoiceStatus is the client-side invoice lifecycle vocabulary. The backend
// only knows {draft, issued, paid}; "sent" is the client's name for issued,
// and "overdue" is a client-side refinement of issued that the backend never
// stores. InvoiceStatusFromServer and ServerValue translate at the wire.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// InvoiceStatusFromServer maps the backend's status vocabulary onto the
// client's. Unknown values pass through unchanged so a backend addition
// degrades to display-as-is rather than data loss.
func InvoiceStatusFromServer(s string) InvoiceStatus {
	if s == "issued" {
		return InvoiceSent
	}
	return InvoiceStatus(s)
}

// ServerValue maps the client vocabulary back onto the backend's. Both
// "sent" and "overdue" collapse to "issued".
func (s InvoiceStatus) ServerValue() string {
	switch s {
	case InvoiceSent, InvoiceOverdue:
		return "issued"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the client-side statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// CommissionStatus tracks a commission through its approval workflow:
// pending → approved → paid, each transition via a dedicated endpoint.
type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionPaid     CommissionStatus = "paid"
)

// Valid reports whether s is one of the known commission statuses.
func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPending, CommissionApproved, CommissionPaid:
		return true
	}
	return false
}
