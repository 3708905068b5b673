// Package access decides whether a role may perform an action. The
// permission table mirrors the backend's enforcement matrix entry for
// entry; it is deliberately literal data, with its asymmetries intact
// (an accountant can create an invoice but not lock one), rather than
// anything derived by rule.
package access

import "ledgerkit/pkg/models"

// Permission is a resource:action pair from the closed set below.
type Permission string

const (
	InvoiceCreate Permission = "invoice:create"
	InvoiceUpdate Permission = "invoice:update"
	InvoiceDelete Permission = "invoice:delete"
	InvoiceLock   Permission = "invoice:lock"
	InvoiceUnlock Permission = "invoice:unlock"
	InvoiceRead   Permission = "invoice:read"

	CommissionRead           Permission = "commission:read"
	CommissionApprove        Permission = "commission:approve"
	CommissionMarkPaid       Permission = "commission:mark_paid"
	CommissionCreateSnapshot Permission = "commission:create_snapshot"

	CustomerRead   Permission = "customer:read"
	CustomerCreate Permission = "customer:create"
	CustomerUpdate Permission = "customer:update"
	CustomerDelete Permission = "customer:delete"

	ProductRead   Permission = "product:read"
	ProductCreate Permission = "product:create"
	ProductUpdate Permission = "product:update"
	ProductDelete Permission = "product:delete"
	ProductImport Permission = "product:import"

	AuditRead Permission = "audit:read"
)

type roleSet struct {
	owner      bool
	accountant bool
	sales      bool
}

var (
	ownerOnly       = roleSet{owner: true}
	ownerAccountant = roleSet{owner: true, accountant: true}
	everyone        = roleSet{owner: true, accountant: true, sales: true}
)

var matrix = map[Permission]roleSet{
	InvoiceCreate: ownerAccountant,
	InvoiceUpdate: ownerOnly,
	InvoiceDelete: ownerOnly,
	InvoiceLock:   ownerOnly,
	InvoiceUnlock: ownerOnly,
	InvoiceRead:   everyone,

	CommissionRead:           everyone,
	CommissionApprove:        ownerOnly,
	CommissionMarkPaid:       ownerOnly,
	CommissionCreateSnapshot: ownerAccountant,

	CustomerRead:   everyone,
	CustomerCreate: ownerAccountant,
	CustomerUpdate: ownerAccountant,
	CustomerDelete: ownerAccountant,

	ProductRead:   everyone,
	ProductCreate: ownerOnly,
	ProductUpdate: ownerOnly,
	ProductDelete: ownerOnly,
	ProductImport: ownerOnly,

	AuditRead: ownerAccountant,
}

// Check reports whether role holds perm. It is pure and fails closed: a nil
// role, an unknown role, or an unknown permission all yield false.
func Check(role *models.Role, perm Permission) bool {
	if role == nil {
		return false
	}
	set, ok := matrix[perm]
	if !ok {
		return false
	}
	switch *role {
	case models.RoleOwner:
		return set.owner
	case models.RoleAccountant:
		return set.accountant
	case models.RoleSales:
		return set.sales
	}
	return false
}

// RolesFor returns the roles holding perm, in OWNER, ACCOUNTANT, SALES
// order. Useful for "who can do this" displays.
func RolesFor(perm Permission) []models.Role {
	set, ok := matrix[perm]
	if !ok {
		return nil
	}
	var roles []models.Role
	if set.owner {
		roles = append(roles, models.RoleOwner)
	}
	if set.accountant {
		roles = append(roles, models.RoleAccountant)
	}
	if set.sales {
		roles = append(roles, models.RoleSales)
	}
	return roles
}

// Keys returns every known permission. Order is unspecified.
func Keys() []Permission {
	keys := make([]Permission, 0, len(matrix))
	for k := range matrix {
		keys = append(keys, k)
	}
	return keys
}
