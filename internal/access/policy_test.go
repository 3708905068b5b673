package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerkit/pkg/models"
)

func role(r models.Role) *models.Role { return &r }

func TestCheckFailsClosed(t *testing.T) {
	assert.False(t, Check(nil, InvoiceRead))
	assert.False(t, Check(role("ADMIN"), InvoiceRead))
	assert.False(t, Check(role(models.RoleOwner), Permission("invoice:explode")))
	assert.False(t, Check(role(""), InvoiceRead))
}

func TestCheckIsPure(t *testing.T) {
	owner := role(models.RoleOwner)
	for i := 0; i < 3; i++ {
		assert.True(t, Check(owner, InvoiceLock))
		assert.False(t, Check(nil, InvoiceLock))
	}
}

// The table's asymmetries are load-bearing: an accountant creates invoices
// but cannot lock, update or delete them, and only an owner touches
// product mutations.
func TestMatrixAsymmetries(t *testing.T) {
	owner := role(models.RoleOwner)
	accountant := role(models.RoleAccountant)
	sales := role(models.RoleSales)

	tests := []struct {
		perm       Permission
		owner      bool
		accountant bool
		sales      bool
	}{
		{InvoiceCreate, true, true, false},
		{InvoiceUpdate, true, false, false},
		{InvoiceDelete, true, false, false},
		{InvoiceLock, true, false, false},
		{InvoiceUnlock, true, false, false},
		{InvoiceRead, true, true, true},

		{CommissionRead, true, true, true},
		{CommissionApprove, true, false, false},
		{CommissionMarkPaid, true, false, false},
		{CommissionCreateSnapshot, true, true, false},

		{CustomerRead, true, true, true},
		{CustomerCreate, true, true, false},
		{CustomerUpdate, true, true, false},
		{CustomerDelete, true, true, false},

		{ProductRead, true, true, true},
		{ProductCreate, true, false, false},
		{ProductUpdate, true, false, false},
		{ProductDelete, true, false, false},
		{ProductImport, true, false, false},

		{AuditRead, true, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.perm), func(t *testing.T) {
			assert.Equal(t, tt.owner, Check(owner, tt.perm), "owner")
			assert.Equal(t, tt.accountant, Check(accountant, tt.perm), "accountant")
			assert.Equal(t, tt.sales, Check(sales, tt.perm), "sales")
		})
	}
}

func TestRolesFor(t *testing.T) {
	assert.Equal(t, []models.Role{models.RoleOwner}, RolesFor(InvoiceLock))
	assert.Equal(t,
		[]models.Role{models.RoleOwner, models.RoleAccountant, models.RoleSales},
		RolesFor(CustomerRead))
	assert.Nil(t, RolesFor(Permission("nope")))
}

func TestKeysCoversFullTable(t *testing.T) {
	assert.Len(t, Keys(), 20)
}
