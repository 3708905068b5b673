package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		unitPrice int64
		discount  int64
		want      int64
	}{
		{"plain multiply minus discount", 3, 100, 50, 250},
		{"discount exceeds subtotal clamps to zero", 2, 10, 100, 0},
		{"zero quantity", 0, 500, 0, 0},
		{"no discount", 4, 250, 0, 1000},
		{"fractional quantity rounds half up", 2.5, 101, 0, 253},
		{"discount exactly subtotal", 1, 100, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemTotal(tt.quantity, tt.unitPrice, tt.discount))
		})
	}
}

func TestCommissionAmount(t *testing.T) {
	assert.Equal(t, int64(2000), CommissionAmount(10000, 20))
	assert.Equal(t, int64(0), CommissionAmount(10000, 0))
	assert.Equal(t, int64(10000), CommissionAmount(10000, 100))
	// 333 * 15% = 49.95 cents, rounds half-up to 50.
	assert.Equal(t, int64(50), CommissionAmount(333, 15))
}

func TestIsValidPercent(t *testing.T) {
	assert.False(t, IsValidPercent(-1))
	assert.True(t, IsValidPercent(0))
	assert.True(t, IsValidPercent(100))
	assert.False(t, IsValidPercent(100.01))
	assert.True(t, IsValidPercent(20))
}

func TestInvoiceStatusMapping(t *testing.T) {
	assert.Equal(t, InvoiceSent, InvoiceStatusFromServer("issued"))
	assert.Equal(t, InvoiceDraft, InvoiceStatusFromServer("draft"))
	assert.Equal(t, InvoicePaid, InvoiceStatusFromServer("paid"))

	assert.Equal(t, "issued", InvoiceSent.ServerValue())
	assert.Equal(t, "issued", InvoiceOverdue.ServerValue())
	assert.Equal(t, "draft", InvoiceDraft.ServerValue())
	assert.Equal(t, "paid", InvoicePaid.ServerValue())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleAccountant.Valid())
	assert.True(t, RoleSales.Valid())
	assert.False(t, Role("ADMIN").Valid())
	assert.False(t, Role("").Valid())
}
