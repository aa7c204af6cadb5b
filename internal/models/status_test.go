package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusLabel(t *testing.T) {
	tests := []struct {
		code InvoiceStatus
		want string
	}{
		{0, "Pending"},
		{1, "Approved"},
		{2, "ReOpened"},
		{3, "Rejected"},
		{4, "Unknown"},
		{-1, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, InvoiceStatusLabel(tt.code).Label)
		})
	}
	assert.Equal(t, "text-gray-500", InvoiceStatusLabel(9).Color)
}

func TestParseInvoiceStatus(t *testing.T) {
	st, ok := ParseInvoiceStatus("2")
	assert.True(t, ok)
	assert.Equal(t, InvoiceStatusReOpened, st)

	st, ok = ParseInvoiceStatus("Rejected")
	assert.True(t, ok)
	assert.Equal(t, InvoiceStatusRejected, st)

	_, ok = ParseInvoiceStatus("7")
	assert.False(t, ok)
	_, ok = ParseInvoiceStatus("Closed")
	assert.False(t, ok)
}

func TestOrderAndSharedLabels(t *testing.T) {
	assert.Equal(t, "bg-green-600", OrderStatusLabel("Done").Color)
	assert.Equal(t, "bg-gray-500", OrderStatusLabel("Whatever").Color)
	assert.Equal(t, "Whatever", OrderStatusLabel("Whatever").Label)
	assert.Equal(t, "bg-red-600", SharedStatusLabel(SharedStatusFail).Color)
}

func TestUserType(t *testing.T) {
	assert.Equal(t, "Reseller", UserTypeReseller.String())
	assert.Equal(t, "Customer", UserTypeCustomer.String())
	assert.Equal(t, "Unknown", UserType(5).String())
	assert.Equal(t, UserTypeCustomer, ParseUserType("Customer"))
}

func TestTimestamp(t *testing.T) {
	var ts Timestamp
	assert.NoError(t, ts.UnmarshalJSON([]byte(`"2024-07-06T10:01:30"`)))
	assert.Equal(t, "2024-07-06", ts.Date())

	assert.NoError(t, ts.UnmarshalJSON([]byte(`null`)))
	assert.True(t, ts.IsZero())
	assert.Equal(t, "", ts.Date())

	assert.Error(t, ts.UnmarshalJSON([]byte(`"yesterday"`)))
}
