package models

import "github.com/shopspring/decimal"

type InvoiceStatus int

const (
	InvoiceStatusPending  InvoiceStatus = 0
	InvoiceStatusApproved InvoiceStatus = 1
	InvoiceStatusReOpened InvoiceStatus = 2
	InvoiceStatusRejected InvoiceStatus = 3
)

type Invoice struct {
	ID              int             `json:"id"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	InvoiceDate     Timestamp       `json:"invoiceDate"`
	ChargeAmount    decimal.Decimal `json:"chargeAmount"`
	TransactionID   string          `json:"transactionId"`
	CryptoAddressID int             `json:"cryptoAddressId"`
	CryptoNetworkID int             `json:"cryptoNetworkId"`
	InvoiceDocument string          `json:"invoiceDocument,omitempty"`
	Status          InvoiceStatus   `json:"status"`
	UserTypeID      UserType        `json:"userTypeId"`
	Remarks         string          `json:"remarks,omitempty"`
	Audit
}

// StatusChange is the payload of the invoice approve action.
type StatusChange struct {
	Status    InvoiceStatus `json:"status"`
	Remarks   string        `json:"remarks"`
	UpdatedBy string        `json:"updatedBy"`
}
