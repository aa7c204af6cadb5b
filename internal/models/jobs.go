package models

// Resource names a remote collection that can be cached and resynced.
type Resource string

const (
	ResourceCustomers Resource = "customers"
	ResourceOrders    Resource = "orders"
	ResourceNetworks  Resource = "networks"
	ResourceAddresses Resource = "addresses"
	ResourceInvoices  Resource = "invoices"
	ResourceShared    Resource = "shared"
)

type ResyncJob struct {
	Resource Resource
	Reason   string
}

// AuditEntry records one mutation submitted to the remote API.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Resource   Resource  `json:"resource"`
	RecordID   int       `json:"recordId"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	Actor      string    `json:"actor"`
	CreatedAt  Timestamp `json:"createdAt"`
}
