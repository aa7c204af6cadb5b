package models

// Audit holds the bookkeeping fields every remote record carries.
type Audit struct {
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedDate Timestamp `json:"createdDate"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	UpdatedDate Timestamp `json:"updatedDate"`
}
