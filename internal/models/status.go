package models

import "strconv"

// StatusLabel is what a status board renders for a raw status value.
type StatusLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

const unknownColor = "text-gray-500"

func InvoiceStatusLabel(status InvoiceStatus) StatusLabel {
	value := strconv.Itoa(int(status))
	switch status {
	case InvoiceStatusPending:
		return StatusLabel{value, "Pending", "bg-yellow-500 rounded text-white font-bold"}
	case InvoiceStatusApproved:
		return StatusLabel{value, "Approved", "bg-green-700 rounded text-white"}
	case InvoiceStatusReOpened:
		return StatusLabel{value, "ReOpened", "bg-blue-500 rounded text-white"}
	case InvoiceStatusRejected:
		return StatusLabel{value, "Rejected", "bg-red-500 rounded text-white"}
	default:
		return StatusLabel{value, "Unknown", unknownColor}
	}
}

func (s InvoiceStatus) String() string {
	return InvoiceStatusLabel(s).Label
}

// ParseInvoiceStatus accepts either the numeric code or the label.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	if code, err := strconv.Atoi(s); err == nil {
		st := InvoiceStatus(code)
		return st, st >= InvoiceStatusPending && st <= InvoiceStatusRejected
	}
	for _, st := range InvoiceStatuses() {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

func InvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusApproved,
		InvoiceStatusReOpened,
		InvoiceStatusRejected,
	}
}

func OrderStatusLabel(status string) StatusLabel {
	switch status {
	case OrderStatusDone:
		return StatusLabel{status, status, "bg-green-600"}
	case OrderStatusPending:
		return StatusLabel{status, status, "bg-purple-500"}
	case OrderStatusProcessing:
		return StatusLabel{status, status, "bg-pink-500"}
	case OrderStatusDraft:
		return StatusLabel{status, status, "bg-gray-400"}
	case OrderStatusApplied:
		return StatusLabel{status, status, "bg-blue-500"}
	case OrderStatusChecked:
		return StatusLabel{status, status, "bg-indigo-500"}
	case OrderStatusRejected:
		return StatusLabel{status, status, "bg-red-600"}
	default:
		return StatusLabel{status, status, "bg-gray-500"}
	}
}

func OrderStatuses() []string {
	return []string{
		OrderStatusDraft,
		OrderStatusApplied,
		OrderStatusChecked,
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusDone,
		OrderStatusRejected,
	}
}

func SharedStatusLabel(status string) StatusLabel {
	switch status {
	case SharedStatusPass:
		return StatusLabel{status, status, "bg-green-500"}
	case SharedStatusFail:
		return StatusLabel{status, status, "bg-red-600"}
	default:
		return StatusLabel{status, status, "bg-gray-500"}
	}
}

func SharedStatuses() []string {
	return []string{SharedStatusPass, SharedStatusFail}
}
