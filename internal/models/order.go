package models

import "github.com/shopspring/decimal"

var (
	OrderStatusDraft      = "Draft"
	OrderStatusApplied    = "Applied"
	OrderStatusChecked    = "Checked"
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusDone       = "Done"
	OrderStatusRejected   = "Rejected"
)

type BMAdsOrder struct {
	ID               int             `json:"id"`
	OrderNo          string          `json:"orderNo"`
	Name             string          `json:"name"`
	BMID             string          `json:"bmId"`
	UserManagementID int             `json:"userManagementId"`
	UserTypeID       UserType        `json:"userTypeId"`
	NumberOfAccounts int             `json:"numberOfAccounts"`
	NumberOfPages    int             `json:"numberOfPages"`
	AccountTimeZone  string          `json:"accountTimeZone"`
	SelfProfileLink  string          `json:"selfProfileLink"`
	TopUpAmount      decimal.Decimal `json:"topUpAmount"`
	RedeemedAmount   decimal.Decimal `json:"redeemedAmount"`
	Status           string          `json:"status"`
	Audit
}
