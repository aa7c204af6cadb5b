package models

var (
	SharedStatusPass = "Shared Pass"
	SharedStatusFail = "Shared Fail"
)

type SharedBM struct {
	ID      int    `json:"id"`
	OrderNo string `json:"orderNo"`
	BMName  string `json:"bmName"`
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
	Audit
}
