package models

type CryptoNetwork struct {
	ID          int    `json:"id"`
	Name        string `json:"cryptoNetworkName"`
	Description string `json:"cryptoNetworkDescription"`
	Image       string `json:"cryptoNetworkImage"`
	Status      bool   `json:"status"`
	Audit
}

type CryptoAddress struct {
	ID           int    `json:"id"`
	Address      string `json:"address"`
	NetworkID    int    `json:"cryptoNetworkId"`
	NetworkName  string `json:"cryptoNetworkName,omitempty"`
	NetworkImage string `json:"cryptoNetworkImage,omitempty"`
	Status       bool   `json:"status"`
	Audit
}

// ActiveLabel renders the boolean status flag the way list filters name it.
func ActiveLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
