package models

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/shopspring/decimal"
)

type UserType int

const (
	UserTypeUnknown  UserType = 0
	UserTypeReseller UserType = 1
	UserTypeCustomer UserType = 2
)

func (t UserType) String() string {
	switch t {
	case UserTypeReseller:
		return "Reseller"
	case UserTypeCustomer:
		return "Customer"
	default:
		return "Unknown"
	}
}

// ParseUserType maps a role name back to its discriminator.
func ParseUserType(name string) UserType {
	switch name {
	case "Reseller":
		return UserTypeReseller
	case "Customer":
		return UserTypeCustomer
	default:
		return UserTypeUnknown
	}
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

type AdminCredentials struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// FeeSchedule is the pricing a reseller or customer is billed with.
type FeeSchedule struct {
	BaseFee                       decimal.Decimal `json:"baseFee"`
	Commission                    decimal.Decimal `json:"commission"`
	NumberOfAccounts              int             `json:"numberOfAccounts"`
	AdditionalAccountFees         decimal.Decimal `json:"additionalAccountFees"`
	NumberOfPages                 int             `json:"numberOfPages"`
	AdditionalPageFees            decimal.Decimal `json:"additionalPageFees"`
	NumberOfFreeAccountsOrCoupons int             `json:"numberOfFreeAccountsOrCoupons"`
}

type User struct {
	ID             int      `json:"id"`
	UserID         string   `json:"userId"`
	AccountName    string   `json:"accountName"`
	UserName       string   `json:"userName"`
	Password       string   `json:"password,omitempty"`
	ContactNumber  string   `json:"contactNumber"`
	ProfilePicture string   `json:"profilePicture"`
	UserTypeID     UserType `json:"userTypeId"`
	Status         bool     `json:"status"`
	FeeSchedule
	Audit
}

// Role returns the Reseller/Customer label of the user.
func (u User) Role() string {
	return u.UserTypeID.String()
}
