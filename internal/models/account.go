package models

import "hisabu/internal/money"

// AccountType identifies one of the physical ledger accounts. The set is
// closed: "combined" is a payment-source selector on transactions, never an
// account row of its own.
type AccountType string

const (
	AccountTypeCash AccountType = "cash"
	AccountTypeBank AccountType = "bank"
)

// Valid reports whether t is a storable account type.
func (t AccountType) Valid() bool {
	return t == AccountTypeCash || t == AccountTypeBank
}

// Account holds the running balance of one payment source. There is exactly
// one row per account type; rows are seeded at startup and never deleted.
type Account struct {
	Base
	Name    string       `gorm:"not null" json:"name"`
	Type    AccountType  `gorm:"column:account_type;uniqueIndex;not null" json:"account_type"`
	Balance money.Amount `gorm:"type:bigint;not null;default:0" json:"balance"`
}

// PaymentSource selects which account(s) a transaction settles against.
type PaymentSource string

const (
	PaymentSourceCash     PaymentSource = "cash"
	PaymentSourceBank     PaymentSource = "bank"
	PaymentSourceCombined PaymentSource = "combined"
)

// Valid reports whether s is a known payment source.
func (s PaymentSource) Valid() bool {
	switch s {
	case PaymentSourceCash, PaymentSourceBank, PaymentSourceCombined:
		return true
	}
	return false
}
