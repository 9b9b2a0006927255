package models

import (
	"time"

	"hisabu/internal/money"
)

// IncomeType categorizes where an income came from.
type IncomeType string

const (
	IncomeTypeMonthlyFee   IncomeType = "MONTHLY_FEE"
	IncomeTypeRegistration IncomeType = "REGISTRATION"
	IncomeTypeDonation     IncomeType = "DONATION"
	IncomeTypeOther        IncomeType = "OTHER"
)

// Valid reports whether t is a known income type.
func (t IncomeType) Valid() bool {
	switch t {
	case IncomeTypeMonthlyFee, IncomeTypeRegistration, IncomeTypeDonation, IncomeTypeOther:
		return true
	}
	return false
}

// Income is a recorded incoming transaction. Amount capture rules match
// Expense: the split is persisted at apply time and rollback always uses
// the persisted values.
type Income struct {
	Base
	Date        time.Time     `gorm:"type:date;not null;index" json:"date"`
	Type        IncomeType    `gorm:"column:income_type;not null;index" json:"income_type"`
	Payer       string        `json:"payer,omitempty"`
	Description string        `json:"description"`
	Source      PaymentSource `gorm:"column:payment_source;not null" json:"payment_source"`
	CashAmount  money.Amount  `gorm:"type:bigint;not null;default:0" json:"cash_amount"`
	BankAmount  money.Amount  `gorm:"type:bigint;not null;default:0" json:"bank_amount"`
	Total       money.Amount  `gorm:"column:total;type:bigint;not null" json:"total"`
}
