package models

import (
	"time"

	"hisabu/internal/money"

	"github.com/shopspring/decimal"
)

// Expense is a recorded outgoing transaction. CashAmount and BankAmount are
// captured at apply time and read back unchanged at rollback time; for a
// combined payment they must sum exactly to Total, for a single-source
// payment the source's amount equals Total and the other is zero.
type Expense struct {
	Base
	Date        time.Time     `gorm:"type:date;not null;index" json:"date"`
	Description string        `gorm:"not null" json:"description"`
	Category    string        `gorm:"not null;index" json:"category"`
	Supplier    string        `json:"supplier,omitempty"`
	Remarks     string        `json:"remarks,omitempty"`
	Source      PaymentSource `gorm:"column:payment_source;not null" json:"payment_source"`
	CashAmount  money.Amount  `gorm:"type:bigint;not null;default:0" json:"cash_amount"`
	BankAmount  money.Amount  `gorm:"type:bigint;not null;default:0" json:"bank_amount"`
	Total       money.Amount  `gorm:"column:total;type:bigint;not null" json:"total"`

	// Items are owned exclusively by the expense and replaced wholesale on
	// update; deleting the expense cascades to them.
	Items []ExpenseItem `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"items"`
}

// ExpenseItem is one priced component of a multi-item expense.
// Total = round2(Quantity * UnitPrice * (1 + VATRate/100)), rounded half-up
// once when the item is finalized.
type ExpenseItem struct {
	Base
	ExpenseID string          `gorm:"type:uuid;not null;index" json:"expense_id"`
	ItemName  string          `gorm:"not null" json:"item_name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice money.Amount    `gorm:"type:bigint;not null" json:"unit_price"`
	VATRate   decimal.Decimal `gorm:"column:vat_rate;type:decimal(5,2);not null;default:0" json:"vat_rate"`
	Total     money.Amount    `gorm:"type:bigint;not null" json:"total"`
}
