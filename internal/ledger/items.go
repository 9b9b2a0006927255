package ledger

import (
	"fmt"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/money"

	"github.com/shopspring/decimal"
)

var percentCap = decimal.NewFromInt(100)

// ItemDraft is one unvalidated line item of an expense.
type ItemDraft struct {
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice money.Amount
	VATRate   decimal.Decimal
}

// ItemTotal computes the finalized total of a single line item:
// quantity * unit price * (1 + vat/100), rounded half-up to two decimal
// places. This is the only rounding applied to an item.
func ItemTotal(quantity decimal.Decimal, unitPrice money.Amount, vatRate decimal.Decimal) money.Amount {
	gross := money.AddPercent(unitPrice.MulQuantity(quantity), vatRate)
	return money.FromDecimal(gross)
}

// CalculateItems validates a sequence of line-item drafts and computes each
// item's total plus the transaction subtotal. The calculator is pure: it
// never touches persistence.
//
// An empty sequence fails with EMPTY_LINE_ITEMS; a negative quantity or
// price, or a VAT rate outside [0,100], fails with INVALID_LINE_ITEM.
func CalculateItems(drafts []ItemDraft) ([]money.Amount, money.Amount, error) {
	if len(drafts) == 0 {
		return nil, 0, apperrors.ErrEmptyLineItems
	}

	totals := make([]money.Amount, len(drafts))
	var subtotal money.Amount
	for i, d := range drafts {
		if d.Quantity.IsNegative() {
			return nil, 0, apperrors.WithMessage(apperrors.ErrInvalidLineItem,
				fmt.Sprintf("line item %d has a negative quantity", i+1))
		}
		if d.UnitPrice.IsNegative() {
			return nil, 0, apperrors.WithMessage(apperrors.ErrInvalidLineItem,
				fmt.Sprintf("line item %d has a negative unit price", i+1))
		}
		if d.VATRate.IsNegative() || d.VATRate.GreaterThan(percentCap) {
			return nil, 0, apperrors.WithMessage(apperrors.ErrInvalidLineItem,
				fmt.Sprintf("line item %d has a VAT rate outside 0-100", i+1))
		}

		totals[i] = ItemTotal(d.Quantity, d.UnitPrice, d.VATRate)
		subtotal = subtotal.Add(totals[i])
	}

	return totals, subtotal, nil
}
