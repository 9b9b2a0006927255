// Package ledger implements the consistency engine that keeps account
// balances in exact agreement with the set of recorded transactions.
//
// The engine applies and rolls back the balance effect of one transaction
// at a time. It never opens its own database transaction: callers compose
// Apply/Rollback with their record mutations inside a single gorm
// transaction, so a failure at any step leaves no partial effect.
package ledger

import (
	"fmt"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/models"
	"hisabu/internal/money"

	"gorm.io/gorm"
)

// Kind distinguishes the direction of a transaction's balance effect.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// AccountStore is the engine's view of account persistence. Adjust and
// AdjustGuarded must be in-place atomic increments issued to the store,
// never read-modify-write, so concurrent adjustments cannot lose updates.
type AccountStore interface {
	GetOrCreate(tx *gorm.DB, accountType models.AccountType) (*models.Account, error)
	Adjust(tx *gorm.DB, accountType models.AccountType, delta money.Amount) error
	// AdjustGuarded debits amount only if the balance stays non-negative,
	// reporting whether the debit landed.
	AdjustGuarded(tx *gorm.DB, accountType models.AccountType, amount money.Amount) (bool, error)
}

// Entry is the balance-relevant slice of a transaction: its payment source,
// the per-account split captured at apply time, and the total. Rollbacks
// must be built from the persisted record's amounts, never from request
// input, so apply and rollback always see identical values.
type Entry struct {
	Source     models.PaymentSource
	CashAmount money.Amount
	BankAmount money.Amount
	Total      money.Amount
}

// Normalize returns the cash/bank split to persist for a transaction.
// Single-source payments carry the full total on their account; combined
// payments keep the caller-specified split (validated by Apply).
func Normalize(source models.PaymentSource, cash, bank, total money.Amount) (money.Amount, money.Amount, error) {
	switch source {
	case models.PaymentSourceCash:
		return total, 0, nil
	case models.PaymentSourceBank:
		return 0, total, nil
	case models.PaymentSourceCombined:
		return cash, bank, nil
	default:
		return 0, 0, apperrors.WithMessage(apperrors.ErrUnknownAccountType,
			fmt.Sprintf("unknown payment source %q", source))
	}
}

// leg is the effect of an entry on a single account.
type leg struct {
	account models.AccountType
	amount  money.Amount
}

// legs resolves an entry to its per-account amounts. Combined entries must
// split exactly: cash + bank == total, compared as integers.
func (e Entry) legs() ([]leg, error) {
	switch e.Source {
	case models.PaymentSourceCash:
		return []leg{{models.AccountTypeCash, e.Total}}, nil
	case models.PaymentSourceBank:
		return []leg{{models.AccountTypeBank, e.Total}}, nil
	case models.PaymentSourceCombined:
		if e.CashAmount.Add(e.BankAmount) != e.Total {
			return nil, apperrors.WithMessage(apperrors.ErrSplitMismatch,
				fmt.Sprintf("cash %s + bank %s does not equal total %s",
					e.CashAmount, e.BankAmount, e.Total))
		}
		return []leg{
			{models.AccountTypeCash, e.CashAmount},
			{models.AccountTypeBank, e.BankAmount},
		}, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrUnknownAccountType,
			fmt.Sprintf("unknown payment source %q", e.Source))
	}
}

// Engine applies and rolls back transaction effects on the account store.
type Engine struct {
	store AccountStore
	// allowNegative downgrades the expense sufficiency check to advisory.
	allowNegative bool
}

// NewEngine creates an Engine over the given store.
func NewEngine(store AccountStore, allowNegative bool) *Engine {
	return &Engine{store: store, allowNegative: allowNegative}
}

// Apply records the balance effect of a transaction: expenses debit, incomes
// credit. For expenses every affected account is sufficiency-checked before
// any account is mutated, and each debit is additionally guarded at the
// store so a concurrent writer cannot slip between check and adjustment.
// Any failure leaves every balance untouched once the caller's transaction
// rolls back.
func (en *Engine) Apply(tx *gorm.DB, kind Kind, e Entry) error {
	legs, err := e.legs()
	if err != nil {
		return err
	}

	// Ensure both rows exist before mutating either.
	for _, l := range legs {
		account, err := en.store.GetOrCreate(tx, l.account)
		if err != nil {
			return err
		}
		if kind == KindExpense && !en.allowNegative && account.Balance.LessThan(l.amount) {
			return insufficient(l.account, l.amount.Sub(account.Balance))
		}
	}

	for _, l := range legs {
		if kind == KindExpense {
			if en.allowNegative {
				if err := en.store.Adjust(tx, l.account, l.amount.Neg()); err != nil {
					return err
				}
				continue
			}
			ok, err := en.store.AdjustGuarded(tx, l.account, l.amount)
			if err != nil {
				return err
			}
			if !ok {
				// A concurrent debit won the race since the pre-check.
				return insufficient(l.account, 0)
			}
			continue
		}
		if err := en.store.Adjust(tx, l.account, l.amount); err != nil {
			return err
		}
	}
	return nil
}

// Rollback applies the exact inverse of Apply using the entry's stored
// amounts: expense rollbacks credit the amounts back, income rollbacks
// debit them. No sufficiency check applies; a rollback must always be able
// to restore the pre-apply balances.
func (en *Engine) Rollback(tx *gorm.DB, kind Kind, e Entry) error {
	legs, err := e.legs()
	if err != nil {
		return err
	}

	for _, l := range legs {
		delta := l.amount
		if kind == KindIncome {
			delta = delta.Neg()
		}
		if _, err := en.store.GetOrCreate(tx, l.account); err != nil {
			return err
		}
		if err := en.store.Adjust(tx, l.account, delta); err != nil {
			return err
		}
	}
	return nil
}

func insufficient(account models.AccountType, shortBy money.Amount) error {
	if shortBy.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInsufficientBalance,
			fmt.Sprintf("%s account balance is insufficient", account))
	}
	return apperrors.WithMessage(apperrors.ErrInsufficientBalance,
		fmt.Sprintf("%s account balance is short by %s", account, shortBy))
}
