package ledger

import (
	"errors"
	"testing"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/models"
	"hisabu/internal/money"

	"gorm.io/gorm"
)

// fakeStore is an in-memory AccountStore. It mutates balances immediately,
// so any engine failure after a mutation would be visible here; the tests
// below rely on that to prove the engine checks before it mutates.
type fakeStore struct {
	balances map[models.AccountType]money.Amount
}

func newFakeStore(cash, bank money.Amount) *fakeStore {
	return &fakeStore{balances: map[models.AccountType]money.Amount{
		models.AccountTypeCash: cash,
		models.AccountTypeBank: bank,
	}}
}

func (f *fakeStore) GetOrCreate(_ *gorm.DB, t models.AccountType) (*models.Account, error) {
	if !t.Valid() {
		return nil, apperrors.ErrUnknownAccountType
	}
	if _, ok := f.balances[t]; !ok {
		f.balances[t] = 0
	}
	return &models.Account{Type: t, Balance: f.balances[t]}, nil
}

func (f *fakeStore) Adjust(_ *gorm.DB, t models.AccountType, delta money.Amount) error {
	f.balances[t] = f.balances[t].Add(delta)
	return nil
}

func (f *fakeStore) AdjustGuarded(_ *gorm.DB, t models.AccountType, amount money.Amount) (bool, error) {
	if f.balances[t].LessThan(amount) {
		return false, nil
	}
	f.balances[t] = f.balances[t].Sub(amount)
	return true, nil
}

func (f *fakeStore) assertBalances(t *testing.T, cash, bank money.Amount) {
	t.Helper()
	if f.balances[models.AccountTypeCash] != cash {
		t.Errorf("cash balance = %s, want %s", f.balances[models.AccountTypeCash], cash)
	}
	if f.balances[models.AccountTypeBank] != bank {
		t.Errorf("bank balance = %s, want %s", f.balances[models.AccountTypeBank], bank)
	}
}

func TestApply(t *testing.T) {
	t.Run("income_credits_single_account", func(t *testing.T) {
		store := newFakeStore(0, 0)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindIncome, Entry{Source: models.PaymentSourceCash, CashAmount: 10000, Total: 10000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, 10000, 0)
	})

	t.Run("expense_debits_single_account", func(t *testing.T) {
		store := newFakeStore(10000, 0)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindExpense, Entry{Source: models.PaymentSourceCash, CashAmount: 2750, Total: 2750})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, 7250, 0)
	})

	t.Run("combined_expense_debits_both_legs", func(t *testing.T) {
		store := newFakeStore(5000, 5000)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindExpense, Entry{
			Source:     models.PaymentSourceCombined,
			CashAmount: 3000,
			BankAmount: 5000,
			Total:      8000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, 2000, 0)
	})

	t.Run("combined_income_credits_both_legs", func(t *testing.T) {
		store := newFakeStore(0, 0)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindIncome, Entry{
			Source:     models.PaymentSourceCombined,
			CashAmount: 2500,
			BankAmount: 7500,
			Total:      10000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, 2500, 7500)
	})

	t.Run("split_mismatch_leaves_balances_untouched", func(t *testing.T) {
		store := newFakeStore(5000, 5000)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindExpense, Entry{
			Source:     models.PaymentSourceCombined,
			CashAmount: 3000,
			BankAmount: 4000,
			Total:      8000,
		})
		if !errors.Is(err, apperrors.ErrSplitMismatch) {
			t.Fatalf("expected SPLIT_MISMATCH, got %v", err)
		}
		store.assertBalances(t, 5000, 5000)
	})

	t.Run("insufficient_single_account", func(t *testing.T) {
		store := newFakeStore(500, 0)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindExpense, Entry{Source: models.PaymentSourceCash, CashAmount: 1000, Total: 1000})
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			t.Fatalf("expected INSUFFICIENT_BALANCE, got %v", err)
		}
		store.assertBalances(t, 500, 0)
	})

	t.Run("insufficient_second_leg_mutates_neither", func(t *testing.T) {
		// cash=50, bank=50; split cash=60/bank=20 sums to the total but the
		// cash leg is short. Neither account may change.
		store := newFakeStore(5000, 5000)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindExpense, Entry{
			Source:     models.PaymentSourceCombined,
			CashAmount: 6000,
			BankAmount: 2000,
			Total:      8000,
		})
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			t.Fatalf("expected INSUFFICIENT_BALANCE, got %v", err)
		}
		store.assertBalances(t, 5000, 5000)
	})

	t.Run("income_skips_sufficiency_check", func(t *testing.T) {
		store := newFakeStore(0, 0)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindIncome, Entry{Source: models.PaymentSourceBank, BankAmount: 100, Total: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, 0, 100)
	})

	t.Run("allow_negative_permits_overdraft", func(t *testing.T) {
		store := newFakeStore(500, 0)
		en := NewEngine(store, true)

		err := en.Apply(nil, KindExpense, Entry{Source: models.PaymentSourceCash, CashAmount: 1000, Total: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, -500, 0)
	})

	t.Run("unknown_source", func(t *testing.T) {
		store := newFakeStore(0, 0)
		en := NewEngine(store, false)

		err := en.Apply(nil, KindExpense, Entry{Source: "combined-virtual", Total: 100})
		if !errors.Is(err, apperrors.ErrUnknownAccountType) {
			t.Fatalf("expected UNKNOWN_ACCOUNT_TYPE, got %v", err)
		}
	})
}

func TestRollback(t *testing.T) {
	t.Run("expense_roundtrip_restores_balances", func(t *testing.T) {
		store := newFakeStore(10000, 7000)
		en := NewEngine(store, false)
		entry := Entry{
			Source:     models.PaymentSourceCombined,
			CashAmount: 2500,
			BankAmount: 1500,
			Total:      4000,
		}

		if err := en.Apply(nil, KindExpense, entry); err != nil {
			t.Fatalf("apply: %v", err)
		}
		store.assertBalances(t, 7500, 5500)

		if err := en.Rollback(nil, KindExpense, entry); err != nil {
			t.Fatalf("rollback: %v", err)
		}
		store.assertBalances(t, 10000, 7000)
	})

	t.Run("income_roundtrip_restores_balances", func(t *testing.T) {
		store := newFakeStore(100, 200)
		en := NewEngine(store, false)
		entry := Entry{Source: models.PaymentSourceBank, BankAmount: 5000, Total: 5000}

		if err := en.Apply(nil, KindIncome, entry); err != nil {
			t.Fatalf("apply: %v", err)
		}
		store.assertBalances(t, 100, 5200)

		if err := en.Rollback(nil, KindIncome, entry); err != nil {
			t.Fatalf("rollback: %v", err)
		}
		store.assertBalances(t, 100, 200)
	})

	t.Run("income_rollback_may_go_negative", func(t *testing.T) {
		// Rollback has no sufficiency check: it must always restore the
		// pre-apply state, even through a transiently negative balance.
		store := newFakeStore(0, 0)
		en := NewEngine(store, false)

		err := en.Rollback(nil, KindIncome, Entry{Source: models.PaymentSourceCash, CashAmount: 300, Total: 300})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		store.assertBalances(t, -300, 0)
	})
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		source     models.PaymentSource
		cash, bank money.Amount
		wantCash   money.Amount
		wantBank   money.Amount
	}{
		{models.PaymentSourceCash, 0, 0, 1000, 0},
		{models.PaymentSourceBank, 0, 0, 0, 1000},
		{models.PaymentSourceCombined, 400, 600, 400, 600},
	}
	for _, c := range cases {
		gotCash, gotBank, err := Normalize(c.source, c.cash, c.bank, 1000)
		if err != nil {
			t.Errorf("Normalize(%s): %v", c.source, err)
			continue
		}
		if gotCash != c.wantCash || gotBank != c.wantBank {
			t.Errorf("Normalize(%s) = %s/%s, want %s/%s", c.source, gotCash, gotBank, c.wantCash, c.wantBank)
		}
	}

	if _, _, err := Normalize("wallet", 0, 0, 1000); !errors.Is(err, apperrors.ErrUnknownAccountType) {
		t.Errorf("expected UNKNOWN_ACCOUNT_TYPE, got %v", err)
	}
}
