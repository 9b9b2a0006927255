package services

import (
	"testing"

	"hisabu/internal/models"
	"hisabu/internal/testutil"
)

func TestGetOrCreate(t *testing.T) {
	t.Run("creates_with_zero_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accounts := NewAccountService(db)

		account, err := accounts.GetOrCreate(db, models.AccountTypeCash)
		testutil.AssertNoError(t, err)
		if account.Balance != 0 {
			t.Errorf("new account balance = %s, want 0.00", account.Balance)
		}
		if account.Type != models.AccountTypeCash {
			t.Errorf("account type = %s, want cash", account.Type)
		}
	})

	t.Run("returns_existing_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accounts := NewAccountService(db)
		testutil.CreateTestAccount(t, db, models.AccountTypeBank, 4200)

		account, err := accounts.GetOrCreate(db, models.AccountTypeBank)
		testutil.AssertNoError(t, err)
		if account.Balance != 4200 {
			t.Errorf("balance = %s, want 42.00", account.Balance)
		}

		var count int64
		db.Model(&models.Account{}).Where("account_type = ?", models.AccountTypeBank).Count(&count)
		if count != 1 {
			t.Errorf("expected a single bank row, found %d", count)
		}
	})

	t.Run("rejects_combined_as_account_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accounts := NewAccountService(db)

		_, err := accounts.GetOrCreate(db, models.AccountType("combined"))
		testutil.AssertAppError(t, err, "UNKNOWN_ACCOUNT_TYPE")
	})
}

func TestEnsureDefaultAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	accounts := NewAccountService(db)

	testutil.AssertNoError(t, accounts.EnsureDefaultAccounts())
	testutil.AssertBalance(t, db, models.AccountTypeCash, 0)
	testutil.AssertBalance(t, db, models.AccountTypeBank, 0)

	// Idempotent.
	testutil.AssertNoError(t, accounts.EnsureDefaultAccounts())
	var count int64
	db.Model(&models.Account{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 account rows, found %d", count)
	}
}

func TestAdjust(t *testing.T) {
	t.Run("increments_in_place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accounts := NewAccountService(db)
		testutil.CreateTestAccount(t, db, models.AccountTypeCash, 1000)

		testutil.AssertNoError(t, accounts.Adjust(db, models.AccountTypeCash, 250))
		testutil.AssertBalance(t, db, models.AccountTypeCash, 1250)

		testutil.AssertNoError(t, accounts.Adjust(db, models.AccountTypeCash, -2000))
		testutil.AssertBalance(t, db, models.AccountTypeCash, -750)
	})

	t.Run("missing_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accounts := NewAccountService(db)

		err := accounts.Adjust(db, models.AccountTypeCash, 100)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestAdjustGuarded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	accounts := NewAccountService(db)
	testutil.CreateTestAccount(t, db, models.AccountTypeBank, 1000)

	ok, err := accounts.AdjustGuarded(db, models.AccountTypeBank, 600)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected guarded debit to land")
	}
	testutil.AssertBalance(t, db, models.AccountTypeBank, 400)

	// Insufficient: the statement must not change the balance.
	ok, err = accounts.AdjustGuarded(db, models.AccountTypeBank, 600)
	testutil.AssertNoError(t, err)
	if ok {
		t.Fatal("expected guarded debit to be refused")
	}
	testutil.AssertBalance(t, db, models.AccountTypeBank, 400)

	// Debiting down to exactly zero is allowed.
	ok, err = accounts.AdjustGuarded(db, models.AccountTypeBank, 400)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected exact debit to land")
	}
	testutil.AssertBalance(t, db, models.AccountTypeBank, 0)
}

func TestBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	accounts := NewAccountService(db)
	testutil.CreateTestAccount(t, db, models.AccountTypeCash, 2500)
	testutil.CreateTestAccount(t, db, models.AccountTypeBank, 7500)

	summary, err := accounts.Balances()
	testutil.AssertNoError(t, err)
	if summary.Cash != 2500 || summary.Bank != 7500 {
		t.Errorf("balances = %s/%s, want 25.00/75.00", summary.Cash, summary.Bank)
	}
	// Combined is derived, never stored.
	if summary.Combined != 10000 {
		t.Errorf("combined = %s, want 100.00", summary.Combined)
	}

	combined, err := accounts.CombinedBalance()
	testutil.AssertNoError(t, err)
	if combined != 10000 {
		t.Errorf("CombinedBalance = %s, want 100.00", combined)
	}
}
