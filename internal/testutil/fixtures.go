package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hisabu/internal/models"
	"hisabu/internal/money"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns a fixed calendar day for deterministic fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates (or resets) the account row of the given type
// with the given balance in cents.
func CreateTestAccount(t *testing.T, db *gorm.DB, accountType models.AccountType, balance money.Amount) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:    fmt.Sprintf("Test %s %d", accountType, nextID()),
		Type:    accountType,
		Balance: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test %s account: %v", accountType, err)
	}
	return account
}

// AccountBalance reads the current balance of the account row of the given type.
func AccountBalance(t *testing.T, db *gorm.DB, accountType models.AccountType) money.Amount {
	t.Helper()

	var account models.Account
	if err := db.Where("account_type = ?", accountType).First(&account).Error; err != nil {
		t.Fatalf("failed to read %s account: %v", accountType, err)
	}
	return account.Balance
}

// CreateTestIncome creates a persisted income record without touching
// balances, for read-side tests.
func CreateTestIncome(t *testing.T, db *gorm.DB, incomeType models.IncomeType, date time.Time, total money.Amount) *models.Income {
	t.Helper()

	income := &models.Income{
		Date:       date,
		Type:       incomeType,
		Source:     models.PaymentSourceCash,
		CashAmount: total,
		Total:      total,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense creates a persisted expense record without touching
// balances, for read-side tests.
func CreateTestExpense(t *testing.T, db *gorm.DB, category string, date time.Time, total money.Amount) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Date:        date,
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Category:    category,
		Source:      models.PaymentSourceCash,
		CashAmount:  total,
		Total:       total,
		Items: []models.ExpenseItem{{
			ItemName:  "Item",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: total,
			Total:     total,
		}},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
