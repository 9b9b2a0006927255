package services

import (
	"time"

	"gorm.io/gorm"

	"hisabu/internal/ledger"
	"hisabu/internal/models"
	"hisabu/internal/money"
	"hisabu/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// BalanceSummary reports the balance of each account plus the virtual
// combined balance, which is always computed on read and never stored.
type BalanceSummary struct {
	Cash     money.Amount `json:"cash"`
	Bank     money.Amount `json:"bank"`
	Combined money.Amount `json:"combined"`
}

// AccountServicer defines the contract for account-related business logic.
// It doubles as the ledger engine's AccountStore.
type AccountServicer interface {
	ledger.AccountStore

	EnsureDefaultAccounts() error
	GetAccounts() ([]models.Account, error)
	Balances() (*BalanceSummary, error)
	CombinedBalance() (money.Amount, error)
}

// ExpenseInput carries validated expense fields into the service layer.
// For combined payments CashAmount/BankAmount hold the requested split;
// for single-source payments both are ignored and derived from the total.
type ExpenseInput struct {
	Date        time.Time
	Description string
	Category    string
	Supplier    string
	Remarks     string
	Source      models.PaymentSource
	CashAmount  money.Amount
	BankAmount  money.Amount
	Items       []ledger.ItemDraft
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Category *string
	Source   *models.PaymentSource
	Date     *time.Time
	FromDate *time.Time
	ToDate   *time.Time
	Search   *string
	OrderBy  string // "date" or "total", default "date"
	Asc      bool
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(in ExpenseInput) (*models.Expense, error)
	GetExpenseByID(id string) (*models.Expense, error)
	GetExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(id string, in ExpenseInput) (*models.Expense, error)
	DeleteExpense(id string) error
}

// IncomeInput carries validated income fields into the service layer.
type IncomeInput struct {
	Date        time.Time
	Type        models.IncomeType
	Payer       string
	Description string
	Source      models.PaymentSource
	CashAmount  money.Amount
	BankAmount  money.Amount
	Total       money.Amount
}

// IncomeFilter holds optional filter parameters for listing incomes.
type IncomeFilter struct {
	Type     *models.IncomeType
	Source   *models.PaymentSource
	FromDate *time.Time
	ToDate   *time.Time
	Search   *string
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	CreateIncome(in IncomeInput) (*models.Income, error)
	GetIncomeByID(id string) (*models.Income, error)
	GetIncomes(page pagination.PageRequest, filter IncomeFilter) (*pagination.PageResponse[models.Income], error)
	UpdateIncome(id string, in IncomeInput) (*models.Income, error)
	DeleteIncome(id string) error
}

// PeriodTotal is one row of a daily or monthly report.
type PeriodTotal struct {
	Period string       `json:"period"`
	Total  money.Amount `json:"total"`
}

// CategoryTotal is one row of the per-category report.
type CategoryTotal struct {
	Category string       `json:"category"`
	Total    money.Amount `json:"total"`
}

// TypeTotal is one row of the income-by-type report.
type TypeTotal struct {
	IncomeType models.IncomeType `json:"income_type"`
	Total      money.Amount      `json:"total"`
}

// ReportServicer defines read-only aggregates over recorded transactions.
// Reports never interact with the ledger engine.
type ReportServicer interface {
	DailyExpenses() ([]PeriodTotal, error)
	MonthlyExpenses() ([]PeriodTotal, error)
	ExpensesByCategory() ([]CategoryTotal, error)
	IncomesByType() ([]TypeTotal, error)
}

// withTransaction wraps fn in a gorm transaction and translates store-level
// conflicts into the app error taxonomy.
func withTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return translateDBError(db.Transaction(fn))
}
