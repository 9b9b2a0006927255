package services

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/models"
	"hisabu/internal/money"
)

// accountService handles account-related business logic and implements the
// ledger engine's AccountStore.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// EnsureDefaultAccounts seeds the cash and bank rows with zero balance.
// Run once at bootstrap so concurrent first requests never race on row
// creation; GetOrCreate remains as a defensive fallback.
func (s *accountService) EnsureDefaultAccounts() error {
	for _, t := range []models.AccountType{models.AccountTypeCash, models.AccountTypeBank} {
		if _, err := s.GetOrCreate(s.db, t); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreate fetches the account row for the given type, creating it with
// balance zero if absent. The type enumeration is closed: "combined" is
// never a row of its own.
func (s *accountService) GetOrCreate(tx *gorm.DB, accountType models.AccountType) (*models.Account, error) {
	if !accountType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrUnknownAccountType,
			fmt.Sprintf("%q is not a storable account type", accountType))
	}

	var account models.Account
	err := tx.Where("account_type = ?", accountType).
		Attrs(models.Account{Name: defaultAccountName(accountType), Balance: 0}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// Adjust applies balance += delta as an in-place atomic increment. The
// statement is issued to the store, never computed from a previously read
// balance, so two concurrent adjustments both land.
func (s *accountService) Adjust(tx *gorm.DB, accountType models.AccountType, delta money.Amount) error {
	res := tx.Model(&models.Account{}).
		Where("account_type = ?", accountType).
		UpdateColumn("balance", gorm.Expr("balance + ?", int64(delta)))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithMessage(apperrors.ErrAccountNotFound,
			fmt.Sprintf("%s account row is missing", accountType))
	}
	return nil
}

// AdjustGuarded debits amount only where the balance covers it, in a single
// conditional UPDATE. A false return means the balance was insufficient at
// the moment the statement executed, closing the gap between a prior
// sufficiency read and the adjustment.
func (s *accountService) AdjustGuarded(tx *gorm.DB, accountType models.AccountType, amount money.Amount) (bool, error) {
	res := tx.Model(&models.Account{}).
		Where("account_type = ? AND balance >= ?", accountType, int64(amount)).
		UpdateColumn("balance", gorm.Expr("balance - ?", int64(amount)))
	if res.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func defaultAccountName(t models.AccountType) string {
	switch t {
	case models.AccountTypeCash:
		return "Cash"
	case models.AccountTypeBank:
		return "Bank"
	}
	return string(t)
}

// GetAccounts lists the stored account rows.
func (s *accountService) GetAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("account_type").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// Balances returns the cash and bank balances plus the combined balance.
func (s *accountService) Balances() (*BalanceSummary, error) {
	accounts, err := s.GetAccounts()
	if err != nil {
		return nil, err
	}

	var summary BalanceSummary
	for _, a := range accounts {
		switch a.Type {
		case models.AccountTypeCash:
			summary.Cash = a.Balance
		case models.AccountTypeBank:
			summary.Bank = a.Balance
		}
		summary.Combined = summary.Combined.Add(a.Balance)
	}
	return &summary, nil
}

// CombinedBalance returns cash + bank, computed on read and never stored.
func (s *accountService) CombinedBalance() (money.Amount, error) {
	var total int64
	err := s.db.Model(&models.Account{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return money.Amount(total), nil
}
