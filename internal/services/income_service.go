package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/ledger"
	"hisabu/internal/models"
	"hisabu/internal/pagination"
)

// incomeService handles income-related business logic. Incomes credit the
// affected account(s); the engine skips sufficiency checks for them but the
// apply/rollback protocols are otherwise identical to expenses.
type incomeService struct {
	db     *gorm.DB
	engine *ledger.Engine
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB, engine *ledger.Engine) IncomeServicer {
	return &incomeService{db: db, engine: engine}
}

// CreateIncome persists the income and credits the affected account(s)
// in one transaction.
func (s *incomeService) CreateIncome(in IncomeInput) (*models.Income, error) {
	income, err := buildIncome(in)
	if err != nil {
		return nil, err
	}

	err = withTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.engine.Apply(tx, ledger.KindIncome, entryFromIncome(income))
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// GetIncomeByID retrieves an income record.
func (s *incomeService) GetIncomeByID(id string) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ?", id).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// GetIncomes retrieves a paginated, filtered list of incomes.
func (s *incomeService) GetIncomes(page pagination.PageRequest, filter IncomeFilter) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := applyIncomeFilters(s.db.Model(&models.Income{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateIncome rolls back the stored effect, rewrites the record, and
// applies the new effect, all in one transaction.
func (s *incomeService) UpdateIncome(id string, in IncomeInput) (*models.Income, error) {
	existing, err := s.GetIncomeByID(id)
	if err != nil {
		return nil, err
	}

	replacement, err := buildIncome(in)
	if err != nil {
		return nil, err
	}

	err = withTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.engine.Rollback(tx, ledger.KindIncome, entryFromIncome(existing)); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"date":           replacement.Date,
			"income_type":    replacement.Type,
			"payer":          replacement.Payer,
			"description":    replacement.Description,
			"payment_source": replacement.Source,
			"cash_amount":    replacement.CashAmount,
			"bank_amount":    replacement.BankAmount,
			"total":          replacement.Total,
		}
		if err := tx.Model(&models.Income{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.engine.Apply(tx, ledger.KindIncome, entryFromIncome(replacement))
	})
	if err != nil {
		return nil, err
	}

	return s.GetIncomeByID(id)
}

// DeleteIncome rolls back the income's stored effect and removes the record.
func (s *incomeService) DeleteIncome(id string) error {
	income, err := s.GetIncomeByID(id)
	if err != nil {
		return err
	}

	return withTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.engine.Rollback(tx, ledger.KindIncome, entryFromIncome(income)); err != nil {
			return err
		}
		if err := tx.Delete(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func buildIncome(in IncomeInput) (*models.Income, error) {
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("unknown income type %q", in.Type))
	}
	if in.Total.IsNegative() || in.Total.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income total must be greater than zero")
	}

	cashAmount, bankAmount, err := ledger.Normalize(in.Source, in.CashAmount, in.BankAmount, in.Total)
	if err != nil {
		return nil, err
	}

	return &models.Income{
		Date:        in.Date,
		Type:        in.Type,
		Payer:       in.Payer,
		Description: in.Description,
		Source:      in.Source,
		CashAmount:  cashAmount,
		BankAmount:  bankAmount,
		Total:       in.Total,
	}, nil
}

// entryFromIncome builds the engine entry from a record's persisted amounts.
func entryFromIncome(i *models.Income) ledger.Entry {
	return ledger.Entry{
		Source:     i.Source,
		CashAmount: i.CashAmount,
		BankAmount: i.BankAmount,
		Total:      i.Total,
	}
}

func applyIncomeFilters(q *gorm.DB, f IncomeFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("income_type = ?", *f.Type)
	}
	if f.Source != nil {
		q = q.Where("payment_source = ?", *f.Source)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + strings.ToLower(*f.Search) + "%"
		q = q.Where("LOWER(payer) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return q
}
