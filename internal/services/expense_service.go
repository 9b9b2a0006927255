package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/ledger"
	"hisabu/internal/models"
	"hisabu/internal/pagination"
)

// expenseService handles expense-related business logic. Every mutation
// composes the line-item calculator and the ledger engine inside one
// database transaction, so balances and records move together or not at all.
type expenseService struct {
	db     *gorm.DB
	engine *ledger.Engine
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, engine *ledger.Engine) ExpenseServicer {
	return &expenseService{db: db, engine: engine}
}

// CreateExpense computes the expense total from its line items, persists the
// record, and applies the debit to the affected account(s) atomically.
func (s *expenseService) CreateExpense(in ExpenseInput) (*models.Expense, error) {
	expense, err := buildExpense(in)
	if err != nil {
		return nil, err
	}

	err = withTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.engine.Apply(tx, ledger.KindExpense, entryFromExpense(expense))
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense with its line items.
func (s *expenseService) GetExpenseByID(id string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Items").Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetExpenses retrieves a paginated, filtered list of expenses.
func (s *expenseService) GetExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyExpenseFilters(s.db.Model(&models.Expense{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Items").
		Order(expenseOrder(filter)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateExpense recomputes an expense against possibly different items and
// payment source. The stored effect is rolled back, the line items replaced
// wholesale, and the new effect applied — all in one transaction. If the new
// apply fails (for example on sufficiency), the rollback and the record
// change are discarded with it.
func (s *expenseService) UpdateExpense(id string, in ExpenseInput) (*models.Expense, error) {
	existing, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}

	replacement, err := buildExpense(in)
	if err != nil {
		return nil, err
	}

	err = withTransaction(s.db, func(tx *gorm.DB) error {
		// Undo the stored effect first, using the persisted amounts.
		if err := s.engine.Rollback(tx, ledger.KindExpense, entryFromExpense(existing)); err != nil {
			return err
		}

		// Line items have no identity across updates: drop and recreate.
		if err := tx.Where("expense_id = ?", existing.ID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range replacement.Items {
			replacement.Items[i].ExpenseID = existing.ID
		}
		if err := tx.Create(&replacement.Items).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := map[string]interface{}{
			"date":           replacement.Date,
			"description":    replacement.Description,
			"category":       replacement.Category,
			"supplier":       replacement.Supplier,
			"remarks":        replacement.Remarks,
			"payment_source": replacement.Source,
			"cash_amount":    replacement.CashAmount,
			"bank_amount":    replacement.BankAmount,
			"total":          replacement.Total,
		}
		if err := tx.Model(&models.Expense{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.engine.Apply(tx, ledger.KindExpense, entryFromExpense(replacement))
	})
	if err != nil {
		return nil, err
	}

	return s.GetExpenseByID(id)
}

// DeleteExpense rolls back the expense's stored effect and removes the
// record with its line items, atomically.
func (s *expenseService) DeleteExpense(id string) error {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return err
	}

	return withTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.engine.Rollback(tx, ledger.KindExpense, entryFromExpense(expense)); err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// buildExpense runs the pure calculator over the input and assembles an
// unsaved expense record with its per-account split captured.
func buildExpense(in ExpenseInput) (*models.Expense, error) {
	totals, subtotal, err := ledger.CalculateItems(in.Items)
	if err != nil {
		return nil, err
	}

	cashAmount, bankAmount, err := ledger.Normalize(in.Source, in.CashAmount, in.BankAmount, subtotal)
	if err != nil {
		return nil, err
	}

	items := make([]models.ExpenseItem, len(in.Items))
	for i, d := range in.Items {
		items[i] = models.ExpenseItem{
			ItemName:  d.Name,
			Quantity:  d.Quantity,
			Unit:      d.Unit,
			UnitPrice: d.UnitPrice,
			VATRate:   d.VATRate,
			Total:     totals[i],
		}
	}

	return &models.Expense{
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Supplier:    in.Supplier,
		Remarks:     in.Remarks,
		Source:      in.Source,
		CashAmount:  cashAmount,
		BankAmount:  bankAmount,
		Total:       subtotal,
		Items:       items,
	}, nil
}

// entryFromExpense builds the engine entry from a record's persisted
// amounts. Rollbacks must never see request-supplied values.
func entryFromExpense(e *models.Expense) ledger.Entry {
	return ledger.Entry{
		Source:     e.Source,
		CashAmount: e.CashAmount,
		BankAmount: e.BankAmount,
		Total:      e.Total,
	}
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Source != nil {
		q = q.Where("payment_source = ?", *f.Source)
	}
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + strings.ToLower(*f.Search) + "%"
		q = q.Where("LOWER(description) LIKE ? OR LOWER(supplier) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern)
	}
	return q
}

func expenseOrder(f ExpenseFilter) string {
	column := "date"
	if f.OrderBy == "total" {
		column = "total"
	}
	if f.Asc {
		return column + " ASC"
	}
	return column + " DESC"
}
