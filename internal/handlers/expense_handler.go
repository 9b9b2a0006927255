package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/ledger"
	"hisabu/internal/models"
	"hisabu/internal/money"
	"hisabu/internal/pagination"
	"hisabu/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseItemRequest represents one line item in an expense payload.
// Quantity and vat_rate accept JSON numbers or numeric strings; unit_price
// is a decimal string such as "12.50".
type ExpenseItemRequest struct {
	Name      string          `json:"name" binding:"required,max=255"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit" binding:"max=50"`
	UnitPrice money.Amount    `json:"unit_price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
}

// ExpenseRequest represents the request payload for creating or updating an
// expense. Updates replace the expense and its line items wholesale.
type ExpenseRequest struct {
	Date        string               `json:"date" binding:"required"`
	Description string               `json:"description" binding:"max=500"`
	Category    string               `json:"category" binding:"required,max=100"`
	Supplier    string               `json:"supplier" binding:"max=255"`
	Remarks     string               `json:"remarks" binding:"max=500"`
	Source      models.PaymentSource `json:"payment_source" binding:"required,payment_source"`
	CashAmount  money.Amount         `json:"cash_amount"`
	BankAmount  money.Amount         `json:"bank_amount"`
	Items       []ExpenseItemRequest `json:"items" binding:"omitempty,dive"`
}

func (r *ExpenseRequest) toInput() (services.ExpenseInput, error) {
	date, err := parseFlexibleTime(r.Date)
	if err != nil {
		return services.ExpenseInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD")
	}

	items := make([]ledger.ItemDraft, len(r.Items))
	for i, item := range r.Items {
		items[i] = ledger.ItemDraft{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			VATRate:   item.VATRate,
		}
	}

	return services.ExpenseInput{
		Date:        date,
		Description: r.Description,
		Category:    r.Category,
		Supplier:    r.Supplier,
		Remarks:     r.Remarks,
		Source:      r.Source,
		CashAmount:  r.CashAmount,
		BankAmount:  r.BankAmount,
		Items:       items,
	}, nil
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Record an expense with its line items and debit the paying accounts
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input, split mismatch, or insufficient balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenseByID handles the retrieval of a specific expense
// @Summary     Get expense by ID
// @Description Get a specific expense with its line items
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	expense, err := h.expenseService.GetExpenseByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// GetExpenses handles the retrieval of expenses with filters
// @Summary     List expenses
// @Description Get a paginated list of expenses with optional filters
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       category  query string false "Filter by category"
// @Param       source    query string false "Filter by payment source (cash, bank, combined)"
// @Param       date      query string false "Filter by exact date (YYYY-MM-DD)"
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       search    query string false "Search in description, supplier, and category"
// @Param       order_by  query string false "Sort column (date or total, default date)"
// @Param       order     query string false "Sort direction (asc or desc, default desc)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetExpenses(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}

	if v := c.Query("source"); v != "" {
		source := models.PaymentSource(v)
		if !source.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid source, must be cash, bank, or combined")
		}
		filter.Source = &source
	}

	if v := c.Query("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use YYYY-MM-DD")
		}
		filter.Date = &t
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	switch v := c.Query("order_by"); v {
	case "", "date", "total":
		filter.OrderBy = v
	default:
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid order_by, must be date or total")
	}

	switch v := c.Query("order"); v {
	case "asc":
		filter.Asc = true
	case "", "desc":
	default:
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid order, must be asc or desc")
	}

	return filter, nil
}

// UpdateExpense handles updating an existing expense
// @Summary     Update expense
// @Description Replace an expense and its line items, rolling back the old
// @Description balance effects and applying the new ones atomically
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body ExpenseRequest true "New expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input, split mismatch, or insufficient balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Param("id"), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles the deletion of an expense
// @Summary     Delete expense
// @Description Delete an expense and credit its amounts back to the paying accounts
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.expenseService.DeleteExpense(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
