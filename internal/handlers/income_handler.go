package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/models"
	"hisabu/internal/money"
	"hisabu/internal/pagination"
	"hisabu/internal/services"
)

// IncomeHandler handles income-related requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents the request payload for creating or updating an
// income. Amounts are decimal strings such as "150.00".
type IncomeRequest struct {
	Date        string               `json:"date" binding:"required"`
	Type        models.IncomeType    `json:"type" binding:"required,income_type"`
	Payer       string               `json:"payer" binding:"max=255"`
	Description string               `json:"description" binding:"max=500"`
	Source      models.PaymentSource `json:"payment_source" binding:"required,payment_source"`
	CashAmount  money.Amount         `json:"cash_amount"`
	BankAmount  money.Amount         `json:"bank_amount"`
	Total       money.Amount         `json:"total"`
}

func (r *IncomeRequest) toInput() (services.IncomeInput, error) {
	date, err := parseFlexibleTime(r.Date)
	if err != nil {
		return services.IncomeInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD")
	}

	return services.IncomeInput{
		Date:        date,
		Type:        r.Type,
		Payer:       r.Payer,
		Description: r.Description,
		Source:      r.Source,
		CashAmount:  r.CashAmount,
		BankAmount:  r.BankAmount,
		Total:       r.Total,
	}, nil
}

// CreateIncome handles the creation of a new income
// @Summary     Create an income
// @Description Record an income and credit the receiving accounts
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body IncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input or split mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetIncomeByID handles the retrieval of a specific income
// @Summary     Get income by ID
// @Description Get a specific income by ID
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} models.Income "Income details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [get]
func (h *IncomeHandler) GetIncomeByID(c *gin.Context) {
	income, err := h.incomeService.GetIncomeByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// GetIncomes handles the retrieval of incomes with filters
// @Summary     List incomes
// @Description Get a paginated list of incomes with optional filters
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       type      query string false "Filter by income type"
// @Param       source    query string false "Filter by payment source (cash, bank, combined)"
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       search    query string false "Search in payer and description"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated incomes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [get]
func (h *IncomeHandler) GetIncomes(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseIncomeFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.incomeService.GetIncomes(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseIncomeFilter(c *gin.Context) (services.IncomeFilter, error) {
	var filter services.IncomeFilter

	if v := c.Query("type"); v != "" {
		incomeType := models.IncomeType(v)
		if !incomeType.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be MONTHLY_FEE, REGISTRATION, DONATION, or OTHER")
		}
		filter.Type = &incomeType
	}

	if v := c.Query("source"); v != "" {
		source := models.PaymentSource(v)
		if !source.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid source, must be cash, bank, or combined")
		}
		filter.Source = &source
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

	return filter, nil
}

// UpdateIncome handles updating an existing income
// @Summary     Update income
// @Description Replace an income, rolling back the old balance effects and
// @Description applying the new ones atomically
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Income ID"
// @Param       request body IncomeRequest true "New income details"
// @Success     200 {object} models.Income "Updated income"
// @Failure     400 {object} ErrorResponse "Invalid input or split mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [put]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.UpdateIncome(c.Param("id"), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome handles the deletion of an income
// @Summary     Delete income
// @Description Delete an income and debit its amounts back from the receiving accounts
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	if err := h.incomeService.DeleteIncome(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted successfully"})
}
