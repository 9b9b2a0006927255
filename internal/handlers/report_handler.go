package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hisabu/internal/services"
)

// ReportHandler handles reporting requests. Reports are read-only aggregates
// over the recorded expenses and incomes.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetDailyExpenses handles the daily expense report
// @Summary     Daily expense report
// @Description Get expense totals grouped by day, newest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.PeriodTotal "Daily totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/expenses/daily [get]
func (h *ReportHandler) GetDailyExpenses(c *gin.Context) {
	report, err := h.reportService.DailyExpenses()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetMonthlyExpenses handles the monthly expense report
// @Summary     Monthly expense report
// @Description Get expense totals grouped by month, newest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.PeriodTotal "Monthly totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/expenses/monthly [get]
func (h *ReportHandler) GetMonthlyExpenses(c *gin.Context) {
	report, err := h.reportService.MonthlyExpenses()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetExpensesByCategory handles the per-category expense report
// @Summary     Expense report by category
// @Description Get expense totals grouped by category, largest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CategoryTotal "Category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/expenses/by-category [get]
func (h *ReportHandler) GetExpensesByCategory(c *gin.Context) {
	report, err := h.reportService.ExpensesByCategory()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetIncomesByType handles the per-type income report
// @Summary     Income report by type
// @Description Get income totals grouped by income type, largest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.TypeTotal "Type totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/incomes/by-type [get]
func (h *ReportHandler) GetIncomesByType(c *gin.Context) {
	report, err := h.reportService.IncomesByType()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
