package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/models"
	"hisabu/internal/money"
)

// reportService computes read-only aggregates over recorded transactions.
// It only ever reads stored totals; the ledger engine's invariants are
// untouched by reporting.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// dateTotal is the scan target for per-date aggregation. Grouping by the
// date column itself keeps the query portable across postgres and sqlite;
// coarser buckets are built in Go.
type dateTotal struct {
	Date  time.Time
	Total int64
}

func (s *reportService) expenseTotalsByDate() ([]dateTotal, error) {
	var rows []dateTotal
	err := s.db.Model(&models.Expense{}).
		Select("date, SUM(total) AS total").
		Group("date").
		Order("date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// DailyExpenses returns expense totals per day, newest first.
func (s *reportService) DailyExpenses() ([]PeriodTotal, error) {
	rows, err := s.expenseTotalsByDate()
	if err != nil {
		return nil, err
	}

	report := make([]PeriodTotal, len(rows))
	for i, r := range rows {
		report[i] = PeriodTotal{
			Period: r.Date.Format("2006-01-02"),
			Total:  money.Amount(r.Total),
		}
	}
	return report, nil
}

// MonthlyExpenses returns expense totals per calendar month, newest first.
func (s *reportService) MonthlyExpenses() ([]PeriodTotal, error) {
	rows, err := s.expenseTotalsByDate()
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]money.Amount)
	for _, r := range rows {
		month := r.Date.Format("2006-01")
		byMonth[month] = byMonth[month].Add(money.Amount(r.Total))
	}

	report := make([]PeriodTotal, 0, len(byMonth))
	for month, total := range byMonth {
		report = append(report, PeriodTotal{Period: month, Total: total})
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Period > report[j].Period })
	return report, nil
}

// ExpensesByCategory returns expense totals per category, largest first.
func (s *reportService) ExpensesByCategory() ([]CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	err := s.db.Model(&models.Expense{}).
		Select("category, SUM(total) AS total").
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := make([]CategoryTotal, len(rows))
	for i, r := range rows {
		report[i] = CategoryTotal{Category: r.Category, Total: money.Amount(r.Total)}
	}
	return report, nil
}

// IncomesByType returns income totals per income type, largest first.
func (s *reportService) IncomesByType() ([]TypeTotal, error) {
	var rows []struct {
		IncomeType models.IncomeType
		Total      int64
	}
	err := s.db.Model(&models.Income{}).
		Select("income_type, SUM(total) AS total").
		Group("income_type").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := make([]TypeTotal, len(rows))
	for i, r := range rows {
		report[i] = TypeTotal{IncomeType: r.IncomeType, Total: money.Amount(r.Total)}
	}
	return report, nil
}
