package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financaspro/finance-core/internal/domain/entity"
)

// Aggregation is pure and stateless: every function takes a snapshot slice
// and derives figures without touching shared state, so calls are safe to
// repeat and to run concurrently. Sums are carried in decimal arithmetic;
// rounding to two places is a presentation concern.

// Summary holds the three headline figures of the dashboard.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// CategoryTotal is one slice of the category breakdown chart.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// DayTotal is one point of the per-day trend series.
type DayTotal struct {
	Date  entity.Date
	Total decimal.Decimal
}

// MonthTotal is one point of the trailing-months trend series.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
}

// Summarize totals income and expense and derives the balance. An empty
// collection yields all zeros.
func Summarize(transactions []entity.Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case entity.TypeIncome:
			income = income.Add(tx.Amount)
		case entity.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Summary{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// ByCategory groups transactions of the given type by category and returns
// totals sorted descending. Ties keep first-encountered category order.
// Transactions without a category land in "Outros".
func ByCategory(transactions []entity.Transaction, t entity.Type) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range transactions {
		if tx.Type != t {
			continue
		}
		category := tx.Category
		if category == "" {
			category = "Outros"
		}
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] = totals[category].Add(tx.Amount)
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, category := range order {
		result = append(result, CategoryTotal{Category: category, Total: totals[category]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// ByDay sums transactions of the given type per calendar day, ordered by
// ascending date.
func ByDay(transactions []entity.Transaction, t entity.Type) []DayTotal {
	totals := make(map[string]decimal.Decimal)
	dates := make(map[string]entity.Date)
	for _, tx := range transactions {
		if tx.Type != t {
			continue
		}
		key := tx.Date.String()
		totals[key] = totals[key].Add(tx.Amount)
		dates[key] = tx.Date
	}

	result := make([]DayTotal, 0, len(totals))
	for key, total := range totals {
		result = append(result, DayTotal{Date: dates[key], Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// MonthlyTrend sums transactions of the given type per month for the
// trailing months window ending at now, oldest month first. Months with no
// matching transactions contribute a zero point, which keeps the chart
// axis continuous.
func MonthlyTrend(transactions []entity.Transaction, t entity.Type, months int, now time.Time) []MonthTotal {
	if months <= 0 {
		return nil
	}

	result := make([]MonthTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		total := decimal.Zero
		for _, tx := range transactions {
			if tx.Type != t {
				continue
			}
			if tx.Date.Year() == anchor.Year() && tx.Date.Month() == anchor.Month() {
				total = total.Add(tx.Amount)
			}
		}
		result = append(result, MonthTotal{Year: anchor.Year(), Month: anchor.Month(), Total: total})
	}
	return result
}
