package projection

import (
	"fmt"
	"math"

	"example.com/advisor-planner/internal/calculator"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/risk"
)

type Position struct {
	NetWorth       float64
	MonthlySurplus float64
	AnnualIncome   float64
	AnnualExpenses float64
}

// CurrentPosition считает чистые активы и ежемесячный остаток.
// Отрицательный остаток не обрезается: это сигнал дефицита.
func CurrentPosition(financial models.FinancialSnapshot) Position {
	return Position{
		NetWorth:       financial.TotalAssets - financial.TotalLiabilities,
		MonthlySurplus: financial.MonthlyIncome - financial.MonthlyExpenses,
		AnnualIncome:   financial.MonthlyIncome * 12,
		AnnualExpenses: financial.MonthlyExpenses * 12,
	}
}

// Project прогнозирует чистые активы через horizonYears лет.
func Project(financial models.FinancialSnapshot, profile models.RiskProfile, horizonYears int) (models.PlanSummary, error) {
	return ProjectPosition(CurrentPosition(financial), profile, horizonYears)
}

// ProjectPosition строит прогноз от уже посчитанной позиции.
func ProjectPosition(position Position, profile models.RiskProfile, horizonYears int) (models.PlanSummary, error) {
	if horizonYears < 0 {
		return models.PlanSummary{}, fmt.Errorf("%w: horizon must not be negative", calculator.ErrInvalidInput)
	}

	summary := models.PlanSummary{
		CurrentNetWorth:   position.NetWorth,
		ProjectedNetWorth: projectAtRate(position, risk.ExpectedReturn(profile.Tier), horizonYears),
		MonthlySurplus:    position.MonthlySurplus,
		RiskScore:         profile.ToleranceScore,
	}

	return summary, nil
}

// projectAtRate: base*(1+g)^n плюс аннуитет постнумерандо из 12*surplus в год.
func projectAtRate(position Position, g float64, horizonYears int) float64 {
	years := float64(horizonYears)
	growth := math.Pow(1+g, years)
	annualContribution := 12 * position.MonthlySurplus

	contributions := annualContribution * years
	if g != 0 {
		contributions = annualContribution * (growth - 1) / g
	}

	return math.Round(position.NetWorth*growth + contributions)
}
