package completion

import (
	"strings"

	"example.com/advisor-planner/internal/models"
)

const (
	// MinProceedScore is the lowest score that lets plan generation run on its own.
	MinProceedScore = 30

	WarningFinancialMissing = "financial_snapshot_missing"
	WarningRiskMissing      = "risk_profile_missing"
)

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldAddress         = "address"
	FieldMonthlyIncome   = "monthly_income"
	FieldMonthlyExpenses = "monthly_expenses"
	FieldTotalAssets     = "total_assets"
)

type check struct {
	field    string
	weight   int
	critical bool
	present  func(client models.ClientRecord, financial *models.FinancialSnapshot) bool
}

var rubric = []check{
	{field: FieldName, weight: 20, critical: true, present: func(c models.ClientRecord, _ *models.FinancialSnapshot) bool {
		return filled(c.FirstName) && filled(c.LastName)
	}},
	{field: FieldEmail, weight: 20, critical: true, present: func(c models.ClientRecord, _ *models.FinancialSnapshot) bool {
		return filled(c.Email)
	}},
	{field: FieldPhone, weight: 10, present: func(c models.ClientRecord, _ *models.FinancialSnapshot) bool {
		return filled(c.Phone)
	}},
	{field: FieldAddress, weight: 10, present: func(c models.ClientRecord, _ *models.FinancialSnapshot) bool {
		return filled(c.Address)
	}},
	{field: FieldMonthlyIncome, weight: 25, critical: true, present: func(_ models.ClientRecord, f *models.FinancialSnapshot) bool {
		return f != nil && f.MonthlyIncome > 0
	}},
	{field: FieldMonthlyExpenses, weight: 10, present: func(_ models.ClientRecord, f *models.FinancialSnapshot) bool {
		return f != nil && f.MonthlyExpenses > 0
	}},
	{field: FieldTotalAssets, weight: 5, present: func(_ models.ClientRecord, f *models.FinancialSnapshot) bool {
		return f != nil && f.TotalAssets > 0
	}},
}

// Score оценивает заполненность профиля клиента по весовой шкале.
// nil в financial или risk означает, что данных нет совсем.
func Score(client models.ClientRecord, financial *models.FinancialSnapshot, risk *models.RiskProfile) models.CompletionAssessment {
	assessment := models.CompletionAssessment{
		MissingCritical:  []string{},
		MissingImportant: []string{},
	}

	var hasName, hasEmail bool
	for _, item := range rubric {
		if item.present(client, financial) {
			assessment.Score += item.weight
			switch item.field {
			case FieldName:
				hasName = true
			case FieldEmail:
				hasEmail = true
			}
			continue
		}

		if item.critical {
			assessment.MissingCritical = append(assessment.MissingCritical, item.field)
		} else {
			assessment.MissingImportant = append(assessment.MissingImportant, item.field)
		}
	}

	assessment.MayProceed = assessment.Score >= MinProceedScore || (hasName && hasEmail)

	if financial == nil {
		assessment.Warnings = append(assessment.Warnings, WarningFinancialMissing)
	}
	if risk == nil {
		assessment.Warnings = append(assessment.Warnings, WarningRiskMissing)
	}

	return assessment
}

// MaxScore возвращает сумму всех весов шкалы.
func MaxScore() int {
	total := 0
	for _, item := range rubric {
		total += item.weight
	}
	return total
}

func filled(value string) bool {
	return strings.TrimSpace(value) != ""
}
