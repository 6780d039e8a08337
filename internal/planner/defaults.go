package planner

import (
	"github.com/google/uuid"

	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/risk"
)

type Source string

const (
	SourcePresent   Source = "present"
	SourceDefaulted Source = "defaulted"
)

// Resolved хранит значение и признак того, откуда оно взялось.
type Resolved[T any] struct {
	Value  T
	Source Source
}

func (r Resolved[T]) Defaulted() bool {
	return r.Source == SourceDefaulted
}

// DefaultFinancialSnapshot возвращает снимок, которым заменяются отсутствующие данные.
func DefaultFinancialSnapshot(clientID uuid.UUID) models.FinancialSnapshot {
	return models.FinancialSnapshot{
		ClientID:         clientID,
		MonthlyIncome:    50000,
		MonthlyExpenses:  30000,
		TotalAssets:      100000,
		TotalLiabilities: 50000,
		EmergencyFund:    30000,
	}
}

// DefaultRiskProfile возвращает профиль по умолчанию: moderate, 5 баллов.
func DefaultRiskProfile(clientID uuid.UUID) models.RiskProfile {
	return models.RiskProfile{
		ClientID:       clientID,
		ToleranceScore: risk.DefaultScore,
		Tier:           risk.DefaultTier,
	}
}

// ResolveFinancial подставляет снимок по умолчанию, если данных нет.
func ResolveFinancial(clientID uuid.UUID, snapshot *models.FinancialSnapshot) Resolved[models.FinancialSnapshot] {
	if snapshot == nil {
		return Resolved[models.FinancialSnapshot]{Value: DefaultFinancialSnapshot(clientID), Source: SourceDefaulted}
	}
	return Resolved[models.FinancialSnapshot]{Value: *snapshot, Source: SourcePresent}
}

// ResolveRisk подставляет профиль по умолчанию, если данных нет.
func ResolveRisk(clientID uuid.UUID, profile *models.RiskProfile) Resolved[models.RiskProfile] {
	if profile == nil {
		return Resolved[models.RiskProfile]{Value: DefaultRiskProfile(clientID), Source: SourceDefaulted}
	}
	return Resolved[models.RiskProfile]{Value: *profile, Source: SourcePresent}
}
