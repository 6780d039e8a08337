package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/risk"
)

type RiskProfileRepository struct {
	db DB
}

// NewRiskProfileRepository создает репозиторий риск-профилей.
func NewRiskProfileRepository(db DB) *RiskProfileRepository {
	return &RiskProfileRepository{db: db}
}

// GetByClientID возвращает риск-профиль клиента.
func (r *RiskProfileRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (models.RiskProfile, error) {
	var profile models.RiskProfile
	var tierLabel string

	err := r.db.QueryRow(ctx,
		`SELECT client_id, tolerance_score, tier, COALESCE(investment_horizon, ''), updated_at
		 FROM risk_profiles
		 WHERE client_id = $1`,
		clientID,
	).Scan(&profile.ClientID, &profile.ToleranceScore, &tierLabel, &profile.InvestmentHorizon, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile, ErrNotFound
		}
		return profile, err
	}

	profile.Tier = storedTier(tierLabel, profile.ToleranceScore)

	return profile, nil
}

// Upsert сохраняет результат классификации анкеты.
func (r *RiskProfileRepository) Upsert(ctx context.Context, clientID uuid.UUID, classification risk.Classification) (models.RiskProfile, error) {
	var profile models.RiskProfile
	var tierLabel string

	err := r.db.QueryRow(ctx,
		`INSERT INTO risk_profiles (client_id, tolerance_score, tier, investment_horizon)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 ON CONFLICT (client_id) DO UPDATE
		 SET tolerance_score = EXCLUDED.tolerance_score,
		     tier = EXCLUDED.tier,
		     investment_horizon = EXCLUDED.investment_horizon,
		     updated_at = NOW()
		 RETURNING client_id, tolerance_score, tier, COALESCE(investment_horizon, ''), updated_at`,
		clientID, classification.Score, string(classification.Tier), classification.InvestmentHorizon,
	).Scan(&profile.ClientID, &profile.ToleranceScore, &tierLabel, &profile.InvestmentHorizon, &profile.UpdatedAt)
	if err != nil {
		return profile, err
	}

	profile.Tier = storedTier(tierLabel, profile.ToleranceScore)
	return profile, nil
}

// storedTier разбирает сохраненную метку уровня. Нераспознанная метка
// восстанавливается по баллу, который остается источником истины.
func storedTier(label string, score int) models.RiskTier {
	tier, err := risk.ParseTier(label)
	if err != nil {
		return risk.TierForScore(score)
	}
	return tier
}
