package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"example.com/advisor-planner/internal/models"
)

type PlanRepository struct {
	db DB
}

type PlanListItem struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	PlanName         string
	PlanType         models.PlanType
	TimeHorizonYears int
	Summary          models.PlanSummary
	GeneratedAt      time.Time
}

// NewPlanRepository создает репозиторий сгенерированных планов.
func NewPlanRepository(db DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create сохраняет сгенерированный план целиком.
func (r *PlanRepository) Create(ctx context.Context, advisorID uuid.UUID, plan models.GeneratedPlan) error {
	sections, err := json.Marshal(plan.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	summary, err := json.Marshal(plan.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	completion, err := json.Marshal(plan.Completion)
	if err != nil {
		return fmt.Errorf("marshal completion: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO generated_plans (id, advisor_id, client_id, client_name, plan_name, plan_type, report_template,
		                              time_horizon_years, risk_tier, risk_tolerance_hint, financial_source, risk_source,
		                              sections, summary, completion, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14, $15, $16)`,
		plan.ID, advisorID, plan.ClientID, plan.ClientName, plan.PlanName, plan.PlanType, plan.ReportTemplate,
		plan.TimeHorizonYears, plan.RiskTier, string(plan.RiskHint), plan.FinancialSource, plan.RiskSource,
		sections, summary, completion, plan.GeneratedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}

	return nil
}

// GetByID возвращает план консультанта по идентификатору.
func (r *PlanRepository) GetByID(ctx context.Context, advisorID, planID uuid.UUID) (models.GeneratedPlan, error) {
	var plan models.GeneratedPlan
	var sections, summary, completion []byte

	err := r.db.QueryRow(ctx,
		`SELECT id, client_id, client_name, plan_name, plan_type, report_template, time_horizon_years,
		        risk_tier, COALESCE(risk_tolerance_hint, ''), financial_source, risk_source, sections, summary, completion, generated_at
		 FROM generated_plans
		 WHERE id = $1 AND advisor_id = $2`,
		planID, advisorID,
	).Scan(&plan.ID, &plan.ClientID, &plan.ClientName, &plan.PlanName, &plan.PlanType, &plan.ReportTemplate, &plan.TimeHorizonYears,
		&plan.RiskTier, &plan.RiskHint, &plan.FinancialSource, &plan.RiskSource, &sections, &summary, &completion, &plan.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan, ErrNotFound
		}
		return plan, err
	}

	if err := json.Unmarshal(sections, &plan.Sections); err != nil {
		return plan, fmt.Errorf("unmarshal sections: %w", err)
	}
	if err := json.Unmarshal(summary, &plan.Summary); err != nil {
		return plan, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := json.Unmarshal(completion, &plan.Completion); err != nil {
		return plan, fmt.Errorf("unmarshal completion: %w", err)
	}

	return plan, nil
}

// ListByClient возвращает планы клиента, начиная с последних.
func (r *PlanRepository) ListByClient(ctx context.Context, advisorID, clientID uuid.UUID) ([]PlanListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, client_id, plan_name, plan_type, time_horizon_years, summary, generated_at
		 FROM generated_plans
		 WHERE advisor_id = $1 AND client_id = $2
		 ORDER BY generated_at DESC`,
		advisorID, clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]PlanListItem, 0)
	for rows.Next() {
		var item PlanListItem
		var summary []byte

		err := rows.Scan(&item.ID, &item.ClientID, &item.PlanName, &item.PlanType, &item.TimeHorizonYears, &summary, &item.GeneratedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(summary, &item.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}

		plans = append(plans, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// Delete удаляет план консультанта.
func (r *PlanRepository) Delete(ctx context.Context, advisorID, planID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM generated_plans
		 WHERE id = $1 AND advisor_id = $2`,
		planID, advisorID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
