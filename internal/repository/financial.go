package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"example.com/advisor-planner/internal/models"
)

type FinancialRepository struct {
	db DB
}

// NewFinancialRepository создает репозиторий финансовых снимков.
func NewFinancialRepository(db DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// GetByClientID возвращает финансовый снимок клиента.
// Пустые обязательства читаются как 0.
func (r *FinancialRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (models.FinancialSnapshot, error) {
	var snapshot models.FinancialSnapshot

	err := r.db.QueryRow(ctx,
		`SELECT client_id, COALESCE(monthly_income, 0), COALESCE(additional_income, 0), COALESCE(monthly_expenses, 0),
		        COALESCE(total_assets, 0), COALESCE(total_liabilities, 0), COALESCE(emergency_fund, 0), updated_at
		 FROM financial_snapshots
		 WHERE client_id = $1`,
		clientID,
	).Scan(&snapshot.ClientID, &snapshot.MonthlyIncome, &snapshot.AdditionalIncome, &snapshot.MonthlyExpenses, &snapshot.TotalAssets, &snapshot.TotalLiabilities, &snapshot.EmergencyFund, &snapshot.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snapshot, ErrNotFound
		}
		return snapshot, err
	}

	return snapshot, nil
}

// Create сохраняет снимок, если у клиента его еще нет.
func (r *FinancialRepository) Create(ctx context.Context, snapshot models.FinancialSnapshot) (models.FinancialSnapshot, error) {
	var created models.FinancialSnapshot

	err := r.db.QueryRow(ctx,
		`INSERT INTO financial_snapshots (client_id, monthly_income, additional_income, monthly_expenses, total_assets, total_liabilities, emergency_fund)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING client_id, monthly_income, additional_income, monthly_expenses, total_assets, total_liabilities, emergency_fund, updated_at`,
		snapshot.ClientID, snapshot.MonthlyIncome, snapshot.AdditionalIncome, snapshot.MonthlyExpenses, snapshot.TotalAssets, snapshot.TotalLiabilities, snapshot.EmergencyFund,
	).Scan(&created.ClientID, &created.MonthlyIncome, &created.AdditionalIncome, &created.MonthlyExpenses, &created.TotalAssets, &created.TotalLiabilities, &created.EmergencyFund, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return created, ErrConflict
			case "23503":
				return created, ErrNotFound
			}
		}
		return created, err
	}

	return created, nil
}
