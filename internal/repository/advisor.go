package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/advisor-planner/internal/models"
)

type AdvisorRepository struct {
	db DB
}

// NewAdvisorRepository создает репозиторий консультантов.
func NewAdvisorRepository(db DB) *AdvisorRepository {
	return &AdvisorRepository{db: db}
}

// GetByEmail возвращает консультанта по email без учета регистра.
func (r *AdvisorRepository) GetByEmail(ctx context.Context, email string) (models.Advisor, error) {
	return r.getOne(ctx,
		`SELECT id, email, password_hash, name, created_at
		 FROM advisors
		 WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
}

// GetByID возвращает консультанта по идентификатору.
func (r *AdvisorRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Advisor, error) {
	return r.getOne(ctx,
		`SELECT id, email, password_hash, name, created_at
		 FROM advisors
		 WHERE id = $1`,
		id,
	)
}

func (r *AdvisorRepository) getOne(ctx context.Context, query string, arg any) (models.Advisor, error) {
	var advisor models.Advisor

	err := r.db.QueryRow(ctx, query, arg).Scan(&advisor.ID, &advisor.Email, &advisor.PasswordHash, &advisor.Name, &advisor.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advisor, ErrNotFound
		}
		return advisor, err
	}

	return advisor, nil
}
