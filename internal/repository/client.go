package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/advisor-planner/internal/models"
)

type ClientRepository struct {
	db DB
}

// NewClientRepository создает репозиторий клиентов.
func NewClientRepository(db DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByID возвращает клиента по идентификатору.
func (r *ClientRepository) GetByID(ctx context.Context, clientID uuid.UUID) (models.ClientRecord, error) {
	var client models.ClientRecord

	err := r.db.QueryRow(ctx,
		`SELECT id, advisor_id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(email, ''),
		        COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
		 FROM clients
		 WHERE id = $1`,
		clientID,
	).Scan(&client.ID, &client.AdvisorID, &client.FirstName, &client.LastName, &client.Email, &client.Phone, &client.Address, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return client, ErrNotFound
		}
		return client, err
	}

	return client, nil
}

// ExistsForAdvisor проверяет, что клиент закреплен за консультантом.
func (r *ClientRepository) ExistsForAdvisor(ctx context.Context, advisorID, clientID uuid.UUID) (bool, error) {
	var exists bool

	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM clients WHERE id = $1 AND advisor_id = $2
		 )`,
		clientID, advisorID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
