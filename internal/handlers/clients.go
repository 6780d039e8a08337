package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/auth"
	"example.com/advisor-planner/internal/planner"
	"example.com/advisor-planner/internal/repository"
)

type ClientHandler struct {
	Clients    *repository.ClientRepository
	Financials *repository.FinancialRepository
	Assembler  *planner.Assembler
}

// NewClientHandler создает обработчик данных клиента для планирования.
func NewClientHandler(clients *repository.ClientRepository, financials *repository.FinancialRepository, assembler *planner.Assembler) *ClientHandler {
	return &ClientHandler{
		Clients:    clients,
		Financials: financials,
		Assembler:  assembler,
	}
}

// Completion возвращает оценку заполненности профиля клиента.
func (h *ClientHandler) Completion(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	exists, err := h.Clients.ExistsForAdvisor(c.Request().Context(), advisorID, clientID)
	if err != nil {
		return serverError(c)
	}
	if !exists {
		return notFound(c, "client not found")
	}

	assessment, err := h.Assembler.Assess(c.Request().Context(), clientID)
	if err != nil {
		if errors.Is(err, planner.ErrClientNotFound) {
			return notFound(c, "client not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, assessment)
}

// SeedFinancialDefaults сохраняет типовой финансовый срез клиенту без данных.
func (h *ClientHandler) SeedFinancialDefaults(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	exists, err := h.Clients.ExistsForAdvisor(c.Request().Context(), advisorID, clientID)
	if err != nil {
		return serverError(c)
	}
	if !exists {
		return notFound(c, "client not found")
	}

	snapshot, err := h.Financials.Create(c.Request().Context(), planner.DefaultFinancialSnapshot(clientID))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "financial snapshot already exists")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "client not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, snapshot)
}
