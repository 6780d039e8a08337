package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/auth"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/repository"
	"example.com/advisor-planner/internal/risk"
)

type RiskHandler struct {
	Clients  *repository.ClientRepository
	Profiles *repository.RiskProfileRepository
}

// NewRiskHandler создает обработчик анкеты риск-профиля.
func NewRiskHandler(clients *repository.ClientRepository, profiles *repository.RiskProfileRepository) *RiskHandler {
	return &RiskHandler{Clients: clients, Profiles: profiles}
}

type ClassifyRequest struct {
	ClientID string            `json:"client_id" validate:"omitempty,uuid"`
	Answers  map[string]string `json:"answers" validate:"required,min=1"`
}

type ClassifyResponse struct {
	Classification risk.Classification `json:"classification"`
	TierLabel      string              `json:"tier_label"`
	ExpectedReturn float64             `json:"expected_return"`
	Profile        *models.RiskProfile `json:"profile,omitempty"`
}

// Questionnaire возвращает вопросы анкеты риск-профиля.
func (h *RiskHandler) Questionnaire(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]risk.Question{"questions": risk.Questionnaire()})
}

// Classify считает балл анкеты и при наличии client_id сохраняет риск-профиль клиента.
func (h *RiskHandler) Classify(c echo.Context) error {
	var req ClassifyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	classification := risk.Classify(req.Answers)
	response := ClassifyResponse{
		Classification: classification,
		TierLabel:      risk.Label(classification.Tier),
		ExpectedReturn: risk.ExpectedReturn(classification.Tier),
	}

	if req.ClientID == "" {
		return c.JSON(http.StatusOK, response)
	}

	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return badRequest(c, "invalid client id")
	}

	exists, err := h.Clients.ExistsForAdvisor(c.Request().Context(), advisorID, clientID)
	if err != nil {
		return serverError(c)
	}
	if !exists {
		return notFound(c, "client not found")
	}

	profile, err := h.Profiles.Upsert(c.Request().Context(), clientID, classification)
	if err != nil {
		return serverError(c)
	}
	response.Profile = &profile

	return c.JSON(http.StatusOK, response)
}
