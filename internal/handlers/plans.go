package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/auth"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/notifications"
	"example.com/advisor-planner/internal/planner"
	"example.com/advisor-planner/internal/repository"
)

type PlanHandler struct {
	Assembler *planner.Assembler
	Clients   *repository.ClientRepository
	Plans     *repository.PlanRepository
	Notifier  *notifications.Hub
}

// NewPlanHandler создает обработчик генерации финансовых планов.
func NewPlanHandler(assembler *planner.Assembler, clients *repository.ClientRepository, plans *repository.PlanRepository, notifier *notifications.Hub) *PlanHandler {
	return &PlanHandler{
		Assembler: assembler,
		Clients:   clients,
		Plans:     plans,
		Notifier:  notifier,
	}
}

type GeneratePlanRequest struct {
	ClientID              string `json:"client_id" validate:"required,uuid"`
	PlanName              string `json:"plan_name" validate:"max=200"`
	PlanType              string `json:"plan_type" validate:"omitempty,oneof=comprehensive retirement education tax insurance"`
	ReportTemplate        string `json:"report_template" validate:"omitempty,oneof=standard detailed executive"`
	TimeHorizonYears      int    `json:"time_horizon_years" validate:"gte=1,lte=50"`
	RiskToleranceHint     string `json:"risk_tolerance_hint" validate:"omitempty,oneof=conservative moderate aggressive very_aggressive"`
	AcknowledgeIncomplete bool   `json:"acknowledge_incomplete"`
}

type IncompleteProfileResponse struct {
	Error      string                      `json:"error"`
	Completion models.CompletionAssessment `json:"completion"`
}

type PlanListResponse struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"client_id"`
	PlanName          string          `json:"plan_name"`
	PlanType          models.PlanType `json:"plan_type"`
	TimeHorizonYears  int             `json:"time_horizon_years"`
	CurrentNetWorth   float64         `json:"current_net_worth"`
	ProjectedNetWorth float64         `json:"projected_net_worth"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// Generate собирает и сохраняет финансовый план клиента.
// Неполный профиль отклоняется с 422, пока консультант не подтвердит генерацию.
func (h *PlanHandler) Generate(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GeneratePlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	input, err := toPlanInput(req)
	if err != nil {
		return badRequest(c, "invalid client id")
	}

	ctx := c.Request().Context()

	exists, err := h.Clients.ExistsForAdvisor(ctx, advisorID, input.ClientID)
	if err != nil {
		return serverError(c)
	}
	if !exists {
		return notFound(c, "client not found")
	}

	plan, assessment, err := h.Assembler.GenerateGated(ctx, input, req.AcknowledgeIncomplete)
	if err != nil {
		if errors.Is(err, planner.ErrIncompleteProfile) {
			return c.JSON(http.StatusUnprocessableEntity, IncompleteProfileResponse{
				Error:      "client profile is incomplete",
				Completion: assessment,
			})
		}
		return planError(c, err)
	}

	if err := h.Plans.Create(ctx, advisorID, plan); err != nil {
		return serverError(c)
	}

	publishPlanGenerated(h.Notifier, advisorID, plan)

	return c.JSON(http.StatusCreated, plan)
}

// Get возвращает сохраненный план.
func (h *PlanHandler) Get(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	planID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid plan id")
	}

	plan, err := h.Plans.GetByID(c.Request().Context(), advisorID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, plan)
}

// ListByClient возвращает историю планов клиента.
func (h *PlanHandler) ListByClient(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	plans, err := h.Plans.ListByClient(c.Request().Context(), advisorID, clientID)
	if err != nil {
		return serverError(c)
	}

	response := make([]PlanListResponse, 0, len(plans))
	for _, plan := range plans {
		response = append(response, toPlanListResponse(plan))
	}

	return c.JSON(http.StatusOK, map[string][]PlanListResponse{"plans": response})
}

// Delete удаляет сохраненный план.
func (h *PlanHandler) Delete(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	planID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid plan id")
	}

	if err := h.Plans.Delete(c.Request().Context(), advisorID, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		return serverError(c)
	}

	publishPlanDeleted(h.Notifier, advisorID, planID)

	return c.NoContent(http.StatusNoContent)
}

func toPlanInput(req GeneratePlanRequest) (models.PlanInput, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return models.PlanInput{}, err
	}

	return models.PlanInput{
		ClientID:          clientID,
		PlanName:          strings.TrimSpace(req.PlanName),
		PlanType:          models.PlanType(req.PlanType),
		ReportTemplate:    models.ReportTemplate(req.ReportTemplate),
		TimeHorizonYears:  req.TimeHorizonYears,
		RiskToleranceHint: models.RiskTier(req.RiskToleranceHint),
	}, nil
}

func toPlanListResponse(item repository.PlanListItem) PlanListResponse {
	return PlanListResponse{
		ID:                item.ID,
		ClientID:          item.ClientID,
		PlanName:          item.PlanName,
		PlanType:          item.PlanType,
		TimeHorizonYears:  item.TimeHorizonYears,
		CurrentNetWorth:   item.Summary.CurrentNetWorth,
		ProjectedNetWorth: item.Summary.ProjectedNetWorth,
		GeneratedAt:       item.GeneratedAt,
	}
}

func planError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, planner.ErrClientNotFound):
		return notFound(c, "client not found")
	case errors.Is(err, planner.ErrInvalidInput):
		return badRequest(c, err.Error())
	}
	return serverError(c)
}
