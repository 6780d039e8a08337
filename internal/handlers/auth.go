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
	"example.com/advisor-planner/internal/repository"
)

type AuthHandler struct {
	Advisors     *repository.AdvisorRepository
	TokenManager *auth.TokenManager
}

// NewAuthHandler создает обработчик входа консультантов.
func NewAuthHandler(advisors *repository.AdvisorRepository, manager *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		Advisors:     advisors,
		TokenManager: manager,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthAdvisor struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  *string   `json:"name,omitempty"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	Advisor     AuthAdvisor `json:"advisor"`
}

type AdvisorResponse struct {
	Advisor AuthAdvisor `json:"advisor"`
}

// Login проверяет пароль консультанта и выдает access-токен.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	advisor, err := h.Advisors.GetByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	if err = auth.ComparePassword(advisor.PasswordHash, password); err != nil {
		return unauthorized(c)
	}

	token, err := h.TokenManager.NewAccessToken(advisor.ID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		Advisor:     toAuthAdvisor(advisor),
	})
}

// Me возвращает данные текущего консультанта.
func (h *AuthHandler) Me(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	advisor, err := h.Advisors.GetByID(c.Request().Context(), advisorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "advisor not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AdvisorResponse{Advisor: toAuthAdvisor(advisor)})
}

func toAuthAdvisor(advisor models.Advisor) AuthAdvisor {
	return AuthAdvisor{
		ID:    advisor.ID,
		Email: advisor.Email,
		Name:  advisor.Name,
	}
}
