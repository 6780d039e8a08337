package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const ContextAdvisorIDKey = "advisor_id"

// JWTMiddleware проверяет access-токен и сохраняет advisor_id в контексте.
func JWTMiddleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, tokenString, found := strings.Cut(c.Request().Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid authorization header")
			}

			advisorID, err := manager.ParseAccessToken(strings.TrimSpace(tokenString))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextAdvisorIDKey, advisorID)
			return next(c)
		}
	}
}

// AdvisorIDFromContext извлекает идентификатор консультанта из контекста.
func AdvisorIDFromContext(c echo.Context) (uuid.UUID, bool) {
	advisorID, ok := c.Get(ContextAdvisorIDKey).(uuid.UUID)
	return advisorID, ok
}
