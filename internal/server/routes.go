package server

import (
	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/handlers"
)

type routeDeps struct {
	health          *handlers.HealthHandler
	auth            *handlers.AuthHandler
	risk            *handlers.RiskHandler
	clients         *handlers.ClientHandler
	plans           *handlers.PlanHandler
	notifications   *handlers.NotificationHandler
	authMiddleware  echo.MiddlewareFunc
	authRateLimiter echo.MiddlewareFunc
	planRateLimiter echo.MiddlewareFunc
}

func registerRoutes(e *echo.Echo, d routeDeps) {
	e.GET("/health", d.health.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", d.authRateLimiter)

	authGroup.POST("/login", d.auth.Login)
	authGroup.GET("/me", d.auth.Me, d.authMiddleware)

	calculators := api.Group("/calculators", d.authMiddleware)
	calculators.POST("/sip", handlers.CalculateSip)
	calculators.POST("/lumpsum", handlers.CalculateLumpsum)
	calculators.POST("/emi", handlers.CalculateEmi)

	api.POST("/projections", handlers.ProjectNetWorth, d.authMiddleware)

	riskGroup := api.Group("/risk", d.authMiddleware)
	riskGroup.GET("/questionnaire", d.risk.Questionnaire)
	riskGroup.POST("/classify", d.risk.Classify)

	clients := api.Group("/clients", d.authMiddleware)
	clients.GET("/:id/completion", d.clients.Completion)
	clients.POST("/:id/financial/defaults", d.clients.SeedFinancialDefaults)
	clients.GET("/:id/plans", d.plans.ListByClient)

	plans := api.Group("/plans", d.authMiddleware)
	plans.POST("/generate", d.plans.Generate, d.planRateLimiter)
	plans.GET("/:id", d.plans.Get)
	plans.GET("/:id/export/json", d.plans.ExportJSON)
	plans.GET("/:id/export/csv", d.plans.ExportCSV)
	plans.GET("/:id/export/xlsx", d.plans.ExportXLSX)
	plans.DELETE("/:id", d.plans.Delete)

	notifications := api.Group("/notifications", d.authMiddleware)
	notifications.GET("/stream", d.notifications.Stream)
}
