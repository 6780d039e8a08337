package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/advisor-planner/internal/auth"
	"example.com/advisor-planner/internal/config"
	"example.com/advisor-planner/internal/handlers"
	"example.com/advisor-planner/internal/notifications"
	"example.com/advisor-planner/internal/planner"
	"example.com/advisor-planner/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	advisorRepo := repository.NewAdvisorRepository(db)
	clientRepo := repository.NewClientRepository(db)
	financialRepo := repository.NewFinancialRepository(db)
	riskRepo := repository.NewRiskProfileRepository(db)
	planRepo := repository.NewPlanRepository(db)
	notificationHub := notifications.NewHub()

	assembler, err := planner.NewAssembler(clientRepo, financialRepo, riskRepo, planningOptions(cfg.Planning), logger)
	if err != nil {
		return nil, err
	}

	registerRoutes(e, routeDeps{
		health:          handlers.NewHealthHandler(db),
		auth:            handlers.NewAuthHandler(advisorRepo, tokenManager),
		risk:            handlers.NewRiskHandler(clientRepo, riskRepo),
		clients:         handlers.NewClientHandler(clientRepo, financialRepo, assembler),
		plans:           handlers.NewPlanHandler(assembler, clientRepo, planRepo, notificationHub),
		notifications:   handlers.NewNotificationHandler(notificationHub),
		authMiddleware:  auth.JWTMiddleware(tokenManager),
		authRateLimiter: rateLimiter(cfg.Auth.RateLimitPerMinute, cfg.Auth.RateLimitBurst),
		planRateLimiter: rateLimiter(cfg.Planning.RateLimitPerMinute, cfg.Planning.RateLimitBurst),
	})

	return e, nil
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func planningOptions(cfg config.PlanningConfig) planner.Options {
	return planner.Options{
		CurrentAge:        cfg.CurrentAge,
		RetirementAge:     cfg.RetirementAge,
		CorpusMultiple:    cfg.CorpusMultiple,
		LifeCoverMultiple: cfg.LifeCoverMultiple,
		HealthCover:       cfg.HealthCover,
		Currency:          cfg.Currency,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func rateLimiter(perMinute, burst int) echo.MiddlewareFunc {
	limit := rate.Limit(float64(perMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     burst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
