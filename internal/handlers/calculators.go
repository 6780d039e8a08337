package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/calculator"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/projection"
	"example.com/advisor-planner/internal/risk"
)

type SipRequest struct {
	MonthlyInvestment float64 `json:"monthly_investment" validate:"gte=0"`
	AnnualReturnRate  float64 `json:"annual_return_rate" validate:"gte=0,lte=100"`
	Years             int     `json:"years" validate:"gte=0,lte=100"`
}

type LumpsumRequest struct {
	Principal        float64 `json:"principal" validate:"gte=0"`
	AnnualReturnRate float64 `json:"annual_return_rate" validate:"gte=0,lte=100"`
	Years            int     `json:"years" validate:"gte=0,lte=100"`
}

type EmiRequest struct {
	Principal          float64 `json:"principal" validate:"gte=0"`
	AnnualInterestRate float64 `json:"annual_interest_rate" validate:"gte=0,lte=100"`
	Years              int     `json:"years" validate:"gte=1,lte=50"`
}

type ProjectionRequest struct {
	MonthlyIncome    float64 `json:"monthly_income" validate:"gte=0"`
	AdditionalIncome float64 `json:"additional_income" validate:"gte=0"`
	MonthlyExpenses  float64 `json:"monthly_expenses" validate:"gte=0"`
	TotalAssets      float64 `json:"total_assets" validate:"gte=0"`
	TotalLiabilities float64 `json:"total_liabilities" validate:"gte=0"`
	RiskTier         string  `json:"risk_tier" validate:"omitempty,oneof=conservative moderate aggressive very_aggressive"`
	RiskScore        *int    `json:"risk_score" validate:"omitempty,gte=0,lte=20"`
	HorizonYears     int     `json:"horizon_years" validate:"gte=0,lte=50"`
}

type ProjectionResponse struct {
	Summary        models.PlanSummary `json:"summary"`
	RiskTier       models.RiskTier    `json:"risk_tier"`
	ExpectedReturn float64            `json:"expected_return"`
	AnnualIncome   float64            `json:"annual_income"`
	AnnualExpenses float64            `json:"annual_expenses"`
}

// CalculateSip считает итог ежемесячных взносов.
func CalculateSip(c echo.Context) error {
	var req SipRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	result, err := calculator.CalculateSip(req.MonthlyInvestment, req.AnnualReturnRate, req.Years)
	if err != nil {
		return calculationError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CalculateLumpsum считает рост разового вложения.
func CalculateLumpsum(c echo.Context) error {
	var req LumpsumRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	result, err := calculator.CalculateLumpsum(req.Principal, req.AnnualReturnRate, req.Years)
	if err != nil {
		return calculationError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CalculateEmi считает аннуитетный платеж по кредиту.
func CalculateEmi(c echo.Context) error {
	var req EmiRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	result, err := calculator.CalculateEmi(req.Principal, req.AnnualInterestRate, req.Years)
	if err != nil {
		return calculationError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// ProjectNetWorth прогнозирует капитал по переданному срезу без обращения к базе.
func ProjectNetWorth(c echo.Context) error {
	var req ProjectionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	// Нулевой балл допустим, по умолчанию подставляется только отсутствующий.
	profile := models.RiskProfile{
		ToleranceScore: risk.DefaultScore,
		Tier:           models.RiskTier(req.RiskTier),
	}
	if req.RiskScore != nil {
		profile.ToleranceScore = *req.RiskScore
	}
	if profile.Tier == "" {
		profile.Tier = risk.DefaultTier
	}

	financial := models.FinancialSnapshot{
		MonthlyIncome:    req.MonthlyIncome,
		AdditionalIncome: req.AdditionalIncome,
		MonthlyExpenses:  req.MonthlyExpenses,
		TotalAssets:      req.TotalAssets,
		TotalLiabilities: req.TotalLiabilities,
	}

	summary, err := projection.Project(financial, profile, req.HorizonYears)
	if err != nil {
		return calculationError(c, err)
	}

	position := projection.CurrentPosition(financial)

	return c.JSON(http.StatusOK, ProjectionResponse{
		Summary:        summary,
		RiskTier:       profile.Tier,
		ExpectedReturn: risk.ExpectedReturn(profile.Tier),
		AnnualIncome:   position.AnnualIncome,
		AnnualExpenses: position.AnnualExpenses,
	})
}

func calculationError(c echo.Context, err error) error {
	if errors.Is(err, calculator.ErrInvalidInput) {
		return badRequest(c, err.Error())
	}
	return serverError(c)
}
