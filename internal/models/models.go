package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PlanType string

type ReportTemplate string

type RiskTier string

const (
	PlanTypeComprehensive PlanType = "comprehensive"
	PlanTypeRetirement    PlanType = "retirement"
	PlanTypeEducation     PlanType = "education"
	PlanTypeTax           PlanType = "tax"
	PlanTypeInsurance     PlanType = "insurance"

	ReportTemplateStandard  ReportTemplate = "standard"
	ReportTemplateDetailed  ReportTemplate = "detailed"
	ReportTemplateExecutive ReportTemplate = "executive"

	RiskTierConservative   RiskTier = "conservative"
	RiskTierModerate       RiskTier = "moderate"
	RiskTierAggressive     RiskTier = "aggressive"
	RiskTierVeryAggressive RiskTier = "very_aggressive"
)

type Advisor struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ClientRecord struct {
	ID        uuid.UUID `json:"id"`
	AdvisorID uuid.UUID `json:"advisor_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName возвращает имя клиента для текста плана.
func (c ClientRecord) DisplayName() string {
	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)

	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	default:
		return strings.TrimSpace(c.Email)
	}
}

type FinancialSnapshot struct {
	ClientID         uuid.UUID `json:"client_id"`
	MonthlyIncome    float64   `json:"monthly_income"`
	AdditionalIncome float64   `json:"additional_income"`
	MonthlyExpenses  float64   `json:"monthly_expenses"`
	TotalAssets      float64   `json:"total_assets"`
	TotalLiabilities float64   `json:"total_liabilities"`
	EmergencyFund    float64   `json:"emergency_fund"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RiskProfile struct {
	ClientID          uuid.UUID `json:"client_id"`
	ToleranceScore    int       `json:"tolerance_score"`
	Tier              RiskTier  `json:"tier"`
	InvestmentHorizon string    `json:"investment_horizon"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type PlanInput struct {
	ClientID          uuid.UUID      `json:"client_id"`
	PlanName          string         `json:"plan_name"`
	PlanType          PlanType       `json:"plan_type"`
	ReportTemplate    ReportTemplate `json:"report_template"`
	TimeHorizonYears  int            `json:"time_horizon_years"`
	RiskToleranceHint RiskTier       `json:"risk_tolerance_hint,omitempty"`
}

type PlanSection struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Recommendations []string `json:"recommendations"`
}

type PlanSummary struct {
	CurrentNetWorth   float64 `json:"current_net_worth"`
	ProjectedNetWorth float64 `json:"projected_net_worth"`
	MonthlySurplus    float64 `json:"monthly_surplus"`
	RiskScore         int     `json:"risk_score"`
}

type CompletionAssessment struct {
	Score            int      `json:"score"`
	MayProceed       bool     `json:"may_proceed"`
	MissingCritical  []string `json:"missing_critical"`
	MissingImportant []string `json:"missing_important"`
	Warnings         []string `json:"warnings,omitempty"`
}

type GeneratedPlan struct {
	ID               uuid.UUID            `json:"id"`
	ClientID         uuid.UUID            `json:"client_id"`
	ClientName       string               `json:"client_name"`
	PlanName         string               `json:"plan_name"`
	PlanType         PlanType             `json:"plan_type"`
	ReportTemplate   ReportTemplate       `json:"report_template"`
	TimeHorizonYears int                  `json:"time_horizon_years"`
	RiskTier         RiskTier             `json:"risk_tier"`
	RiskHint         RiskTier             `json:"risk_tolerance_hint,omitempty"`
	FinancialSource  string               `json:"financial_source"`
	RiskSource       string               `json:"risk_source"`
	Sections         []PlanSection        `json:"sections"`
	Summary          PlanSummary          `json:"summary"`
	Completion       CompletionAssessment `json:"completion"`
	GeneratedAt      time.Time            `json:"generated_at"`
}
