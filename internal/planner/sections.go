package planner

import (
	"fmt"

	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/projection"
	"example.com/advisor-planner/internal/risk"
)

const (
	SectionExecutiveSummary   = "Executive Summary"
	SectionCurrentPosition    = "Current Financial Position"
	SectionInvestmentStrategy = "Investment Strategy"
	SectionRetirement         = "Retirement Planning"
	SectionTax                = "Tax Planning"
	SectionInsurance          = "Insurance Planning"

	emergencyFundMonths = 6
)

type strategy struct {
	text            string
	recommendations []string
}

var strategies = map[models.RiskTier]strategy{
	models.RiskTierConservative: {
		text: "A conservative allocation puts capital preservation first: about 30% in equity, 60% in debt and 10% in gold. Returns are steadier and drawdowns stay shallow.",
		recommendations: []string{
			"Allocate 30% to large-cap and index equity funds",
			"Keep 60% in debt funds, PPF and bank deposits",
			"Hold 10% in gold ETFs or sovereign gold bonds",
			"Use short-duration debt funds for goals within three years",
		},
	},
	models.RiskTierModerate: {
		text: "A moderate allocation balances growth and stability: about 60% in equity, 30% in debt and 10% in gold, rebalanced once a year.",
		recommendations: []string{
			"Allocate 60% to a mix of large-cap, flexi-cap and mid-cap funds",
			"Keep 30% in debt funds and PPF",
			"Hold 10% in gold ETFs or sovereign gold bonds",
			"Rebalance when any asset class drifts more than 5% from target",
		},
	},
	models.RiskTierAggressive: {
		text: "An aggressive allocation aims for long-term growth: about 80% in equity, 15% in debt and 5% in gold. Expect larger swings in portfolio value along the way.",
		recommendations: []string{
			"Allocate 80% to equity across large, mid and small-cap funds",
			"Add international equity funds for diversification",
			"Keep 15% in debt funds as a rebalancing reserve",
			"Hold 5% in gold and stay invested through market corrections",
		},
	},
}

type sectionBuilder struct {
	opts      Options
	money     moneyFormatter
	client    models.ClientRecord
	input     models.PlanInput
	financial models.FinancialSnapshot
	profile   models.RiskProfile
	position  projection.Position
}

// build собирает разделы в фиксированном порядке в зависимости от типа плана.
func (b sectionBuilder) build() []models.PlanSection {
	sections := []models.PlanSection{
		b.executiveSummary(),
		b.currentPosition(),
	}

	planType := b.input.PlanType
	if planType == models.PlanTypeComprehensive || planType == models.PlanTypeRetirement {
		sections = append(sections, b.investmentStrategy(), b.retirement())
	}
	if planType == models.PlanTypeComprehensive || planType == models.PlanTypeTax {
		sections = append(sections, b.tax())
	}
	if planType == models.PlanTypeComprehensive || planType == models.PlanTypeInsurance {
		sections = append(sections, b.insurance())
	}

	return sections
}

func (b sectionBuilder) executiveSummary() models.PlanSection {
	label := risk.Label(b.profile.Tier)
	rate := risk.ExpectedReturn(b.profile.Tier) * 100

	return models.PlanSection{
		Title: SectionExecutiveSummary,
		Content: fmt.Sprintf(
			"This plan has been prepared for %s over a %d-year horizon. It follows a %s risk profile and assumes an average annual return of %.0f%% on invested savings.",
			b.client.DisplayName(), b.input.TimeHorizonYears, label, rate,
		),
		Recommendations: []string{
			fmt.Sprintf("Keep an emergency fund covering at least %d months of expenses", emergencyFundMonths),
			fmt.Sprintf("Follow a %s asset allocation and rebalance once a year", label),
			"Review this plan with your advisor every six months",
			"Increase monthly investments by 10% each year as income grows",
		},
	}
}

func (b sectionBuilder) currentPosition() models.PlanSection {
	surplus := b.position.MonthlySurplus

	first := fmt.Sprintf("Invest the monthly surplus of %s through systematic investment plans", b.money.format(surplus))
	switch {
	case surplus < 0:
		first = fmt.Sprintf("Cut monthly expenses by at least %s to close the current shortfall", b.money.format(-surplus))
	case surplus == 0:
		first = "Create a monthly surplus by trimming discretionary expenses"
	}

	emergencyTarget := b.financial.MonthlyExpenses * emergencyFundMonths

	return models.PlanSection{
		Title: SectionCurrentPosition,
		Content: fmt.Sprintf(
			"Monthly income is %s with %s of additional income, against monthly expenses of %s, leaving a monthly surplus of %s. Total assets of %s less liabilities of %s give a net worth of %s. The emergency fund stands at %s.",
			b.money.format(b.financial.MonthlyIncome),
			b.money.format(b.financial.AdditionalIncome),
			b.money.format(b.financial.MonthlyExpenses),
			b.money.format(surplus),
			b.money.format(b.financial.TotalAssets),
			b.money.format(b.financial.TotalLiabilities),
			b.money.format(b.position.NetWorth),
			b.money.format(b.financial.EmergencyFund),
		),
		Recommendations: []string{
			first,
			fmt.Sprintf("Build the emergency fund to %s", b.money.format(emergencyTarget)),
			"Pay down high-interest debt before adding new investments",
			"Track expenses monthly to keep savings on target",
		},
	}
}

func (b sectionBuilder) investmentStrategy() models.PlanSection {
	s := strategies[risk.ReturnBucket(b.profile.Tier)]

	return models.PlanSection{
		Title:           SectionInvestmentStrategy,
		Content:         s.text,
		Recommendations: append([]string(nil), s.recommendations...),
	}
}

func (b sectionBuilder) retirement() models.PlanSection {
	years := b.opts.YearsToRetirement()
	corpus := b.opts.CorpusMultiple * b.position.AnnualExpenses
	monthly := corpus / float64(years*12)

	return models.PlanSection{
		Title: SectionRetirement,
		Content: fmt.Sprintf(
			"Assuming retirement at %d from a current age of %d, the required retirement corpus is %s, which is %.0f times current annual expenses of %s. Reaching it takes a monthly investment of about %s over the next %d years.",
			b.opts.RetirementAge, b.opts.CurrentAge, b.money.format(corpus), b.opts.CorpusMultiple,
			b.money.format(b.position.AnnualExpenses), b.money.format(monthly), years,
		),
		Recommendations: []string{
			fmt.Sprintf("Start a dedicated retirement investment of %s per month", b.money.format(monthly)),
			"Maximise EPF and voluntary provident fund contributions",
			"Open an NPS account for additional retirement savings",
			"Move gradually from equity to debt in the last five years before retirement",
		},
	}
}

func (b sectionBuilder) tax() models.PlanSection {
	return models.PlanSection{
		Title:   SectionTax,
		Content: "Tax-efficient investing raises post-tax returns without adding risk. The deductions below reduce taxable income under the old tax regime; compare both regimes before choosing one for the year.",
		Recommendations: []string{
			fmt.Sprintf("Use the full %s Section 80C limit through ELSS, PPF and EPF", b.money.format(150000)),
			fmt.Sprintf("Claim up to %s under Section 80D for health insurance premiums", b.money.format(25000)),
			fmt.Sprintf("Invest %s in NPS for the extra deduction under Section 80CCD(1B)", b.money.format(50000)),
			"Harvest long-term capital gains each year within the exempt limit",
		},
	}
}

func (b sectionBuilder) insurance() models.PlanSection {
	lifeCover := b.opts.LifeCoverMultiple * b.position.AnnualIncome

	return models.PlanSection{
		Title: SectionInsurance,
		Content: fmt.Sprintf(
			"Adequate insurance protects the plan from unexpected events. The recommended life cover is %s, which is %.0f times annual income, and the recommended health cover is %s for the family.",
			b.money.format(lifeCover), b.opts.LifeCoverMultiple, b.money.format(b.opts.HealthCover),
		),
		Recommendations: []string{
			fmt.Sprintf("Buy a pure term life policy with cover of %s", b.money.format(lifeCover)),
			fmt.Sprintf("Get family floater health insurance of at least %s", b.money.format(b.opts.HealthCover)),
			"Add critical illness and personal accident riders",
			"Review cover after marriage, childbirth or a home loan",
		},
	}
}
