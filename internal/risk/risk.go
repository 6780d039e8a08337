package risk

import (
	"fmt"
	"strings"

	"example.com/advisor-planner/internal/models"
)

const (
	DefaultScore = 5
	DefaultTier  = models.RiskTierModerate

	QuestionAge        = "age"
	QuestionHorizon    = "investment_horizon"
	QuestionMarketDrop = "market_drop"
	QuestionGoal       = "primary_goal"
	QuestionExperience = "experience"
)

type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

type Classification struct {
	Score             int             `json:"score"`
	Tier              models.RiskTier `json:"tier"`
	InvestmentHorizon string          `json:"investment_horizon,omitempty"`
}

var questionnaire = []Question{
	{
		ID:   QuestionAge,
		Text: "What is your age group?",
		Options: []Option{
			{Value: "over_55", Label: "Above 55", Points: 1},
			{Value: "45_55", Label: "45 to 55", Points: 2},
			{Value: "30_45", Label: "30 to 45", Points: 3},
			{Value: "under_30", Label: "Below 30", Points: 4},
		},
	},
	{
		ID:   QuestionHorizon,
		Text: "How long do you plan to stay invested?",
		Options: []Option{
			{Value: "short", Label: "Less than 3 years", Points: 1},
			{Value: "medium", Label: "3 to 5 years", Points: 2},
			{Value: "long", Label: "5 to 10 years", Points: 3},
			{Value: "very_long", Label: "More than 10 years", Points: 4},
		},
	},
	{
		ID:   QuestionMarketDrop,
		Text: "Your portfolio falls 20% in a month. What do you do?",
		Options: []Option{
			{Value: "sell_all", Label: "Sell everything", Points: 1},
			{Value: "sell_some", Label: "Sell a part", Points: 2},
			{Value: "hold", Label: "Hold and wait", Points: 3},
			{Value: "buy_more", Label: "Invest more", Points: 4},
		},
	},
	{
		ID:   QuestionGoal,
		Text: "What is your primary investment goal?",
		Options: []Option{
			{Value: "preserve", Label: "Capital preservation", Points: 1},
			{Value: "income", Label: "Regular income", Points: 2},
			{Value: "balanced", Label: "Balanced growth", Points: 3},
			{Value: "growth", Label: "Maximum growth", Points: 4},
		},
	},
	{
		ID:   QuestionExperience,
		Text: "How much investment experience do you have?",
		Options: []Option{
			{Value: "none", Label: "None", Points: 1},
			{Value: "deposits", Label: "Deposits and bonds only", Points: 2},
			{Value: "mutual_funds", Label: "Mutual funds", Points: 3},
			{Value: "equities", Label: "Direct equities and derivatives", Points: 4},
		},
	},
}

// Questionnaire возвращает копию анкеты риск-профиля.
func Questionnaire() []Question {
	out := make([]Question, len(questionnaire))
	for i, q := range questionnaire {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Classify суммирует баллы выбранных вариантов и определяет уровень риска.
// Неизвестные вопросы и варианты дают 0 баллов.
func Classify(answers map[string]string) Classification {
	var result Classification

	for _, q := range questionnaire {
		value, ok := answers[q.ID]
		if !ok {
			continue
		}

		for _, opt := range q.Options {
			if opt.Value != value {
				continue
			}
			result.Score += opt.Points
			if q.ID == QuestionHorizon {
				result.InvestmentHorizon = opt.Value
			}
			break
		}
	}

	result.Tier = TierForScore(result.Score)
	return result
}

// TierForScore переводит суммарный балл в уровень риска.
func TierForScore(score int) models.RiskTier {
	switch {
	case score <= 8:
		return models.RiskTierConservative
	case score <= 12:
		return models.RiskTierModerate
	case score <= 16:
		return models.RiskTierAggressive
	default:
		return models.RiskTierVeryAggressive
	}
}

// ExpectedReturn возвращает допущение о годовой номинальной доходности (доля).
// Very aggressive пока использует ставку aggressive: отдельной ставки нет.
func ExpectedReturn(tier models.RiskTier) float64 {
	switch ReturnBucket(tier) {
	case models.RiskTierConservative:
		return 0.08
	case models.RiskTierAggressive:
		return 0.12
	default:
		return 0.10
	}
}

// ReturnBucket сводит четыре уровня к трем корзинам доходности и стратегии.
func ReturnBucket(tier models.RiskTier) models.RiskTier {
	switch tier {
	case models.RiskTierConservative:
		return models.RiskTierConservative
	case models.RiskTierAggressive, models.RiskTierVeryAggressive:
		return models.RiskTierAggressive
	default:
		return models.RiskTierModerate
	}
}

// ParseTier разбирает сохраненную метку уровня риска.
func ParseTier(label string) (models.RiskTier, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch models.RiskTier(normalized) {
	case models.RiskTierConservative, models.RiskTierModerate, models.RiskTierAggressive, models.RiskTierVeryAggressive:
		return models.RiskTier(normalized), nil
	}

	return "", fmt.Errorf("unknown risk tier %q", label)
}

// Label возвращает человекочитаемое название уровня.
func Label(tier models.RiskTier) string {
	switch tier {
	case models.RiskTierConservative:
		return "Conservative"
	case models.RiskTierAggressive:
		return "Aggressive"
	case models.RiskTierVeryAggressive:
		return "Very Aggressive"
	default:
		return "Moderate"
	}
}
