package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput возвращается при отрицательной сумме, ставке или сроке.
var ErrInvalidInput = errors.New("invalid input")

var errOverflow = fmt.Errorf("%w: result is out of range", ErrInvalidInput)

type SipResult struct {
	TotalInvested float64 `json:"total_invested"`
	MaturityValue float64 `json:"maturity_value"`
	TotalReturns  float64 `json:"total_returns"`
}

type LumpsumResult struct {
	Principal     float64 `json:"principal"`
	MaturityValue float64 `json:"maturity_value"`
	TotalReturns  float64 `json:"total_returns"`
}

type EmiResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPayment   float64 `json:"total_payment"`
}

// CalculateSip считает будущую стоимость ежемесячных взносов (аннуитет пренумерандо).
func CalculateSip(monthlyAmount, annualRatePercent float64, years int) (SipResult, error) {
	if err := checkNonNegative(monthlyAmount, annualRatePercent, years, "monthly amount"); err != nil {
		return SipResult{}, err
	}

	r := MonthlyRate(annualRatePercent)
	n := float64(years * 12)
	invested := monthlyAmount * n

	// При ставке, неотличимой от нуля в float64, рост вырождается в 1.
	maturity := invested
	if growth := math.Pow(1+r, n); growth != 1 {
		maturity = monthlyAmount * ((growth - 1) / r) * (1 + r)
	}

	if !isFinite(maturity) {
		return SipResult{}, errOverflow
	}
	maturity = math.Round(maturity)
	invested = math.Round(invested)

	return SipResult{
		TotalInvested: invested,
		MaturityValue: maturity,
		TotalReturns:  maturity - invested,
	}, nil
}

// CalculateLumpsum считает рост разового вложения с ежегодной капитализацией.
func CalculateLumpsum(principal, annualRatePercent float64, years int) (LumpsumResult, error) {
	if err := checkNonNegative(principal, annualRatePercent, years, "principal"); err != nil {
		return LumpsumResult{}, err
	}

	maturity := math.Round(principal * math.Pow(1+annualRatePercent/100, float64(years)))
	if !isFinite(maturity) {
		return LumpsumResult{}, errOverflow
	}
	base := math.Round(principal)

	return LumpsumResult{
		Principal:     base,
		MaturityValue: maturity,
		TotalReturns:  maturity - base,
	}, nil
}

// CalculateEmi считает аннуитетный платеж по кредиту.
func CalculateEmi(principal, annualRatePercent float64, years int) (EmiResult, error) {
	if err := checkNonNegative(principal, annualRatePercent, years, "principal"); err != nil {
		return EmiResult{}, err
	}
	if years == 0 {
		return EmiResult{}, fmt.Errorf("%w: loan tenure must be at least one year", ErrInvalidInput)
	}

	r := MonthlyRate(annualRatePercent)
	n := float64(years * 12)

	payment := principal / n
	if growth := math.Pow(1+r, n); growth != 1 {
		payment = principal * r * growth / (growth - 1)
	}

	if !isFinite(payment) {
		return EmiResult{}, errOverflow
	}
	payment = math.Round(payment)
	total := payment * n

	return EmiResult{
		MonthlyPayment: payment,
		TotalInterest:  total - math.Round(principal),
		TotalPayment:   total,
	}, nil
}

// MonthlyRate переводит годовую ставку в процентах в месячную долю.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

func checkNonNegative(amount, rate float64, years int, amountName string) error {
	switch {
	case !isFinite(amount) || amount < 0:
		return fmt.Errorf("%w: %s must be a finite non-negative number", ErrInvalidInput, amountName)
	case !isFinite(rate) || rate < 0:
		return fmt.Errorf("%w: annual rate must be a finite non-negative number", ErrInvalidInput)
	case years < 0:
		return fmt.Errorf("%w: years must not be negative", ErrInvalidInput)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
