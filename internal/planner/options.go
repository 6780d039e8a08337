package planner

import "fmt"

type Options struct {
	CurrentAge        int
	RetirementAge     int
	CorpusMultiple    float64
	LifeCoverMultiple float64
	HealthCover       float64
	Currency          string
}

// DefaultOptions возвращает допущения, с которыми строятся планы по умолчанию.
func DefaultOptions() Options {
	return Options{
		CurrentAge:        35,
		RetirementAge:     60,
		CorpusMultiple:    25,
		LifeCoverMultiple: 15,
		HealthCover:       1000000,
		Currency:          "₹",
	}
}

func (o Options) YearsToRetirement() int {
	return o.RetirementAge - o.CurrentAge
}

func (o Options) validate() error {
	if o.CurrentAge <= 0 {
		return fmt.Errorf("current age must be greater than 0")
	}
	if o.RetirementAge <= o.CurrentAge {
		return fmt.Errorf("retirement age must be greater than current age")
	}
	if o.CorpusMultiple <= 0 || o.LifeCoverMultiple <= 0 {
		return fmt.Errorf("corpus and life cover multiples must be greater than 0")
	}
	if o.HealthCover < 0 {
		return fmt.Errorf("health cover must not be negative")
	}
	return nil
}
