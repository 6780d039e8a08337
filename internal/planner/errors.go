package planner

import (
	"errors"

	"example.com/advisor-planner/internal/calculator"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrIncompleteProfile = errors.New("client profile is incomplete")
	ErrInvalidInput      = calculator.ErrInvalidInput
)
