package score

import "errors"

var (
	// ErrDivisionByZero is returned instead of NaN or Inf when a metric's
	// denominator (e.g. total county population) is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrEmptyPlan is returned by the few metrics that are undefined for a
	// plan without districts. Most metrics return zero values instead.
	ErrEmptyPlan = errors.New("plan has no districts")

	ErrNoElections = errors.New("at least one election required")
)
