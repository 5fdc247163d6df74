package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the store. Callers match them with errors.Is;
// the typed errors below unwrap to one of these.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrExists              = errors.New("already exists")
	ErrInUse               = errors.New("still referenced")
	ErrInsufficientStock   = errors.New("insufficient quantity available")
	ErrItemLogNotFound     = errors.New("item log not found")
	ErrAlreadyReturned     = fmt.Errorf("%w: already returned", ErrItemLogNotFound)
	ErrWeightageCapacity   = errors.New("weightage capacity exceeded")
	ErrInvalidDistribution = errors.New("invalid weightage distribution")
	ErrAlreadyEvaluated    = errors.New("contestant already evaluated")
	ErrScoreMismatch       = errors.New("total score mismatch")
	ErrNotEvaluated        = errors.New("contestant not evaluated")
)

// StockError reports an issue or total edit that would take availability
// below zero. For an issue Available is what is on hand; for a total edit it
// is the proposed total and Requested is the number of units still issued.
type StockError struct {
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient quantity: have %d, need %d", e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// CapacityError reports a quality weightage that would push the sum past 100.
type CapacityError struct {
	Current   float64
	Requested float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("weightage capacity exceeded: current total %g, adding %g would exceed 100", e.Current, e.Requested)
}

func (e *CapacityError) Unwrap() error { return ErrWeightageCapacity }

// DistributionError reports that qualities do not sum to exactly 100.
type DistributionError struct {
	Sum float64
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("total quality weightage must be exactly 100, found %g", e.Sum)
}

func (e *DistributionError) Unwrap() error { return ErrInvalidDistribution }

// ScoreMismatchError reports a submitted total that disagrees with the
// weighted sum of the submitted scores.
type ScoreMismatchError struct {
	Submitted float64
	Computed  float64
}

func (e *ScoreMismatchError) Error() string {
	return fmt.Sprintf("total score %g does not match computed score %g", e.Submitted, e.Computed)
}

func (e *ScoreMismatchError) Unwrap() error { return ErrScoreMismatch }

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
