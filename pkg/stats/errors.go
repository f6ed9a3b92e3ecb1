package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when there are too few observations to
	// estimate a value.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidInput is returned when the shape of the input breaks a
	// precondition, e.g. more than one missing population year.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingPopulation is returned when a year column has no population.
	ErrMissingPopulation = errors.New("missing population")

	// ErrMalformedInput is returned when a cell is not numeric after imputation.
	ErrMalformedInput = errors.New("malformed input")

	// ErrSourceUnavailable is returned when a workbook or sheet cannot be read.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// Stages of a reconciliation run.
const (
	StageLoad       = "load"
	StagePopulation = "population completion"
	StageImputation = "imputation"
	StageAggregate  = "aggregation"
	StageRates      = "rate computation"
)

// StageError tells the caller which stage of a run failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
