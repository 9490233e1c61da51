package normalizer

import (
	"errors"

	"catalogcsv/internal/models"
)

// Validation errors.
var (
	// ErrEmptyInput is returned when there is no header row. Callers treat it as
	// "no data": nothing is written and the run is not a failure.
	ErrEmptyInput = errors.New("no data: input has no rows")
	// ErrEmptyHeader is returned when the header row has no cells.
	ErrEmptyHeader = errors.New("header row has no columns")
)

// Validator checks that a table can be normalized.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that rows has a usable header.
func (v *Validator) Validate(rows []models.Record) error {
	if len(rows) == 0 {
		return ErrEmptyInput
	}

	if len(rows[0]) == 0 {
		return ErrEmptyHeader
	}

	return nil
}
