package materializer

import (
	"errors"
	"fmt"

	"catalogcsv/internal/models"
	"catalogcsv/internal/schema"
)

// ErrSchemaMismatch is returned when a record names a field outside the schema.
// A typo in a field name must stop the run instead of silently losing data.
var ErrSchemaMismatch = errors.New("schema mismatch: unknown field")

// Validator checks partial records against a schema.
type Validator struct {
	schema schema.Schema
}

// NewValidator creates a validator for s.
func NewValidator(s schema.Schema) *Validator {
	return &Validator{schema: s}
}

// Validate returns the first unknown field over all records.
func (v *Validator) Validate(records []models.PartialRecord) error {
	for i, rec := range records {
		for _, key := range rec.Keys() {
			if !v.schema.Contains(key) {
				return fmt.Errorf("%w %q in record %d (%s)", ErrSchemaMismatch, key, i, rec.Label())
			}
		}
	}

	return nil
}
