// Package materializer builds complete export rows from partial product
// records, backfilling unset fields with constant or computed defaults.
package materializer

import (
	"fmt"

	"catalogcsv/internal/logger"
	"catalogcsv/internal/models"
	"catalogcsv/internal/schema"
)

// Fill records one default applied to one record.
type Fill struct {
	Field string
	Rule  string
	Value string
	// Record is the 0-based index of the input record.
	Record int
}

// Result is a materialized table.
type Result struct {
	// Rows holds the header followed by one row per input record.
	Rows  []models.Record
	Fills []Fill
}

// FillCounts returns how many records each field was backfilled in.
func (r *Result) FillCounts() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Fills {
		counts[f.Field]++
	}

	return counts
}

// Records returns the number of data rows.
func (r *Result) Records() int {
	if len(r.Rows) == 0 {
		return 0
	}

	return len(r.Rows) - 1
}

// Materializer applies a schema and an ordered rule list to partial records.
type Materializer struct {
	schema    schema.Schema
	validator *Validator
	rules     []Rule
	log       *logger.Logger
}

// New creates a materializer. A nil logger discards fill events.
func New(s schema.Schema, rules []Rule, log *logger.Logger) *Materializer {
	if log == nil {
		log = logger.Discard()
	}

	return &Materializer{
		schema:    s,
		validator: NewValidator(s),
		rules:     rules,
		log:       log,
	}
}

// Run materializes records. Any error aborts the whole batch and no rows are
// returned.
func (m *Materializer) Run(records []models.PartialRecord) (*Result, error) {
	// 1. Reject unknown fields before building anything
	if err := m.validator.Validate(records); err != nil {
		return nil, err
	}

	result := &Result{
		Rows: make([]models.Record, 0, len(records)+1),
	}
	result.Rows = append(result.Rows, m.schema.Header())

	// 2. Overlay and backfill each record in input order
	for i, rec := range records {
		row, fills, err := m.build(i, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Label(), err)
		}

		result.Rows = append(result.Rows, row)
		result.Fills = append(result.Fills, fills...)
	}

	return result, nil
}

func (m *Materializer) build(index int, rec models.PartialRecord) (models.Record, []Fill, error) {
	d := newDraft(m.schema)

	for _, key := range rec.Keys() {
		d.set(key, rec.Get(key).Text)
	}

	var fills []Fill

	for _, rule := range m.rules {
		if !m.schema.Contains(rule.Field) || !d.Get(rule.Field).IsUnset() {
			continue
		}

		value, err := rule.Compute(d)
		if err != nil {
			return nil, nil, fmt.Errorf("default for %s: %w", rule.Field, err)
		}

		d.set(rule.Field, value)
		fills = append(fills, Fill{Field: rule.Field, Rule: rule.Name, Value: value, Record: index})
		m.log.Debug("backfilled field", "record", index, "sku", rec.Label(), "field", rule.Field, "rule", rule.Name, "value", value)
	}

	return d.cells, fills, nil
}

// Materialize builds the export table for records with the default product
// rules. The header derived from s is the first row.
func Materialize(s schema.Schema, records []models.PartialRecord) ([]models.Record, error) {
	result, err := New(s, DefaultRules(), nil).Run(records)
	if err != nil {
		return nil, err
	}

	return result.Rows, nil
}
