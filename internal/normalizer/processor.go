// Package normalizer repairs ragged export rows so every row matches the header width.
package normalizer

import (
	"fmt"

	"catalogcsv/internal/logger"
	"catalogcsv/internal/models"
)

// Result is a normalized table.
type Result struct {
	// Rows holds the header followed by the data rows, all of width Width.
	Rows   []models.Record
	Events []Event
	Width  int
}

// Padded returns the number of padded rows.
func (r *Result) Padded() int {
	return r.count(EventPadded)
}

// Truncated returns the number of truncated rows.
func (r *Result) Truncated() int {
	return r.count(EventTruncated)
}

// Changed reports whether any row was repaired.
func (r *Result) Changed() bool {
	return len(r.Events) > 0
}

func (r *Result) count(kind EventKind) int {
	n := 0

	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

// Processor normalizes a whole table in memory.
type Processor struct {
	validator *Validator
	log       *logger.Logger
}

// NewProcessor creates a new processor instance. A nil logger discards events.
func NewProcessor(log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		validator: NewValidator(),
		log:       log,
	}
}

// Process fits every data row to the header width. The first row is the
// header and is the only source of the expected width.
func (p *Processor) Process(rows []models.Record) (*Result, error) {
	// 1. Validate the input data
	if err := p.validator.Validate(rows); err != nil {
		return nil, err
	}

	// 2. Fix the width from the header
	header := models.NewHeader(rows[0])
	p.log.Info(fmt.Sprintf("Header has %d columns", header.Width()))

	transformer := NewTransformer(header.Width())

	// 3. Fit each data row
	result := &Result{
		Rows:  make([]models.Record, 0, len(rows)),
		Width: header.Width(),
	}
	result.Rows = append(result.Rows, header.Record())

	for i, row := range rows[1:] {
		fixed, event := transformer.Fit(i+1, row)
		if event != nil {
			result.Events = append(result.Events, *event)
			p.log.Info(event.String(), "row", event.Row, "kind", string(event.Kind), "from", event.From, "to", event.To)
		}

		result.Rows = append(result.Rows, fixed)
	}

	return result, nil
}

// Normalize runs a Processor without logging.
func Normalize(rows []models.Record) (*Result, error) {
	return NewProcessor(nil).Process(rows)
}
