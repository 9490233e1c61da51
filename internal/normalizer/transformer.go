package normalizer

import (
	"fmt"

	"catalogcsv/internal/models"
)

// EventKind names a per-row repair.
type EventKind string

// Row repairs.
const (
	EventPadded    EventKind = "padded"
	EventTruncated EventKind = "truncated"
)

// Event records one row whose width was changed to match the header.
type Event struct {
	Kind EventKind
	// Row is the 1-based data row index; the header is row 0.
	Row  int
	From int
	To   int
}

func (e Event) String() string {
	verb := "Padded"
	if e.Kind == EventTruncated {
		verb = "Truncated"
	}

	return fmt.Sprintf("Row %d: %s from %d to %d columns", e.Row, verb, e.From, e.To)
}

// Transformer fits rows to a fixed width.
type Transformer struct {
	width int
}

// NewTransformer creates a transformer for rows of the given width.
func NewTransformer(width int) *Transformer {
	return &Transformer{width: width}
}

// Fit returns row resized to the transformer width. Short rows are padded on
// the right with empty cells, long rows lose their rightmost cells. The event
// is nil when row already has the right width. The input row is never
// modified.
func (t *Transformer) Fit(index int, row models.Record) (models.Record, *Event) {
	n := row.Width()

	switch {
	case n == t.width:
		return row.Clone(), nil
	case n < t.width:
		out := make(models.Record, t.width)
		copy(out, row)

		return out, &Event{Kind: EventPadded, Row: index, From: n, To: t.width}
	default:
		out := make(models.Record, t.width)
		copy(out, row[:t.width])

		return out, &Event{Kind: EventTruncated, Row: index, From: n, To: t.width}
	}
}
