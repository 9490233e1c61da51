package normalizer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"catalogcsv/internal/logger"
	"catalogcsv/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(nil)
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	rows := []models.Record{
		{"a", "b", "c"},
		{"1", "2"},
		{"1", "2", "3", "4"},
		{"x", "y", "z"},
	}

	result, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	want := []models.Record{
		{"a", "b", "c"},
		{"1", "2", ""},
		{"1", "2", "3"},
		{"x", "y", "z"},
	}
	if diff := cmp.Diff(want, result.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}

	wantEvents := []Event{
		{Kind: EventPadded, Row: 1, From: 2, To: 3},
		{Kind: EventTruncated, Row: 2, From: 4, To: 3},
	}
	if diff := cmp.Diff(wantEvents, result.Events); diff != "" {
		t.Errorf("Events mismatch (-want +got):\n%s", diff)
	}

	if result.Width != 3 || result.Padded() != 1 || result.Truncated() != 1 || !result.Changed() {
		t.Errorf("unexpected summary: width=%d padded=%d truncated=%d", result.Width, result.Padded(), result.Truncated())
	}
}

func TestProcessor_Process_UniformWidth(t *testing.T) {
	rows := []models.Record{{"h1", "h2", "h3", "h4", "h5"}}
	for n := 0; n < 9; n++ {
		rows = append(rows, make(models.Record, n))
	}

	result, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(result.Rows) != len(rows) {
		t.Fatalf("row count = %d, want %d", len(result.Rows), len(rows))
	}

	for i, r := range result.Rows {
		if len(r) != 5 {
			t.Errorf("row %d width = %d, want 5", i, len(r))
		}
	}
}

func TestProcessor_Process_Idempotent(t *testing.T) {
	rows := []models.Record{
		{"sku", "title", "price"},
		{"A"},
		{"B", "b", "1", "extra", "more"},
		{"C", "c", "2"},
	}

	first, err := Normalize(rows)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	second, err := Normalize(first.Rows)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if second.Changed() {
		t.Errorf("second pass produced events: %v", second.Events)
	}

	if diff := cmp.Diff(first.Rows, second.Rows); diff != "" {
		t.Errorf("second pass changed rows (-first +second):\n%s", diff)
	}
}

func TestProcessor_Process_HeaderOnly(t *testing.T) {
	result, err := Normalize([]models.Record{{"a", "b"}})
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(result.Rows) != 1 || result.Changed() {
		t.Errorf("unexpected result for header-only input: %+v", result)
	}
}

func TestProcessor_Process_EmptyInput(t *testing.T) {
	result, err := Normalize(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Process error = %v, want ErrEmptyInput", err)
	}

	if result != nil {
		t.Error("Process expected nil result for empty input")
	}
}

func TestProcessor_Process_DoesNotModifyInput(t *testing.T) {
	header := models.Record{"a", "b"}
	row := models.Record{"1", "2", "3"}

	result, err := Normalize([]models.Record{header, row})
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	result.Rows[0][0] = "changed"
	result.Rows[1][0] = "changed"

	if header[0] != "a" || row[0] != "1" || len(row) != 3 {
		t.Error("Process modified its input rows")
	}
}

func TestProcessor_Process_LogsEvents(t *testing.T) {
	var buf bytes.Buffer
	p := NewProcessor(logger.NewLoggerWithWriter(&buf, "info", "text"))

	if _, err := p.Process([]models.Record{{"a", "b", "c"}, {"1"}}); err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Header has 3 columns", "Row 1: Padded from 1 to 3 columns"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
