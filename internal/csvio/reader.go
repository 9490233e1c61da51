// Package csvio reads and writes whole export tables. Files are read with a
// single full read and written with a single atomic replace, so a failed run
// never leaves a half-written export behind.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"catalogcsv/internal/models"
)

// Decode parses a comma-separated table. Rows may have any width; a UTF-8
// byte order mark in front of the header is dropped. A blank physical line
// yields a row with no cells, so row numbers match the lines of the file.
func Decode(data []byte) ([]models.Record, error) {
	// BOMOverride strips a leading BOM and otherwise decodes as UTF-8.
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode UTF-8: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		rows     []models.Record
		consumed int   // physical lines read so far
		offset   int64 // end of the last record in text
	)

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		// encoding/csv skips empty lines; put them back.
		line, _ := r.FieldPos(0)
		rows = appendBlank(rows, line-1-consumed)
		rows = append(rows, models.Record(rec))

		end := r.InputOffset()
		consumed += bytes.Count(text[offset:end], newline)
		offset = end
	}

	return appendBlank(rows, bytes.Count(text[offset:], newline)), nil
}

var newline = []byte{'\n'}

func appendBlank(rows []models.Record, n int) []models.Record {
	for ; n > 0; n-- {
		rows = append(rows, models.Record{})
	}

	return rows
}

// ReadFile reads the table at path in one read. It returns the parsed rows
// together with the raw bytes so callers can compare before and after.
func ReadFile(path string) ([]models.Record, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rows, err := Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return rows, data, nil
}
