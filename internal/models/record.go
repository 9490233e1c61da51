// Package models defines data structures shared by the normalizer and materializer.
package models

// Record is one row of the export table: an ordered sequence of text cells.
type Record []string

// Clone returns a copy of the record that does not share storage.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}

	out := make(Record, len(r))
	copy(out, r)

	return out
}

// Width returns the number of cells in the record.
func (r Record) Width() int {
	return len(r)
}

// Header names the columns of a table in fixed order.
type Header struct {
	names Record
	index map[string]int
}

// NewHeader creates a header from the first row of a table.
// The header keeps its own copy of the cells.
func NewHeader(cells Record) Header {
	names := cells.Clone()
	index := make(map[string]int, len(names))

	for i, name := range names {
		// First occurrence wins for duplicated column names.
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	return Header{names: names, index: index}
}

// Width returns the expected cell count for every row of the table.
func (h Header) Width() int {
	return len(h.names)
}

// Index returns the column position of name.
func (h Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Record returns a copy of the header cells.
func (h Header) Record() Record {
	return h.names.Clone()
}
