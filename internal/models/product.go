package models

import "strings"

// Value is an optional cell value. A zero Value is absent.
type Value struct {
	Text string
	Set  bool
}

// Some returns a present value.
func Some(text string) Value {
	return Value{Text: text, Set: true}
}

// IsUnset reports whether the value should be backfilled by a default:
// it is absent, or present and empty. The literal "0" is a set value.
func (v Value) IsUnset() bool {
	return !v.Set || v.Text == ""
}

// String returns the text, or "" when absent.
func (v Value) String() string {
	return v.Text
}

// PartialRecord is a caller-supplied product with a subset of the export
// fields populated. Keys keep the order in which they were added.
type PartialRecord struct {
	values map[string]Value
	keys   []string
}

// NewPartialRecord builds a record from field/value pairs in argument order:
// NewPartialRecord("sku", "A1", "quantity", "2").
// It panics on an odd number of arguments.
func NewPartialRecord(pairs ...string) PartialRecord {
	if len(pairs)%2 != 0 {
		panic("models: NewPartialRecord needs field/value pairs")
	}

	var p PartialRecord
	for i := 0; i < len(pairs); i += 2 {
		p.Set(pairs[i], pairs[i+1])
	}

	return p
}

// Set stores value under field, keeping the original position of an
// existing key.
func (p *PartialRecord) Set(field, value string) {
	p.put(field, Some(value))
}

// SetEmpty marks field as explicitly present with an empty value.
func (p *PartialRecord) SetEmpty(field string) {
	p.put(field, Some(""))
}

func (p *PartialRecord) put(field string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}

	if _, ok := p.values[field]; !ok {
		p.keys = append(p.keys, field)
	}

	p.values[field] = v
}

// Get returns the value of field; the zero Value when absent.
func (p PartialRecord) Get(field string) Value {
	return p.values[field]
}

// Has reports whether field was supplied, even if empty.
func (p PartialRecord) Has(field string) bool {
	_, ok := p.values[field]
	return ok
}

// Keys returns the supplied field names in insertion order.
func (p PartialRecord) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)

	return out
}

// Len returns the number of supplied fields.
func (p PartialRecord) Len() int {
	return len(p.keys)
}

// Label identifies the record in log lines: its sku when present.
func (p PartialRecord) Label() string {
	if sku := strings.TrimSpace(p.Get("sku").Text); sku != "" {
		return sku
	}

	return "<no sku>"
}
