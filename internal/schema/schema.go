// Package schema defines the fixed column contract of the product export.
package schema

import (
	"errors"
	"fmt"

	"catalogcsv/internal/models"
)

// Schema construction errors.
var (
	ErrEmptySchema    = errors.New("schema has no fields")
	ErrEmptyFieldName = errors.New("schema field name is empty")
	ErrDuplicateField = errors.New("schema field is duplicated")
)

// Product export field names referenced by the default rules.
const (
	FieldQuantity            = "quantity"
	FieldPrice               = "price"
	FieldTotalCost           = "total_cost"
	FieldProfitPerUnit       = "profit_per_unit"
	FieldTotalInventoryValue = "total_inventory_value"
	FieldPotentialProfit     = "potential_profit"
)

// ProductFields is the complete, ordered column set of the product export.
var ProductFields = []string{
	"sku", "title", "description", "quantity", "price", "images",
	"optionname1", "optionname2", "optionname3", "optionname4", "optionname5",
	"option1", "option2", "option3", "option4", "option5",
	"product_identifier", "product_identifier_type", "brand", "cost",
	"status", "drop_date", "released_date", "show_in_new_releases",
	"out_of_stock", "show_in_staff_picks", "show_in_coming_soon",
	"show_in_featured_while_coming_soon", "show_in_featured", "show_in_limited_editions",
	"purchase_cost", "shipping_cost", "total_cost", "purchase_date",
	"supplier", "tracking_number", "profit_per_unit", "total_inventory_value",
	"potential_profit", "weight", "length", "width", "height",
}

// BooleanFlagFields are the storefront toggles that default to "false".
var BooleanFlagFields = []string{
	"show_in_new_releases",
	"out_of_stock",
	"show_in_staff_picks",
	"show_in_coming_soon",
	"show_in_featured_while_coming_soon",
	"show_in_featured",
	"show_in_limited_editions",
}

// NumericCostFields are the cost columns that default to "0".
var NumericCostFields = []string{"purchase_cost", "shipping_cost", FieldTotalCost}

// Schema is an immutable ordered list of field names.
type Schema struct {
	fields []string
	index  map[string]int
}

// New validates fields and builds a schema from them.
func New(fields []string) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, ErrEmptySchema
	}

	index := make(map[string]int, len(fields))

	for i, f := range fields {
		if f == "" {
			return Schema{}, fmt.Errorf("%w at position %d", ErrEmptyFieldName, i)
		}

		if prev, ok := index[f]; ok {
			return Schema{}, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateField, f, prev, i)
		}

		index[f] = i
	}

	own := make([]string, len(fields))
	copy(own, fields)

	return Schema{fields: own, index: index}, nil
}

// MustNew is like New but panics on an invalid field list.
func MustNew(fields []string) Schema {
	s, err := New(fields)
	if err != nil {
		panic(err)
	}

	return s
}

// Product returns the 43-column product export schema.
func Product() Schema {
	return MustNew(ProductFields)
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the ordered field names.
func (s Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)

	return out
}

// Index returns the position of field in the schema.
func (s Schema) Index(field string) (int, bool) {
	i, ok := s.index[field]
	return i, ok
}

// Contains reports whether field is part of the schema.
func (s Schema) Contains(field string) bool {
	_, ok := s.index[field]
	return ok
}

// Header returns the header row derived from the schema.
func (s Schema) Header() models.Record {
	return models.Record(s.Fields())
}
