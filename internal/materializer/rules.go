package materializer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"catalogcsv/internal/models"
	"catalogcsv/internal/schema"
)

// ErrMalformedNumeric is returned when a computed default reads a non-empty
// value that is not a number. Only emptiness counts as zero.
var ErrMalformedNumeric = errors.New("malformed numeric value")

// Rule fills Field when it is unset after the overlay.
type Rule struct {
	Field string
	Name  string
	// Compute derives the fallback from the draft record.
	Compute func(d *Draft) (string, error)
}

// Constant returns a rule that fills field with value.
func Constant(field, value string) Rule {
	return Rule{
		Field: field,
		Name:  "constant",
		Compute: func(*Draft) (string, error) {
			return value, nil
		},
	}
}

// CopyOf returns a rule that fills field with the current value of source.
func CopyOf(field, source string) Rule {
	return Rule{
		Field: field,
		Name:  "copy:" + source,
		Compute: func(d *Draft) (string, error) {
			return d.Get(source).Text, nil
		},
	}
}

// Product returns a rule that fills field with quantity * factor, quantity
// parsed as an integer and factor as a decimal.
func Product(field, quantity, factor string) Rule {
	return Rule{
		Field: field,
		Name:  "product:" + quantity + "*" + factor,
		Compute: func(d *Draft) (string, error) {
			q, err := parseQuantity(d.Get(quantity).Text)
			if err != nil {
				return "", fmt.Errorf("%s: %w", quantity, err)
			}

			f, err := parseDecimal(d.Get(factor).Text)
			if err != nil {
				return "", fmt.Errorf("%s: %w", factor, err)
			}

			return FormatDecimal(q.Mul(f)), nil
		},
	}
}

// DefaultRules returns the product export rules in application order:
// storefront flags, cost columns, profit per unit, then the two totals.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(schema.BooleanFlagFields)+len(schema.NumericCostFields)+3)

	for _, f := range schema.BooleanFlagFields {
		rules = append(rules, Constant(f, "false"))
	}

	for _, f := range schema.NumericCostFields {
		rules = append(rules, Constant(f, "0"))
	}

	return append(rules,
		CopyOf(schema.FieldProfitPerUnit, schema.FieldPrice),
		Product(schema.FieldTotalInventoryValue, schema.FieldQuantity, schema.FieldTotalCost),
		Product(schema.FieldPotentialProfit, schema.FieldQuantity, schema.FieldProfitPerUnit),
	)
}

func parseQuantity(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an integer", ErrMalformedNumeric, text)
	}

	return decimal.NewFromInt(n), nil
}

func parseDecimal(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal", ErrMalformedNumeric, text)
	}

	return d, nil
}

// FormatDecimal renders d as a plain decimal that always has a fractional
// part: 7.5, 0.0, 12.0.
func FormatDecimal(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// Draft is a record under construction, one cell per schema field.
type Draft struct {
	schema schema.Schema
	cells  models.Record
}

func newDraft(s schema.Schema) *Draft {
	return &Draft{schema: s, cells: make(models.Record, s.Len())}
}

// Get returns the current value of field. Fields outside the schema are
// absent.
func (d *Draft) Get(field string) models.Value {
	i, ok := d.schema.Index(field)
	if !ok {
		return models.Value{}
	}

	return models.Some(d.cells[i])
}

func (d *Draft) set(field, value string) bool {
	i, ok := d.schema.Index(field)
	if !ok {
		return false
	}

	d.cells[i] = value

	return true
}
