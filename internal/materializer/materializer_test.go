package materializer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"catalogcsv/internal/models"
	"catalogcsv/internal/schema"
)

// field returns the value of name in a product export row.
func field(t *testing.T, row models.Record, name string) string {
	t.Helper()

	i, ok := schema.Product().Index(name)
	require.True(t, ok, "unknown field %s", name)
	require.Len(t, row, schema.Product().Len())

	return row[i]
}

func materializeOne(t *testing.T, rec models.PartialRecord) models.Record {
	t.Helper()

	rows, err := Materialize(schema.Product(), []models.PartialRecord{rec})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	return rows[1]
}

func TestMaterialize_HeaderAndOrder(t *testing.T) {
	s := schema.Product()
	records := []models.PartialRecord{
		models.NewPartialRecord("sku", "IF_1", "quantity", "2", "price", "170"),
		models.NewPartialRecord("title", "no sku"),
		models.NewPartialRecord("sku", "IF_3"),
	}

	rows, err := Materialize(s, records)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	if diff := cmp.Diff(s.Header(), rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	for i, row := range rows {
		if len(row) != s.Len() {
			t.Errorf("row %d width = %d, want %d", i, len(row), s.Len())
		}
	}

	if got := field(t, rows[1], "sku"); got != "IF_1" {
		t.Errorf("row 1 sku = %q", got)
	}

	if got := field(t, rows[2], "title"); got != "no sku" {
		t.Errorf("row 2 title = %q", got)
	}

	if got := field(t, rows[3], "sku"); got != "IF_3" {
		t.Errorf("row 3 sku = %q", got)
	}
}

func TestMaterialize_Defaults(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord(
		"sku", "IF_FACE0CEA",
		"quantity", "1",
		"price", "160",
		"show_in_coming_soon", "true",
	))

	for _, f := range schema.BooleanFlagFields {
		want := "false"
		if f == "show_in_coming_soon" {
			want = "true"
		}

		if got := field(t, row, f); got != want {
			t.Errorf("%s = %q, want %q", f, got, want)
		}
	}

	for _, f := range schema.NumericCostFields {
		if got := field(t, row, f); got != "0" {
			t.Errorf("%s = %q, want 0", f, got)
		}
	}

	want := map[string]string{
		"profit_per_unit":       "160",
		"total_inventory_value": "0.0",
		"potential_profit":      "160.0",
		"title":                 "",
		"description":           "",
	}
	for f, w := range want {
		if got := field(t, row, f); got != w {
			t.Errorf("%s = %q, want %q", f, got, w)
		}
	}
}

func TestMaterialize_TotalInventoryValue(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord("quantity", "3", "total_cost", "2.50"))

	if got := field(t, row, "total_inventory_value"); got != "7.5" {
		t.Errorf("total_inventory_value = %q, want 7.5", got)
	}
}

func TestMaterialize_PotentialProfitFromPrice(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord("quantity", "0", "price", "0.1"))

	if got := field(t, row, "profit_per_unit"); got != "0.1" {
		t.Errorf("profit_per_unit = %q, want 0.1", got)
	}

	if got := field(t, row, "potential_profit"); got != "0.0" {
		t.Errorf("potential_profit = %q, want 0.0", got)
	}
}

func TestMaterialize_ExactDecimalArithmetic(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord("quantity", "3", "price", "0.1", "total_cost", "12"))

	if got := field(t, row, "potential_profit"); got != "0.3" {
		t.Errorf("potential_profit = %q, want 0.3", got)
	}

	if got := field(t, row, "total_inventory_value"); got != "36.0" {
		t.Errorf("total_inventory_value = %q, want 36.0", got)
	}
}

// The literal "0" is a supplied value; only absent or empty triggers a default.
func TestMaterialize_ZeroIsSet(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord(
		"quantity", "5",
		"price", "10",
		"out_of_stock", "0",
		"shipping_cost", "0",
		"profit_per_unit", "0",
		"total_inventory_value", "0",
		"potential_profit", "0",
	))

	for _, f := range []string{"out_of_stock", "shipping_cost", "profit_per_unit", "total_inventory_value", "potential_profit"} {
		if got := field(t, row, f); got != "0" {
			t.Errorf("%s = %q, want 0 to be kept", f, got)
		}
	}
}

func TestMaterialize_ExplicitEmptyIsDefaulted(t *testing.T) {
	rec := models.NewPartialRecord("quantity", "2", "price", "50")
	rec.SetEmpty("out_of_stock")
	rec.SetEmpty("total_cost")
	rec.SetEmpty("profit_per_unit")

	row := materializeOne(t, rec)

	if got := field(t, row, "out_of_stock"); got != "false" {
		t.Errorf("out_of_stock = %q, want false", got)
	}

	if got := field(t, row, "total_cost"); got != "0" {
		t.Errorf("total_cost = %q, want 0", got)
	}

	if got := field(t, row, "profit_per_unit"); got != "50" {
		t.Errorf("profit_per_unit = %q, want 50", got)
	}

	if got := field(t, row, "potential_profit"); got != "100.0" {
		t.Errorf("potential_profit = %q, want 100.0", got)
	}
}

func TestMaterialize_SuppliedComputedFieldsKept(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord(
		"quantity", "1",
		"price", "0.1",
		"total_inventory_value", "1",
	))

	if got := field(t, row, "total_inventory_value"); got != "1" {
		t.Errorf("total_inventory_value = %q, want supplied 1", got)
	}
}

func TestMaterialize_EmptyPriceAndQuantity(t *testing.T) {
	row := materializeOne(t, models.NewPartialRecord("sku", "X"))

	if got := field(t, row, "profit_per_unit"); got != "" {
		t.Errorf("profit_per_unit = %q, want empty copy of price", got)
	}

	if got := field(t, row, "total_inventory_value"); got != "0.0" {
		t.Errorf("total_inventory_value = %q, want 0.0", got)
	}

	if got := field(t, row, "potential_profit"); got != "0.0" {
		t.Errorf("potential_profit = %q, want 0.0", got)
	}
}

func TestMaterialize_SchemaMismatch(t *testing.T) {
	records := []models.PartialRecord{
		models.NewPartialRecord("sku", "A", "quantity", "1"),
		models.NewPartialRecord("sku", "B", "foo", "bar"),
	}

	rows, err := Materialize(schema.Product(), records)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}

	if rows != nil {
		t.Errorf("expected no output, got %d rows", len(rows))
	}
}

func TestMaterialize_MalformedNumeric(t *testing.T) {
	tests := []struct {
		name string
		rec  models.PartialRecord
	}{
		{name: "Fractional quantity", rec: models.NewPartialRecord("quantity", "2.5")},
		{name: "Text quantity", rec: models.NewPartialRecord("quantity", "two")},
		{name: "Text total cost", rec: models.NewPartialRecord("quantity", "1", "total_cost", "abc")},
		{name: "Text price", rec: models.NewPartialRecord("quantity", "1", "price", "$5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Materialize(schema.Product(), []models.PartialRecord{
				models.NewPartialRecord("sku", "OK", "quantity", "1"),
				tt.rec,
			})
			if !errors.Is(err, ErrMalformedNumeric) {
				t.Fatalf("error = %v, want ErrMalformedNumeric", err)
			}

			if rows != nil {
				t.Error("expected no output on failure")
			}
		})
	}
}

func TestMaterialize_NoRecords(t *testing.T) {
	rows, err := Materialize(schema.Product(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestMaterializer_RulesOutsideSchemaAreSkipped(t *testing.T) {
	s := schema.MustNew([]string{"quantity", "price", "potential_profit"})

	result, err := New(s, DefaultRules(), nil).Run([]models.PartialRecord{
		models.NewPartialRecord("quantity", "4", "price", "2.5"),
	})
	require.NoError(t, err)

	// profit_per_unit is not in the schema, so potential_profit reads it as unset.
	want := []models.Record{
		{"quantity", "price", "potential_profit"},
		{"4", "2.5", "0.0"},
	}
	if diff := cmp.Diff(want, result.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMaterializer_FillCounts(t *testing.T) {
	result, err := New(schema.Product(), DefaultRules(), nil).Run([]models.PartialRecord{
		models.NewPartialRecord("quantity", "1", "price", "5", "out_of_stock", "true"),
		models.NewPartialRecord("quantity", "1", "price", "5"),
	})
	require.NoError(t, err)

	counts := result.FillCounts()
	if counts["out_of_stock"] != 1 || counts["show_in_featured"] != 2 || counts["potential_profit"] != 2 {
		t.Errorf("unexpected fill counts: %v", counts)
	}

	if result.Records() != 2 {
		t.Errorf("Records() = %d, want 2", result.Records())
	}
}
