// Package catalog loads partial product records from a YAML or JSON file.
//
// The document has a single top-level key:
//
//	products:
//	  - sku: IF_9223B4D0
//	    quantity: 2
//	    price: "170"
//	    brand: ""
//
// Scalars are kept as their literal text, so 2 and "2" are the same value and
// 0.10 stays "0.10". A null value marks the field as supplied but empty. Key
// order and presence are preserved.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"catalogcsv/internal/models"
)

// ErrInvalidCatalog is returned for documents that do not follow the layout.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Load reads and parses the catalog at path.
func Load(path string) ([]models.PartialRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Parse decodes a catalog document.
func Parse(data []byte) ([]models.PartialRecord, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	// An empty document has no content node.
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping with a products key", ErrInvalidCatalog, root.Line)
	}

	var products *yaml.Node

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value != "products" {
			return nil, fmt.Errorf("%w: line %d: unexpected top-level key %q", ErrInvalidCatalog, key.Line, key.Value)
		}

		products = value
	}

	if products == nil || isNull(products) {
		return nil, nil
	}

	if products.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: line %d: products must be a list", ErrInvalidCatalog, products.Line)
	}

	records := make([]models.PartialRecord, 0, len(products.Content))

	for i, item := range products.Content {
		rec, err := parseProduct(item)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseProduct(node *yaml.Node) (models.PartialRecord, error) {
	var rec models.PartialRecord

	if node.Kind != yaml.MappingNode {
		return rec, fmt.Errorf("%w: line %d: product must be a mapping", ErrInvalidCatalog, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return rec, fmt.Errorf("%w: line %d: field name must be a non-empty string", ErrInvalidCatalog, key.Line)
		}

		if rec.Has(key.Value) {
			return rec, fmt.Errorf("%w: line %d: field %q given twice", ErrInvalidCatalog, key.Line, key.Value)
		}

		switch {
		case isNull(value):
			rec.SetEmpty(key.Value)
		case value.Kind == yaml.ScalarNode:
			rec.Set(key.Value, value.Value)
		default:
			return rec, fmt.Errorf("%w: line %d: field %q must be a scalar", ErrInvalidCatalog, value.Line, key.Value)
		}
	}

	return rec, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
