package catalog

import (
	"errors"
	"fmt"
	"path"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"gopkg.in/yaml.v3"
)

// Catalog documents map each PO id to its items, and each item name to its
// item number and bin:
//
//	{"PO100": {"Widget": {"item_number": "I1", "bin_location": "B1"}}}
//
// Item order in the document is the order in which the operator is guided.
type itemFields struct {
	ItemNumber  string `json:"item_number" yaml:"item_number"`
	BinLocation string `json:"bin_location" yaml:"bin_location"`
}

var ErrUnsupportedDocument = errors.New("catalog document must be a mapping of purchase orders")

// Parse decodes a catalog document, picking YAML or JSON from the name's
// extension. Anything that is not .yaml or .yml is read as JSON.
func Parse(name string, data []byte) ([]entity.PurchaseOrder, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

func DecodeJSON(data []byte) ([]entity.PurchaseOrder, error) {
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, ErrUnsupportedDocument
	}

	var orders []entity.PurchaseOrder
	iter.ReadObjectCB(func(it *jsoniter.Iterator, poID string) bool {
		po := entity.PurchaseOrder{ID: poID, Items: []entity.Item{}}

		it.ReadObjectCB(func(it *jsoniter.Iterator, name string) bool {
			var fields itemFields
			it.ReadVal(&fields)
			po.Items = putItem(po.Items, entity.Item{
				Name:        name,
				ItemNumber:  fields.ItemNumber,
				BinLocation: fields.BinLocation,
			})
			return it.Error == nil
		})

		orders = append(orders, po)
		return it.Error == nil
	})

	// a truncated document surfaces as io.EOF and is rejected too
	if iter.Error != nil {
		return nil, fmt.Errorf("decode catalog json: %w", iter.Error)
	}

	return orders, nil
}

func DecodeYAML(data []byte) ([]entity.PurchaseOrder, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, ErrUnsupportedDocument
	}

	orders := make([]entity.PurchaseOrder, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		po := entity.PurchaseOrder{ID: doc.Content[i].Value, Items: []entity.Item{}}

		items := doc.Content[i+1]
		switch items.Kind {
		case yaml.MappingNode:
			for j := 0; j+1 < len(items.Content); j += 2 {
				var fields itemFields
				if err := items.Content[j+1].Decode(&fields); err != nil {
					return nil, fmt.Errorf("decode items of %s: %w", po.ID, err)
				}
				po.Items = putItem(po.Items, entity.Item{
					Name:        items.Content[j].Value,
					ItemNumber:  fields.ItemNumber,
					BinLocation: fields.BinLocation,
				})
			}
		case yaml.ScalarNode:
			if items.Tag != "!!null" {
				return nil, fmt.Errorf("items of %s: %w", po.ID, ErrUnsupportedDocument)
			}
		default:
			return nil, fmt.Errorf("items of %s: %w", po.ID, ErrUnsupportedDocument)
		}

		orders = append(orders, po)
	}

	return orders, nil
}
