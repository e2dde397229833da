package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
)

type catalogRowDB struct {
	PONumber    sql.NullString `db:"po_number"`
	ItemName    sql.NullString `db:"item_name"`
	ItemNumber  sql.NullString `db:"item_number"`
	BinLocation sql.NullString `db:"bin_location"`
}

// FetchFromDB reads every purchase order with its items in position order.
// Orders without items come back with an empty item list.
func FetchFromDB(ctx context.Context, q sqlx.QueryerContext) ([]entity.PurchaseOrder, error) {
	var rows []catalogRowDB
	if err := sqlx.SelectContext(ctx, q, &rows, queryListCatalogItems); err != nil {
		return nil, fmt.Errorf("select catalog items: %w", err)
	}

	return groupRows(rows), nil
}

// groupRows folds rows sorted by po_number into purchase orders.
func groupRows(rows []catalogRowDB) []entity.PurchaseOrder {
	var orders []entity.PurchaseOrder
	for _, row := range rows {
		id := row.PONumber.String
		if len(orders) == 0 || orders[len(orders)-1].ID != id {
			orders = append(orders, entity.PurchaseOrder{ID: id, Items: []entity.Item{}})
		}
		if !row.ItemName.Valid {
			continue
		}

		last := &orders[len(orders)-1]
		last.Items = putItem(last.Items, entity.Item{
			Name:        row.ItemName.String,
			ItemNumber:  row.ItemNumber.String,
			BinLocation: row.BinLocation.String,
		})
	}
	return orders
}
