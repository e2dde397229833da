package catalog

const (
	queryListCatalogItems = `
		SELECT
			po.po_number, i.item_name, i.item_number, i.bin_location
		FROM purchase_orders po
		LEFT JOIN purchase_order_items i ON i.po_number = po.po_number
		ORDER BY po.po_number, i.position
	`
)
