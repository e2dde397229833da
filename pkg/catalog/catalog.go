package catalog

import "github.com/raqeebanjum/seniordesignproject/internal/entity"

// Catalog is the read-only set of purchase orders known at startup.
type Catalog struct {
	orders map[string]entity.PurchaseOrder
	ids    []string
}

// New builds a catalog. When an id repeats, the last order wins but keeps the
// position of the first.
func New(orders ...entity.PurchaseOrder) *Catalog {
	c := &Catalog{
		orders: make(map[string]entity.PurchaseOrder, len(orders)),
		ids:    make([]string, 0, len(orders)),
	}

	for _, po := range orders {
		if _, exists := c.orders[po.ID]; !exists {
			c.ids = append(c.ids, po.ID)
		}
		c.orders[po.ID] = po
	}

	return c
}

// putItem adds item to items keyed by name. A repeated name replaces the
// earlier item in place, so it keeps the first position.
func putItem(items []entity.Item, item entity.Item) []entity.Item {
	for i := range items {
		if items[i].Name == item.Name {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func Empty() *Catalog {
	return New()
}

func (c *Catalog) Lookup(poID string) (entity.PurchaseOrder, bool) {
	po, ok := c.orders[poID]
	return po, ok
}

func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs lists the purchase order ids in load order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}
