package entity

type PurchaseOrder struct {
	ID    string `json:"po_number" yaml:"po_number" db:"po_number"`
	Items []Item `json:"items" yaml:"items"`
}

type Item struct {
	Name        string `json:"name" db:"item_name"`
	ItemNumber  string `json:"item_number" db:"item_number"`
	BinLocation string `json:"bin_location" db:"bin_location"`
}

type Task struct {
	Name        string `json:"name"`
	ItemNumber  string `json:"item_number"`
	BinLocation string `json:"bin_location"`
}

func (i Item) Task() Task {
	return Task{
		Name:        i.Name,
		ItemNumber:  i.ItemNumber,
		BinLocation: i.BinLocation,
	}
}
