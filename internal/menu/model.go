package menu

import "github.com/shopspring/decimal"

// Entry is one priced flavor/size/crust combination from the menu store.
// Entries are read-only; the assistant never writes to the menu.
type Entry struct {
	PizzaName string          `json:"pizza_name"`
	Size      string          `json:"size"`
	Crust     string          `json:"crust"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
