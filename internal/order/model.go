package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one line of a draft order. Once appended it is only ever removed,
// never edited in place.
type Item struct {
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Crust     string          `json:"crust"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ComposedName is the wire convention of the ordering API: a single display
// string carrying flavor, size and crust.
func (it Item) ComposedName() string {
	return fmt.Sprintf("%s - %s - %s", it.Name, it.Size, it.Crust)
}

type Address struct {
	StreetName     string `json:"street_name"`
	Number         int    `json:"number"`
	Complement     string `json:"complement"`
	ReferencePoint string `json:"reference_point"`
}

// RemoteOrder is a read-only snapshot of an order owned by the external
// ordering service. Item IDs are server-assigned and are the handles used
// for removals.
type RemoteOrder struct {
	ID              int             `json:"id"`
	DeliveryDate    string          `json:"delivery_date"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Status          string          `json:"status"`
	Items           []RemoteItem    `json:"items"`
	DeliveryAddress Address         `json:"delivery_address"`
}

type RemoteItem struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderSummary is the shape returned by the filter-by-document endpoint.
type OrderSummary struct {
	ID           int             `json:"id"`
	DeliveryDate string          `json:"delivery_date"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Status       string          `json:"status"`
}
