package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Draft is the in-progress order assembled across a conversation. It is
// owned by exactly one session and is only ever touched by that session's
// turns, one at a time, so it carries no lock.
type Draft struct {
	Items            []Item  `json:"items"`
	CustomerName     string  `json:"customer_name"`
	CustomerDocument string  `json:"customer_document"`
	Address          Address `json:"address"`
}

func NewDraft() *Draft { return &Draft{} }

// AddItem always appends. Two identical confirmations become two lines;
// merging into a single line with a higher quantity is left to the caller
// choosing quantity up front.
func (d *Draft) AddItem(name, size, crust string, quantity int, unitPrice decimal.Decimal) {
	d.Items = append(d.Items, Item{
		Name:      name,
		Size:      size,
		Crust:     crust,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// SetCustomerName overwrites the customer name; last write wins.
func (d *Draft) SetCustomerName(name string) { d.CustomerName = name }

// SetCustomerDocument overwrites the customer document. The document is an
// opaque string here; the ordering API is the one that cares about format.
func (d *Draft) SetCustomerDocument(document string) { d.CustomerDocument = document }

// SetAddress replaces the whole delivery address as one unit. Partial
// address edits are not supported at draft stage.
func (d *Draft) SetAddress(streetName string, number int, referencePoint, complement string) {
	d.Address = Address{
		StreetName:     streetName,
		Number:         number,
		Complement:     complement,
		ReferencePoint: referencePoint,
	}
}

// Total is the running invoice total of the draft.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ValidationCode identifies which completeness check a draft failed.
type ValidationCode string

const (
	MissingName       ValidationCode = "missing_name"
	MissingDocument   ValidationCode = "missing_document"
	IncompleteAddress ValidationCode = "incomplete_address"
	EmptyOrder        ValidationCode = "empty_order"
	IncompleteItem    ValidationCode = "incomplete_item"
)

// ValidationError is a local pre-flight failure. It never reaches the
// network and the draft is left intact so the user can fix it and retry.
type ValidationError struct {
	Code  ValidationCode
	Index int // item index, only for IncompleteItem
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case MissingName:
		return "the customer name is missing; please provide your name"
	case MissingDocument:
		return "the customer document is missing; please provide your document"
	case IncompleteAddress:
		return "the delivery address needs at least a street name and a number"
	case EmptyOrder:
		return "the order has no items yet; please add at least one pizza"
	case IncompleteItem:
		return fmt.Sprintf("item %d of the order is incomplete", e.Index+1)
	}
	return "the order is incomplete"
}

// Validate runs the completeness checks in submission order and returns the
// first failure, or nil when the draft is ready to submit.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.CustomerName) == "" {
		return &ValidationError{Code: MissingName}
	}
	if strings.TrimSpace(d.CustomerDocument) == "" {
		return &ValidationError{Code: MissingDocument}
	}
	if strings.TrimSpace(d.Address.StreetName) == "" || d.Address.Number == 0 {
		return &ValidationError{Code: IncompleteAddress}
	}
	if len(d.Items) == 0 {
		return &ValidationError{Code: EmptyOrder}
	}
	for i, it := range d.Items {
		if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Size) == "" ||
			strings.TrimSpace(it.Crust) == "" || it.Quantity < 1 || it.UnitPrice.IsNegative() {
			return &ValidationError{Code: IncompleteItem, Index: i}
		}
	}
	return nil
}
