package order

// Wire payloads for the external ordering API. Prices travel as JSON
// numbers; size and crust are folded into the composed item name and are
// not separate fields on the wire.

type wireItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type createOrderRequest struct {
	ClientName      string     `json:"client_name"`
	ClientDocument  string     `json:"client_document"`
	DeliveryDate    string     `json:"delivery_date"`
	DeliveryAddress Address    `json:"delivery_address"`
	Items           []wireItem `json:"items"`
}

type addItemsRequest struct {
	Items []wireItem `json:"items"`
}

type updateAddressRequest struct {
	DeliveryAddress Address `json:"delivery_address"`
}

func toWireItems(items []Item) []wireItem {
	out := make([]wireItem, 0, len(items))
	for _, it := range items {
		out = append(out, wireItem{
			Name:      it.ComposedName(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
		})
	}
	return out
}
