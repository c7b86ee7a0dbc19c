package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNothingPending distinguishes "flush had nothing to do" from a
// successful flush. It is informational, not a failure.
var ErrNothingPending = errors.New("no pending changes to apply")

// PendingUpdateSet accumulates modifications to an already-submitted order.
// Queueing never touches the remote resource; only Flush does.
type PendingUpdateSet struct {
	ItemsToAdd      []Item   `json:"items_to_add"`
	ItemIDsToRemove []int    `json:"item_ids_to_remove"`
	PendingAddress  *Address `json:"pending_address,omitempty"`
}

func NewPendingUpdateSet() *PendingUpdateSet { return &PendingUpdateSet{} }

func (s *PendingUpdateSet) QueueAddItem(name, size, crust string, quantity int, unitPrice decimal.Decimal) {
	s.ItemsToAdd = append(s.ItemsToAdd, Item{
		Name:      name,
		Size:      size,
		Crust:     crust,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// QueueRemoveItem records a server-assigned item id for removal. Repeated
// ids are kept as-is; the remote API rejects the second removal and that
// shows up in the flush report as a normal per-item failure.
func (s *PendingUpdateSet) QueueRemoveItem(itemID int) {
	s.ItemIDsToRemove = append(s.ItemIDsToRemove, itemID)
}

func (s *PendingUpdateSet) QueueAddressChange(addr Address) {
	s.PendingAddress = &addr
}

func (s *PendingUpdateSet) Empty() bool {
	return len(s.ItemsToAdd) == 0 && len(s.ItemIDsToRemove) == 0 && s.PendingAddress == nil
}

// FlushResult is the outcome of one remote operation attempted by Flush.
type FlushResult struct {
	Group  string // "add_items", "address", "remove_item"
	Detail string
	Err    error
}

type FlushReport struct {
	Results []FlushResult
}

func (r *FlushReport) AllOK() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Lines renders the per-operation report shown to the user.
func (r *FlushReport) Lines() []string {
	out := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, fmt.Sprintf("failed: %s (%s)", res.Detail, UserMessage(res.Err)))
			continue
		}
		out = append(out, "done: "+res.Detail)
	}
	return out
}

// Flush applies every queued change against the selected remote order in a
// fixed order: one PATCH for all queued items, one PATCH for the address,
// then one DELETE per removed item id (the API has no bulk delete). The
// three groups are independent; a failure in one never stops the others.
// Every queue that was attempted is cleared whatever the outcome, so a
// repeated flush never re-sends anything (at-most-once per flush call).
func Flush(ctx context.Context, gw *Gateway, orderID int, set *PendingUpdateSet) (*FlushReport, error) {
	if set.Empty() {
		return nil, ErrNothingPending
	}

	rep := &FlushReport{}

	if n := len(set.ItemsToAdd); n > 0 {
		err := gw.AddItems(ctx, orderID, set.ItemsToAdd)
		rep.Results = append(rep.Results, FlushResult{
			Group:  "add_items",
			Detail: fmt.Sprintf("add %d item(s)", n),
			Err:    err,
		})
		set.ItemsToAdd = nil
	}

	if set.PendingAddress != nil {
		err := gw.UpdateAddress(ctx, orderID, *set.PendingAddress)
		rep.Results = append(rep.Results, FlushResult{
			Group:  "address",
			Detail: "update delivery address",
			Err:    err,
		})
		set.PendingAddress = nil
	}

	if len(set.ItemIDsToRemove) > 0 {
		for _, id := range set.ItemIDsToRemove {
			err := gw.RemoveItem(ctx, orderID, id)
			rep.Results = append(rep.Results, FlushResult{
				Group:  "remove_item",
				Detail: fmt.Sprintf("remove item %d", id),
				Err:    err,
			})
		}
		set.ItemIDsToRemove = nil
	}

	return rep, nil
}
