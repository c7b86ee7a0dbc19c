package order

import (
	"context"
	"time"
)

// Submit runs the pre-flight checks and, only if every one passes, performs
// exactly one create call against the ordering API. The draft is never
// mutated here: on any failure, validation or transport, the caller still
// holds the full draft and the user retries without re-entering data.
func Submit(ctx context.Context, gw *Gateway, d *Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return gw.CreateOrder(ctx, buildCreateRequest(d, time.Now()))
}

func buildCreateRequest(d *Draft, now time.Time) createOrderRequest {
	return createOrderRequest{
		ClientName:      d.CustomerName,
		ClientDocument:  d.CustomerDocument,
		DeliveryDate:    now.Format("2006-01-02"),
		DeliveryAddress: d.Address,
		Items:           toWireItems(d.Items),
	}
}
