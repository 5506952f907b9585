package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
)

// OrderPayload is the wire shape shared by the REST fallback tier and the
// local pending queue.
type OrderPayload struct {
	ID              uuid.UUID  `json:"id"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone"`
	ShippingAddress string     `json:"shipping_address"`
	PaymentMethod   string     `json:"payment_method"`
	Status          string     `json:"status"`
	Total           string     `json:"total"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
}

// OrderLinePayload mirrors one order line on the wire.
type OrderLinePayload struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	SizeVariant *string   `json:"size_variant,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	ProductName string    `json:"product_name"`
}

// PendingLocalOrder is the queued record used when every remote write tier
// fails; it carries the full order for manual reconciliation and is never
// retried automatically.
type PendingLocalOrder struct {
	Order    OrderPayload       `json:"order"`
	Lines    []OrderLinePayload `json:"lines"`
	QueuedAt time.Time          `json:"queued_at"`
}

func orderPayloadFrom(order *models.Order) OrderPayload {
	return OrderPayload{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod.String(),
		Status:          order.Status.String(),
		Total:           order.Total.StringFixed(2),
		UserID:          order.UserID,
	}
}

func linePayloadFrom(line *models.OrderLine) OrderLinePayload {
	return OrderLinePayload{
		ID:          line.ID,
		OrderID:     line.OrderID,
		ProductID:   line.ProductID,
		SizeVariant: line.SizeVariant,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice.StringFixed(2),
		ProductName: line.ProductName,
	}
}

func pendingFrom(order *models.Order, now time.Time) PendingLocalOrder {
	pending := PendingLocalOrder{
		Order:    orderPayloadFrom(order),
		QueuedAt: now,
	}
	for i := range order.Lines {
		pending.Lines = append(pending.Lines, linePayloadFrom(&order.Lines[i]))
	}
	return pending
}
