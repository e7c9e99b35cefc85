package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLatency records the timestamps of one request's path to the exchange.
// Elapsed times are observed only; nothing in the core acts on them.
type OrderLatency struct {
	Created time.Time
	Sending time.Time
	Sent    time.Time
	Ack     time.Time
}

func (l *OrderLatency) MarkSending(t time.Time) { l.Sending = t }
func (l *OrderLatency) MarkSent(t time.Time)    { l.Sent = t }
func (l *OrderLatency) MarkAck(t time.Time)     { l.Ack = t }

// SendLatency is the time from request creation to transmission.
func (l *OrderLatency) SendLatency() time.Duration {
	if l.Sent.IsZero() {
		return 0
	}
	return l.Sent.Sub(l.Created)
}

// AckLatency is the time from transmission to exchange acknowledgement.
func (l *OrderLatency) AckLatency() time.Duration {
	if l.Ack.IsZero() || l.Sent.IsZero() {
		return 0
	}
	return l.Ack.Sub(l.Sent)
}

// OrderEntry snapshots the request last applied to an order. A fresh entry
// replaces the previous one whole each time a request is applied; it is never
// partially updated. The exchange order id starts absent and is stamped on
// the first acknowledgement that carries one.
type OrderEntry struct {
	Side            Side
	Type            OrderType
	TimeInForce     TimeInForce
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	RequestType     OrderRequestType
	ExchangeOrderID string
	Latency         OrderLatency
}

// NewOrderEntry builds an entry from the request being applied.
func NewOrderEntry(req *OrderRequest) *OrderEntry {
	return &OrderEntry{
		Side:        req.Side,
		Type:        req.OrderType,
		TimeInForce: req.TimeInForce,
		Quantity:    req.Quantity,
		Price:       req.Price,
		RequestType: req.Type,
		Latency:     OrderLatency{Created: req.CreatedAt},
	}
}
