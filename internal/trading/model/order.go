package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pairs immutable identity with mutable lifecycle state. It is the unit
// of storage in the order book; indexing identity is the order id.
type Order struct {
	Identity OrderIdentity
	State    OrderState
}

// ID returns the internal order id.
func (o *Order) ID() string { return o.Identity.OrderID }

// NewOrder is the outbound wire intent produced for each accepted request.
// It carries everything the transport needs to encode an exchange message.
type NewOrder struct {
	OrderID          string
	ClientOrderID    string
	InstrumentID     string
	MarketID         string
	BrokerID         string
	AlgoID           string
	Side             Side
	Type             OrderType
	TimeInForce      TimeInForce
	Quantity         decimal.Decimal
	Price            decimal.Decimal
	RequestType      OrderRequestType
	DependentOrderID string
	TransactTime     time.Time
}
