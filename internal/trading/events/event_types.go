package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

// Standard event topics.
const (
	TopicOrder  = "order"
	TopicTrade  = "trade"
	TopicReject = "reject"
	TopicStatus = "status"
)

// Event types carried in the envelope.
const (
	TypeOrderSend     = "ORDER_SEND"
	TypeRequestReject = "REQUEST_REJECT"
	TypeTrade         = "TRADE"
	TypeOrderStatus   = "ORDER_STATUS"
)

// OrderSendEvent carries a batch of wire intents bound for the gateway. One
// event per processing pass per instrument.
type OrderSendEvent struct {
	InstrumentID string
	Orders       []*model.NewOrder
	Timestamp    time.Time
}

// RejectedRequest is one entry of a reject batch.
type RejectedRequest struct {
	PortfolioID   string
	ClientOrderID string
	RequestType   model.OrderRequestType
	Reason        model.RejectReason
}

// OrderRequestRejectEvent carries the requests that failed pre-trade checks
// during one processing pass.
type OrderRequestRejectEvent struct {
	InstrumentID string
	Rejects      []RejectedRequest
	Timestamp    time.Time
}

// TradeEvent reports an execution attributed to a portfolio.
type TradeEvent struct {
	PortfolioID  string
	InstrumentID string
	Side         model.Side
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	Timestamp    time.Time
}

// OrderStatusEvent mirrors the exchange acknowledgement that drove a
// lifecycle transition.
type OrderStatusEvent struct {
	OrderID         string
	ExchangeOrderID string
	Status          model.OrderStatus
	ExecQuantity    decimal.Decimal
	LastPrice       decimal.Decimal
	Timestamp       time.Time
}
