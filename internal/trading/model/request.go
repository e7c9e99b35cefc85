package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest is a single-use instruction from a strategy: create a new
// order, or amend/cancel an existing one (named by DependentOrderID).
// Requests are discarded after one pass through the manager.
type OrderRequest struct {
	Type             OrderRequestType
	InstrumentID     string
	PortfolioID      string
	ClientOrderID    string
	AlgoID           string
	BrokerID         string
	Side             Side
	OrderType        OrderType
	TimeInForce      TimeInForce
	Quantity         decimal.Decimal
	Price            decimal.Decimal
	DependentOrderID string
	CreatedAt        time.Time

	rejected     bool
	rejectReason RejectReason
}

// Reject marks the request invalid with the given reason. The first reason
// sticks; a request is never un-rejected.
func (r *OrderRequest) Reject(reason RejectReason) {
	if r.rejected {
		return
	}
	r.rejected = true
	r.rejectReason = reason
}

// IsValid reports whether the request has not been rejected.
func (r *OrderRequest) IsValid() bool { return !r.rejected }

// RejectReason returns the reason recorded by the first Reject call, or
// ReasonNone if the request is still valid.
func (r *OrderRequest) RejectReason() RejectReason { return r.rejectReason }
