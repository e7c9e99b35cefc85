package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// OrderIdentity is the immutable reference data attached to an order at
// creation. It is never mutated in place; acknowledgement-time changes
// (the exchange order id) go through WithExchangeOrderID, which rebuilds it.
type OrderIdentity struct {
	OrderID         string
	ClientOrderID   string
	ExchangeOrderID string
	InstrumentID    string
	PortfolioID     string
	MarketID        string
	BrokerID        string
	AlgoID          string
	Fields          map[string]string
}

// IdentityBuilder assembles an OrderIdentity. Build rejects empty required
// ids so a half-wired order can never enter the book.
type IdentityBuilder struct {
	OrderID         string `validate:"required"`
	ClientOrderID   string `validate:"required"`
	InstrumentID    string `validate:"required"`
	PortfolioID     string `validate:"required"`
	MarketID        string `validate:"required"`
	BrokerID        string
	AlgoID          string
	ExchangeOrderID string
	Fields          map[string]string
}

// Build validates the builder and returns the identity. Free-form fields are
// copied so later mutation of the builder's map cannot leak in.
func (b IdentityBuilder) Build() (OrderIdentity, error) {
	if err := validate.Struct(b); err != nil {
		return OrderIdentity{}, fmt.Errorf("order identity: %w", err)
	}
	var fields map[string]string
	if len(b.Fields) > 0 {
		fields = make(map[string]string, len(b.Fields))
		for k, v := range b.Fields {
			fields[k] = v
		}
	}
	return OrderIdentity{
		OrderID:         b.OrderID,
		ClientOrderID:   b.ClientOrderID,
		ExchangeOrderID: b.ExchangeOrderID,
		InstrumentID:    b.InstrumentID,
		PortfolioID:     b.PortfolioID,
		MarketID:        b.MarketID,
		BrokerID:        b.BrokerID,
		AlgoID:          b.AlgoID,
		Fields:          fields,
	}, nil
}

// WithExchangeOrderID rebuilds the identity with the exchange-assigned id.
func (id OrderIdentity) WithExchangeOrderID(exchangeOrderID string) OrderIdentity {
	id.ExchangeOrderID = exchangeOrderID
	return id
}
