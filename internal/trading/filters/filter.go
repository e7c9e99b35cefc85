// Package filters implements the pre-trade risk checks that gate order
// requests. Each filter either passes a request untouched or annotates it
// with a rejection reason; resolver failures are hard errors, not
// rejections, because they indicate a wiring bug.
package filters

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

var (
	ErrNilRequest          = errors.New("filters: nil order request")
	ErrUnknownInstrument   = errors.New("filters: unknown instrument")
	ErrUnknownTradingState = errors.New("filters: no trading state for instrument")
	ErrUnknownMarket       = errors.New("filters: unknown market")
)

// Filter is one named pre-trade check. Check returns true when the request
// passes, with no side effect; on violation it records the reason on the
// request and returns false. A non-nil error means the check could not run
// at all (absent request, unresolved reference data).
type Filter interface {
	Check(req *model.OrderRequest) (bool, error)
	Name() string
}

// FilterRequest keys a limit lookup: limits are configured per instrument,
// optionally overridden per portfolio.
type FilterRequest struct {
	InstrumentID string
	PortfolioID  string
}

// ParameterManager resolves configured risk limits for a filter request.
type ParameterManager interface {
	MaxLong(req FilterRequest) decimal.Decimal
	MaxShort(req FilterRequest) decimal.Decimal
	MaxNotional(req FilterRequest) decimal.Decimal
	MaxQuantity(req FilterRequest) decimal.Decimal
	MaxSpread(req FilterRequest) decimal.Decimal
	MinPrice(req FilterRequest) decimal.Decimal
	MaxPrice(req FilterRequest) decimal.Decimal
	ShortAllowed(req FilterRequest) bool
	Restricted(req FilterRequest) bool
}

func filterRequest(req *model.OrderRequest) FilterRequest {
	return FilterRequest{InstrumentID: req.InstrumentID, PortfolioID: req.PortfolioID}
}
