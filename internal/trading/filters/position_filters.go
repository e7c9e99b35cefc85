package filters

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/refdata"
)

// The long and short limit comparisons below reproduce the observed behavior
// literally, sign conventions included. The boundary asymmetry between the
// two is known and pending product confirmation; do not "fix" one side
// without the other.

// MaxLongFilter rejects buys that would push net position plus outstanding
// buys past the configured long limit.
type MaxLongFilter struct {
	states refdata.TradingStateResolver
	params ParameterManager
}

func NewMaxLongFilter(states refdata.TradingStateResolver, params ParameterManager) *MaxLongFilter {
	return &MaxLongFilter{states: states, params: params}
}

func (f *MaxLongFilter) Name() string { return "max_long" }

func (f *MaxLongFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if !req.Side.IsBuy() {
		return true, nil
	}
	st, ok := f.states.TradingState(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTradingState, req.InstrumentID)
	}
	prospective := st.Positions.Net().
		Add(st.Orders.OutstandingBuyQuantity()).
		Add(req.Quantity)
	if prospective.LessThanOrEqual(f.params.MaxLong(filterRequest(req))) {
		return true, nil
	}
	req.Reject(model.ReasonMaxLong)
	return false, nil
}

// MaxShortFilter rejects sells that would push net position minus outstanding
// sells below the negated short limit.
type MaxShortFilter struct {
	states refdata.TradingStateResolver
	params ParameterManager
}

func NewMaxShortFilter(states refdata.TradingStateResolver, params ParameterManager) *MaxShortFilter {
	return &MaxShortFilter{states: states, params: params}
}

func (f *MaxShortFilter) Name() string { return "max_short" }

func (f *MaxShortFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if !req.Side.IsSell() {
		return true, nil
	}
	st, ok := f.states.TradingState(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTradingState, req.InstrumentID)
	}
	prospective := st.Positions.Net().
		Sub(st.Orders.OutstandingSellQuantity()).
		Sub(req.Quantity)
	if prospective.GreaterThanOrEqual(f.params.MaxShort(filterRequest(req)).Neg()) {
		return true, nil
	}
	req.Reject(model.ReasonMaxShort)
	return false, nil
}

// ShortSellFilter blocks sells that would take the position below flat when
// shorting is not allowed for the instrument/portfolio.
type ShortSellFilter struct {
	states refdata.TradingStateResolver
	params ParameterManager
}

func NewShortSellFilter(states refdata.TradingStateResolver, params ParameterManager) *ShortSellFilter {
	return &ShortSellFilter{states: states, params: params}
}

func (f *ShortSellFilter) Name() string { return "short_sell" }

func (f *ShortSellFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if !req.Side.IsSell() {
		return true, nil
	}
	if f.params.ShortAllowed(filterRequest(req)) {
		return true, nil
	}
	st, ok := f.states.TradingState(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTradingState, req.InstrumentID)
	}
	remaining := st.Positions.Net().
		Sub(st.Orders.OutstandingSellQuantity()).
		Sub(req.Quantity)
	if remaining.GreaterThanOrEqual(decimal.Zero) {
		return true, nil
	}
	req.Reject(model.ReasonShortSell)
	return false, nil
}
