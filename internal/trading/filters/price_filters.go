package filters

import (
	"fmt"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/refdata"
)

// Price-based checks do not apply to market orders, which carry no limit
// price.

// PriceRangeFilter keeps the limit price inside the configured band.
type PriceRangeFilter struct {
	params ParameterManager
}

func NewPriceRangeFilter(params ParameterManager) *PriceRangeFilter {
	return &PriceRangeFilter{params: params}
}

func (f *PriceRangeFilter) Name() string { return "price_range" }

func (f *PriceRangeFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if req.OrderType == model.OrderTypeMarket {
		return true, nil
	}
	fr := filterRequest(req)
	if req.Price.GreaterThanOrEqual(f.params.MinPrice(fr)) &&
		req.Price.LessThanOrEqual(f.params.MaxPrice(fr)) {
		return true, nil
	}
	req.Reject(model.ReasonPriceRange)
	return false, nil
}

// MaxSpreadFilter bounds how far the limit price may sit from the last traded
// price.
type MaxSpreadFilter struct {
	states refdata.TradingStateResolver
	params ParameterManager
}

func NewMaxSpreadFilter(states refdata.TradingStateResolver, params ParameterManager) *MaxSpreadFilter {
	return &MaxSpreadFilter{states: states, params: params}
}

func (f *MaxSpreadFilter) Name() string { return "max_spread" }

func (f *MaxSpreadFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if req.OrderType == model.OrderTypeMarket {
		return true, nil
	}
	st, ok := f.states.TradingState(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTradingState, req.InstrumentID)
	}
	spread := st.Market.LastTradedPrice().Sub(req.Price).Abs()
	if spread.LessThanOrEqual(f.params.MaxSpread(filterRequest(req))) {
		return true, nil
	}
	req.Reject(model.ReasonMaxSpread)
	return false, nil
}

// TickSizeFilter verifies the limit price lies on the market's tick grid.
type TickSizeFilter struct {
	instruments refdata.InstrumentResolver
	markets     refdata.MarketResolver
}

func NewTickSizeFilter(instruments refdata.InstrumentResolver, markets refdata.MarketResolver) *TickSizeFilter {
	return &TickSizeFilter{instruments: instruments, markets: markets}
}

func (f *TickSizeFilter) Name() string { return "tick_size" }

func (f *TickSizeFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if req.OrderType == model.OrderTypeMarket {
		return true, nil
	}
	inst, ok := f.instruments.Instrument(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownInstrument, req.InstrumentID)
	}
	mkt, ok := f.markets.Market(inst.MarketID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownMarket, inst.MarketID)
	}
	if mkt.ValidTick(req.Price) {
		return true, nil
	}
	req.Reject(model.ReasonTickSize)
	return false, nil
}
