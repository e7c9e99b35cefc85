package refdata

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Registry is an in-memory reference-data store with O(1) lookups. It backs
// every resolver interface in this package so a single instance can be wired
// into the filter chain and the manager. Registration and resolution are safe
// to call concurrently.
type Registry struct {
	instruments sync.Map // id -> *Instrument
	markets     sync.Map // id -> *Market
	portfolios  sync.Map // id -> *Portfolio
	states      sync.Map // instrument id -> *TradingState

	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger.Named("refdata")}
}

// RegisterInstrument adds or replaces an instrument definition.
func (r *Registry) RegisterInstrument(inst *Instrument) error {
	if inst == nil {
		return fmt.Errorf("refdata: instrument cannot be nil")
	}
	if inst.ID == "" {
		return fmt.Errorf("refdata: instrument id cannot be empty")
	}
	r.instruments.Store(inst.ID, inst)
	r.logger.Info("registered instrument",
		zap.String("instrument_id", inst.ID),
		zap.String("market_id", inst.MarketID))
	return nil
}

// RegisterMarket adds or replaces a market definition.
func (r *Registry) RegisterMarket(mkt *Market) error {
	if mkt == nil {
		return fmt.Errorf("refdata: market cannot be nil")
	}
	if mkt.ID == "" {
		return fmt.Errorf("refdata: market id cannot be empty")
	}
	r.markets.Store(mkt.ID, mkt)
	r.logger.Info("registered market", zap.String("market_id", mkt.ID))
	return nil
}

// RegisterPortfolio adds or replaces a portfolio.
func (r *Registry) RegisterPortfolio(pf *Portfolio) error {
	if pf == nil {
		return fmt.Errorf("refdata: portfolio cannot be nil")
	}
	if pf.ID == "" {
		return fmt.Errorf("refdata: portfolio id cannot be empty")
	}
	r.portfolios.Store(pf.ID, pf)
	r.logger.Info("registered portfolio", zap.String("portfolio_id", pf.ID))
	return nil
}

// BindTradingState attaches the live position/order/market views for an
// instrument. Filters resolve through this binding on every check.
func (r *Registry) BindTradingState(instrumentID string, state *TradingState) error {
	if state == nil {
		return fmt.Errorf("refdata: trading state cannot be nil")
	}
	if instrumentID == "" {
		return fmt.Errorf("refdata: instrument id cannot be empty")
	}
	r.states.Store(instrumentID, state)
	return nil
}

func (r *Registry) Instrument(id string) (*Instrument, bool) {
	v, ok := r.instruments.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Instrument), true
}

func (r *Registry) Market(id string) (*Market, bool) {
	v, ok := r.markets.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Market), true
}

func (r *Registry) Portfolio(id string) (*Portfolio, bool) {
	v, ok := r.portfolios.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Portfolio), true
}

func (r *Registry) TradingState(instrumentID string) (*TradingState, bool) {
	v, ok := r.states.Load(instrumentID)
	if !ok {
		return nil, false
	}
	return v.(*TradingState), true
}
