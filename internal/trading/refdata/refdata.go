// Package refdata holds instrument, market, and portfolio reference data and
// the resolver interfaces the order-management core consumes.
package refdata

import "github.com/shopspring/decimal"

// Instrument is the tradeable definition the core needs: lot size for
// quantity checks, multiplier for notional, and the market it trades on.
type Instrument struct {
	ID         string
	MarketID   string
	LotSize    decimal.Decimal
	Multiplier decimal.Decimal
}

// Market carries the venue's tick configuration.
type Market struct {
	ID       string
	TickSize decimal.Decimal
}

// ValidTick reports whether price lies on the market's tick grid. A zero tick
// size means the grid is unconstrained.
func (m *Market) ValidTick(price decimal.Decimal) bool {
	if m.TickSize.IsZero() {
		return true
	}
	return price.Mod(m.TickSize).IsZero()
}

// Portfolio identifies a book of positions owned by a strategy or desk.
type Portfolio struct {
	ID   string
	Name string
}

// PositionBook exposes the net position for one instrument and portfolio.
// Position accounting itself lives outside this core.
type PositionBook interface {
	Net() decimal.Decimal
}

// MarketBook exposes the market-data view the risk checks read.
type MarketBook interface {
	LastTradedPrice() decimal.Decimal
}

// OutstandingBook is the slice of the order book the risk checks read:
// unexecuted quantity resting or in flight per side.
type OutstandingBook interface {
	OutstandingBuyQuantity() decimal.Decimal
	OutstandingSellQuantity() decimal.Decimal
}

// TradingState bundles the per-instrument views a filter needs.
type TradingState struct {
	Positions PositionBook
	Orders    OutstandingBook
	Market    MarketBook
}

// InstrumentResolver resolves instrument reference data.
type InstrumentResolver interface {
	Instrument(id string) (*Instrument, bool)
}

// MarketResolver resolves market reference data.
type MarketResolver interface {
	Market(id string) (*Market, bool)
}

// PortfolioResolver resolves portfolio reference data.
type PortfolioResolver interface {
	Portfolio(id string) (*Portfolio, bool)
}

// TradingStateResolver resolves the live trading state for an instrument.
type TradingStateResolver interface {
	TradingState(instrumentID string) (*TradingState, bool)
}

// PositionBookFunc adapts a function to PositionBook.
type PositionBookFunc func() decimal.Decimal

func (f PositionBookFunc) Net() decimal.Decimal { return f() }

// MarketBookFunc adapts a function to MarketBook.
type MarketBookFunc func() decimal.Decimal

func (f MarketBookFunc) LastTradedPrice() decimal.Decimal { return f() }
