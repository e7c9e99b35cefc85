package model

import "github.com/shopspring/decimal"

// OrderState is the mutable lifecycle state of one order. Pending means the
// most recent entry has been sent downstream but not yet acknowledged; Alive
// means the order is resting or in flight, and turns false once terminal.
type OrderState struct {
	Quantity     decimal.Decimal
	ExecQuantity decimal.Decimal
	Price        decimal.Decimal
	Pending      bool
	Alive        bool
	Entry        *OrderEntry
}

// ApplyEntry installs a fresh entry and pushes its quantity and price onto
// the state. The order becomes pending and alive.
func (s *OrderState) ApplyEntry(e *OrderEntry) {
	s.Entry = e
	s.Quantity = e.Quantity
	s.Price = e.Price
	s.Pending = true
	s.Alive = true
}

// SyncFromEntry re-reads quantity and price from the current entry. Used when
// the exchange acknowledges the entry as working.
func (s *OrderState) SyncFromEntry() {
	if s.Entry == nil {
		return
	}
	s.Quantity = s.Entry.Quantity
	s.Price = s.Entry.Price
}

// PendingOrOnMarket is the unexecuted quantity still exposed to the market:
// quantity minus executed while alive, zero once terminal.
func (s *OrderState) PendingOrOnMarket() decimal.Decimal {
	if !s.Alive {
		return decimal.Zero
	}
	return s.Quantity.Sub(s.ExecQuantity)
}

func (s *OrderState) IsBuy() bool  { return s.Entry != nil && s.Entry.Side.IsBuy() }
func (s *OrderState) IsSell() bool { return s.Entry != nil && s.Entry.Side.IsSell() }

func (s *OrderState) IsMarketOrder() bool {
	return s.Entry != nil && s.Entry.Type == OrderTypeMarket
}
