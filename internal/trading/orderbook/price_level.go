package orderbook

import (
	"github.com/shopspring/decimal"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

// PriceLevel holds the client's own orders resting at one price, one
// time-ordered queue per side. Market orders live in a dedicated sentinel
// level with no price. An order appears in at most one level at a time, and
// within a side iteration order is FIFO by arrival.
//
// Levels carry no locking of their own: all mutation happens under the owning
// index's write lock, all scans under its read lock.
type PriceLevel struct {
	price  decimal.Decimal
	market bool
	buys   []*model.Order
	sells  []*model.Order
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{price: price}
}

func newMarketLevel() *PriceLevel {
	return &PriceLevel{market: true}
}

// Price returns the level's price; zero for the market level.
func (pl *PriceLevel) Price() decimal.Decimal { return pl.price }

// IsMarketLevel reports whether this is the sentinel bucket for market orders.
func (pl *PriceLevel) IsMarketLevel() bool { return pl.market }

func (pl *PriceLevel) add(o *model.Order) {
	if o.State.IsBuy() {
		pl.buys = append(pl.buys, o)
		return
	}
	pl.sells = append(pl.sells, o)
}

// remove deletes the order from whichever side it rests on, preserving the
// FIFO order of the remaining queue.
func (pl *PriceLevel) remove(o *model.Order) bool {
	if removed, rest := deleteOrder(pl.buys, o.ID()); removed {
		pl.buys = rest
		return true
	}
	if removed, rest := deleteOrder(pl.sells, o.ID()); removed {
		pl.sells = rest
		return true
	}
	return false
}

func deleteOrder(queue []*model.Order, orderID string) (bool, []*model.Order) {
	for i, o := range queue {
		if o.ID() == orderID {
			return true, append(queue[:i], queue[i+1:]...)
		}
	}
	return false, queue
}

func (pl *PriceLevel) empty() bool {
	return len(pl.buys) == 0 && len(pl.sells) == 0
}

// Buys returns the buy-side queue in time priority.
func (pl *PriceLevel) Buys() []*model.Order {
	out := make([]*model.Order, len(pl.buys))
	copy(out, pl.buys)
	return out
}

// Sells returns the sell-side queue in time priority.
func (pl *PriceLevel) Sells() []*model.Order {
	out := make([]*model.Order, len(pl.sells))
	copy(out, pl.sells)
	return out
}

func (pl *PriceLevel) outstandingBuy() decimal.Decimal {
	total := decimal.Zero
	for _, o := range pl.buys {
		total = total.Add(o.State.PendingOrOnMarket())
	}
	return total
}

func (pl *PriceLevel) outstandingSell() decimal.Decimal {
	total := decimal.Zero
	for _, o := range pl.sells {
		total = total.Add(o.State.PendingOrOnMarket())
	}
	return total
}
