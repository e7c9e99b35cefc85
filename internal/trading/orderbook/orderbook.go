// Package orderbook indexes one instrument's live client orders by internal,
// client, and exchange id, bucketed into price levels with time priority.
// No matching happens here: the book only tracks the client's own orders.
package orderbook

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

var ErrNilOrder = errors.New("orderbook: nil order")

// bookIndex is the storage strategy behind an OrderBook: plain maps for
// single-threaded books, concurrent maps plus a reader/writer lock for books
// shared across threads. The lock methods guard price-level mutation; id
// lookups never take them.
type bookIndex interface {
	lock()
	unlock()
	rlock()
	runlock()

	// level returns the bucket for the given price, creating it if absent.
	// Market orders route to the dedicated sentinel level.
	level(price decimal.Decimal, market bool) *PriceLevel
	dropLevel(pl *PriceLevel)
	eachLevel(fn func(pl *PriceLevel) bool)

	store(o *model.Order, pl *PriceLevel)
	remove(o *model.Order) (*PriceLevel, bool)

	order(id string) (*model.Order, bool)
	orderByClientID(id string) (*model.Order, bool)
	orderByExchangeID(id string) (*model.Order, bool)
	bindExchangeID(exchangeOrderID string, o *model.Order)
}

// OrderBook is the per-instrument index of live orders. The storage strategy
// is injected at construction; the book's semantics are identical either way.
type OrderBook struct {
	instrumentID string
	index        bookIndex
	logger       *zap.Logger
}

// NewOrderBook builds a single-threaded book backed by plain maps and a
// price-sorted B-tree. The caller owns all access.
func NewOrderBook(instrumentID string, logger *zap.Logger) *OrderBook {
	return &OrderBook{
		instrumentID: instrumentID,
		index:        newPlainIndex(),
		logger:       logger.Named("orderbook"),
	}
}

// NewConcurrentOrderBook builds a book safe for concurrent use: id indices in
// concurrent maps, level creation via atomic insert-if-absent, and a
// reader/writer lock around level mutation.
func NewConcurrentOrderBook(instrumentID string, logger *zap.Logger) *OrderBook {
	return &OrderBook{
		instrumentID: instrumentID,
		index:        newConcurrentIndex(),
		logger:       logger.Named("orderbook"),
	}
}

// InstrumentID returns the instrument this book belongs to.
func (b *OrderBook) InstrumentID() string { return b.instrumentID }

// Add inserts the order into its price level and all three id indices.
// The order must carry an entry so the book knows its side and type.
func (b *OrderBook) Add(o *model.Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.State.Entry == nil {
		return fmt.Errorf("orderbook: order %s has no entry", o.ID())
	}

	b.index.lock()
	defer b.index.unlock()

	pl := b.index.level(o.State.Price, o.State.IsMarketOrder())
	pl.add(o)
	// Index stores stay inside the write lock so a remove racing an add can
	// never interleave between the level and the id indices.
	b.index.store(o, pl)
	return nil
}

// Remove takes the order out of its level and all id indices. Removing an
// order the book does not hold is a no-op and reports false.
func (b *OrderBook) Remove(o *model.Order) bool {
	if o == nil {
		return false
	}

	b.index.lock()
	defer b.index.unlock()

	pl, ok := b.index.remove(o)
	if !ok {
		return false
	}
	pl.remove(o)
	if pl.empty() && !pl.IsMarketLevel() {
		b.index.dropLevel(pl)
	}
	return true
}

// Get looks up a live order by internal id.
func (b *OrderBook) Get(orderID string) (*model.Order, bool) {
	return b.index.order(orderID)
}

// GetByClientID looks up a live order by client order id.
func (b *OrderBook) GetByClientID(clientOrderID string) (*model.Order, bool) {
	return b.index.orderByClientID(clientOrderID)
}

// GetByExchangeID looks up a live order by exchange-assigned id.
func (b *OrderBook) GetByExchangeID(exchangeOrderID string) (*model.Order, bool) {
	return b.index.orderByExchangeID(exchangeOrderID)
}

// BindExchangeID indexes the order under its exchange-assigned id. Called by
// the lifecycle when the first acknowledgement stamps the id; exchange ids do
// not exist at insert time. The write lock makes the liveness check and the
// store atomic with a racing Remove, so a bind can never resurrect an order
// that terminated on another thread.
func (b *OrderBook) BindExchangeID(o *model.Order) {
	if o == nil || o.Identity.ExchangeOrderID == "" {
		return
	}

	b.index.lock()
	defer b.index.unlock()

	b.index.bindExchangeID(o.Identity.ExchangeOrderID, o)
}

// OutstandingBuyQuantity sums unexecuted quantity over every buy-side order
// across all levels, the market level included.
func (b *OrderBook) OutstandingBuyQuantity() decimal.Decimal {
	b.index.rlock()
	defer b.index.runlock()

	total := decimal.Zero
	b.index.eachLevel(func(pl *PriceLevel) bool {
		total = total.Add(pl.outstandingBuy())
		return true
	})
	return total
}

// OutstandingSellQuantity is the sell-side counterpart of
// OutstandingBuyQuantity.
func (b *OrderBook) OutstandingSellQuantity() decimal.Decimal {
	b.index.rlock()
	defer b.index.runlock()

	total := decimal.Zero
	b.index.eachLevel(func(pl *PriceLevel) bool {
		total = total.Add(pl.outstandingSell())
		return true
	})
	return total
}

// BestBid returns the highest price with resting buy orders. Market orders
// carry no price and are excluded.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	b.index.rlock()
	defer b.index.runlock()

	best := decimal.Zero
	found := false
	b.index.eachLevel(func(pl *PriceLevel) bool {
		if pl.IsMarketLevel() || len(pl.buys) == 0 {
			return true
		}
		if !found || pl.price.GreaterThan(best) {
			best = pl.price
			found = true
		}
		return true
	})
	return best, found
}

// BestAsk returns the lowest price with resting sell orders.
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	b.index.rlock()
	defer b.index.runlock()

	best := decimal.Zero
	found := false
	b.index.eachLevel(func(pl *PriceLevel) bool {
		if pl.IsMarketLevel() || len(pl.sells) == 0 {
			return true
		}
		if !found || pl.price.LessThan(best) {
			best = pl.price
			found = true
		}
		return true
	})
	return best, found
}
