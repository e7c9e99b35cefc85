package orderbook

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

// plainIndex backs a single-threaded book: a price-sorted B-tree of levels
// and plain maps for the id indices. The lock methods are no-ops.
type plainIndex struct {
	levels      *btree.BTreeG[*PriceLevel]
	marketLevel *PriceLevel

	orders     map[string]*model.Order
	byClient   map[string]*model.Order
	byExchange map[string]*model.Order
	levelOf    map[string]*PriceLevel
}

func newPlainIndex() *plainIndex {
	return &plainIndex{
		levels: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.price.LessThan(b.price)
		}),
		marketLevel: newMarketLevel(),
		orders:      make(map[string]*model.Order),
		byClient:    make(map[string]*model.Order),
		byExchange:  make(map[string]*model.Order),
		levelOf:     make(map[string]*PriceLevel),
	}
}

func (x *plainIndex) lock()    {}
func (x *plainIndex) unlock()  {}
func (x *plainIndex) rlock()   {}
func (x *plainIndex) runlock() {}

func (x *plainIndex) level(price decimal.Decimal, market bool) *PriceLevel {
	if market {
		return x.marketLevel
	}
	pivot := &PriceLevel{price: price}
	if pl, ok := x.levels.Get(pivot); ok {
		return pl
	}
	pl := newPriceLevel(price)
	x.levels.Set(pl)
	return pl
}

func (x *plainIndex) dropLevel(pl *PriceLevel) {
	x.levels.Delete(pl)
}

func (x *plainIndex) eachLevel(fn func(pl *PriceLevel) bool) {
	if !fn(x.marketLevel) {
		return
	}
	x.levels.Scan(fn)
}

func (x *plainIndex) store(o *model.Order, pl *PriceLevel) {
	x.orders[o.ID()] = o
	x.byClient[o.Identity.ClientOrderID] = o
	if o.Identity.ExchangeOrderID != "" {
		x.byExchange[o.Identity.ExchangeOrderID] = o
	}
	x.levelOf[o.ID()] = pl
}

func (x *plainIndex) remove(o *model.Order) (*PriceLevel, bool) {
	pl, ok := x.levelOf[o.ID()]
	if !ok {
		return nil, false
	}
	delete(x.levelOf, o.ID())
	delete(x.orders, o.ID())
	delete(x.byClient, o.Identity.ClientOrderID)
	if o.Identity.ExchangeOrderID != "" {
		delete(x.byExchange, o.Identity.ExchangeOrderID)
	}
	return pl, true
}

func (x *plainIndex) order(id string) (*model.Order, bool) {
	o, ok := x.orders[id]
	return o, ok
}

func (x *plainIndex) orderByClientID(id string) (*model.Order, bool) {
	o, ok := x.byClient[id]
	return o, ok
}

func (x *plainIndex) orderByExchangeID(id string) (*model.Order, bool) {
	o, ok := x.byExchange[id]
	return o, ok
}

func (x *plainIndex) bindExchangeID(exchangeOrderID string, o *model.Order) {
	if _, live := x.orders[o.ID()]; !live {
		return
	}
	x.byExchange[exchangeOrderID] = o
}
