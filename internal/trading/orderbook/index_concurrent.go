package orderbook

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

// concurrentIndex backs a book shared across threads. Id indices live in
// concurrent maps so lookups never serialize behind book-structure writes;
// the RWMutex guards book mutation (writers: add/remove/bind, readers:
// outstanding-quantity scans). Level creation goes through LoadOrStore so two
// threads first touching the same price converge on one level without
// blocking each other.
type concurrentIndex struct {
	mu sync.RWMutex

	levels      sync.Map // price string -> *PriceLevel
	marketLevel *PriceLevel

	orders     sync.Map // order id -> *model.Order
	byClient   sync.Map // client order id -> *model.Order
	byExchange sync.Map // exchange order id -> *model.Order
	levelOf    sync.Map // order id -> *PriceLevel
}

func newConcurrentIndex() *concurrentIndex {
	return &concurrentIndex{marketLevel: newMarketLevel()}
}

func (x *concurrentIndex) lock()    { x.mu.Lock() }
func (x *concurrentIndex) unlock()  { x.mu.Unlock() }
func (x *concurrentIndex) rlock()   { x.mu.RLock() }
func (x *concurrentIndex) runlock() { x.mu.RUnlock() }

func (x *concurrentIndex) level(price decimal.Decimal, market bool) *PriceLevel {
	if market {
		return x.marketLevel
	}
	key := price.String()
	if v, ok := x.levels.Load(key); ok {
		return v.(*PriceLevel)
	}
	v, _ := x.levels.LoadOrStore(key, newPriceLevel(price))
	return v.(*PriceLevel)
}

func (x *concurrentIndex) dropLevel(pl *PriceLevel) {
	x.levels.Delete(pl.price.String())
}

func (x *concurrentIndex) eachLevel(fn func(pl *PriceLevel) bool) {
	if !fn(x.marketLevel) {
		return
	}
	x.levels.Range(func(_, v any) bool {
		return fn(v.(*PriceLevel))
	})
}

func (x *concurrentIndex) store(o *model.Order, pl *PriceLevel) {
	x.orders.Store(o.ID(), o)
	x.byClient.Store(o.Identity.ClientOrderID, o)
	if o.Identity.ExchangeOrderID != "" {
		x.byExchange.Store(o.Identity.ExchangeOrderID, o)
	}
	x.levelOf.Store(o.ID(), pl)
}

func (x *concurrentIndex) remove(o *model.Order) (*PriceLevel, bool) {
	v, ok := x.levelOf.LoadAndDelete(o.ID())
	if !ok {
		return nil, false
	}
	x.orders.Delete(o.ID())
	x.byClient.Delete(o.Identity.ClientOrderID)
	if o.Identity.ExchangeOrderID != "" {
		x.byExchange.Delete(o.Identity.ExchangeOrderID)
	}
	return v.(*PriceLevel), true
}

func (x *concurrentIndex) order(id string) (*model.Order, bool) {
	v, ok := x.orders.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*model.Order), true
}

func (x *concurrentIndex) orderByClientID(id string) (*model.Order, bool) {
	v, ok := x.byClient.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*model.Order), true
}

func (x *concurrentIndex) orderByExchangeID(id string) (*model.Order, bool) {
	v, ok := x.byExchange.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*model.Order), true
}

func (x *concurrentIndex) bindExchangeID(exchangeOrderID string, o *model.Order) {
	if _, live := x.orders.Load(o.ID()); !live {
		return
	}
	x.byExchange.Store(exchangeOrderID, o)
}
