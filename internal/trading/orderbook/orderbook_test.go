package orderbook

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

func newTestOrder(t *testing.T, orderID, clientID string, side model.Side, typ model.OrderType, qty int64, price float64) *model.Order {
	t.Helper()
	identity, err := model.IdentityBuilder{
		OrderID:       orderID,
		ClientOrderID: clientID,
		InstrumentID:  "0005.HK",
		PortfolioID:   "PF-1",
		MarketID:      "XHKG",
	}.Build()
	require.NoError(t, err)

	o := &model.Order{Identity: identity}
	o.State.ApplyEntry(model.NewOrderEntry(&model.OrderRequest{
		Type:      model.RequestCreate,
		Side:      side,
		OrderType: typ,
		Quantity:  decimal.NewFromInt(qty),
		Price:     decimal.NewFromFloat(price),
		CreatedAt: time.Now(),
	}))
	return o
}

func bothVariants(t *testing.T, fn func(t *testing.T, book *OrderBook)) {
	t.Helper()
	t.Run("plain", func(t *testing.T) {
		fn(t, NewOrderBook("0005.HK", zap.NewNop()))
	})
	t.Run("concurrent", func(t *testing.T) {
		fn(t, NewConcurrentOrderBook("0005.HK", zap.NewNop()))
	})
}

func TestOrderBook_AddAndLookup(t *testing.T) {
	bothVariants(t, func(t *testing.T, book *OrderBook) {
		o := newTestOrder(t, "O-1", "C-1", model.SideBuy, model.OrderTypeLimit, 1000, 24.5)
		require.NoError(t, book.Add(o))

		got, ok := book.Get("O-1")
		require.True(t, ok)
		assert.Same(t, o, got)

		got, ok = book.GetByClientID("C-1")
		require.True(t, ok)
		assert.Same(t, o, got)

		_, ok = book.GetByExchangeID("EX-1")
		assert.False(t, ok)

		o.Identity = o.Identity.WithExchangeOrderID("EX-1")
		book.BindExchangeID(o)
		got, ok = book.GetByExchangeID("EX-1")
		require.True(t, ok)
		assert.Same(t, o, got)
	})
}

func TestOrderBook_RemoveClearsEveryIndex(t *testing.T) {
	bothVariants(t, func(t *testing.T, book *OrderBook) {
		o := newTestOrder(t, "O-1", "C-1", model.SideSell, model.OrderTypeLimit, 500, 101.0)
		require.NoError(t, book.Add(o))
		o.Identity = o.Identity.WithExchangeOrderID("EX-1")
		book.BindExchangeID(o)

		assert.True(t, book.Remove(o))

		_, ok := book.Get("O-1")
		assert.False(t, ok)
		_, ok = book.GetByClientID("C-1")
		assert.False(t, ok)
		_, ok = book.GetByExchangeID("EX-1")
		assert.False(t, ok)
		assert.True(t, book.OutstandingSellQuantity().IsZero())

		// Removing again is a no-op.
		assert.False(t, book.Remove(o))
	})
}

func TestOrderBook_NilAndEntrylessOrders(t *testing.T) {
	bothVariants(t, func(t *testing.T, book *OrderBook) {
		assert.ErrorIs(t, book.Add(nil), ErrNilOrder)
		assert.False(t, book.Remove(nil))

		bare := &model.Order{}
		assert.Error(t, book.Add(bare))
	})
}

func TestOrderBook_OutstandingQuantities(t *testing.T) {
	bothVariants(t, func(t *testing.T, book *OrderBook) {
		buy1 := newTestOrder(t, "O-1", "C-1", model.SideBuy, model.OrderTypeLimit, 1000, 24.5)
		buy2 := newTestOrder(t, "O-2", "C-2", model.SideCoverShort, model.OrderTypeLimit, 400, 24.6)
		buyMkt := newTestOrder(t, "O-3", "C-3", model.SideBuy, model.OrderTypeMarket, 200, 0)
		sell := newTestOrder(t, "O-4", "C-4", model.SideSellShort, model.OrderTypeLimit, 300, 24.8)
		for _, o := range []*model.Order{buy1, buy2, buyMkt, sell} {
			require.NoError(t, book.Add(o))
		}

		// Partially executed quantity drops out of the outstanding sum.
		buy1.State.ExecQuantity = decimal.NewFromInt(250)

		assert.True(t, book.OutstandingBuyQuantity().Equal(decimal.NewFromInt(750+400+200)),
			"got %s", book.OutstandingBuyQuantity())
		assert.True(t, book.OutstandingSellQuantity().Equal(decimal.NewFromInt(300)))

		// Terminal orders contribute zero even before removal.
		sell.State.Alive = false
		assert.True(t, book.OutstandingSellQuantity().IsZero())
	})
}

func TestOrderBook_TimePriorityWithinLevel(t *testing.T) {
	bothVariants(t, func(t *testing.T, book *OrderBook) {
		first := newTestOrder(t, "O-1", "C-1", model.SideBuy, model.OrderTypeLimit, 100, 24.5)
		second := newTestOrder(t, "O-2", "C-2", model.SideBuy, model.OrderTypeLimit, 200, 24.5)
		third := newTestOrder(t, "O-3", "C-3", model.SideBuy, model.OrderTypeLimit, 300, 24.5)
		for _, o := range []*model.Order{first, second, third} {
			require.NoError(t, book.Add(o))
		}

		var level *PriceLevel
		book.index.eachLevel(func(pl *PriceLevel) bool {
			if !pl.IsMarketLevel() {
				level = pl
				return false
			}
			return true
		})
		require.NotNil(t, level)

		queue := level.Buys()
		require.Len(t, queue, 3)
		assert.Equal(t, "O-1", queue[0].ID())
		assert.Equal(t, "O-2", queue[1].ID())
		assert.Equal(t, "O-3", queue[2].ID())

		// Removing from the middle keeps the remaining FIFO order.
		require.True(t, book.Remove(second))
		queue = level.Buys()
		require.Len(t, queue, 2)
		assert.Equal(t, "O-1", queue[0].ID())
		assert.Equal(t, "O-3", queue[1].ID())
	})
}

func TestOrderBook_BestBidAndAsk(t *testing.T) {
	bothVariants(t, func(t *testing.T, book *OrderBook) {
		_, ok := book.BestBid()
		assert.False(t, ok)

		require.NoError(t, book.Add(newTestOrder(t, "O-1", "C-1", model.SideBuy, model.OrderTypeLimit, 100, 24.4)))
		require.NoError(t, book.Add(newTestOrder(t, "O-2", "C-2", model.SideBuy, model.OrderTypeLimit, 100, 24.5)))
		require.NoError(t, book.Add(newTestOrder(t, "O-3", "C-3", model.SideSell, model.OrderTypeLimit, 100, 24.7)))
		require.NoError(t, book.Add(newTestOrder(t, "O-4", "C-4", model.SideSell, model.OrderTypeLimit, 100, 24.6)))
		// Market orders never contribute to top of book.
		require.NoError(t, book.Add(newTestOrder(t, "O-5", "C-5", model.SideBuy, model.OrderTypeMarket, 100, 0)))

		bid, ok := book.BestBid()
		require.True(t, ok)
		assert.True(t, bid.Equal(decimal.NewFromFloat(24.5)))

		ask, ok := book.BestAsk()
		require.True(t, ok)
		assert.True(t, ask.Equal(decimal.NewFromFloat(24.6)))
	})
}

func TestConcurrentOrderBook_RacingAddsAndScans(t *testing.T) {
	book := NewConcurrentOrderBook("0005.HK", zap.NewNop())
	const n = 1000

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := newTestOrder(t,
				fmt.Sprintf("O-%d", i), fmt.Sprintf("C-%d", i),
				model.SideBuy, model.OrderTypeLimit, 10, 24.0+float64(i%10)/10)
			assert.NoError(t, book.Add(o))
		}(i)
	}
	// Aggregate scans run concurrently with the writers.
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = book.OutstandingBuyQuantity()
		}()
	}
	wg.Wait()

	assert.True(t, book.OutstandingBuyQuantity().Equal(decimal.NewFromInt(n*10)))
	for i := 0; i < n; i++ {
		_, ok := book.Get(fmt.Sprintf("O-%d", i))
		require.True(t, ok)
	}
}

func TestConcurrentOrderBook_RacingBindAndRemove(t *testing.T) {
	book := NewConcurrentOrderBook("0005.HK", zap.NewNop())
	const n = 300

	orders := make([]*model.Order, n)
	for i := range orders {
		orders[i] = newTestOrder(t,
			fmt.Sprintf("O-%d", i), fmt.Sprintf("C-%d", i),
			model.SideBuy, model.OrderTypeLimit, 10, 24.5)
		require.NoError(t, book.Add(orders[i]))
		orders[i].Identity = orders[i].Identity.WithExchangeOrderID(fmt.Sprintf("EX-%d", i))
	}

	// Bind and remove race per order. Whatever order they land in, a removed
	// order must never stay reachable through the exchange-id index.
	var wg sync.WaitGroup
	for _, o := range orders {
		wg.Add(2)
		go func(o *model.Order) {
			defer wg.Done()
			book.BindExchangeID(o)
		}(o)
		go func(o *model.Order) {
			defer wg.Done()
			book.Remove(o)
		}(o)
	}
	wg.Wait()

	for i := range orders {
		_, ok := book.GetByExchangeID(fmt.Sprintf("EX-%d", i))
		assert.False(t, ok, "order O-%d removed but still bound by exchange id", i)
	}
}

func TestConcurrentOrderBook_RacingAddAndRemove(t *testing.T) {
	book := NewConcurrentOrderBook("0005.HK", zap.NewNop())
	const n = 500

	orders := make([]*model.Order, n)
	for i := range orders {
		orders[i] = newTestOrder(t,
			fmt.Sprintf("O-%d", i), fmt.Sprintf("C-%d", i),
			model.SideSell, model.OrderTypeLimit, 10, 25.0)
		require.NoError(t, book.Add(orders[i]))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(o *model.Order) {
			defer wg.Done()
			assert.True(t, book.Remove(o))
		}(orders[i])
	}
	wg.Wait()

	assert.True(t, book.OutstandingSellQuantity().IsZero())
}
