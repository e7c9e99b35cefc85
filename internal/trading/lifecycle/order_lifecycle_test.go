package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/events"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/orderbook"
)

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, ev events.Event) {
	b.published = append(b.published, ev)
}

func (b *recordingBus) Subscribe(string, events.EventHandler) {}

func newFixture(t *testing.T) (*OrderLifecycle, *orderbook.OrderBook, *recordingBus) {
	t.Helper()
	book := orderbook.NewOrderBook("0005.HK", zap.NewNop())
	bus := &recordingBus{}
	return New(book, bus, zap.NewNop()), book, bus
}

func newOrder(t *testing.T, orderID string) *model.Order {
	t.Helper()
	identity, err := model.IdentityBuilder{
		OrderID:       orderID,
		ClientOrderID: "C-" + orderID,
		InstrumentID:  "0005.HK",
		PortfolioID:   "PF-1",
		MarketID:      "XHKG",
	}.Build()
	require.NoError(t, err)
	return &model.Order{Identity: identity}
}

func createRequest(qty int64, price float64) *model.OrderRequest {
	return &model.OrderRequest{
		Type:      model.RequestCreate,
		Side:      model.SideBuy,
		OrderType: model.OrderTypeLimit,
		Quantity:  decimal.NewFromInt(qty),
		Price:     decimal.NewFromFloat(price),
		CreatedAt: time.Now(),
	}
}

func TestNewRequest_CreateEntersBook(t *testing.T) {
	lc, book, _ := newFixture(t)
	order := newOrder(t, "O-1")

	intent, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)

	assert.Equal(t, "O-1", intent.OrderID)
	assert.Equal(t, "XHKG", intent.MarketID)
	assert.Equal(t, model.RequestCreate, intent.RequestType)
	assert.False(t, intent.TransactTime.IsZero())

	assert.True(t, order.State.Pending)
	assert.True(t, order.State.Alive)
	_, ok := book.Get("O-1")
	assert.True(t, ok)
}

func TestNewRequest_AmendNeverReinserts(t *testing.T) {
	lc, book, _ := newFixture(t)
	order := newOrder(t, "O-1")

	amend := createRequest(500, 25.0)
	amend.Type = model.RequestAmend
	amend.DependentOrderID = "O-1"

	intent, err := lc.NewRequest(context.Background(), order, amend)
	require.NoError(t, err)
	assert.Equal(t, model.RequestAmend, intent.RequestType)

	// The amend replaced the entry but the book was never touched.
	_, ok := book.Get("O-1")
	assert.False(t, ok)
	assert.True(t, order.State.Quantity.Equal(decimal.NewFromInt(500)))
	assert.True(t, order.State.Pending)
}

func TestNewRequest_NilArguments(t *testing.T) {
	lc, _, _ := newFixture(t)
	_, err := lc.NewRequest(context.Background(), nil, createRequest(100, 24.5))
	assert.ErrorIs(t, err, ErrNilOrder)

	_, err = lc.NewRequest(context.Background(), newOrder(t, "O-1"), nil)
	assert.Error(t, err)
}

func TestOnOrderStatus_NewConfirmsAndStampsExchangeID(t *testing.T) {
	lc, book, _ := newFixture(t)
	order := newOrder(t, "O-1")
	_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)

	ack := time.Now()
	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID:         "O-1",
		ExchangeOrderID: "EX-1",
		Status:          model.StatusNew,
		Timestamp:       ack,
	}))

	assert.False(t, order.State.Pending)
	assert.Equal(t, "EX-1", order.Identity.ExchangeOrderID)
	assert.Equal(t, ack, order.State.Entry.Latency.Ack)

	got, ok := book.GetByExchangeID("EX-1")
	require.True(t, ok)
	assert.Same(t, order, got)
}

func TestOnOrderStatus_PendingStatusesAreNoOps(t *testing.T) {
	lc, _, bus := newFixture(t)
	order := newOrder(t, "O-1")
	_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)

	for _, status := range []model.OrderStatus{model.StatusPendingNew, model.StatusPendingCancelReplace} {
		require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
			OrderID: "O-1",
			Status:  status,
		}))
	}
	assert.True(t, order.State.Pending)
	assert.Empty(t, bus.published)
}

func TestOnOrderStatus_ReplacedOnlyConfirmsPendingEntry(t *testing.T) {
	lc, _, _ := newFixture(t)
	order := newOrder(t, "O-1")
	_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)
	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID: "O-1", ExchangeOrderID: "EX-1", Status: model.StatusNew, Timestamp: time.Now(),
	}))

	amend := createRequest(500, 25.0)
	amend.Type = model.RequestAmend
	_, err = lc.NewRequest(context.Background(), order, amend)
	require.NoError(t, err)
	require.True(t, order.State.Pending)

	ack := time.Now()
	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID: "O-1", ExchangeOrderID: "EX-1", Status: model.StatusReplaced, Timestamp: ack,
	}))
	assert.True(t, order.State.Quantity.Equal(decimal.NewFromInt(500)))
	assert.True(t, order.State.Price.Equal(decimal.NewFromFloat(25.0)))
	assert.Equal(t, ack, order.State.Entry.Latency.Ack)

	// A stray replace with nothing pending leaves the state alone.
	order.State.Pending = false
	order.State.Entry.Quantity = decimal.NewFromInt(999)
	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID: "O-1", Status: model.StatusReplaced,
	}))
	assert.True(t, order.State.Quantity.Equal(decimal.NewFromInt(500)))
}

func TestOnOrderStatus_PartialFillPublishesTrade(t *testing.T) {
	lc, book, bus := newFixture(t)
	order := newOrder(t, "O-1")
	_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)

	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID:      "O-1",
		Status:       model.StatusPartiallyFilled,
		ExecQuantity: decimal.NewFromInt(300),
		LastPrice:    decimal.NewFromFloat(24.5),
	}))
	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID:      "O-1",
		Status:       model.StatusPartiallyFilled,
		ExecQuantity: decimal.NewFromInt(700),
		LastPrice:    decimal.NewFromFloat(24.4),
	}))

	assert.True(t, order.State.ExecQuantity.Equal(decimal.NewFromInt(700)))
	assert.True(t, order.State.Alive)
	_, ok := book.Get("O-1")
	assert.True(t, ok)

	// Trades carry the cumulative executed quantity the exchange reported.
	require.Len(t, bus.published, 2)
	first := bus.published[0].Payload.(*events.TradeEvent)
	second := bus.published[1].Payload.(*events.TradeEvent)
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(300)))
	assert.True(t, second.Quantity.Equal(decimal.NewFromInt(700)))
	assert.True(t, second.Price.Equal(decimal.NewFromFloat(24.4)))
	assert.Equal(t, "PF-1", first.PortfolioID)
	assert.Equal(t, events.TopicTrade, bus.published[0].Topic)
}

func TestOnOrderStatus_FilledTerminatesAndRemoves(t *testing.T) {
	lc, book, bus := newFixture(t)
	order := newOrder(t, "O-1")
	_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)

	require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID:      "O-1",
		Status:       model.StatusFilled,
		ExecQuantity: decimal.NewFromInt(1000),
		LastPrice:    decimal.NewFromFloat(24.5),
	}))

	assert.False(t, order.State.Alive)
	assert.True(t, order.State.PendingOrOnMarket().IsZero())
	_, ok := book.Get("O-1")
	assert.False(t, ok)

	require.Len(t, bus.published, 1)
	trade := bus.published[0].Payload.(*events.TradeEvent)
	assert.True(t, trade.Quantity.Equal(decimal.NewFromInt(1000)))
}

func TestOnOrderStatus_TerminalWithoutFill(t *testing.T) {
	for _, status := range []model.OrderStatus{
		model.StatusDoneForDay, model.StatusCancelled, model.StatusRejected, model.StatusExpired,
	} {
		t.Run(status.String(), func(t *testing.T) {
			lc, book, bus := newFixture(t)
			order := newOrder(t, "O-1")
			_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
			require.NoError(t, err)

			require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
				OrderID: "O-1", Status: status,
			}))
			assert.False(t, order.State.Alive)
			_, ok := book.Get("O-1")
			assert.False(t, ok)
			assert.Empty(t, bus.published)
		})
	}
}

func TestOnOrderStatus_UnsupportedAndUnknown(t *testing.T) {
	lc, _, _ := newFixture(t)
	order := newOrder(t, "O-1")
	_, err := lc.NewRequest(context.Background(), order, createRequest(1000, 24.5))
	require.NoError(t, err)

	for _, status := range []model.OrderStatus{
		model.StatusStopped, model.StatusSuspended, model.StatusCalculated,
	} {
		require.NoError(t, lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
			OrderID: "O-1", Status: status,
		}))
		assert.True(t, order.State.Alive)
	}

	err = lc.OnOrderStatus(context.Background(), order, &events.OrderStatusEvent{
		OrderID: "O-1", Status: model.OrderStatus(99),
	})
	assert.Error(t, err)
}

func TestOnOrderStatus_NilArguments(t *testing.T) {
	lc, _, _ := newFixture(t)
	assert.ErrorIs(t, lc.OnOrderStatus(context.Background(), nil, &events.OrderStatusEvent{}), ErrNilOrder)
	assert.ErrorIs(t, lc.OnOrderStatus(context.Background(), newOrder(t, "O-1"), nil), ErrNilEvent)
}
