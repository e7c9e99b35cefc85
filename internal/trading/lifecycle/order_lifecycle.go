// Package lifecycle applies accepted requests to orders and drives order
// state from exchange acknowledgements.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/events"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/orderbook"
	"github.com/darknessitachi/kunzite-sub000/pkg/metrics"
)

var (
	ErrNilOrder = errors.New("lifecycle: nil order")
	ErrNilEvent = errors.New("lifecycle: nil status event")
)

// OrderLifecycle owns the state transitions of orders in one instrument's
// book. The manager hands it accepted requests and exchange status events;
// everything that mutates OrderState after acceptance happens here.
type OrderLifecycle struct {
	book   *orderbook.OrderBook
	bus    events.EventBus
	logger *zap.Logger
}

func New(book *orderbook.OrderBook, bus events.EventBus, logger *zap.Logger) *OrderLifecycle {
	return &OrderLifecycle{book: book, bus: bus, logger: logger}
}

// NewRequest applies an accepted request to its order and returns the wire
// intent to transmit. Create requests enter the book; amend and cancel
// requests address an order already resting there and never re-insert it.
func (lc *OrderLifecycle) NewRequest(ctx context.Context, order *model.Order, req *model.OrderRequest) (*model.NewOrder, error) {
	if order == nil {
		return nil, ErrNilOrder
	}
	if req == nil {
		return nil, errors.New("lifecycle: nil request")
	}

	order.State.ApplyEntry(model.NewOrderEntry(req))
	if req.Type == model.RequestCreate {
		if err := lc.book.Add(order); err != nil {
			return nil, err
		}
	}

	return &model.NewOrder{
		OrderID:          order.Identity.OrderID,
		ClientOrderID:    order.Identity.ClientOrderID,
		InstrumentID:     order.Identity.InstrumentID,
		MarketID:         order.Identity.MarketID,
		BrokerID:         order.Identity.BrokerID,
		AlgoID:           order.Identity.AlgoID,
		Side:             req.Side,
		Type:             req.OrderType,
		TimeInForce:      req.TimeInForce,
		Quantity:         req.Quantity,
		Price:            req.Price,
		RequestType:      req.Type,
		DependentOrderID: req.DependentOrderID,
		TransactTime:     time.Now(),
	}, nil
}

// OnOrderStatus applies one exchange status event to the order. The status
// set is closed; an unrecognized value is an error, not a silent skip.
func (lc *OrderLifecycle) OnOrderStatus(ctx context.Context, order *model.Order, ev *events.OrderStatusEvent) error {
	if order == nil {
		return ErrNilOrder
	}
	if ev == nil {
		return ErrNilEvent
	}
	metrics.StatusEvents.WithLabelValues(ev.Status.String()).Inc()

	switch ev.Status {
	case model.StatusPendingNew, model.StatusPendingCancelReplace:
		// Interim acks carry no state the core tracks.

	case model.StatusNew:
		order.State.Pending = false
		order.State.SyncFromEntry()
		lc.stampExchangeID(order, ev)

	case model.StatusReplaced:
		// The replace ack for an amend the core never saw leaves the state
		// untouched; only a pending entry gets confirmed.
		if order.State.Pending {
			order.State.SyncFromEntry()
			lc.stampExchangeID(order, ev)
		}

	case model.StatusPartiallyFilled:
		order.State.ExecQuantity = ev.ExecQuantity
		lc.publishTrade(ctx, order, ev)

	case model.StatusFilled:
		order.State.ExecQuantity = ev.ExecQuantity
		order.State.Alive = false
		lc.book.Remove(order)
		lc.publishTrade(ctx, order, ev)

	case model.StatusDoneForDay, model.StatusCancelled, model.StatusRejected, model.StatusExpired:
		order.State.Alive = false
		lc.book.Remove(order)

	case model.StatusStopped, model.StatusSuspended, model.StatusCalculated:
		lc.logger.Warn("unsupported order status",
			zap.String("order_id", order.ID()),
			zap.Stringer("status", ev.Status))

	default:
		return fmt.Errorf("lifecycle: unhandled order status %s", ev.Status)
	}
	return nil
}

// stampExchangeID records the exchange-assigned id on the first ack that
// carries one, indexes it in the book, and marks the ack time.
func (lc *OrderLifecycle) stampExchangeID(order *model.Order, ev *events.OrderStatusEvent) {
	if ev.ExchangeOrderID != "" && order.Identity.ExchangeOrderID == "" {
		order.Identity = order.Identity.WithExchangeOrderID(ev.ExchangeOrderID)
		lc.book.BindExchangeID(order)
	}
	if order.State.Entry != nil {
		order.State.Entry.Latency.MarkAck(ev.Timestamp)
	}
}

// publishTrade reports the fill exactly as the exchange stated it: the
// quantity is the event's cumulative executed quantity, not a delta.
// Downstream position accounting reconciles against it.
func (lc *OrderLifecycle) publishTrade(ctx context.Context, order *model.Order, ev *events.OrderStatusEvent) {
	side := model.SideBuy
	if order.State.Entry != nil {
		side = order.State.Entry.Side
	}
	lc.bus.Publish(ctx, events.Event{
		Topic: events.TopicTrade,
		Type:  events.TypeTrade,
		Payload: &events.TradeEvent{
			PortfolioID:  order.Identity.PortfolioID,
			InstrumentID: order.Identity.InstrumentID,
			Side:         side,
			Quantity:     ev.ExecQuantity,
			Price:        ev.LastPrice,
			Timestamp:    ev.Timestamp,
		},
	})
}
