// Package manager orchestrates one instrument's order flow: requests queue
// up, pass the risk chain, become orders in the book, and leave as wire
// intents on the event bus.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/events"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/filters"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/lifecycle"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/orderbook"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/orderqueue"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/refdata"
	"github.com/darknessitachi/kunzite-sub000/pkg/metrics"
)

var ErrNilRequest = errors.New("manager: nil order request")

// OrderManager owns the order flow of a single instrument. Add may be called
// from any goroutine; Process must be driven by one goroutine at a time.
type OrderManager struct {
	instrument *refdata.Instrument
	queue      *orderqueue.Queue
	book       *orderbook.OrderBook
	chain      filters.Filter
	lifecycle  *lifecycle.OrderLifecycle
	ids        refdata.OrderIDGenerator
	bus        events.EventBus
	logger     *zap.Logger
}

func New(
	instrument *refdata.Instrument,
	book *orderbook.OrderBook,
	chain filters.Filter,
	lc *lifecycle.OrderLifecycle,
	ids refdata.OrderIDGenerator,
	bus events.EventBus,
	logger *zap.Logger,
) *OrderManager {
	return &OrderManager{
		instrument: instrument,
		queue:      orderqueue.New(),
		book:       book,
		chain:      chain,
		lifecycle:  lc,
		ids:        ids,
		bus:        bus,
		logger:     logger.Named("manager").With(zap.String("instrument", instrument.ID)),
	}
}

// Book exposes the instrument's order book for read access.
func (m *OrderManager) Book() *orderbook.OrderBook { return m.book }

// Add queues a request for the next processing pass.
func (m *OrderManager) Add(req *model.OrderRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	if err := m.queue.Enqueue(req); err != nil {
		return err
	}
	metrics.RequestQueueDepth.WithLabelValues(m.instrument.ID).Set(float64(m.queue.Len()))
	return nil
}

// Process drains the queued requests once, runs each through the risk chain,
// applies the survivors, and publishes the batch of wire intents. Requests
// are consumed whether they pass or not; a second pass with an empty queue
// does nothing.
//
// A non-nil error reports hard invalid-argument failures (unresolved
// reference data, identity build failure): wiring bugs, not business
// rejections. The pass still completes for the other requests and the
// combined error is returned at the end.
func (m *OrderManager) Process(ctx context.Context) error {
	requests := m.queue.Drain()
	metrics.RequestQueueDepth.WithLabelValues(m.instrument.ID).Set(float64(m.queue.Len()))
	if len(requests) == 0 {
		return nil
	}

	var (
		intents  []*model.NewOrder
		sent     []*model.Order
		rejected []*model.OrderRequest
		hard     error
	)
	for _, req := range requests {
		order, ok, err := m.resolve(req)
		if err != nil {
			hard = multierr.Append(hard, err)
			continue
		}
		if !ok {
			continue
		}
		// Cancels bypass the risk chain: pulling exposure off the market must
		// never be blocked by a limit.
		if req.Type != model.RequestCancel {
			ok, err := m.chain.Check(req)
			if err != nil {
				m.logger.Error("risk check failed",
					zap.String("client_order_id", req.ClientOrderID),
					zap.Error(err))
				hard = multierr.Append(hard,
					fmt.Errorf("manager: risk check for %s: %w", req.ClientOrderID, err))
				continue
			}
			if !ok {
				metrics.OrdersRejected.WithLabelValues(req.RejectReason().String()).Inc()
				rejected = append(rejected, req)
				continue
			}
		}
		intent, err := m.lifecycle.NewRequest(ctx, order, req)
		if err != nil {
			m.logger.Error("apply request",
				zap.String("client_order_id", req.ClientOrderID),
				zap.Error(err))
			hard = multierr.Append(hard,
				fmt.Errorf("manager: apply request for %s: %w", req.ClientOrderID, err))
			continue
		}
		intents = append(intents, intent)
		sent = append(sent, order)
		metrics.OrdersProcessed.WithLabelValues(req.Side.String()).Inc()
	}

	if len(intents) > 0 {
		now := time.Now()
		for _, o := range sent {
			o.State.Entry.Latency.MarkSending(now)
		}
		m.bus.Publish(ctx, events.Event{
			Topic: events.TopicOrder,
			Type:  events.TypeOrderSend,
			Payload: &events.OrderSendEvent{
				InstrumentID: m.instrument.ID,
				Orders:       intents,
				Timestamp:    now,
			},
		})
		for _, o := range sent {
			o.State.Entry.Latency.MarkSent(time.Now())
			metrics.SendLatency.Observe(o.State.Entry.Latency.SendLatency().Seconds())
		}
	}
	if len(rejected) > 0 {
		m.publishRejects(ctx, rejected)
	}
	return hard
}

// resolve binds one request to the order it applies to: a fresh order for a
// create, the dependent order for an amend or cancel. A false ok with nil
// error is the silent race-drop; a non-nil error is a hard failure.
func (m *OrderManager) resolve(req *model.OrderRequest) (*model.Order, bool, error) {
	switch req.Type {
	case model.RequestCreate:
		order, err := m.createOrder(req)
		if err != nil {
			return nil, false, err
		}
		return order, true, nil
	case model.RequestAmend, model.RequestCancel:
		order, ok := m.book.Get(req.DependentOrderID)
		if !ok {
			// The dependent order may have terminated between the strategy's
			// decision and this pass. Dropping the request is the correct
			// outcome, not an error.
			m.logger.Warn("dependent order not found",
				zap.Stringer("request_type", req.Type),
				zap.String("dependent_order_id", req.DependentOrderID))
			return nil, false, nil
		}
		return order, true, nil
	default:
		return nil, false, fmt.Errorf("manager: unknown request type %s", req.Type)
	}
}

func (m *OrderManager) createOrder(req *model.OrderRequest) (*model.Order, error) {
	identity, err := model.IdentityBuilder{
		OrderID:       m.ids.Generate(),
		ClientOrderID: req.ClientOrderID,
		InstrumentID:  req.InstrumentID,
		PortfolioID:   req.PortfolioID,
		MarketID:      m.instrument.MarketID,
		BrokerID:      req.BrokerID,
		AlgoID:        req.AlgoID,
	}.Build()
	if err != nil {
		m.logger.Error("build order identity",
			zap.String("client_order_id", req.ClientOrderID),
			zap.Error(err))
		return nil, fmt.Errorf("manager: identity for %s: %w", req.ClientOrderID, err)
	}
	return &model.Order{Identity: identity}, nil
}

func (m *OrderManager) publishRejects(ctx context.Context, rejected []*model.OrderRequest) {
	rejects := make([]events.RejectedRequest, 0, len(rejected))
	for _, req := range rejected {
		m.logger.Info("request rejected",
			zap.String("client_order_id", req.ClientOrderID),
			zap.Stringer("reason", req.RejectReason()))
		rejects = append(rejects, events.RejectedRequest{
			PortfolioID:   req.PortfolioID,
			ClientOrderID: req.ClientOrderID,
			RequestType:   req.Type,
			Reason:        req.RejectReason(),
		})
	}
	m.bus.Publish(ctx, events.Event{
		Topic: events.TopicReject,
		Type:  events.TypeRequestReject,
		Payload: &events.OrderRequestRejectEvent{
			InstrumentID: m.instrument.ID,
			Rejects:      rejects,
			Timestamp:    time.Now(),
		},
	})
}

// OnOrderStatus routes an exchange status event to its order. Events for
// orders the book no longer holds are dropped with a warning; late acks for
// terminated orders are routine.
func (m *OrderManager) OnOrderStatus(ctx context.Context, ev *events.OrderStatusEvent) error {
	if ev == nil {
		return lifecycle.ErrNilEvent
	}
	order, ok := m.book.Get(ev.OrderID)
	if !ok && ev.ExchangeOrderID != "" {
		order, ok = m.book.GetByExchangeID(ev.ExchangeOrderID)
	}
	if !ok {
		m.logger.Warn("status for unknown order",
			zap.String("order_id", ev.OrderID),
			zap.String("exchange_order_id", ev.ExchangeOrderID),
			zap.Stringer("status", ev.Status))
		return nil
	}
	return m.lifecycle.OnOrderStatus(ctx, order, ev)
}

// Close stops accepting new requests. Queued requests still drain.
func (m *OrderManager) Close() {
	m.queue.Close()
}
