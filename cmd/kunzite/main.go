// Command kunzite wires the order-management engine from a config file:
// reference data, per-instrument books and risk chains, the event bus, and a
// metrics endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/config"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/events"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/filters"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/lifecycle"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/manager"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/orderbook"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/refdata"
	"github.com/darknessitachi/kunzite-sub000/pkg/logger"
)

func main() {
	configPath := flag.String("config", "kunzite.yaml", "path to config file")
	metricsAddr := flag.String("metrics-addr", ":9100", "prometheus listen address")
	flag.Parse()

	if err := run(*configPath, *metricsAddr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, metricsAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		return err
	}

	bus, closeBus := buildBus(cfg, log)
	defer closeBus()

	params := config.NewParameterSource(cfg.Risk)
	managers := make(map[string]*manager.OrderManager, len(cfg.Instruments))
	for _, ic := range cfg.Instruments {
		inst, _ := registry.Instrument(ic.ID)
		m, err := buildManager(cfg, inst, registry, params, bus, log)
		if err != nil {
			return err
		}
		managers[ic.ID] = m
	}
	defer func() {
		for _, m := range managers {
			m.Close()
		}
	}()

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.Error("metrics server", zap.Error(err))
		}
	}()

	log.Info("engine started",
		zap.Int("instruments", len(managers)),
		zap.String("bus", cfg.Bus.Backend),
		zap.String("book", cfg.Book.Strategy))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	return nil
}

func buildRegistry(cfg *config.Config, log *zap.Logger) (*refdata.Registry, error) {
	registry := refdata.NewRegistry(log)
	for _, mc := range cfg.Markets {
		err := registry.RegisterMarket(&refdata.Market{
			ID:       mc.ID,
			TickSize: decimal.NewFromFloat(mc.TickSize),
		})
		if err != nil {
			return nil, err
		}
	}
	for _, ic := range cfg.Instruments {
		err := registry.RegisterInstrument(&refdata.Instrument{
			ID:         ic.ID,
			MarketID:   ic.MarketID,
			LotSize:    decimal.NewFromFloat(ic.LotSize),
			Multiplier: decimal.NewFromFloat(ic.Multiplier),
		})
		if err != nil {
			return nil, err
		}
	}
	for _, pc := range cfg.Portfolios {
		if err := registry.RegisterPortfolio(&refdata.Portfolio{ID: pc.ID, Name: pc.Name}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildBus(cfg *config.Config, log *zap.Logger) (events.EventBus, func()) {
	if cfg.Bus.Backend == config.BusKafka {
		kafkaBus := events.NewKafkaEventBus(cfg.Bus.Brokers, cfg.Bus.Topic, log)
		return events.NewMeteredEventBus(kafkaBus), func() {
			if err := kafkaBus.Close(); err != nil {
				log.Error("close kafka bus", zap.Error(err))
			}
		}
	}
	return events.NewMeteredEventBus(events.NewInMemoryEventBus(log)), func() {}
}

func buildManager(
	cfg *config.Config,
	inst *refdata.Instrument,
	registry *refdata.Registry,
	params *config.ParameterSource,
	bus events.EventBus,
	log *zap.Logger,
) (*manager.OrderManager, error) {
	var book *orderbook.OrderBook
	if cfg.Book.Strategy == config.BookPlain {
		book = orderbook.NewOrderBook(inst.ID, log)
	} else {
		book = orderbook.NewConcurrentOrderBook(inst.ID, log)
	}

	// Position and market-data feeds attach externally; until they do, the
	// position is flat and the last traded price is zero.
	err := registry.BindTradingState(inst.ID, &refdata.TradingState{
		Positions: refdata.PositionBookFunc(func() decimal.Decimal { return decimal.Zero }),
		Orders:    book,
		Market:    refdata.MarketBookFunc(func() decimal.Decimal { return decimal.Zero }),
	})
	if err != nil {
		return nil, err
	}

	chain := filters.NewGroupFilter(
		filters.NewPortfolioFilter(registry),
		filters.NewRestrictedListFilter(params),
		filters.NewLotSizeFilter(registry),
		filters.NewTickSizeFilter(registry, registry),
		filters.NewPriceRangeFilter(params),
		filters.NewMaxSpreadFilter(registry, params),
		filters.NewMaxQuantityFilter(params),
		filters.NewMaxNotionalFilter(registry, params),
		filters.NewMaxLongFilter(registry, params),
		filters.NewMaxShortFilter(registry, params),
		filters.NewShortSellFilter(registry, params),
	)

	lc := lifecycle.New(book, bus, log)
	return manager.New(inst, book, chain, lc, refdata.UUIDGenerator{}, bus, log), nil
}
