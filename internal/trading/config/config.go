// Package config loads the engine configuration and turns its risk section
// into the limit source the filters consume.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Book storage strategies.
const (
	BookPlain      = "plain"
	BookConcurrent = "concurrent"
)

// Event bus backends.
const (
	BusInMemory = "inmemory"
	BusKafka    = "kafka"
)

// Config is the full engine configuration.
type Config struct {
	Log         LogConfig          `mapstructure:"log"`
	Book        BookConfig         `mapstructure:"book"`
	Bus         BusConfig          `mapstructure:"bus"`
	Markets     []MarketConfig     `mapstructure:"markets"`
	Instruments []InstrumentConfig `mapstructure:"instruments"`
	Portfolios  []PortfolioConfig  `mapstructure:"portfolios"`
	Risk        RiskConfig         `mapstructure:"risk"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BookConfig struct {
	Strategy string `mapstructure:"strategy"`
}

type BusConfig struct {
	Backend string   `mapstructure:"backend"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type MarketConfig struct {
	ID       string  `mapstructure:"id"`
	TickSize float64 `mapstructure:"tick_size"`
}

type InstrumentConfig struct {
	ID         string  `mapstructure:"id"`
	MarketID   string  `mapstructure:"market_id"`
	LotSize    float64 `mapstructure:"lot_size"`
	Multiplier float64 `mapstructure:"multiplier"`
}

type PortfolioConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// RiskLimits is one set of filter limits. Values are plain floats in the
// file; they are converted to decimals once at wiring time.
type RiskLimits struct {
	MaxLong      float64 `mapstructure:"max_long"`
	MaxShort     float64 `mapstructure:"max_short"`
	MaxNotional  float64 `mapstructure:"max_notional"`
	MaxQuantity  float64 `mapstructure:"max_quantity"`
	MaxSpread    float64 `mapstructure:"max_spread"`
	MinPrice     float64 `mapstructure:"min_price"`
	MaxPrice     float64 `mapstructure:"max_price"`
	ShortAllowed bool    `mapstructure:"short_allowed"`
}

// RiskConfig holds the default limits plus overrides. Override keys are
// "instrument|portfolio" for a portfolio-specific limit or just the
// instrument id.
type RiskConfig struct {
	Default    RiskLimits            `mapstructure:"default"`
	Overrides  map[string]RiskLimits `mapstructure:"overrides"`
	Restricted []string              `mapstructure:"restricted"`
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("book.strategy", BookConcurrent)
	v.SetDefault("bus.backend", BusInMemory)
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Book.Strategy {
	case BookPlain, BookConcurrent:
	default:
		return fmt.Errorf("config: unknown book strategy %q", c.Book.Strategy)
	}

	switch c.Bus.Backend {
	case BusInMemory:
	case BusKafka:
		if len(c.Bus.Brokers) == 0 {
			return fmt.Errorf("config: kafka bus needs at least one broker")
		}
		if c.Bus.Topic == "" {
			return fmt.Errorf("config: kafka bus needs a topic")
		}
	default:
		return fmt.Errorf("config: unknown bus backend %q", c.Bus.Backend)
	}

	markets := make(map[string]bool, len(c.Markets))
	for _, m := range c.Markets {
		if m.ID == "" {
			return fmt.Errorf("config: market with empty id")
		}
		markets[m.ID] = true
	}
	for _, inst := range c.Instruments {
		if inst.ID == "" {
			return fmt.Errorf("config: instrument with empty id")
		}
		if !markets[inst.MarketID] {
			return fmt.Errorf("config: instrument %s references unknown market %q", inst.ID, inst.MarketID)
		}
		if inst.LotSize < 0 {
			return fmt.Errorf("config: instrument %s has negative lot size", inst.ID)
		}
	}
	for _, pf := range c.Portfolios {
		if pf.ID == "" {
			return fmt.Errorf("config: portfolio with empty id")
		}
	}
	return nil
}
