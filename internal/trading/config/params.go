package config

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/filters"
)

type limits struct {
	maxLong      decimal.Decimal
	maxShort     decimal.Decimal
	maxNotional  decimal.Decimal
	maxQuantity  decimal.Decimal
	maxSpread    decimal.Decimal
	minPrice     decimal.Decimal
	maxPrice     decimal.Decimal
	shortAllowed bool
}

func toLimits(l RiskLimits) limits {
	return limits{
		maxLong:      decimal.NewFromFloat(l.MaxLong),
		maxShort:     decimal.NewFromFloat(l.MaxShort),
		maxNotional:  decimal.NewFromFloat(l.MaxNotional),
		maxQuantity:  decimal.NewFromFloat(l.MaxQuantity),
		maxSpread:    decimal.NewFromFloat(l.MaxSpread),
		minPrice:     decimal.NewFromFloat(l.MinPrice),
		maxPrice:     decimal.NewFromFloat(l.MaxPrice),
		shortAllowed: l.ShortAllowed,
	}
}

// ParameterSource resolves configured risk limits for the filters. Lookup
// order is instrument+portfolio override, instrument override, default.
type ParameterSource struct {
	defaults   limits
	overrides  map[string]limits
	restricted map[string]bool
}

var _ filters.ParameterManager = (*ParameterSource)(nil)

// NewParameterSource builds the limit source. Keys are stored lowercased
// because viper lowercases map keys when unmarshalling.
func NewParameterSource(cfg RiskConfig) *ParameterSource {
	overrides := make(map[string]limits, len(cfg.Overrides))
	for key, l := range cfg.Overrides {
		overrides[strings.ToLower(key)] = toLimits(l)
	}
	restricted := make(map[string]bool, len(cfg.Restricted))
	for _, id := range cfg.Restricted {
		restricted[strings.ToLower(id)] = true
	}
	return &ParameterSource{
		defaults:   toLimits(cfg.Default),
		overrides:  overrides,
		restricted: restricted,
	}
}

func (s *ParameterSource) resolve(req filters.FilterRequest) limits {
	instrument := strings.ToLower(req.InstrumentID)
	if l, ok := s.overrides[instrument+"|"+strings.ToLower(req.PortfolioID)]; ok {
		return l
	}
	if l, ok := s.overrides[instrument]; ok {
		return l
	}
	return s.defaults
}

func (s *ParameterSource) MaxLong(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).maxLong
}

func (s *ParameterSource) MaxShort(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).maxShort
}

func (s *ParameterSource) MaxNotional(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).maxNotional
}

func (s *ParameterSource) MaxQuantity(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).maxQuantity
}

func (s *ParameterSource) MaxSpread(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).maxSpread
}

func (s *ParameterSource) MinPrice(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).minPrice
}

func (s *ParameterSource) MaxPrice(req filters.FilterRequest) decimal.Decimal {
	return s.resolve(req).maxPrice
}

func (s *ParameterSource) ShortAllowed(req filters.FilterRequest) bool {
	return s.resolve(req).shortAllowed
}

func (s *ParameterSource) Restricted(req filters.FilterRequest) bool {
	return s.restricted[strings.ToLower(req.InstrumentID)]
}
