package filters

import (
	"fmt"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/refdata"
)

// LotSizeFilter rejects quantities that are not a whole multiple of the
// instrument's lot size.
type LotSizeFilter struct {
	instruments refdata.InstrumentResolver
}

func NewLotSizeFilter(instruments refdata.InstrumentResolver) *LotSizeFilter {
	return &LotSizeFilter{instruments: instruments}
}

func (f *LotSizeFilter) Name() string { return "lot_size" }

func (f *LotSizeFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	inst, ok := f.instruments.Instrument(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownInstrument, req.InstrumentID)
	}
	if inst.LotSize.IsZero() || req.Quantity.Mod(inst.LotSize).IsZero() {
		return true, nil
	}
	req.Reject(model.ReasonLotSize)
	return false, nil
}

// MaxQuantityFilter caps the quantity of a single request.
type MaxQuantityFilter struct {
	params ParameterManager
}

func NewMaxQuantityFilter(params ParameterManager) *MaxQuantityFilter {
	return &MaxQuantityFilter{params: params}
}

func (f *MaxQuantityFilter) Name() string { return "max_quantity" }

func (f *MaxQuantityFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if req.Quantity.LessThanOrEqual(f.params.MaxQuantity(filterRequest(req))) {
		return true, nil
	}
	req.Reject(model.ReasonMaxQuantity)
	return false, nil
}

// MaxNotionalFilter caps price * quantity * contract multiplier.
type MaxNotionalFilter struct {
	instruments refdata.InstrumentResolver
	params      ParameterManager
}

func NewMaxNotionalFilter(instruments refdata.InstrumentResolver, params ParameterManager) *MaxNotionalFilter {
	return &MaxNotionalFilter{instruments: instruments, params: params}
}

func (f *MaxNotionalFilter) Name() string { return "max_notional" }

func (f *MaxNotionalFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	inst, ok := f.instruments.Instrument(req.InstrumentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownInstrument, req.InstrumentID)
	}
	notional := req.Price.Mul(req.Quantity).Mul(inst.Multiplier)
	if notional.LessThanOrEqual(f.params.MaxNotional(filterRequest(req))) {
		return true, nil
	}
	req.Reject(model.ReasonMaxNotional)
	return false, nil
}
