package filters

import (
	"fmt"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

// GroupFilter runs member filters in registration order and short-circuits on
// the first rejection; the violating member has already annotated the
// request. An empty group passes everything.
type GroupFilter struct {
	filters []Filter
}

func NewGroupFilter(filters ...Filter) *GroupFilter {
	return &GroupFilter{filters: filters}
}

// Add appends a filter to the end of the chain.
func (g *GroupFilter) Add(f Filter) {
	g.filters = append(g.filters, f)
}

func (g *GroupFilter) Name() string { return "group" }

func (g *GroupFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	for _, f := range g.filters {
		ok, err := f.Check(req)
		if err != nil {
			return false, fmt.Errorf("%s: %w", f.Name(), err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
