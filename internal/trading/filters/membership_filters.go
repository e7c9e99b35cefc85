package filters

import (
	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
	"github.com/darknessitachi/kunzite-sub000/internal/trading/refdata"
)

// RestrictedListFilter blocks instruments that compliance has flagged.
type RestrictedListFilter struct {
	params ParameterManager
}

func NewRestrictedListFilter(params ParameterManager) *RestrictedListFilter {
	return &RestrictedListFilter{params: params}
}

func (f *RestrictedListFilter) Name() string { return "restricted_list" }

func (f *RestrictedListFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if !f.params.Restricted(filterRequest(req)) {
		return true, nil
	}
	req.Reject(model.ReasonRestrictedList)
	return false, nil
}

// PortfolioFilter rejects requests addressed to a portfolio the registry does
// not know. An unknown portfolio is a rejection rather than an error: the
// request names a book that simply does not exist.
type PortfolioFilter struct {
	portfolios refdata.PortfolioResolver
}

func NewPortfolioFilter(portfolios refdata.PortfolioResolver) *PortfolioFilter {
	return &PortfolioFilter{portfolios: portfolios}
}

func (f *PortfolioFilter) Name() string { return "portfolio" }

func (f *PortfolioFilter) Check(req *model.OrderRequest) (bool, error) {
	if req == nil {
		return false, ErrNilRequest
	}
	if _, ok := f.portfolios.Portfolio(req.PortfolioID); ok {
		return true, nil
	}
	req.Reject(model.ReasonPortfolio)
	return false, nil
}
