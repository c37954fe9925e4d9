package usecase

import (
	"context"

	"orderdesk/internal/domain"
	"orderdesk/internal/order/projection"
)

type OrderLister interface {
	List(ctx context.Context, status domain.Status, limit, offset int) ([]domain.Order, error)
	Count(ctx context.Context, status domain.Status) (int, error)
}

type ListOrdersQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type ListOrdersResult struct {
	Orders     []domain.Order
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

type ListOrdersUseCase struct {
	repo            OrderLister
	defaultPageSize int
}

func NewListOrdersUseCase(repo OrderLister, defaultPageSize int) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		repo:            repo,
		defaultPageSize: defaultPageSize,
	}
}

// ListOrders fetches one page from the store, with the status filter pushed
// into the query, then applies the search projection to the loaded page.
// Search is page-scoped: it narrows what was fetched, it does not span the
// whole order set.
func (uc *ListOrdersUseCase) ListOrders(ctx context.Context, q ListOrdersQuery) (*ListOrdersResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = uc.defaultPageSize
	}

	status := domain.Status("")
	if q.Status != "" && q.Status != "all" {
		parsed, ok := domain.ParseStatus(q.Status)
		if !ok {
			return &ListOrdersResult{Orders: []domain.Order{}, Page: page, Limit: limit, TotalPages: 1}, nil
		}
		status = parsed
	}

	orders, err := uc.repo.List(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	total, err := uc.repo.Count(ctx, status)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	visible := projection.Project(orders, q.Search, "all")

	return &ListOrdersResult{
		Orders:     visible,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
