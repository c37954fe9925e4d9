package usecase

import (
	"context"

	"orderdesk/internal/domain"
)

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type LineItemLister interface {
	ListByOrderID(ctx context.Context, orderID string) ([]domain.LineItem, error)
}

type OrderDetail struct {
	Order domain.Order
	Items []domain.LineItem
}

type GetOrderUseCase struct {
	orders OrderFinder
	items  LineItemLister
}

func NewGetOrderUseCase(orders OrderFinder, items LineItemLister) *GetOrderUseCase {
	return &GetOrderUseCase{
		orders: orders,
		items:  items,
	}
}

func (uc *GetOrderUseCase) GetOrder(ctx context.Context, id string) (*OrderDetail, error) {
	order, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := uc.items.ListByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		Order: *order,
		Items: items,
	}, nil
}
