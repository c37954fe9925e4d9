package order

import (
	"database/sql"

	"orderdesk/internal/config"
	"orderdesk/internal/order/controller"
	"orderdesk/internal/order/repository"
	"orderdesk/internal/order/selection"
	"orderdesk/internal/order/service"
	"orderdesk/internal/order/usecase"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLLineItemRepository(db)

	transitionSvc := service.NewTransitionService(
		db,
		orderRepo,
		logger,
		cfg.Order.BulkTxTimeout,
	)

	listUC := usecase.NewListOrdersUseCase(orderRepo, cfg.Order.PageSize)
	getUC := usecase.NewGetOrderUseCase(orderRepo, itemRepo)
	updateUC := usecase.NewUpdateStatusUseCase(transitionSvc, logger)
	bulkUC := usecase.NewBulkUpdateStatusUseCase(
		transitionSvc,
		logger,
		cfg.Order.MaxBulkIDs,
		cfg.Order.MaxRetryAttempts,
	)

	return controller.NewOrderController(
		listUC,
		getUC,
		updateUC,
		bulkUC,
		selection.NewRegistry(),
		logger,
	)
}
