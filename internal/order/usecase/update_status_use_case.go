package usecase

import (
	"context"

	"orderdesk/internal/domain"

	"go.uber.org/zap"
)

type SingleTransitionService interface {
	ApplySingle(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error)
}

type UpdateStatusUseCase struct {
	transitions SingleTransitionService
	logger      *zap.Logger
}

func NewUpdateStatusUseCase(transitions SingleTransitionService, logger *zap.Logger) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		transitions: transitions,
		logger:      logger,
	}
}

// UpdateStatus applies one status change. Failures always come back to the
// caller as typed errors; nothing is swallowed into a log line.
func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error) {
	uc.logger.Debug("status update requested",
		zap.String("orderId", id),
		zap.String("target", string(target)),
	)

	return uc.transitions.ApplySingle(ctx, id, target, expectedVersion)
}
