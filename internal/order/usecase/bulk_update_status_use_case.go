package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type BulkTransitionService interface {
	ApplyBulk(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error)
}

type BulkUpdateStatusUseCase struct {
	transitions      BulkTransitionService
	logger           *zap.Logger
	maxBulkIDs       int
	maxRetryAttempts int
}

func NewBulkUpdateStatusUseCase(
	transitions BulkTransitionService,
	logger *zap.Logger,
	maxBulkIDs int,
	maxRetryAttempts int,
) *BulkUpdateStatusUseCase {
	return &BulkUpdateStatusUseCase{
		transitions:      transitions,
		logger:           logger,
		maxBulkIDs:       maxBulkIDs,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// BulkUpdateStatus fans one status change out to every ID in ids. An empty
// ID list is a guarded no-op. Deadlocks between concurrent bulk actions are
// retried with backoff before giving up.
func (uc *BulkUpdateStatusUseCase) BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
	if len(ids) == 0 {
		return &dto.BulkResult{
			Status:    dto.BulkAllSuccess,
			Successes: []dto.IDSuccess{},
			Failures:  []dto.IDFailure{},
		}, nil
	}

	if len(ids) > uc.maxBulkIDs {
		return nil, apperrors.NewValidationError("too many ids", apperrors.ValidationDetail{
			Field:   "ids",
			Message: "ids exceeds the bulk maximum",
		})
	}

	uc.logger.Info("bulk status update started",
		zap.String("target", string(target)),
		zap.Int("idCount", len(ids)),
	)

	return uc.applyWithRetry(ctx, ids, target)
}

func (uc *BulkUpdateStatusUseCase) applyWithRetry(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
	maxAttempts := uc.maxRetryAttempts
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := uc.transitions.ApplyBulk(ctx, ids, target)
		if err == nil {
			return result, nil
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			backoff := backoffs[(attempt-1)%len(backoffs)]
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("deadlock detected, retrying bulk update",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
			)
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
