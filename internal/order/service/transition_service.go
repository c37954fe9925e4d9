package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"

	"go.uber.org/zap"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.Status, expectedVersion int) error
}

// TransitionService applies lifecycle changes to orders under row locks so
// concurrent admin actions never interleave on the same order.
type TransitionService struct {
	db        TransactionManager
	orderRepo OrderRepository
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewTransitionService(
	db TransactionManager,
	orderRepo OrderRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *TransitionService {
	return &TransitionService{
		db:        db,
		orderRepo: orderRepo,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// ApplySingle moves one order to target. When expectedVersion is non-nil the
// change is rejected with a conflict if another operator updated the order
// after the caller read it.
func (s *TransitionService) ApplySingle(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if expectedVersion != nil && *expectedVersion != order.Version {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s was modified concurrently", id))
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("illegal transition from %s to %s", order.Status, target))
	}

	if order.Status == target {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing no-op transition: %w", err)
		}
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(txCtx, tx, id, target, order.Version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transition", zap.String("orderId", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("orderId", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
	)

	order.Status = target
	order.Version++
	order.UpdatedAt = time.Now().UTC()
	return order, nil
}

// ApplyBulk moves every order in ids to target within one transaction and
// reports a per-ID outcome. The transaction commits as long as at least one
// order succeeded; failed IDs are left untouched and reported back so the
// caller reconciles only what actually changed.
func (s *TransitionService) ApplyBulk(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	// Lock rows in a stable order to keep concurrent bulk actions from
	// deadlocking on each other.
	sorted := dedupe(ids)
	sort.Strings(sorted)

	successes := []dto.IDSuccess{}
	failures := []dto.IDFailure{}

	for _, id := range sorted {
		failure, err := s.transitionLocked(txCtx, tx, id, target)
		if err != nil {
			s.logger.Error("bulk transition error", zap.String("orderId", id), zap.Error(err))
			return nil, err
		}

		if failure != nil {
			failures = append(failures, *failure)
			s.logger.Warn("bulk transition rejected",
				zap.String("orderId", id),
				zap.String("target", string(target)),
				zap.String("reason", string(failure.Reason)),
			)
			continue
		}

		successes = append(successes, dto.IDSuccess{OrderID: id})
	}

	if len(successes) == 0 {
		s.logger.Warn("bulk transition rolled back (all failed)",
			zap.String("target", string(target)),
			zap.Int("failureCount", len(failures)),
		)
		return &dto.BulkResult{
			Status:   dto.BulkAllFailed,
			Failures: failures,
		}, nil
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit bulk transition", zap.Error(err))
		return nil, err
	}

	s.logger.Info("bulk transition committed",
		zap.String("target", string(target)),
		zap.Int("successCount", len(successes)),
		zap.Int("failureCount", len(failures)),
	)

	status := dto.BulkAllSuccess
	if len(failures) > 0 {
		status = dto.BulkPartial
	}

	return &dto.BulkResult{
		Status:    status,
		Successes: successes,
		Failures:  failures,
	}, nil
}

func (s *TransitionService) transitionLocked(ctx context.Context, tx *sql.Tx, id string, target domain.Status) (*dto.IDFailure, error) {
	order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return &dto.IDFailure{OrderID: id, Reason: dto.ReasonNotFound}, nil
		}
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return &dto.IDFailure{OrderID: id, Reason: dto.ReasonIllegalTransition}, nil
	}

	// Re-applying the current status succeeds without a write so repeated
	// bulk actions stay idempotent.
	if order.Status == target {
		return nil, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, tx, id, target, order.Version); err != nil {
		return nil, err
	}

	return nil, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
