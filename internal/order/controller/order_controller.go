package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"orderdesk/internal/auth"
	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/order/export"
	"orderdesk/internal/order/selection"
	"orderdesk/internal/order/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListOrdersUseCase interface {
	ListOrders(ctx context.Context, q usecase.ListOrdersQuery) (*usecase.ListOrdersResult, error)
}

type GetOrderUseCase interface {
	GetOrder(ctx context.Context, id string) (*usecase.OrderDetail, error)
}

type UpdateStatusUseCase interface {
	UpdateStatus(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error)
}

type BulkUpdateStatusUseCase interface {
	BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error)
}

type OrderController struct {
	list       ListOrdersUseCase
	get        GetOrderUseCase
	update     UpdateStatusUseCase
	bulk       BulkUpdateStatusUseCase
	selections *selection.Registry
	logger     *zap.Logger
}

func NewOrderController(
	list ListOrdersUseCase,
	get GetOrderUseCase,
	update UpdateStatusUseCase,
	bulk BulkUpdateStatusUseCase,
	selections *selection.Registry,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		list:       list,
		get:        get,
		update:     update,
		bulk:       bulk,
		selections: selections,
		logger:     logger,
	}
}

func (c *OrderController) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	q := usecase.ListOrdersQuery{
		Page:   intQuery(r, "page", 1),
		Limit:  intQuery(r, "limit", 0),
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	result, err := c.list.ListOrders(r.Context(), q)
	if err != nil {
		c.logger.Error("listing orders failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "failed to load orders",
		})
		return
	}

	orders := make([]dto.OrderDTO, 0, len(result.Orders))
	for _, order := range result.Orders {
		orders = append(orders, toOrderDTO(order))
	}

	c.writeJSON(w, http.StatusOK, dto.ListOrdersResponse{
		Orders: orders,
		Pagination: dto.PaginationDTO{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

func (c *OrderController) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := c.get.GetOrder(r.Context(), id)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	items := make([]dto.LineItemDTO, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, dto.LineItemDTO{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	c.writeJSON(w, http.StatusOK, dto.OrderDetailDTO{
		OrderDTO: toOrderDTO(detail.Order),
		Items:    items,
	})
}

func (c *OrderController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id := chi.URLParam(r, "id")
	if id == "" {
		c.writeValidationError(w, "invalid order id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "order id must not be empty",
		})
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	target, ok := domain.ParseStatus(req.Status)
	if !ok {
		c.writeValidationError(w, "invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, processing, shipped, delivered, cancelled",
		})
		return
	}

	order, err := c.update.UpdateStatus(r.Context(), id, target, req.Version)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderDTO(*order))
}

func (c *OrderController) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	target, ok := domain.ParseStatus(req.Status)
	if !ok {
		c.writeValidationError(w, "invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, processing, shipped, delivered, cancelled",
		})
		return
	}

	result, err := c.bulk.BulkUpdateStatus(r.Context(), req.IDs, target)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	// The bulk action consumes the operator's selection whatever the
	// per-ID outcome; failed IDs are reported, not silently kept selected.
	c.selections.For(auth.Subject(r.Context())).Clear()

	updated := make([]string, 0, len(result.Successes))
	for _, s := range result.Successes {
		updated = append(updated, s.OrderID)
	}
	failures := make([]dto.IDFailureDTO, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, dto.IDFailureDTO{
			ID:     f.OrderID,
			Reason: string(f.Reason),
		})
	}

	statusCode := http.StatusOK
	if result.Status == dto.BulkPartial {
		statusCode = http.StatusPartialContent
	} else if result.Status == dto.BulkAllFailed {
		statusCode = http.StatusUnprocessableEntity
	}

	c.writeJSON(w, statusCode, dto.BulkUpdateResponse{
		TraceID:   traceID,
		Status:    string(result.Status),
		Updated:   updated,
		Failures:  failures,
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	q := usecase.ListOrdersQuery{
		Page:   intQuery(r, "page", 1),
		Limit:  intQuery(r, "limit", 0),
		Status: r.URL.Query().Get("status"),
	}

	result, err := c.list.ListOrders(r.Context(), q)
	if err != nil {
		c.logger.Error("export fetch failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "failed to load orders",
		})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, result.Orders); err != nil {
		c.logger.Error("csv serialization failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "failed to serialize orders",
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(result.Page)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		c.logger.Error("writing csv response", zap.Error(err))
	}
}

func (c *OrderController) HandleGetSelection(w http.ResponseWriter, r *http.Request) {
	sel := c.selections.For(auth.Subject(r.Context()))
	c.writeJSON(w, http.StatusOK, dto.SelectionResponse{IDs: sel.IDs()})
}

func (c *OrderController) HandleToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.ID == "" {
		c.writeValidationError(w, "invalid selection", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must not be empty",
		})
		return
	}

	sel := c.selections.For(auth.Subject(r.Context()))
	sel.Toggle(req.ID, req.Selected)
	c.writeJSON(w, http.StatusOK, dto.SelectionResponse{IDs: sel.IDs()})
}

func (c *OrderController) HandlePageSelection(w http.ResponseWriter, r *http.Request) {
	var req dto.PageSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	sel := c.selections.For(auth.Subject(r.Context()))
	sel.SetPage(req.IDs, req.Selected)
	c.writeJSON(w, http.StatusOK, dto.SelectionResponse{IDs: sel.IDs()})
}

func (c *OrderController) HandleClearSelection(w http.ResponseWriter, r *http.Request) {
	sel := c.selections.For(auth.Subject(r.Context()))
	sel.Clear()
	c.writeJSON(w, http.StatusOK, dto.SelectionResponse{IDs: []string{}})
}

func (c *OrderController) handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}
	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func toOrderDTO(order domain.Order) dto.OrderDTO {
	return dto.OrderDTO{
		ID:            order.ID,
		ShortCode:     order.ShortCode(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Subtotal:      order.Subtotal,
		Shipping:      order.Shipping,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Total:         order.Total,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{
		Error:   code,
		Message: message,
	})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
