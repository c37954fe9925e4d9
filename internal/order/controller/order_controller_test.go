package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/order/selection"
	"orderdesk/internal/order/usecase"
)

type mockListOrdersUseCase struct {
	ListOrdersFunc func(ctx context.Context, q usecase.ListOrdersQuery) (*usecase.ListOrdersResult, error)
}

func (m *mockListOrdersUseCase) ListOrders(ctx context.Context, q usecase.ListOrdersQuery) (*usecase.ListOrdersResult, error) {
	return m.ListOrdersFunc(ctx, q)
}

type mockGetOrderUseCase struct {
	GetOrderFunc func(ctx context.Context, id string) (*usecase.OrderDetail, error)
}

func (m *mockGetOrderUseCase) GetOrder(ctx context.Context, id string) (*usecase.OrderDetail, error) {
	return m.GetOrderFunc(ctx, id)
}

type mockUpdateStatusUseCase struct {
	UpdateStatusFunc func(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error)
}

func (m *mockUpdateStatusUseCase) UpdateStatus(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error) {
	return m.UpdateStatusFunc(ctx, id, target, expectedVersion)
}

type mockBulkUpdateStatusUseCase struct {
	BulkUpdateStatusFunc func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error)
}

func (m *mockBulkUpdateStatusUseCase) BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
	return m.BulkUpdateStatusFunc(ctx, ids, target)
}

type controllerMocks struct {
	list       *mockListOrdersUseCase
	get        *mockGetOrderUseCase
	update     *mockUpdateStatusUseCase
	bulk       *mockBulkUpdateStatusUseCase
	selections *selection.Registry
}

func newTestController(t *testing.T) (*OrderController, *controllerMocks, *chi.Mux) {
	mocks := &controllerMocks{
		list:       &mockListOrdersUseCase{},
		get:        &mockGetOrderUseCase{},
		update:     &mockUpdateStatusUseCase{},
		bulk:       &mockBulkUpdateStatusUseCase{},
		selections: selection.NewRegistry(),
	}

	ctrl := NewOrderController(mocks.list, mocks.get, mocks.update, mocks.bulk, mocks.selections, zap.NewNop())

	router := chi.NewRouter()
	router.Get("/api/orders", ctrl.HandleListOrders)
	router.Get("/api/orders/export", ctrl.HandleExportCSV)
	router.Patch("/api/orders", ctrl.HandleBulkUpdate)
	router.Get("/api/orders/selection", ctrl.HandleGetSelection)
	router.Put("/api/orders/selection", ctrl.HandleToggleSelection)
	router.Put("/api/orders/selection/page", ctrl.HandlePageSelection)
	router.Delete("/api/orders/selection", ctrl.HandleClearSelection)
	router.Get("/api/orders/{id}", ctrl.HandleGetOrder)
	router.Patch("/api/orders/{id}", ctrl.HandleUpdateStatus)

	return ctrl, mocks, router
}

func sampleOrder(id string, status domain.Status) domain.Order {
	name := "Jane Doe"
	email := "jane@x.com"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:            id,
		CustomerName:  &name,
		CustomerEmail: &email,
		Subtotal:      40.0,
		Shipping:      2.5,
		Total:         42.5,
		Status:        status,
		PaymentStatus: domain.PaymentPaid,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestHandleListOrders_Success(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.list.ListOrdersFunc = func(ctx context.Context, q usecase.ListOrdersQuery) (*usecase.ListOrdersResult, error) {
		assert.Equal(t, 2, q.Page)
		assert.Equal(t, "shipped", q.Status)
		assert.Equal(t, "jane", q.Search)
		return &usecase.ListOrdersResult{
			Orders:     []domain.Order{sampleOrder("order-abc123", domain.StatusShipped)},
			Total:      11,
			Page:       2,
			Limit:      10,
			TotalPages: 2,
		}, nil
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders?page=2&status=shipped&search=jane", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ListOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "order-abc123", resp.Orders[0].ID)
	assert.Equal(t, "abc123", resp.Orders[0].ShortCode)
	assert.Equal(t, "shipped", resp.Orders[0].Status)
	assert.Equal(t, 11, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestHandleListOrders_InternalError(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.list.ListOrdersFunc = func(ctx context.Context, q usecase.ListOrdersQuery) (*usecase.ListOrdersResult, error) {
		return nil, apperrors.NewInternalError("querying orders", nil)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGetOrder_Success(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.get.GetOrderFunc = func(ctx context.Context, id string) (*usecase.OrderDetail, error) {
		assert.Equal(t, "order-abc123", id)
		return &usecase.OrderDetail{
			Order: sampleOrder("order-abc123", domain.StatusPending),
			Items: []domain.LineItem{
				{Name: "Wool Beanie", Quantity: 2, UnitPrice: 12.5},
			},
		}, nil
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/order-abc123", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrderDetailDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order-abc123", resp.ID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Wool Beanie", resp.Items[0].Name)
}

func TestHandleGetOrder_NotFound(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.get.GetOrderFunc = func(ctx context.Context, id string) (*usecase.OrderDetail, error) {
		return nil, apperrors.NewNotFoundError("order missing not found")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestHandleUpdateStatus_Success(t *testing.T) {
	_, mocks, router := newTestController(t)

	updated := sampleOrder("order-abc123", domain.StatusShipped)
	updated.Version = 2

	mocks.update.UpdateStatusFunc = func(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error) {
		assert.Equal(t, "order-abc123", id)
		assert.Equal(t, domain.StatusShipped, target)
		require.NotNil(t, expectedVersion)
		assert.Equal(t, 1, *expectedVersion)
		return &updated, nil
	}

	body := bytes.NewBufferString(`{"status":"shipped","version":1}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/order-abc123", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "shipped", resp.Status)
	assert.Equal(t, 2, resp.Version)
}

func TestHandleUpdateStatus_InvalidStatus(t *testing.T) {
	_, _, router := newTestController(t)

	body := bytes.NewBufferString(`{"status":"teleported"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/order-abc123", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestHandleUpdateStatus_InvalidJSON(t *testing.T) {
	_, _, router := newTestController(t)

	body := bytes.NewBufferString(`{not json`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/order-abc123", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateStatus_Conflict(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.update.UpdateStatusFunc = func(ctx context.Context, id string, target domain.Status, expectedVersion *int) (*domain.Order, error) {
		return nil, apperrors.NewConflictError("illegal transition from delivered to pending")
	}

	body := bytes.NewBufferString(`{"status":"pending"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/order-abc123", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
}

func TestHandleBulkUpdate_AllSuccess(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.bulk.BulkUpdateStatusFunc = func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
		assert.Equal(t, []string{"a", "b"}, ids)
		assert.Equal(t, domain.StatusProcessing, target)
		return &dto.BulkResult{
			Status: dto.BulkAllSuccess,
			Successes: []dto.IDSuccess{
				{OrderID: "a"},
				{OrderID: "b"},
			},
		}, nil
	}

	body := bytes.NewBufferString(`{"ids":["a","b"],"status":"processing"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BulkUpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(dto.BulkAllSuccess), resp.Status)
	assert.Equal(t, []string{"a", "b"}, resp.Updated)
	assert.Empty(t, resp.Failures)
	assert.NotEmpty(t, resp.TraceID)
}

func TestHandleBulkUpdate_PartialReturns206(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.bulk.BulkUpdateStatusFunc = func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
		return &dto.BulkResult{
			Status:    dto.BulkPartial,
			Successes: []dto.IDSuccess{{OrderID: "a"}},
			Failures:  []dto.IDFailure{{OrderID: "b", Reason: dto.ReasonNotFound}},
		}, nil
	}

	body := bytes.NewBufferString(`{"ids":["a","b"],"status":"processing"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders", body))

	require.Equal(t, http.StatusPartialContent, rec.Code)

	var resp dto.BulkUpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "b", resp.Failures[0].ID)
	assert.Equal(t, string(dto.ReasonNotFound), resp.Failures[0].Reason)
}

func TestHandleBulkUpdate_AllFailedReturns422(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.bulk.BulkUpdateStatusFunc = func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
		return &dto.BulkResult{
			Status:   dto.BulkAllFailed,
			Failures: []dto.IDFailure{{OrderID: "a", Reason: dto.ReasonIllegalTransition}},
		}, nil
	}

	body := bytes.NewBufferString(`{"ids":["a"],"status":"pending"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleBulkUpdate_ClearsSelection(t *testing.T) {
	_, mocks, router := newTestController(t)

	sel := mocks.selections.For("")
	sel.Toggle("a", true)
	sel.Toggle("b", true)

	mocks.bulk.BulkUpdateStatusFunc = func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
		return &dto.BulkResult{
			Status:    dto.BulkPartial,
			Successes: []dto.IDSuccess{{OrderID: "a"}},
			Failures:  []dto.IDFailure{{OrderID: "b", Reason: dto.ReasonNotFound}},
		}, nil
	}

	body := bytes.NewBufferString(`{"ids":["a","b"],"status":"processing"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders", body))

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Empty(t, sel.IDs())
}

func TestHandleBulkUpdate_ValidationErrorFromUseCase(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.bulk.BulkUpdateStatusFunc = func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
		return nil, apperrors.NewValidationError("too many ids", apperrors.ValidationDetail{
			Field:   "ids",
			Message: "at most 100 ids per request",
		})
	}

	body := bytes.NewBufferString(`{"ids":["a"],"status":"processing"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBulkUpdate_DeadlockReturns409(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.bulk.BulkUpdateStatusFunc = func(ctx context.Context, ids []string, target domain.Status) (*dto.BulkResult, error) {
		return nil, apperrors.NewDeadlockError("max retries exceeded")
	}

	body := bytes.NewBufferString(`{"ids":["a"],"status":"processing"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DEADLOCK")
}

func TestHandleExportCSV(t *testing.T) {
	_, mocks, router := newTestController(t)

	mocks.list.ListOrdersFunc = func(ctx context.Context, q usecase.ListOrdersQuery) (*usecase.ListOrdersResult, error) {
		assert.Equal(t, "pending", q.Status)
		return &usecase.ListOrdersResult{
			Orders: []domain.Order{sampleOrder("order-abc123", domain.StatusPending)},
			Total:  1,
			Page:   3,
			Limit:  10,
		}, nil
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/export?page=3&status=pending", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="orders_page_3.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), `"OrderID","Customer","Email","Date","Total","Status"`)
	assert.Contains(t, rec.Body.String(), `"order-abc123"`)
}

func TestSelectionEndpoints(t *testing.T) {
	_, _, router := newTestController(t)

	// Initially empty.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/selection", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SelectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.IDs)

	// Toggle one on.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/selection",
		bytes.NewBufferString(`{"id":"a","selected":true}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a"}, resp.IDs)

	// Select a whole page; "a" stays selected.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/selection/page",
		bytes.NewBufferString(`{"ids":["b","c"],"selected":true}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b", "c"}, resp.IDs)

	// Clear.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/selection", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.IDs)
}

func TestToggleSelection_EmptyID(t *testing.T) {
	_, _, router := newTestController(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/selection",
		bytes.NewBufferString(`{"id":"","selected":true}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
