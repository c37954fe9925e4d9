package server

import (
	"net/http"

	"orderdesk/internal/auth"
	"orderdesk/internal/config"
	ordercontroller "orderdesk/internal/order/controller"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(
	cfg *config.Config,
	orders *ordercontroller.OrderController,
	authModule *auth.Module,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/api/tokens", authModule.Controller.HandleIssueToken)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authModule.Tokens, auth.ScopeOrders))

		r.Get("/api/orders", orders.HandleListOrders)
		r.Get("/api/orders/export", orders.HandleExportCSV)
		r.Patch("/api/orders", orders.HandleBulkUpdate)

		r.Get("/api/orders/selection", orders.HandleGetSelection)
		r.Put("/api/orders/selection", orders.HandleToggleSelection)
		r.Put("/api/orders/selection/page", orders.HandlePageSelection)
		r.Delete("/api/orders/selection", orders.HandleClearSelection)

		r.Get("/api/orders/{id}", orders.HandleGetOrder)
		r.Patch("/api/orders/{id}", orders.HandleUpdateStatus)
	})

	logger.Info("router configured")
	return r
}
