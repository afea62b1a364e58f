// Package api provides the HTTP server for the waterworks console: the
// customer registry, billing and payment operations, reports and the live
// update feeds.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waterworks-ph/waterworks/internal/auth"
	"github.com/waterworks-ph/waterworks/internal/billing"
	"github.com/waterworks-ph/waterworks/internal/middleware"
	"github.com/waterworks-ph/waterworks/internal/report"
	"github.com/waterworks-ph/waterworks/internal/service"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

// Server is the console's HTTP API server.
type Server struct {
	store     storage.Store
	authSvc   *service.AuthService
	billing   *service.BillingService
	customers *service.CustomerService
	reports   *service.ReportService
	renderer  *report.Renderer
	jwt       *auth.JWTManager

	metricsEnabled bool
}

// NewServer creates an API server over the given services.
func NewServer(
	store storage.Store,
	authSvc *service.AuthService,
	billingSvc *service.BillingService,
	customers *service.CustomerService,
	reports *service.ReportService,
	renderer *report.Renderer,
	jwt *auth.JWTManager,
) *Server {
	return &Server{
		store:     store,
		authSvc:   authSvc,
		billing:   billingSvc,
		customers: customers,
		reports:   reports,
		renderer:  renderer,
		jwt:       jwt,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Minute))
	r.Use(corsMiddleware)
	r.Use(middleware.Logging)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Post("/api/login", s.handleLogin)

	// Everything else requires a signed-in operator. Reads are open to both
	// roles; account management and money movement are teller-only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwt))

		r.Get("/api/customers", s.handleListCustomers)
		r.Get("/api/customers/{id}", s.handleGetCustomer)
		r.Get("/api/customers/{id}/history", s.handleCustomerHistory)
		r.Get("/api/customers/{id}/bills", s.handleListBills)
		r.Post("/api/customers/{id}/bills", s.handleRecordBill)
		r.Get("/api/bills/{id}/receipt", s.handleReceipt)

		r.Get("/api/reports/billing", s.handleBillingReport)
		r.Get("/api/reports/payments-overview", s.handlePaymentsOverview)
		r.Get("/api/reports/latest-transactions", s.handleLatestTransactions)
		r.Get("/api/reports/latest-customers", s.handleLatestCustomers)

		r.Get("/api/live/bills", s.handleLiveBills)
		r.Get("/api/live/customers", s.handleLiveCustomers)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireTeller)

			r.Post("/api/customers", s.handleRegisterCustomer)
			r.Put("/api/customers/{id}", s.handleUpdateCustomer)
			r.Delete("/api/customers/{id}", s.handleDeleteCustomer)
			r.Post("/api/customers/{id}/status", s.handleToggleStatus)
			r.Post("/api/customers/{id}/payments", s.handlePay)
			r.Delete("/api/bills/{id}", s.handleDeleteBill)
		})
	})

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceError maps domain errors onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrInsufficientPayment):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
