/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging through logrus
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /health                 Liveness + database ping
  /api/payees/*           Payees
  /api/payee-accounts/*   Payee accounts, recommendations, amortization
  /api/accounts/*         Bank accounts
  /api/deposits, /api/transfers, /api/payments
  /api/admin/*            Manual accrual
  /api/scenarios/*        Demo data

WIRE FORMAT:
  Decimal amounts are encoded as JSON numbers (1010.5, not "1010.5").
  Requests accept either form.

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Money goes over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultAllowedOrigins are used when the router is built without origins.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/payees", func(r chi.Router) {
			r.Get("/", h.ListPayees)
			r.Post("/", h.CreatePayee)
			r.Get("/{id}", h.GetPayee)
			r.Put("/{id}", h.UpdatePayee)
			r.Delete("/{id}", h.DeletePayee)
		})

		r.Route("/payee-accounts", func(r chi.Router) {
			r.Get("/", h.ListPayeeAccounts)
			r.Post("/", h.CreatePayeeAccount)
			r.Get("/due", h.ListDuePayeeAccounts)
			r.Get("/{id}", h.GetPayeeAccount)
			r.Put("/{id}", h.UpdatePayeeAccount)
			r.Delete("/{id}", h.DeletePayeeAccount)
			r.Get("/{id}/recommended-payment", h.GetRecommendedPayment)
			r.Get("/{id}/amortization", h.GetAmortization)
			r.Get("/{id}/accrual-runs", h.ListAccrualRuns)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/{id}", h.GetAccount)
		})

		r.Get("/deposits", h.ListDeposits)
		r.Post("/deposits", h.CreateDeposit)
		r.Get("/transfers", h.ListTransfers)
		r.Post("/transfers", h.CreateTransfer)
		r.Get("/payments", h.ListPayments)
		r.Post("/payments", h.CreatePayment)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/accrual", h.RunAccrual)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}

// requestLogger logs one line per request with status and latency.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.WithFields(logrus.Fields{
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
					"request_id": middleware.GetReqID(r.Context()),
				}).Info("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
