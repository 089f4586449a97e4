package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	custommiddleware "github.com/greenloop/wasteops/internal/middleware"
	"github.com/greenloop/wasteops/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware биллингового сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.RequireRole(model.RoleAdmin, model.RoleStaff))

				r.Post("/invoices", h.CreateInvoice)
				r.Get("/invoices", h.ListInvoices)
				r.Get("/invoices/{id}", h.GetInvoice)
				r.Put("/invoices/{id}/status", h.UpdateInvoiceStatus)
				r.Post("/invoices/{id}/payments", h.RecordPayment)

				r.Get("/customers", h.ListCustomers)
				r.Get("/reports/overdue", h.OverdueReport)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.RequireRole(model.RoleCustomer))

				r.Get("/customer/invoices", h.CustomerInvoices)
				r.Get("/customer/invoices/{id}", h.CustomerInvoice)
				r.Get("/customer/payments", h.CustomerPayments)
			})

			r.Get("/notifications", h.GetNotifications)
			r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
