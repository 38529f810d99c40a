package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/syllatech-api/internal/http/middleware"
)

// Routes mounts every endpoint. idempotency wraps the public submission
// POSTs and may be nil.
func (h *Handlers) Routes(idempotency func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/track", h.Track)
	r.Post("/status", h.CreateStatus)
	r.Get("/status", h.ListStatus)
	r.Get("/booking/config", h.BookingConfig)
	r.Get("/availability", h.Availability)
	r.Get("/unsubscribe", h.UnsubscribePage)
	r.Post("/unsubscribe", h.Unsubscribe)

	r.Route("/submissions", func(r chi.Router) {
		if idempotency != nil {
			r.Use(idempotency)
		}
		r.Post("/newsletter", h.Subscribe)
		r.Post("/bookings", h.CreateBooking)
		r.Post("/contact", h.CreateContact)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequireAdminKey(h.svc.Admin)).Post("/session", h.AdminSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.svc.Admin))

			r.Get("/export/{kind}", h.Export)
			r.Get("/booking/config", h.AdminBookingConfig)
			r.Put("/booking/config", h.UpdateBookingConfig)
			r.Put("/password", h.ChangePassword)
			r.Get("/analytics", h.Analytics)

			r.Get("/submissions", h.ListSubmissions)
			r.Put("/submissions/{kind}/{id}", h.UpdateSubmission)
			r.Delete("/submissions/{kind}/{id}", h.DeleteSubmission)

			r.Get("/email/audiences", h.Audiences)
			r.Get("/email/recipients", h.Recipients)
			r.Post("/email/send", h.SendCampaign)
			r.Post("/email/reply", h.Reply)

			r.Get("/tasks", h.TaskStats)
		})
	})

	return r
}
