package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/http/response"
	"github.com/diagnosis/syllatech-api/internal/utils"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

type trackReq struct {
	Path string `json:"path"`
}

func (h *Handlers) Track(w http.ResponseWriter, r *http.Request) {
	var in trackReq
	if !h.decode(w, r, &in) {
		return
	}
	h.svc.Visits.Track(r.Context(), in.Path, utils.ClientIP(r))
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handlers) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var in domain.StatusCheckReq
	if !h.decode(w, r, &in) {
		return
	}
	sc, err := h.svc.Submissions.CreateStatus(r.Context(), in.ClientName)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sc)
}

func (h *Handlers) ListStatus(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Submissions.ListStatus(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, items)
}

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in domain.NewsletterReq
	if !h.decode(w, r, &in) {
		return
	}
	if _, err := h.svc.Submissions.Subscribe(r.Context(), in.Email); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handlers) BookingConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Availability.Config(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, cfg.Public())
}

func (h *Handlers) Availability(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		response.BadRequest(w, "date is required")
		return
	}
	a, err := h.svc.Availability.Taken(r.Context(), date)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, a)
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingReq
	if !h.decode(w, r, &in) {
		return
	}
	if _, err := h.svc.Submissions.CreateBooking(r.Context(), &in); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var in domain.ContactReq
	if !h.decode(w, r, &in) {
		return
	}
	if _, err := h.svc.Submissions.CreateContact(r.Context(), &in); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

var unsubscribePage = template.Must(template.New("unsubscribe").Parse(`<html><body style="font-family:sans-serif;max-width:480px;margin:80px auto;text-align:center;{{if .OK}}background:#030712;color:#e2e8f0;padding:40px;{{end}}">
<h2{{if .OK}} style="color:#22d3ee;"{{end}}>{{.Title}}</h2>
<p>{{.Body}}</p>
</body></html>`))

type unsubscribePageData struct {
	OK    bool
	Title string
	Body  string
}

func writePage(w http.ResponseWriter, status int, data unsubscribePageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := unsubscribePage.Execute(w, data); err != nil {
		logger.Error("failed to render unsubscribe page", "error", err)
	}
}

// UnsubscribePage is the target of the link in campaign mail.
func (h *Handlers) UnsubscribePage(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Submissions.Unsubscribe(r.Context(), r.URL.Query().Get("email"))
	switch {
	case err == nil:
		writePage(w, http.StatusOK, unsubscribePageData{
			OK:    true,
			Title: "You're unsubscribed",
			Body:  "You won't receive marketing emails from us anymore.",
		})
	case errors.Is(err, domain.ErrValidation):
		writePage(w, http.StatusBadRequest, unsubscribePageData{
			Title: "Invalid request",
			Body:  "Please use the unsubscribe link from your email.",
		})
	default:
		logger.ErrorContext(r.Context(), "unsubscribe failed", "error", err)
		writePage(w, http.StatusInternalServerError, unsubscribePageData{
			Title: "Something went wrong",
			Body:  "Please try again later.",
		})
	}
}

type unsubscribeReq struct {
	Email string `json:"email"`
}

func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var in unsubscribeReq
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.svc.Submissions.Unsubscribe(r.Context(), in.Email); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "unsubscribed"})
}
