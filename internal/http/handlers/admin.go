package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/http/response"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handlers) AdminSession(w http.ResponseWriter, r *http.Request) {
	token, exp, err := h.svc.Admin.IssueSession(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: exp})
}

func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.ParseSubmissionKind(chi.URLParam(r, "kind"))
	if !ok {
		response.NotFound(w, "Not found")
		return
	}
	table, err := h.svc.Admin.Export(r.Context(), kind)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+table.Filename)
	if err := table.Write(w); err != nil {
		logger.ErrorContext(r.Context(), "csv export failed", "kind", kind, "error", err)
	}
}

// AdminBookingConfig returns the stored configuration with snake_case keys.
func (h *Handlers) AdminBookingConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Availability.Config(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handlers) UpdateBookingConfig(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingConfigUpdate
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.svc.Admin.UpdateBookingConfig(r.Context(), in); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in domain.PasswordChange
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.svc.Admin.ChangePassword(r.Context(), in); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *Handlers) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Visits.Analytics(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, a)
}

func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Admin.ListSubmissions(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// pathID returns the {id} segment decoded; unsubscribed rows are keyed by
// email, which may arrive percent-encoded.
func pathID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if dec, err := url.PathUnescape(id); err == nil {
		id = dec
	}
	return strings.TrimSpace(id)
}

func (h *Handlers) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var err error
	switch domain.SubmissionKind(chi.URLParam(r, "kind")) {
	case domain.KindNewsletter:
		var in domain.NewsletterReq
		if !h.decode(w, r, &in) {
			return
		}
		err = h.svc.Admin.UpdateNewsletter(r.Context(), id, in.Email)
	case domain.KindBookings:
		var in domain.BookingPatch
		if !h.decode(w, r, &in) {
			return
		}
		err = h.svc.Admin.UpdateBooking(r.Context(), id, in)
	case domain.KindContact:
		var in domain.ContactPatch
		if !h.decode(w, r, &in) {
			return
		}
		err = h.svc.Admin.UpdateContact(r.Context(), id, in)
	default:
		response.NotFound(w, "Not found")
		return
	}
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *Handlers) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Admin.Delete(r.Context(), chi.URLParam(r, "kind"), pathID(r)); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

func (h *Handlers) Audiences(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Campaigns.Audiences(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"audiences": a})
}

func (h *Handlers) Recipients(w http.ResponseWriter, r *http.Request) {
	rs, err := h.svc.Campaigns.Recipients(r.Context(), r.URL.Query().Get("audience"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"recipients": rs})
}

func (h *Handlers) SendCampaign(w http.ResponseWriter, r *http.Request) {
	var in domain.Campaign
	if !h.decode(w, r, &in) {
		return
	}
	res, err := h.svc.Campaigns.Send(r.Context(), &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

type replyResponse struct {
	Status string `json:"status"`
	To     string `json:"to"`
}

func (h *Handlers) Reply(w http.ResponseWriter, r *http.Request) {
	var in domain.Reply
	if !h.decode(w, r, &in) {
		return
	}
	to, err := h.svc.Campaigns.Reply(r.Context(), &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, replyResponse{Status: "sent", To: to})
}

func (h *Handlers) TaskStats(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.Admin.TaskStats())
}
