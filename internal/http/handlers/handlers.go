// Package handlers exposes the services over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/diagnosis/syllatech-api/internal/http/response"
	"github.com/diagnosis/syllatech-api/internal/service"
)

// Services are the dependencies the handlers call into.
type Services struct {
	Submissions  service.SubmissionService
	Availability service.AvailabilityService
	Visits       service.VisitTracker
	Admin        service.AdminService
	Campaigns    service.CampaignService
}

type Handlers struct {
	svc      Services
	validate *validator.Validate
}

func New(svc Services) *Handlers {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handlers{svc: svc, validate: v}
}

type statusResponse struct {
	Status string `json:"status"`
}

// decode reads a JSON body into dst and runs its validate tags. It writes
// the 400 itself and reports whether the handler should continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		response.BadRequest(w, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid input"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
