package domain

import "time"

// Booking is a consultation request. Date and Time are optional so a visitor
// can ask for a call back without picking a slot.
type Booking struct {
	ID        string    `json:"id"`
	Date      *string   `json:"date"`
	DateISO   *string   `json:"date_iso"`
	Time      *string   `json:"time"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Business  *string   `json:"business"`
	Message   *string   `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HasSlot reports whether the booking claims a concrete (date_iso, time) slot.
func (b Booking) HasSlot() bool {
	return deref(b.DateISO) != "" && deref(b.Time) != ""
}

// DisplayDate is the human date, falling back to the ISO date.
func (b Booking) DisplayDate() string {
	if d := deref(b.Date); d != "" {
		return d
	}
	return deref(b.DateISO)
}

type BookingReq struct {
	Date     *string `json:"date" validate:"omitempty,max=100"`
	DateISO  *string `json:"date_iso" validate:"omitempty,max=10"`
	Time     *string `json:"time" validate:"omitempty,max=50"`
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Business *string `json:"business" validate:"omitempty,max=100"`
	Message  *string `json:"message"`
}

// BookingPatch carries admin edits; nil fields are left unchanged.
type BookingPatch struct {
	Date     *string `json:"date"`
	DateISO  *string `json:"date_iso"`
	Time     *string `json:"time"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Business *string `json:"business"`
	Message  *string `json:"message"`
}

// Apply merges the patch into b.
func (p BookingPatch) Apply(b *Booking) {
	if p.Date != nil {
		b.Date = p.Date
	}
	if p.DateISO != nil {
		b.DateISO = p.DateISO
	}
	if p.Time != nil {
		b.Time = p.Time
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = p.Phone
	}
	if p.Business != nil {
		b.Business = p.Business
	}
	if p.Message != nil {
		b.Message = p.Message
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string { return deref(s) }
