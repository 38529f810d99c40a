package domain

import "time"

type NewsletterSubscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

type NewsletterReq struct {
	Email string `json:"email" validate:"max=255"`
}

type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Business  *string   `json:"business"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ContactReq struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,max=255"`
	Business *string `json:"business" validate:"omitempty,max=100"`
	Message  string  `json:"message" validate:"required"`
}

// ContactPatch carries admin edits; nil fields are left unchanged.
type ContactPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Business *string `json:"business"`
	Message  *string `json:"message"`
}

func (p ContactPatch) Apply(c *ContactSubmission) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Business != nil {
		c.Business = p.Business
	}
	if p.Message != nil {
		c.Message = *p.Message
	}
}

// UnsubscribedEmail suppresses campaign mail only; transactional mail is
// unaffected.
// ID mirrors Email so admin listings share one row shape.
type UnsubscribedEmail struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

type StatusCheckReq struct {
	ClientName string `json:"client_name" validate:"required,max=255"`
}

// SubmissionKind names the record families exposed by the admin console.
type SubmissionKind string

const (
	KindNewsletter   SubmissionKind = "newsletter"
	KindBookings     SubmissionKind = "bookings"
	KindContact      SubmissionKind = "contact"
	KindUnsubscribed SubmissionKind = "unsubscribed"
)

func ParseSubmissionKind(s string) (SubmissionKind, bool) {
	switch SubmissionKind(s) {
	case KindNewsletter, KindBookings, KindContact, KindUnsubscribed:
		return SubmissionKind(s), true
	default:
		return "", false
	}
}
