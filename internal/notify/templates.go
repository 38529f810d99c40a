package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/diagnosis/syllatech-api/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	defaultSiteURL = "https://syllatech.com"
	placeholder    = "—"
)

const (
	SubjectBookingConfirmed = "Your SyllaTech consultation is confirmed"
	SubjectWelcome          = "Welcome to SyllaTech — You're In!"
	SubjectReplyDefault     = "Message from SyllaTech"
)

type confirmationData struct {
	Title      string
	Name       string
	Date, Time string
}

type ownerData struct {
	Title                   string
	Name, Email             string
	Date, Time              string
	Phone, Business, Message string
}

type welcomeData struct {
	Title          string
	SiteURL        string
	UnsubscribeURL string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// BookingConfirmation renders the email sent to the person who booked.
func BookingConfirmation(b *domain.Booking) (string, error) {
	date := b.DisplayDate()
	if date == "" {
		date = "your chosen date"
	}
	return render("booking_confirmation.html", confirmationData{
		Title: "Booking Confirmed - SyllaTech",
		Name:  b.Name,
		Date:  date,
		Time:  domain.Deref(b.Time),
	})
}

// OwnerNotification renders the new-booking alert for the site owner.
func OwnerNotification(b *domain.Booking) (string, error) {
	return render("owner_notification.html", ownerData{
		Title:    "New Booking - SyllaTech",
		Name:     b.Name,
		Email:    b.Email,
		Date:     orDash(b.DisplayDate()),
		Time:     orDash(domain.Deref(b.Time)),
		Phone:    orDash(domain.Deref(b.Phone)),
		Business: orDash(domain.Deref(b.Business)),
		Message:  orDash(domain.Deref(b.Message)),
	})
}

func OwnerSubject(b *domain.Booking) string {
	return fmt.Sprintf("New booking: %s — %s at %s", b.Name, b.DisplayDate(), domain.Deref(b.Time))
}

// Welcome renders the newsletter welcome with the recipient's own
// unsubscribe link already in place.
func Welcome(siteURL, unsubscribeURL string) (string, error) {
	if siteURL == "" {
		siteURL = defaultSiteURL
	}
	return render("newsletter_welcome.html", welcomeData{
		Title:          "Welcome to SyllaTech",
		SiteURL:        siteURL,
		UnsubscribeURL: unsubscribeURL,
	})
}

func orDash(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
