// Package export renders admin data sets as CSV.
package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
)

type Table struct {
	Filename string
	Header   []string
	Rows     [][]string
}

// Write emits the header and rows with CRLF line endings.
func (t Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func Newsletter(subs []domain.NewsletterSubscriber) Table {
	t := Table{Filename: "newsletter-subscribers.csv", Header: []string{"email", "timestamp"}}
	for _, s := range subs {
		t.Rows = append(t.Rows, []string{s.Email, stamp(s.Timestamp)})
	}
	return t
}

func Bookings(bs []domain.Booking) Table {
	t := Table{
		Filename: "bookings.csv",
		Header:   []string{"date", "date_iso", "time", "name", "email", "phone", "business", "message", "timestamp"},
	}
	for _, b := range bs {
		t.Rows = append(t.Rows, []string{
			domain.Deref(b.Date),
			domain.Deref(b.DateISO),
			domain.Deref(b.Time),
			b.Name,
			b.Email,
			domain.Deref(b.Phone),
			domain.Deref(b.Business),
			oneLine(domain.Deref(b.Message)),
			stamp(b.Timestamp),
		})
	}
	return t
}

func Contacts(cs []domain.ContactSubmission) Table {
	t := Table{
		Filename: "contact-submissions.csv",
		Header:   []string{"name", "email", "business", "message", "timestamp"},
	}
	for _, c := range cs {
		t.Rows = append(t.Rows, []string{
			c.Name,
			c.Email,
			domain.Deref(c.Business),
			oneLine(c.Message),
			stamp(c.Timestamp),
		})
	}
	return t
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func oneLine(s string) string {
	return lineBreaks.Replace(s)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
