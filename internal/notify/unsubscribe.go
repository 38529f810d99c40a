package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// UnsubscribeToken is replaced with the recipient's opt-out link when present
// in a message body.
const UnsubscribeToken = "{{UNSUBSCRIBE_URL}}"

// Links builds public URLs that appear in outgoing mail.
type Links struct {
	SiteURL    string
	BackendURL string
}

// UnsubscribeURL points at the site's unsubscribe page when SiteURL is set,
// otherwise at the API endpoint.
func (l Links) UnsubscribeURL(email string) string {
	q := url.QueryEscape(email)
	if site := strings.TrimRight(l.SiteURL, "/"); site != "" {
		return site + "/unsubscribe?email=" + q
	}
	backend := strings.TrimRight(l.BackendURL, "/")
	if backend == "" {
		backend = "http://localhost:8000"
	}
	return backend + "/api/unsubscribe?email=" + q
}

const footerTmpl = `
<div style="margin-top:32px;padding-top:24px;border-top:1px solid #334155;font-size:12px;color:#64748b;text-align:center;">
  <a href="%s" style="color:#64748b;text-decoration:underline;">Unsubscribe</a> from these emails
</div>`

// InjectUnsubscribe fills the token if the body has one, otherwise appends a
// footer with the link.
func InjectUnsubscribe(body, link string) string {
	if strings.Contains(body, UnsubscribeToken) {
		return strings.ReplaceAll(body, UnsubscribeToken, link)
	}
	return strings.TrimRight(body, " \t\r\n") + fmt.Sprintf(footerTmpl, link)
}
