package domain

type Audience string

const (
	AudienceNewsletter Audience = "newsletter"
	AudienceBookings   Audience = "bookings"
	AudienceContact    Audience = "contact"
	AudienceAll        Audience = "all"
)

func ParseAudience(s string) (Audience, bool) {
	switch Audience(s) {
	case AudienceNewsletter, AudienceBookings, AudienceContact, AudienceAll:
		return Audience(s), true
	default:
		return "", false
	}
}

type Recipient struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type AudienceInfo struct {
	ID    Audience `json:"id"`
	Label string   `json:"label"`
	Count int64    `json:"count"`
}

type AudienceCounts struct {
	Newsletter int64
	Bookings   int64
	Contact    int64
	All        int64
}

type Campaign struct {
	Audience   string   `json:"audience" validate:"required"`
	EmailType  string   `json:"email_type" validate:"omitempty,oneof=offer news announcement update"`
	Subject    string   `json:"subject" validate:"required"`
	HTMLBody   string   `json:"html_body" validate:"required"`
	Recipients []string `json:"recipients"`
}

type CampaignResult struct {
	Status     string `json:"status"`
	Recipients int    `json:"recipients"`
	Message    string `json:"message"`
}

type Reply struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}
