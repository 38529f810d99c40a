package domain

import "time"

const (
	CountryLocal   = "Local"
	CountryUnknown = "Unknown"
	MaxVisitPath   = 500
)

type Visit struct {
	ID        string    `json:"id,omitempty"`
	Path      string    `json:"path"`
	Country   *string   `json:"country"`
	Region    *string   `json:"region"`
	City      *string   `json:"city"`
	Timestamp time.Time `json:"timestamp"`
}

// Geo is the outcome of an IP lookup. Empty Region/City are stored as NULL.
type Geo struct {
	Country string
	Region  string
	City    string
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

type RegionCount struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	Count   int64  `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Analytics struct {
	TotalVisits  int64          `json:"total_visits"`
	VisitsToday  int64          `json:"visits_today"`
	ByCountry    []CountryCount `json:"by_country"`
	ByRegion     []RegionCount  `json:"by_region"`
	VisitsByDate []DateCount    `json:"visits_by_date"`
	Recent       []Visit        `json:"recent"`
}
