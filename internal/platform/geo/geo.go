package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

// Locator resolves an IP to a coarse location. It never fails; unresolved
// addresses come back as domain.CountryUnknown.
type Locator interface {
	Lookup(ctx context.Context, ip string) domain.Geo
}

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

func IsLocal(ip string) bool {
	switch strings.TrimSpace(ip) {
	case "", "127.0.0.1", "localhost", "::1":
		return true
	}
	return false
}

func (c *Client) Lookup(ctx context.Context, ip string) domain.Geo {
	if IsLocal(ip) {
		return domain.Geo{Country: domain.CountryLocal, Region: domain.CountryLocal}
	}
	unknown := domain.Geo{Country: domain.CountryUnknown}

	u := c.endpoint + "/" + url.PathEscape(ip) + "?fields=status,country,regionName,city"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return unknown
	}
	resp, err := c.http.Do(req)
	if err != nil {
		logger.DebugContext(ctx, "geo lookup failed", "ip", ip, "error", err)
		return unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unknown
	}
	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "success" {
		return unknown
	}
	country := body.Country
	if country == "" {
		country = domain.CountryUnknown
	}
	return domain.Geo{Country: country, Region: body.RegionName, City: body.City}
}
