package geocoding

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"github.com/ngmaloney/europe-weather/internal/netstatus"
)

const (
	// DefaultURL is the Open-Meteo geocoding search endpoint
	DefaultURL = "https://geocoding-api.open-meteo.com/v1/search"

	// MinQueryLength is the shortest query that reaches the network
	MinQueryLength = 2

	// MaxSuggestions caps the number of cities returned by Search
	MaxSuggestions = 8

	resultCount = "20"
	language    = "en"
	userAgent   = "EuropeWeather/1.0"
)

// Searcher finds European cities matching free text
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.City, error)
}

// Client searches cities through the Open-Meteo geocoding API
type Client struct {
	endpoint string
	http     *resty.Client
	status   netstatus.Checker
	logger   *slog.Logger
}

// NewClient creates a geocoding client for endpoint
func NewClient(endpoint string, timeout time.Duration, status netstatus.Checker, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		status: status,
		logger: logger,
	}
}

// searchResponse represents the geocoding API response. Results is absent when nothing matched.
type searchResponse struct {
	Results []models.City `json:"results"`
}

// Search returns up to MaxSuggestions European cities for query, in service order.
// Queries shorter than MinQueryLength return no cities without a request.
func (c *Client) Search(ctx context.Context, query string) ([]models.City, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []models.City{}, nil
	}

	if !c.status.Online() {
		return nil, apperr.ErrOffline
	}

	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     query,
			"count":    resultCount,
			"language": language,
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get(c.endpoint)
	if err != nil {
		return nil, &apperr.GeocodingError{Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &apperr.GeocodingError{StatusCode: resp.StatusCode()}
	}

	cities := filterEuropean(body.Results, MaxSuggestions)
	c.logger.Debug("city search", "query", query, "results", len(body.Results), "european", len(cities))
	return cities, nil
}

// filterEuropean keeps cities on the allow-list, preserving order, up to limit
func filterEuropean(all []models.City, limit int) []models.City {
	cities := make([]models.City, 0, limit)
	for _, city := range all {
		if !IsEuropean(city.CountryCode) {
			continue
		}
		cities = append(cities, city)
		if len(cities) == limit {
			break
		}
	}
	return cities
}
