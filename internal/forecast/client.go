// Package forecast fetches current conditions for a coordinate from the
// Open-Meteo forecast API.
package forecast

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"github.com/ngmaloney/europe-weather/internal/netstatus"
)

// DefaultURL is the Open-Meteo forecast endpoint
const DefaultURL = "https://api.open-meteo.com/v1/forecast"

const userAgent = "EuropeWeather/1.0"

// Fetcher retrieves the forecast for a coordinate
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*models.Forecast, error)
}

// Client implements Fetcher against the Open-Meteo API
type Client struct {
	endpoint string
	http     *resty.Client
	status   netstatus.Checker
	logger   *slog.Logger
}

// NewClient creates a forecast client for endpoint
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

// Fetch retrieves current conditions, today's high/low and hourly humidity.
// A single attempt is made.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	if !c.status.Online() {
		return nil, apperr.ErrOffline
	}

	var body forecastResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":        formatCoord(lat),
			"longitude":       formatCoord(lon),
			"current_weather": "true",
			"hourly":          "relative_humidity_2m",
			"daily":           "temperature_2m_max,temperature_2m_min",
			"timezone":        "auto",
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get(c.endpoint)
	if err != nil {
		return nil, &apperr.ForecastError{Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &apperr.ForecastError{StatusCode: resp.StatusCode()}
	}

	forecast, err := body.toForecast()
	if err != nil {
		return nil, &apperr.ForecastError{Err: err}
	}

	c.logger.Debug("forecast fetched", "lat", lat, "lon", lon, "timezone", forecast.Timezone,
		"temp", forecast.Current.TemperatureC, "code", forecast.Current.WeatherCode)
	return forecast, nil
}

// formatCoord renders a coordinate in its shortest decimal form
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Internal types for Open-Meteo responses

type forecastResponse struct {
	Timezone       string          `json:"timezone"`
	CurrentWeather *currentWeather `json:"current_weather"`
	Hourly         struct {
		Time             []string   `json:"time"`
		RelativeHumidity []*float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
	Daily struct {
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	Weathercode int     `json:"weathercode"`
}

var (
	errMissingCurrent = errors.New("response has no current_weather")
	errMissingDaily   = errors.New("response has no daily temperatures")
)

// toForecast maps the wire format onto the model. Humidity gaps become NaN;
// missing current or daily data is an error.
func (r forecastResponse) toForecast() (*models.Forecast, error) {
	if r.CurrentWeather == nil {
		return nil, errMissingCurrent
	}
	if len(r.Daily.TemperatureMax) == 0 || len(r.Daily.TemperatureMin) == 0 ||
		r.Daily.TemperatureMax[0] == nil || r.Daily.TemperatureMin[0] == nil {
		return nil, errMissingDaily
	}

	humidity := make([]float64, len(r.Hourly.RelativeHumidity))
	for i, h := range r.Hourly.RelativeHumidity {
		if h == nil {
			humidity[i] = math.NaN()
			continue
		}
		humidity[i] = *h
	}

	return &models.Forecast{
		Current: models.CurrentWeather{
			TemperatureC: r.CurrentWeather.Temperature,
			WindSpeedKmh: r.CurrentWeather.Windspeed,
			WeatherCode:  r.CurrentWeather.Weathercode,
		},
		DailyHigh:      *r.Daily.TemperatureMax[0],
		DailyLow:       *r.Daily.TemperatureMin[0],
		HourlyHumidity: humidity,
		HourlyTimes:    r.Hourly.Time,
		Timezone:       r.Timezone,
	}, nil
}
