package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"github.com/ngmaloney/europe-weather/internal/resolver"
	"github.com/ngmaloney/europe-weather/internal/ui"
)

type demoCity struct {
	city     models.City
	forecast models.Forecast
}

var cities = []demoCity{
	{
		city:     models.City{Name: "Paris", Admin1: "Île-de-France", Country: "France", CountryCode: "FR", Latitude: 48.85341, Longitude: 2.3488},
		forecast: demoForecast(18.4, 14.2, 61, 20.1, 12.3, 70, "Europe/Paris"),
	},
	{
		city:     models.City{Name: "London", Admin1: "England", Country: "United Kingdom", CountryCode: "GB", Latitude: 51.50853, Longitude: -0.12574},
		forecast: demoForecast(14.6, 22.8, 3, 16.0, 9.7, 82, "Europe/London"),
	},
	{
		city:     models.City{Name: "Lisbon", Admin1: "Lisbon", Country: "Portugal", CountryCode: "PT", Latitude: 38.71667, Longitude: -9.13333},
		forecast: demoForecast(24.5, 11.1, 0, 27.3, 17.8, 48, "Europe/Lisbon"),
	},
	{
		city:     models.City{Name: "Kraków", Admin1: "Lesser Poland", Country: "Poland", CountryCode: "PL", Latitude: 50.06143, Longitude: 19.93658},
		forecast: demoForecast(-2.5, 8.0, 73, 0.4, -6.2, 91, "Europe/Warsaw"),
	},
	{
		city:     models.City{Name: "Reykjavík", Admin1: "Capital Region", Country: "Iceland", CountryCode: "IS", Latitude: 64.13548, Longitude: -21.89541},
		forecast: demoForecast(6.1, 35.4, 95, 7.9, 3.2, -1, "Atlantic/Reykjavik"),
	},
}

// demoForecast builds a day of hourly humidity around base; a negative base leaves it unreported
func demoForecast(temp, wind float64, code int, high, low, base float64, tz string) models.Forecast {
	humidity := make([]float64, 24)
	for i := range humidity {
		if base < 0 {
			humidity[i] = math.NaN()
			continue
		}
		humidity[i] = base + float64(i%6)
	}
	return models.Forecast{
		Current:        models.CurrentWeather{TemperatureC: temp, WindSpeedKmh: wind, WeatherCode: code},
		DailyHigh:      high,
		DailyLow:       low,
		HourlyHumidity: humidity,
		Timezone:       tz,
	}
}

// fixtureSearcher matches city names by prefix, ignoring case
type fixtureSearcher struct{}

func (fixtureSearcher) Search(ctx context.Context, query string) ([]models.City, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.City
	for _, c := range cities {
		if strings.HasPrefix(strings.ToLower(c.city.Name), q) {
			out = append(out, c.city)
		}
	}
	return out, nil
}

// fixtureFetcher serves the forecast stored for a city's coordinates
type fixtureFetcher struct{}

func (fixtureFetcher) Fetch(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	for _, c := range cities {
		if c.city.Latitude == lat && c.city.Longitude == lon {
			f := c.forecast
			return &f, nil
		}
	}
	return nil, &apperr.ForecastError{StatusCode: 404}
}

// This demo shows the UI with fixture data and no network access
func main() {
	// The terminal belongs to the UI
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := resolver.NewController(fixtureSearcher{}, fixtureFetcher{}, logger)

	initial := "Paris"
	if len(os.Args) > 1 {
		initial = strings.Join(os.Args[1:], " ")
	}

	m := ui.NewModel(ctrl, ui.Options{InitialCity: initial})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running demo: %v\n", err)
		os.Exit(1)
	}
}
