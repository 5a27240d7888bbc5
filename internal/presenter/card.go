// Package presenter turns a resolved city and its forecast into the
// strings shown on the weather card.
package presenter

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ngmaloney/europe-weather/internal/conditions"
	"github.com/ngmaloney/europe-weather/internal/models"
)

const (
	zonedDateLayout = "Monday 2 January 2006, 15:04"
	localDateLayout = "Monday 2 January 2006"

	// MissingValue stands in for a reading the service did not report
	MissingValue = "--"
)

// Card holds the display strings for one forecast
type Card struct {
	City        string
	Date        string
	Icon        string
	Temperature string
	Condition   string
	HighLow     string
	Wind        string
	Humidity    string
}

// BuildCard formats f for city as of now
func BuildCard(city models.City, f *models.Forecast, now time.Time) Card {
	entry := conditions.Lookup(f.Current.WeatherCode)

	return Card{
		City:        city.DisplayName(),
		Date:        FormatDate(f, now),
		Icon:        entry.Icon,
		Temperature: fmt.Sprintf("%d°C", Round(f.Current.TemperatureC)),
		Condition:   entry.Description,
		HighLow:     fmt.Sprintf("%d° / %d°", Round(f.DailyHigh), Round(f.DailyLow)),
		Wind:        fmt.Sprintf("%d km/h", Round(f.Current.WindSpeedKmh)),
		Humidity:    FormatHumidity(f, now),
	}
}

// FormatDate renders now in the forecast timezone. If the zone cannot be
// loaded only the local date is shown.
func FormatDate(f *models.Forecast, now time.Time) string {
	if loc, ok := f.Location(); ok {
		return now.In(loc).Format(zonedDateLayout)
	}
	return now.Local().Format(localDateLayout)
}

// FormatHumidity renders the humidity for the current hour, or "--%"
func FormatHumidity(f *models.Forecast, now time.Time) string {
	h, ok := f.HumidityAt(now)
	if !ok {
		return MissingValue + "%"
	}
	return strconv.FormatFloat(h, 'f', -1, 64) + "%"
}

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
