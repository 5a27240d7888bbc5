package models

import (
	"math"
	"time"

	// Forecast timezones must resolve on hosts without a zoneinfo database
	_ "time/tzdata"
)

// hourLayout matches the hourly timestamps of the forecast service (local time, no zone)
const hourLayout = "2006-01-02T15:00"

// CurrentWeather represents the conditions reported for right now
type CurrentWeather struct {
	TemperatureC float64
	WindSpeedKmh float64
	WeatherCode  int // WMO code
}

// Forecast is the weather summary for one resolved city
type Forecast struct {
	Current   CurrentWeather
	DailyHigh float64 // Celsius, today
	DailyLow  float64 // Celsius, today

	// HourlyHumidity holds relative humidity in percent, index = hour of day.
	// Missing readings are NaN.
	HourlyHumidity []float64
	HourlyTimes    []string // same length as HourlyHumidity when provided

	Timezone string // IANA name resolved by the service
}

// Location loads the forecast timezone, reporting false if it is unknown
func (f *Forecast) Location() (*time.Location, bool) {
	if f.Timezone == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// HumidityAt returns the relative humidity for the hour containing now in
// the forecast's timezone. The boolean is false when no reading exists.
func (f *Forecast) HumidityAt(now time.Time) (float64, bool) {
	if loc, ok := f.Location(); ok {
		now = now.In(loc)
	}

	idx := now.Hour()
	if len(f.HourlyTimes) == len(f.HourlyHumidity) {
		stamp := now.Format(hourLayout)
		for i, t := range f.HourlyTimes {
			if t == stamp {
				idx = i
				break
			}
		}
	}

	if idx < 0 || idx >= len(f.HourlyHumidity) {
		return 0, false
	}
	h := f.HourlyHumidity[idx]
	if math.IsNaN(h) {
		return 0, false
	}
	return h, true
}
