package models

import (
	"math"
	"testing"
	"time"
)

func hours24(fill func(i int) float64) []float64 {
	out := make([]float64, 24)
	for i := range out {
		out[i] = fill(i)
	}
	return out
}

func TestForecast_HumidityAt(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	times := make([]string, 24)
	for i := range times {
		times[i] = time.Date(2025, 6, 14, i, 0, 0, 0, paris).Format("2006-01-02T15:04")
	}

	tests := []struct {
		name     string
		forecast Forecast
		now      time.Time
		want     float64
		wantOK   bool
	}{
		{
			name: "indexed by local hour of forecast timezone",
			forecast: Forecast{
				Timezone:       "Europe/Paris",
				HourlyHumidity: hours24(func(i int) float64 { return float64(40 + i) }),
			},
			// 12:30 UTC is 14:30 in Paris during summer time
			now:    time.Date(2025, 6, 14, 12, 30, 0, 0, time.UTC),
			want:   54,
			wantOK: true,
		},
		{
			name: "matched by hourly timestamp",
			forecast: Forecast{
				Timezone:       "Europe/Paris",
				HourlyHumidity: hours24(func(i int) float64 { return float64(i) }),
				HourlyTimes:    times,
			},
			now:    time.Date(2025, 6, 14, 21, 5, 0, 0, time.UTC),
			want:   23,
			wantOK: true,
		},
		{
			name: "null reading",
			forecast: Forecast{
				Timezone:       "Europe/Paris",
				HourlyHumidity: hours24(func(int) float64 { return math.NaN() }),
			},
			now:    time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC),
			wantOK: false,
		},
		{
			name:     "no hourly data",
			forecast: Forecast{Timezone: "Europe/Paris"},
			now:      time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC),
			wantOK:   false,
		},
		{
			name: "unknown timezone uses the clock as given",
			forecast: Forecast{
				Timezone:       "Not/AZone",
				HourlyHumidity: hours24(func(i int) float64 { return float64(i * 2) }),
			},
			now:    time.Date(2025, 6, 14, 7, 0, 0, 0, time.UTC),
			want:   14,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.forecast.HumidityAt(tt.now)
			if ok != tt.wantOK {
				t.Fatalf("HumidityAt() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("HumidityAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForecast_Location(t *testing.T) {
	f := Forecast{}
	if _, ok := f.Location(); ok {
		t.Error("Location() with empty timezone should report false")
	}

	f.Timezone = "Europe/Berlin"
	loc, ok := f.Location()
	if !ok {
		t.Skip("tzdata unavailable")
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("Location() = %s, want Europe/Berlin", loc)
	}
}
