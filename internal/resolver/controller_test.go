package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"github.com/ngmaloney/europe-weather/internal/netstatus"
)

// Mock clients for testing

type mockSearcher struct {
	status  netstatus.Checker
	results map[string][]models.City
	err     error
	queries []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]models.City, error) {
	if m.status != nil && !m.status.Online() {
		return nil, apperr.ErrOffline
	}
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

type mockFetcher struct {
	status   netstatus.Checker
	forecast *models.Forecast
	err      error
	calls    []models.City
}

func (m *mockFetcher) Fetch(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	if m.status != nil && !m.status.Online() {
		return nil, apperr.ErrOffline
	}
	m.calls = append(m.calls, models.City{Latitude: lat, Longitude: lon})
	if m.err != nil {
		return nil, m.err
	}
	return m.forecast, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	london = models.City{Name: "London", Admin1: "England", Country: "United Kingdom", CountryCode: "GB", Latitude: 51.5, Longitude: -0.12}
	paris  = models.City{Name: "Paris", Admin1: "Île-de-France", Country: "France", CountryCode: "FR", Latitude: 48.85, Longitude: 2.35}
	parisF = &models.Forecast{Current: models.CurrentWeather{TemperatureC: 18.4, WindSpeedKmh: 14.2, WeatherCode: 61}, DailyHigh: 20.1, DailyLow: 12.3, Timezone: "Europe/Paris"}
)

func TestSubmit_EmptyInputIsNoop(t *testing.T) {
	s := &mockSearcher{}
	f := &mockFetcher{forecast: parisF}
	c := NewController(s, f, quietLogger())

	for _, input := range []string{"", "   ", "\t\n"} {
		res, err := c.Submit(context.Background(), input)
		if res != nil || err != nil {
			t.Errorf("Submit(%q) = %v, %v, want nil, nil", input, res, err)
		}
	}

	if state, _ := c.State(); state != StateIdle {
		t.Errorf("state = %v, want idle", state)
	}
	if len(s.queries) != 0 || len(f.calls) != 0 {
		t.Errorf("empty submit made %d searches and %d fetches", len(s.queries), len(f.calls))
	}
}

func TestSubmit_ExactLabelMatchSkipsSearch(t *testing.T) {
	s := &mockSearcher{results: map[string][]models.City{"Lond": {london}}}
	f := &mockFetcher{forecast: parisF}
	c := NewController(s, f, quietLogger())

	c.Suggest(context.Background(), "Lond")
	if len(s.queries) != 1 {
		t.Fatalf("Suggest made %d searches, want 1", len(s.queries))
	}

	res, err := c.Submit(context.Background(), "London, England United Kingdom")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.City != london {
		t.Errorf("resolved city = %+v, want London", res.City)
	}
	if len(s.queries) != 1 {
		t.Errorf("Submit made an additional search: %v", s.queries[1:])
	}
	if len(f.calls) != 1 || f.calls[0].Latitude != 51.5 || f.calls[0].Longitude != -0.12 {
		t.Errorf("fetch calls = %+v, want one for London's coordinates", f.calls)
	}
	if res.FlowID == "" {
		t.Error("FlowID should be set")
	}

	state, kind := c.State()
	if state != StateDisplayed || kind != "" {
		t.Errorf("state = %v/%q, want displayed with no error", state, kind)
	}
	if got, ok := c.Resolved(); !ok || got != london {
		t.Errorf("Resolved() = %+v, %v", got, ok)
	}
}

func TestSubmit_FirstMatchWins(t *testing.T) {
	twin := london
	twin.Latitude, twin.Longitude = 42.98, -81.24
	s := &mockSearcher{results: map[string][]models.City{"London": {london, twin}}}
	f := &mockFetcher{forecast: parisF}
	c := NewController(s, f, quietLogger())

	c.Suggest(context.Background(), "London")
	res, err := c.Submit(context.Background(), london.Label())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.City.Latitude != 51.5 {
		t.Errorf("resolved latitude = %v, want the first candidate (51.5)", res.City.Latitude)
	}
}

func TestSubmit_NoMatchSearchesOnce(t *testing.T) {
	s := &mockSearcher{results: map[string][]models.City{
		"Lond":  {london},
		"Paris": {paris, london},
	}}
	f := &mockFetcher{forecast: parisF}
	c := NewController(s, f, quietLogger())

	c.Suggest(context.Background(), "Lond")
	res, err := c.Submit(context.Background(), "  Paris ")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(s.queries) != 2 || s.queries[1] != "Paris" {
		t.Errorf("searches = %v, want [Lond Paris]", s.queries)
	}
	if res.City != paris {
		t.Errorf("resolved = %+v, want first search result", res.City)
	}
}

func TestSubmit_CityNotFound(t *testing.T) {
	s := &mockSearcher{results: map[string][]models.City{}}
	f := &mockFetcher{forecast: parisF}
	c := NewController(s, f, quietLogger())

	_, err := c.Submit(context.Background(), "Atlantis")
	if !errors.Is(err, apperr.ErrCityNotFound) {
		t.Fatalf("Submit() error = %v, want ErrCityNotFound", err)
	}
	if len(s.queries) != 1 {
		t.Errorf("searches = %d, want exactly 1", len(s.queries))
	}
	if len(f.calls) != 0 {
		t.Errorf("fetches = %d, want 0", len(f.calls))
	}

	state, kind := c.State()
	if state != StateError || kind != apperr.KindCityNotFound {
		t.Errorf("state = %v/%q, want error/city_not_found", state, kind)
	}
}

func TestSubmit_ErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		searchErr error
		fetchErr  error
		want      apperr.Kind
	}{
		{"search offline", apperr.ErrOffline, nil, apperr.KindOffline},
		{"search status", &apperr.GeocodingError{StatusCode: 500}, nil, apperr.KindGeocodingFailed},
		{"search unknown error", errors.New("weird"), nil, apperr.KindGeocodingFailed},
		{"fetch offline", nil, apperr.ErrOffline, apperr.KindOffline},
		{"fetch status", nil, &apperr.ForecastError{StatusCode: 503}, apperr.KindForecastFailed},
		{"fetch returns geocoding-typed error", nil, &apperr.GeocodingError{StatusCode: 500}, apperr.KindForecastFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{results: map[string][]models.City{"Paris": {paris}}, err: tt.searchErr}
			f := &mockFetcher{forecast: parisF, err: tt.fetchErr}
			c := NewController(s, f, quietLogger())

			res, err := c.Submit(context.Background(), "Paris")
			if res != nil {
				t.Errorf("Submit() result = %+v, want nil", res)
			}
			if got := apperr.KindOf(err); got != tt.want {
				t.Errorf("KindOf(err) = %v, want %v (err = %v)", got, tt.want, err)
			}
			state, kind := c.State()
			if state != StateError || kind != tt.want {
				t.Errorf("state = %v/%q, want error/%q", state, kind, tt.want)
			}
			if _, ok := c.Resolved(); ok {
				t.Error("Resolved() should be empty after a failed flow")
			}
		})
	}
}

func TestSubmit_OfflineMakesNoCalls(t *testing.T) {
	offline := netstatus.Static(false)

	tests := []struct {
		name  string
		input string
	}{
		{"would search", "Paris"},
		{"would fetch matched suggestion", london.Label()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{status: offline}
			f := &mockFetcher{status: offline, forecast: parisF}
			c := NewController(s, f, quietLogger())
			c.setSuggestions([]models.City{london})

			_, err := c.Submit(context.Background(), tt.input)
			if apperr.KindOf(err) != apperr.KindOffline {
				t.Errorf("KindOf(err) = %v, want offline", apperr.KindOf(err))
			}
			if len(s.queries) != 0 || len(f.calls) != 0 {
				t.Errorf("offline submit reached the network: %d searches, %d fetches", len(s.queries), len(f.calls))
			}
		})
	}
}

func TestSubmit_ClearsStaleResolvedCity(t *testing.T) {
	s := &mockSearcher{results: map[string][]models.City{"Paris": {paris}}}
	f := &mockFetcher{forecast: parisF}
	c := NewController(s, f, quietLogger())

	if _, err := c.Submit(context.Background(), "Paris"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, ok := c.Resolved(); !ok {
		t.Fatal("expected a resolved city")
	}

	f.err = &apperr.ForecastError{StatusCode: 500}
	if _, err := c.Submit(context.Background(), "Paris"); err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := c.Resolved(); ok {
		t.Error("stale resolved city survived a new submission")
	}
}

func TestDismiss(t *testing.T) {
	s := &mockSearcher{err: &apperr.GeocodingError{StatusCode: 500}}
	f := &mockFetcher{}
	c := NewController(s, f, quietLogger())

	c.Submit(context.Background(), "Paris")
	c.Dismiss()

	state, kind := c.State()
	if state != StateIdle || kind != "" {
		t.Errorf("after Dismiss state = %v/%q, want idle", state, kind)
	}
	if len(s.queries) != 1 {
		t.Errorf("Dismiss re-ran the search: %d searches", len(s.queries))
	}
}

func TestSuggest(t *testing.T) {
	many := make([]models.City, 8)
	for i := range many {
		many[i] = models.City{Name: "City", CountryCode: "FR"}
	}
	s := &mockSearcher{results: map[string][]models.City{"Par": {paris}, "City": many}}
	c := NewController(s, &mockFetcher{}, quietLogger())

	if got := c.Suggest(context.Background(), "Par"); len(got) != 1 {
		t.Fatalf("Suggest() = %v, want 1 city", got)
	}

	// Short queries clear the list without searching
	if got := c.Suggest(context.Background(), " P "); got != nil {
		t.Errorf("Suggest(short) = %v, want nil", got)
	}
	if len(c.Suggestions()) != 0 {
		t.Error("suggestions not cleared by a short query")
	}
	if len(s.queries) != 1 {
		t.Errorf("short query reached the searcher: %v", s.queries)
	}

	// Whole list is replaced, never merged
	c.Suggest(context.Background(), "Par")
	c.Suggest(context.Background(), "City")
	if got := c.Suggestions(); len(got) != 8 || got[0].Name != "City" {
		t.Errorf("Suggestions() = %v, want the 8 City entries", got)
	}

	// Failures clear the list
	s.err = errors.New("boom")
	if got := c.Suggest(context.Background(), "Par"); got != nil {
		t.Errorf("Suggest() after failure = %v, want nil", got)
	}
	if len(c.Suggestions()) != 0 {
		t.Error("suggestions not cleared after failure")
	}
}

func TestSuggestions_ReturnsCopy(t *testing.T) {
	s := &mockSearcher{results: map[string][]models.City{"Par": {paris}}}
	c := NewController(s, &mockFetcher{}, quietLogger())
	c.Suggest(context.Background(), "Par")

	got := c.Suggestions()
	got[0].Name = "Mutated"
	if c.Suggestions()[0].Name != "Paris" {
		t.Error("Suggestions() exposed internal state")
	}
}

func TestMatch(t *testing.T) {
	c := NewController(&mockSearcher{}, &mockFetcher{}, quietLogger())
	c.setSuggestions([]models.City{paris, london})

	if city, ok := c.Match("London, England United Kingdom"); !ok || city != london {
		t.Errorf("Match() = %+v, %v", city, ok)
	}
	if _, ok := c.Match("london, england united kingdom"); ok {
		t.Error("Match() should be case sensitive")
	}
	if _, ok := c.Match("London"); ok {
		t.Error("Match() should require the full label")
	}
}

func TestState_String(t *testing.T) {
	if StateIdle != 0 {
		t.Errorf("StateIdle = %d, want 0", StateIdle)
	}
	if StateFetching.String() != "fetching" {
		t.Errorf("StateFetching.String() = %q", StateFetching.String())
	}
	if State(42).String() != "unknown" {
		t.Errorf("State(42).String() = %q", State(42).String())
	}
}
