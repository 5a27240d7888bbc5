// Package resolver turns free-text city input into a single resolved city
// and its forecast.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/forecast"
	"github.com/ngmaloney/europe-weather/internal/geocoding"
	"github.com/ngmaloney/europe-weather/internal/models"
)

// State is the stage of the current submission
type State int

const (
	StateIdle      State = iota // Waiting for a submission
	StateMatching               // Comparing input against current suggestions
	StateSearching              // No suggestion matched, searching again
	StateFetching               // Fetching the forecast for the resolved city
	StateDisplayed              // Forecast available
	StateError                  // Flow ended in an error
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMatching:
		return "matching"
	case StateSearching:
		return "searching"
	case StateFetching:
		return "fetching"
	case StateDisplayed:
		return "displayed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Result is a successfully resolved city with its forecast
type Result struct {
	FlowID   string
	City     models.City
	Forecast *models.Forecast
}

// Controller owns the suggestion list and the resolved city.
// It is safe for use from multiple goroutines.
type Controller struct {
	searcher geocoding.Searcher
	fetcher  forecast.Fetcher
	logger   *slog.Logger

	mu          sync.Mutex
	suggestions []models.City
	resolved    *models.City
	state       State
	errKind     apperr.Kind
}

// NewController creates a controller in the idle state
func NewController(searcher geocoding.Searcher, fetcher forecast.Fetcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		searcher: searcher,
		fetcher:  fetcher,
		logger:   logger,
		state:    StateIdle,
	}
}

// Suggest refreshes the suggestion list for query and returns it.
// Short queries and failed searches leave the list empty.
func (c *Controller) Suggest(ctx context.Context, query string) []models.City {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < geocoding.MinQueryLength {
		c.setSuggestions(nil)
		return nil
	}

	cities, err := c.searcher.Search(ctx, query)
	if err != nil {
		c.logger.Warn("city search failed", "query", query, "err", err)
		c.setSuggestions(nil)
		return nil
	}

	c.setSuggestions(cities)
	return c.Suggestions()
}

// Suggestions returns a copy of the current suggestion list
func (c *Controller) Suggestions() []models.City {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.suggestions) == 0 {
		return nil
	}
	out := make([]models.City, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

func (c *Controller) setSuggestions(cities []models.City) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suggestions = cities
}

// Resolved returns the city of the last successful flow, if any
func (c *Controller) Resolved() (models.City, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved == nil {
		return models.City{}, false
	}
	return *c.resolved, true
}

// State returns the current stage and, in StateError, the failure kind
func (c *Controller) State() (State, apperr.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errKind
}

// Dismiss clears an error and returns to idle. Nothing is re-run.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateError {
		c.state = StateIdle
		c.errKind = ""
	}
}

// Match returns the first suggestion whose label equals input exactly.
// Labels are not unique; the earliest suggestion wins.
func (c *Controller) Match(input string) (models.City, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return matchLabel(c.suggestions, input)
}

func matchLabel(cities []models.City, input string) (models.City, bool) {
	for _, city := range cities {
		if city.Label() == input {
			return city, true
		}
	}
	return models.City{}, false
}

// Submit runs one resolution flow for input. Empty input is a no-op and
// returns (nil, nil). Errors are classified with apperr.KindOf.
func (c *Controller) Submit(ctx context.Context, input string) (*Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	flowID := uuid.NewString()
	logger := c.logger.With("flow", flowID, "input", input)

	c.mu.Lock()
	c.resolved = nil
	c.errKind = ""
	c.state = StateMatching
	city, matched := matchLabel(c.suggestions, input)
	c.mu.Unlock()

	if matched {
		logger.Debug("matched suggestion", "city", city.Label())
	} else {
		c.transition(StateSearching)
		cities, err := c.searcher.Search(ctx, input)
		if err != nil {
			return nil, c.fail(logger, asStageError(err, apperr.KindGeocodingFailed))
		}
		if len(cities) == 0 {
			return nil, c.fail(logger, apperr.ErrCityNotFound)
		}
		city = cities[0]
		logger.Debug("resolved by search", "city", city.Label(), "candidates", len(cities))
	}

	c.transition(StateFetching)
	f, err := c.fetcher.Fetch(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, c.fail(logger, asStageError(err, apperr.KindForecastFailed))
	}

	c.mu.Lock()
	c.resolved = &city
	c.state = StateDisplayed
	c.mu.Unlock()

	logger.Info("forecast ready", "city", city.Label(), "timezone", f.Timezone)
	return &Result{FlowID: flowID, City: city, Forecast: f}, nil
}

func (c *Controller) transition(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Controller) fail(logger *slog.Logger, err error) error {
	kind := apperr.KindOf(err)
	c.mu.Lock()
	c.state = StateError
	c.errKind = kind
	c.mu.Unlock()

	logger.Warn("lookup failed", "kind", kind, "err", err)
	return err
}

// asStageError reports err as the failure kind of the stage it came from,
// unless it already is that kind or means the host is offline.
func asStageError(err error, kind apperr.Kind) error {
	switch apperr.KindOf(err) {
	case apperr.KindOffline, kind:
		return err
	}
	if kind == apperr.KindGeocodingFailed {
		return &apperr.GeocodingError{Err: err}
	}
	return &apperr.ForecastError{Err: err}
}
