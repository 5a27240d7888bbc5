package geocoding

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"golang.org/x/time/rate"
)

// RateLimitedSearcher wraps a Searcher with a token bucket
type RateLimitedSearcher struct {
	searcher Searcher
	limiter  *rate.Limiter
}

// NewRateLimitedSearcher allows rps searches per second with bursts of up to burst
func NewRateLimitedSearcher(searcher Searcher, rps float64, burst int) *RateLimitedSearcher {
	return &RateLimitedSearcher{
		searcher: searcher,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Search waits for a token, then forwards to the wrapped searcher.
// Short queries never reach the network and skip the limiter.
func (r *RateLimitedSearcher) Search(ctx context.Context, query string) ([]models.City, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		return r.searcher.Search(ctx, query)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &apperr.GeocodingError{Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return r.searcher.Search(ctx, query)
}

var (
	_ Searcher = (*Client)(nil)
	_ Searcher = (*RateLimitedSearcher)(nil)
)
