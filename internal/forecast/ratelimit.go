package forecast

import (
	"context"
	"fmt"

	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"golang.org/x/time/rate"
)

// RateLimitedFetcher wraps a Fetcher with a token bucket
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows rps fetches per second with bursts of up to burst
func NewRateLimitedFetcher(fetcher Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for a token, then forwards to the wrapped fetcher
func (r *RateLimitedFetcher) Fetch(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &apperr.ForecastError{Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return r.fetcher.Fetch(ctx, lat, lon)
}

var (
	_ Fetcher = (*Client)(nil)
	_ Fetcher = (*RateLimitedFetcher)(nil)
)
