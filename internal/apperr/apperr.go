// Package apperr defines the failure kinds a city lookup can end in and
// the message shown to the user for each of them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a user-facing failure category
type Kind string

const (
	KindOffline         Kind = "offline"
	KindCityNotFound    Kind = "city_not_found"
	KindForecastFailed  Kind = "forecast_failed"
	KindGeocodingFailed Kind = "geocoding_failed"
)

var (
	// ErrOffline is returned before any request is made when the host reports no connectivity
	ErrOffline = errors.New("offline")

	// ErrCityNotFound is returned when a search succeeds but yields no European city
	ErrCityNotFound = errors.New("city not found")
)

var messages = map[Kind]string{
	KindOffline:         "You appear to be offline. Please check your connection.",
	KindCityNotFound:    "City not found. Try another city in Europe.",
	KindForecastFailed:  "Couldn't load forecast. Please try again.",
	KindGeocodingFailed: "Couldn't search for cities. Please try again.",
}

// GeocodingError reports a failed call to the geocoding service
type GeocodingError struct {
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *GeocodingError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("geocoding failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("geocoding failed: %v", e.Err)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

// ForecastError reports a failed call to the forecast service
type ForecastError struct {
	StatusCode int
	Err        error
}

func (e *ForecastError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("forecast failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("forecast failed: %v", e.Err)
}

func (e *ForecastError) Unwrap() error { return e.Err }

// KindOf classifies err. The outermost GeocodingError or ForecastError in
// the chain decides; anything unrecognized is a forecast failure.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrOffline):
		return KindOffline
	case errors.Is(err, ErrCityNotFound):
		return KindCityNotFound
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *GeocodingError:
			return KindGeocodingFailed
		case *ForecastError:
			return KindForecastFailed
		}
	}
	return KindForecastFailed
}

// Message returns the text shown to the user for kind
func Message(kind Kind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return messages[KindForecastFailed]
}

// MessageFor is shorthand for Message(KindOf(err))
func MessageFor(err error) string {
	return Message(KindOf(err))
}
