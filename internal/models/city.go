package models

import "strings"

// City is a location candidate returned by the geocoding service.
// Two cities can share a label; callers matching on Label take the first.
type City struct {
	Name        string  `json:"name"`
	Admin1      string  `json:"admin1"`       // Region or state, may be empty
	Country     string  `json:"country"`      // e.g. "United Kingdom"
	CountryCode string  `json:"country_code"` // ISO 3166-1 alpha-2, e.g. "GB"
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Label returns the suggestion text used to match a submitted query,
// e.g. "London, England United Kingdom"
func (c City) Label() string {
	name := strings.TrimSpace(c.Name)
	admin1 := strings.TrimSpace(c.Admin1)
	country := strings.TrimSpace(c.Country)
	return strings.Join(strings.Fields(name+", "+admin1+" "+country), " ")
}

// DisplayName returns the short heading form, e.g. "Paris, France"
func (c City) DisplayName() string {
	return strings.TrimSpace(c.Name) + ", " + strings.TrimSpace(c.Country)
}
