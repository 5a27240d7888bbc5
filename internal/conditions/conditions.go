// Package conditions maps WMO weather interpretation codes to a short
// description and a display glyph.
package conditions

// Entry describes one weather condition
type Entry struct {
	Description string
	Icon        string
}

// ClearSky is the code used when a reported code is not in the table
const ClearSky = 0

var table = map[int]Entry{
	0:  {"Clear sky", "☀️"},
	1:  {"Mainly clear", "🌤️"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁️"},
	45: {"Fog", "🌫️"},
	48: {"Depositing rime fog", "🌫️"},
	51: {"Light drizzle", "🌧️"},
	53: {"Moderate drizzle", "🌧️"},
	55: {"Dense drizzle", "🌧️"},
	56: {"Light freezing drizzle", "🌧️"},
	57: {"Dense freezing drizzle", "🌧️"},
	61: {"Slight rain", "🌧️"},
	63: {"Moderate rain", "🌧️"},
	65: {"Heavy rain", "🌧️"},
	66: {"Light freezing rain", "🌧️"},
	67: {"Heavy freezing rain", "🌧️"},
	71: {"Slight snow", "🌨️"},
	73: {"Moderate snow", "🌨️"},
	75: {"Heavy snow", "❄️"},
	77: {"Snow grains", "🌨️"},
	80: {"Slight rain showers", "🌦️"},
	81: {"Moderate rain showers", "🌦️"},
	82: {"Violent rain showers", "🌧️"},
	85: {"Slight snow showers", "🌨️"},
	86: {"Heavy snow showers", "❄️"},
	95: {"Thunderstorm", "⛈️"},
	96: {"Thunderstorm with slight hail", "⛈️"},
	99: {"Thunderstorm with heavy hail", "⛈️"},
}

// Lookup returns the entry for code, or the clear sky entry if code is unknown
func Lookup(code int) Entry {
	if e, ok := table[code]; ok {
		return e
	}
	return table[ClearSky]
}

// Known reports whether code has its own entry
func Known(code int) bool {
	_, ok := table[code]
	return ok
}
