package geocoding

// europeanCountries lists the ISO 3166-1 alpha-2 codes (plus XK for Kosovo)
// whose cities are offered as suggestions.
var europeanCountries = map[string]struct{}{
	"AL": {}, "AD": {}, "AT": {}, "BY": {}, "BE": {}, "BA": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {},
	"DK": {}, "EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IS": {}, "IE": {}, "IT": {},
	"XK": {}, "LV": {}, "LI": {}, "LT": {}, "LU": {}, "MT": {}, "MD": {}, "MC": {}, "ME": {}, "NL": {},
	"MK": {}, "NO": {}, "PL": {}, "PT": {}, "RO": {}, "RU": {}, "SM": {}, "RS": {}, "SK": {}, "SI": {},
	"ES": {}, "SE": {}, "CH": {}, "UA": {}, "GB": {}, "VA": {},
}

// IsEuropean reports whether countryCode is on the European allow-list.
// Codes are matched exactly, as the service returns them upper case.
func IsEuropean(countryCode string) bool {
	_, ok := europeanCountries[countryCode]
	return ok
}
