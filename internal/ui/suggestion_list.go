package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/europe-weather/internal/models"
)

// cityItem wraps a City for use in a list
type cityItem struct {
	city models.City
}

// FilterValue implements list.Item
func (c cityItem) FilterValue() string {
	return c.city.Label()
}

// Title implements list.DefaultItem
func (c cityItem) Title() string {
	return c.city.Label()
}

// Description implements list.DefaultItem
func (c cityItem) Description() string {
	return c.city.CountryCode
}

// createSuggestionList creates a compact list.Model showing every city at once
func createSuggestionList(cities []models.City, width int) list.Model {
	items := make([]list.Item, len(cities))
	for i, city := range cities {
		items[i] = cityItem{city: city}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, width, len(items))
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)

	return l
}

// selectedCity returns the highlighted suggestion
func selectedCity(l list.Model) (models.City, bool) {
	item, ok := l.SelectedItem().(cityItem)
	if !ok {
		return models.City{}, false
	}
	return item.city, true
}
