package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/europe-weather/internal/presenter"
)

// renderCard renders the weather card for a successful lookup
func renderCard(card presenter.Card) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("📍 " + card.City))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(card.Date))
	content.WriteString("\n\n")

	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		card.Icon+"  ",
		temperatureStyle.Render(card.Temperature),
	))
	content.WriteString("\n")
	content.WriteString(valueStyle.Render(card.Condition))
	content.WriteString("\n\n")

	details := []string{
		field("High / Low", card.HighLow),
		field("Wind", card.Wind),
		field("Humidity", card.Humidity),
	}
	content.WriteString(strings.Join(details, "\n"))

	return cardStyle.Render(content.String())
}

func field(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), valueStyle.Render(value))
}
