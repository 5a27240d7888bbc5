package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/europe-weather/internal/apperr"
	"github.com/ngmaloney/europe-weather/internal/models"
	"github.com/ngmaloney/europe-weather/internal/presenter"
	"github.com/ngmaloney/europe-weather/internal/resolver"
)

// AppState represents the current state of the application
type AppState int

const (
	StateSearch  AppState = iota // Typing a city
	StateLoading                 // A submission is running
	StateDisplay                 // Weather card shown
	StateError                   // Error banner shown
)

// DefaultDebounce is the quiet period before suggestions are fetched
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Model
type Options struct {
	Debounce    time.Duration
	InitialCity string      // submitted on start when set
	NetChanges  <-chan bool // connectivity changes, may be nil
	Now         func() time.Time
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	ctrl *resolver.Controller

	// Search
	searchInput textinput.Model
	lastValue   string
	debounce    time.Duration
	debounceSeq int
	initialCity string

	// Suggestions
	suggestions    []models.City
	suggestionList list.Model

	// Result
	result *resolver.Result
	card   presenter.Card

	spinner    spinner.Model
	netChanges <-chan bool
	now        func() time.Time
}

// NewModel creates a new application model
func NewModel(ctrl *resolver.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a European city (e.g. Paris, Lisbon, Kraków)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	initial := strings.TrimSpace(opts.InitialCity)
	if initial != "" {
		ti.SetValue(initial)
	}

	return Model{
		state:       StateSearch,
		ctrl:        ctrl,
		searchInput: ti,
		lastValue:   ti.Value(),
		debounce:    opts.Debounce,
		initialCity: initial,
		spinner:     s,
		netChanges:  opts.NetChanges,
		now:         opts.Now,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.netChanges != nil {
		cmds = append(cmds, waitForNetStatus(m.netChanges))
	}
	if m.initialCity != "" {
		cmds = append(cmds, func() tea.Msg { return autoSubmitMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if len(m.suggestions) > 0 {
			m.suggestionList.SetSize(m.listWidth(), len(m.suggestions))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case autoSubmitMsg:
		return m.submit()

	case debounceMsg:
		if msg.seq != m.debounceSeq {
			// Superseded by a later keystroke
			return m, nil
		}
		return m, fetchSuggestions(m.ctrl, msg.query)

	case suggestionsMsg:
		m.setSuggestions(msg.cities)
		return m, nil

	case resultMsg:
		return m.handleResult(msg)

	case netStatusMsg:
		if !msg.online {
			if m.state != StateLoading {
				m.err = apperr.ErrOffline
				m.state = StateError
			}
		} else if m.state == StateError {
			m.clearError()
		}
		if m.netChanges == nil {
			return m, nil
		}
		return m, waitForNetStatus(m.netChanges)

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleKey handles keyboard input. The search input keeps focus in every state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc, tea.KeyCtrlR:
		if m.state == StateError {
			m.clearError()
			return m, textinput.Blink
		}
		if msg.Type == tea.KeyEsc {
			m.setSuggestions(nil)
		}
		return m, nil

	case tea.KeyEnter:
		if m.state == StateLoading {
			return m, nil
		}
		return m.submit()

	case tea.KeyUp:
		if len(m.suggestions) > 0 {
			m.suggestionList.CursorUp()
		}
		return m, nil

	case tea.KeyDown:
		if len(m.suggestions) > 0 {
			m.suggestionList.CursorDown()
		}
		return m, nil

	case tea.KeyTab:
		if len(m.suggestions) == 0 {
			return m, nil
		}
		if city, ok := selectedCity(m.suggestionList); ok {
			// Copying a label must not trigger a new search, or the list it came from would be replaced
			m.searchInput.SetValue(city.Label())
			m.searchInput.CursorEnd()
			m.lastValue = m.searchInput.Value()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if value := m.searchInput.Value(); value != m.lastValue {
		m.lastValue = value
		m.debounceSeq++
		return m, tea.Batch(cmd, debounce(m.debounce, m.debounceSeq, value))
	}
	return m, cmd
}

// submit starts a resolution flow for the current input
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.searchInput.Value())
	if input == "" {
		return m, nil
	}

	m.state = StateLoading
	m.err = nil
	m.result = nil
	m.setSuggestions(nil)

	return m, tea.Batch(m.spinner.Tick, submitCity(m.ctrl, input))
}

func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.state = StateError
		return m, nil
	}
	if msg.result == nil {
		m.state = StateSearch
		return m, nil
	}

	m.result = msg.result
	m.card = presenter.BuildCard(msg.result.City, msg.result.Forecast, m.now())
	m.state = StateDisplay
	return m, nil
}

// clearError dismisses the error banner without re-running anything
func (m *Model) clearError() {
	m.ctrl.Dismiss()
	m.err = nil
	m.state = StateSearch
	m.searchInput.Focus()
}

func (m *Model) setSuggestions(cities []models.City) {
	m.suggestions = cities
	if len(cities) == 0 {
		m.suggestionList = list.Model{}
		return
	}
	m.suggestionList = createSuggestionList(cities, m.listWidth())
}

func (m Model) listWidth() int {
	if m.width > 4 && m.width-4 < 64 {
		return m.width - 4
	}
	return 64
}

// ErrorMessage returns the banner text for the current error, if any
func (m Model) ErrorMessage() string {
	if m.err == nil {
		return ""
	}
	return apperr.MessageFor(m.err)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections,
		titleStyle.Render("🌍 Europe Weather"),
		mutedStyle.Render("Current conditions for European cities"),
		"",
		searchBoxStyle.Render(m.searchInput.View()),
	)

	if len(m.suggestions) > 0 && m.state != StateLoading {
		sections = append(sections, m.suggestionList.View())
	}

	switch m.state {
	case StateLoading:
		sections = append(sections, "", fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Loading forecast...")))
	case StateError:
		sections = append(sections, "", errorStyle.Render("✗ "+m.ErrorMessage()))
	case StateDisplay:
		if m.result != nil {
			sections = append(sections, "", renderCard(m.card))
		}
	}

	sections = append(sections, helpStyle.Render(m.helpText()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpText() string {
	switch {
	case m.state == StateError:
		return "Esc/Ctrl+R: Retry • Ctrl+C: Quit"
	case len(m.suggestions) > 0:
		return "↑/↓: Navigate • Tab: Use suggestion • Enter: Search • Ctrl+C: Quit"
	}
	return "Enter: Search • Ctrl+C: Quit"
}
