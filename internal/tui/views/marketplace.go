package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// MarketplaceModel is the view model for the caregiver listing.
type MarketplaceModel struct {
	store   *marketplace.Store
	list    []marketplace.Caregiver
	cursor  int
	loading bool
	errText string
	width   int
	height  int
}

// NewMarketplaceModel creates the caregiver listing view.
func NewMarketplaceModel(store *marketplace.Store, width, height int) MarketplaceModel {
	return MarketplaceModel{
		store:   store,
		list:    store.Caregivers(),
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init triggers the initial caregiver fetch.
func (m MarketplaceModel) Init() tea.Cmd {
	return commands.FetchCaregiversCmd(m.store)
}

// Update handles messages for the marketplace view.
func (m MarketplaceModel) Update(msg tea.Msg) (MarketplaceModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp, "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case tui.KeyDown, "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, commands.FetchCaregiversCmd(m.store)
		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }
		}

	case tui.CaregiversLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		// Present highest rated first, stable for ties.
		m.list = m.store.TopCaregivers(len(msg.Caregivers))
		if m.cursor >= len(m.list) && m.cursor > 0 {
			m.cursor = len(m.list) - 1
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the marketplace view.
func (m MarketplaceModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Caregiver Marketplace"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading caregivers..."))
		b.WriteString("\n")
	case len(m.list) == 0:
		b.WriteString(tui.DimStyle.Render("No caregivers listed."))
		b.WriteString("\n")
	default:
		for i, cg := range m.list {
			line := fmt.Sprintf("%-22s %.1f★  $%.0f/hr  %d yrs",
				cg.Name, cg.AverageRating, cg.HourlyRate, cg.ExperienceYears)
			if len(cg.Specializations) > 0 {
				line += tui.DimStyle.Render("  " + strings.Join(cg.Specializations, ", "))
			}
			if i == m.cursor {
				b.WriteString(tui.SelectedStyle.Render("> "))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("r: Refresh   Esc: Back"))

	return tui.BoxStyle.Render(b.String())
}
