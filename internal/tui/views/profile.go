package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// ProfileModel is the view model for the caregiver's own marketplace profile.
type ProfileModel struct {
	store   *marketplace.Store
	profile *marketplace.Profile
	stats   *marketplace.Stats
	loading bool
	errText string
	width   int
	height  int
}

// NewProfileModel creates the caregiver profile view.
func NewProfileModel(store *marketplace.Store, width, height int) ProfileModel {
	return ProfileModel{
		store:   store,
		profile: store.OwnProfile(),
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init triggers the profile and stats loads.
func (m ProfileModel) Init() tea.Cmd {
	return tea.Batch(
		commands.FetchProfileCmd(m.store),
		commands.FetchStatsCmd(m.store),
	)
}

// Update handles messages for the profile view.
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.Init()
		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }
		}

	case tui.ProfileLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			if api.IsNotFound(msg.Err) {
				// No profile yet; the view shows the creation hint.
				m.errText = ""
				m.profile = nil
				return m, nil
			}
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.profile = msg.Profile
		return m, nil

	case tui.StatsLoadedMsg:
		if msg.Err == nil {
			m.stats = msg.Stats
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the profile view.
func (m ProfileModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("My Caregiver Profile"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading profile..."))
		b.WriteString("\n")
	case m.profile == nil:
		b.WriteString(tui.DimStyle.Render("No profile yet. Create one with 'caremate marketplace profile create'."))
		b.WriteString("\n")
	default:
		p := m.profile
		b.WriteString(fmt.Sprintf("  Hourly rate:     $%.2f\n", p.HourlyRate))
		b.WriteString(fmt.Sprintf("  Experience:      %d years\n", p.ExperienceYears))
		b.WriteString(fmt.Sprintf("  Specializations: %s\n", strings.Join(p.Specializations, ", ")))
		b.WriteString(fmt.Sprintf("  Bio:             %s\n", p.Bio))
		if !p.Complete() {
			b.WriteString("\n")
			b.WriteString(tui.WarningStyle.Render("Profile is incomplete and hidden from search."))
			b.WriteString("\n")
		}
	}

	if m.stats != nil {
		b.WriteString("\n")
		b.WriteString(tui.TitleStyle.Render("Stats"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  Reviews: %d   Rating: %.1f   Views: %d\n",
			m.stats.TotalReviews, m.stats.AverageRating, m.stats.ProfileViews))
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
