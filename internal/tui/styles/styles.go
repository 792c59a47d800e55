package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	JellyPurple = lipgloss.Color("#AA5CC3")
	JellyBlue   = lipgloss.Color("#00A4DC")
	DimGray     = lipgloss.Color("#6B7280")
	LightGray   = lipgloss.Color("#9CA3AF")
	White       = lipgloss.Color("#F9FAFB")
	Red         = lipgloss.Color("#EF4444")
	Green       = lipgloss.Color("#10B981")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(JellyBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(JellyPurple).
			Padding(0, 1)

	MatchStyle = lipgloss.NewStyle().
			Foreground(JellyBlue).
			Underline(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Padding(0, 1)
)

// Row markers
const (
	PlayableChar  = "▶"
	DirectoryChar = "▸"
)

var (
	PlayableDot  = AccentStyle.Render(PlayableChar)
	DirectoryDot = DimStyle.Render(DirectoryChar)
)

// SpinnerFrames are the frames used while a resolve is in flight.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
