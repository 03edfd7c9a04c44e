package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "brief"

// LogoLines is the canonical brief logo.
var LogoLines = []string{
	"█▄▄ █▀█ █ █▀▀ █▀▀",
	"█▄█ █▀▄ █ ██▄ █▀ ",
}

const CompactLogo = `brief ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#F4A261"),
	lipgloss.Color("#E9C46A"),
	lipgloss.Color("#2A9D8F"),
}

// Newsprint palette: ink on paper with a headline accent.
var (
	PrimaryColor   = lipgloss.Color("#F4A261") // Headline amber
	SecondaryColor = lipgloss.Color("#2A9D8F") // Masthead teal
	AccentColor    = lipgloss.Color("#E9C46A") // Highlighter

	BackgroundColor = lipgloss.Color("#1B1B1F")
	SurfaceColor    = lipgloss.Color("#264653")
	TextColor       = lipgloss.Color("#EDEDED")
	MutedColor      = lipgloss.Color("#9CA3AF")

	SourceColor  = lipgloss.Color("#E9C46A")
	ErrorColor   = lipgloss.Color("#E76F51")
	SuccessColor = lipgloss.Color("#2A9D8F")
)

// Styled components
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	HeadlineStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	SourceStyle = lipgloss.NewStyle().
			Foreground(SourceColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles by severity
	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)
)

func GetWelcomeMessage(searchKey string) string {
	return GetCompactBanner(fmt.Sprintf("Press %s to search the news", searchKey))
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the logo and tagline for the version command.
func Banner(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("news in your terminal %s", versionTag))
	} else {
		lines = append(lines, "news in your terminal")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	return lipgloss.NewStyle().
		Width(50).
		Align(lipgloss.Center).
		Render(borderStyle.Render(banner))
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
}
