package view

import "github.com/charmbracelet/lipgloss"

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FooterH    int
	FullFooter bool
	DetailLine string
	LegendLine string
	PromptLine string
	StatusLine string
	HelpLine   string
	VAlign     lipgloss.Position
	Bg         lipgloss.Color
}

// FooterHeight returns the number of lines the footer needs.
func FooterHeight(full bool) int {
	if full {
		return 5
	}
	return 2
}

// RenderFooter renders detail, legend, prompt, status and help lines.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	var s string
	if state.FullFooter {
		s += state.DetailLine + "\n"
		s += state.LegendLine + "\n"
		s += state.PromptLine + "\n"
	}
	s += state.StatusLine + "\n"
	s += state.HelpLine

	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, s, state.Bg)
}
