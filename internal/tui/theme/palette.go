// Package theme provides color themes for the TUI.
package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Warning     lipgloss.Color

	// Bar backgrounds per stay status, plus the text drawn on them.
	ConfirmedBg   lipgloss.Color
	PendingBg     lipgloss.Color
	CheckedInBg   lipgloss.Color
	ConflictBg    lipgloss.Color
	TextOnBar     map[lipgloss.Color]lipgloss.Color
	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color

	RoomClean       lipgloss.Color
	RoomDirty       lipgloss.Color
	RoomMaintenance lipgloss.Color

	OccLow    lipgloss.Color
	OccMedium lipgloss.Color
	OccHigh   lipgloss.Color

	Modal ModalColors
}

// ModalColors holds modal-specific colors derived from a Theme.
type ModalColors struct {
	Bg          lipgloss.Color
	Border      lipgloss.AdaptiveColor
	Text        lipgloss.AdaptiveColor
	Muted       lipgloss.AdaptiveColor
	Highlight   lipgloss.AdaptiveColor
	ReverseText lipgloss.AdaptiveColor
	Backdrop    lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	isLight := isLightTheme(t.Bg)
	bars := map[string]string{
		"confirmed": barBg(t.Confirmed, t.Bg, isLight),
		"pending":   barBg(t.Pending, t.Bg, isLight),
		"checkedin": barBg(t.CheckedIn, t.Bg, isLight),
		"conflict":  barBg(t.Conflict, t.Bg, isLight),
	}
	textOn := make(map[lipgloss.Color]lipgloss.Color, len(bars))
	for _, hex := range bars {
		textOn[lipgloss.Color(hex)] = lipgloss.Color(chooseTextColor(hex, t.Fg, t.Bg))
	}

	modalPalette := t.Modal()
	modalBgHex := coalesce(modalPalette.BaseBg, t.BgHighlight, t.Bg)
	modalTextHex := coalesce(modalPalette.TextPrimary, t.Fg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Warning:     lipgloss.Color(t.Warning),

		ConfirmedBg:   lipgloss.Color(bars["confirmed"]),
		PendingBg:     lipgloss.Color(bars["pending"]),
		CheckedInBg:   lipgloss.Color(bars["checkedin"]),
		ConflictBg:    lipgloss.Color(bars["conflict"]),
		TextOnBar:     textOn,
		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),

		RoomClean:       lipgloss.Color(t.RoomClean),
		RoomDirty:       lipgloss.Color(t.RoomDirty),
		RoomMaintenance: lipgloss.Color(t.RoomMaintenance),

		OccLow:    lipgloss.Color(t.OccLow),
		OccMedium: lipgloss.Color(t.OccMedium),
		OccHigh:   lipgloss.Color(t.OccHigh),

		Modal: ModalColors{
			Bg:          lipgloss.Color(modalBgHex),
			Border:      adaptiveColor(coalesce(modalPalette.ModalBorder, t.Accent)),
			Text:        adaptiveColor(modalTextHex),
			Muted:       adaptiveColor(coalesce(modalPalette.TextMuted, t.FgMuted)),
			Highlight:   adaptiveColor(coalesce(modalPalette.Highlight, t.BgSelection, t.Accent)),
			ReverseText: reverseTextColor(modalBgHex, modalTextHex),
			Backdrop:    lipgloss.Color(coalesce(t.BgSelection, t.BgHighlight, t.Bg)),
		},
	}
}

// TextOn returns a readable foreground for a bar background.
func (p *Palette) TextOn(bg lipgloss.Color) lipgloss.Color {
	if c, ok := p.TextOnBar[bg]; ok {
		return c
	}
	return p.Fg
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// barBg shades a stay color so text stays readable on top of it.
func barBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.70)
	}
	return darkenColor(accent)
}

// Bars on dark themes never go below this channel value.
const minBarChannel = 40.0 / 255

// darkenColor halves a color's brightness.
func darkenColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{
		R: math.Max(c.R*0.5, minBarChannel),
		G: math.Max(c.G*0.5, minBarChannel),
		B: math.Max(c.B*0.5, minBarChannel),
	}.Hex()
}

// blendColors mixes b into a; ratio is clamped to [0,1].
func blendColors(a, b string, ratio float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

func reverseTextColor(darkBg, lightText string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: darkBg, Light: lightText}
}

// chooseTextColor picks whichever text color contrasts more with bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance is the WCAG luminance of a hex color; invalid input is black.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
