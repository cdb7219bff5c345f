package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sheetcoach/internal/ui/theme"
)

const gridArt = ` ┌─────┬─────┬─────┐
 │  =  │  Σ  │  %  │
 ├─────┼─────┼─────┤
 │ A1  │ B1  │ C1  │
 └─────┴─────┴─────┘`

const bannerWide = "S H E E T C O A C H"

const bannerCompact = "SHEETCOACH"

// RenderBanner returns the product name styled in the primary color.
// Uses a compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerWide)
}
