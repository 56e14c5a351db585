package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗  ██╗██╗██╗     ██╗  ████████╗██████╗  █████╗ ██╗██╗
 ██╔════╝██║ ██╔╝██║██║     ██║  ╚══██╔══╝██╔══██╗██╔══██╗██║██║
 ███████╗█████╔╝ ██║██║     ██║     ██║   ██████╔╝███████║██║██║
 ╚════██║██╔═██╗ ██║██║     ██║     ██║   ██╔══██╗██╔══██║██║██║
 ███████║██║  ██╗██║███████╗███████╗██║   ██║  ██║██║  ██║██║███████╗
 ╚══════╝╚═╝  ╚═╝╚═╝╚══════╝╚══════╝╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚══════╝`

const bannerCompact = "S K I L L T R A I L"

// RenderBanner falls back to spaced letters below 72 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
