package render

import (
	"image/color"

	"github.com/frankfika/thanksgiving/internal/host"
	"github.com/frankfika/thanksgiving/internal/render/style"
)

// noticeColor maps a notice priority to its text color.
func noticeColor(n host.Notice) color.RGBA {
	switch n.Priority {
	case host.Warning:
		return style.Warning
	case host.Critical:
		return style.Critical
	case host.Birth:
		return style.Hex(n.Color, style.Gold)
	default:
		return style.Muted
	}
}
