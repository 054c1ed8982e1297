// Package layout computes where the label window sits on screen.
package layout

import (
	"github.com/jmylchreest/transientlabel/internal/config"
)

// Placement is the set of anchored screen edges and their margins.
// An edge that is not anchored has no margin. Anchoring no edge centers
// the window.
type Placement struct {
	Top, Bottom, Left, Right bool

	MarginTop, MarginBottom, MarginLeft, MarginRight int
}

// ForPosition returns the placement for a named position. offsetX applies
// to the anchored left or right edge, offsetY to the top or bottom edge.
// Unknown positions are treated as top-center.
func ForPosition(pos config.Position, offsetX, offsetY int) Placement {
	var p Placement

	switch pos {
	case config.PositionTopLeft:
		p.Top, p.Left = true, true
	case config.PositionTopRight:
		p.Top, p.Right = true, true
	case config.PositionBottomLeft:
		p.Bottom, p.Left = true, true
	case config.PositionBottomRight:
		p.Bottom, p.Right = true, true
	case config.PositionBottomCenter:
		p.Bottom = true
	case config.PositionCenter:
	default:
		p.Top = true
	}

	if p.Top {
		p.MarginTop = offsetY
	}
	if p.Bottom {
		p.MarginBottom = offsetY
	}
	if p.Left {
		p.MarginLeft = offsetX
	}
	if p.Right {
		p.MarginRight = offsetX
	}
	return p
}

// FromConfig returns the placement described by the [display] section.
func FromConfig(cfg config.DisplayConfig) Placement {
	return ForPosition(config.Position(cfg.Position), cfg.OffsetX, cfg.OffsetY)
}

// IsBottom reports whether the window is anchored to the bottom edge.
func (p Placement) IsBottom() bool {
	return p.Bottom && !p.Top
}

// MonitorIndex maps a configured 1-based monitor number onto the available
// monitors. ok is false when the compositor should choose (monitor 0).
// Numbers beyond the available count fall back to the first monitor.
func MonitorIndex(monitor int, available uint) (index uint, ok bool) {
	if monitor <= 0 || available == 0 {
		return 0, false
	}
	if uint(monitor) > available {
		return 0, true
	}
	return uint(monitor - 1), true
}
