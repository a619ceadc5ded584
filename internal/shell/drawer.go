// Package shell implements the gesture driven navigation shell: a movable
// content surface with a drawer on each side. It owns drawer state and the
// surface transform and reports every visual change as a Frame; rendering is
// left to the caller.
package shell

import (
	"math"
	"time"
)

// DrawerState is the committed state of the shell
type DrawerState int

const (
	Closed DrawerState = iota
	Left
	Right
)

// String returns the state name
func (s DrawerState) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "closed"
	}
}

// Physics constants
const (
	// EdgeZone is the strip, in px from either edge, where a drag may open a drawer
	EdgeZone = 60.0

	DrawerWidthRatio = 0.85
	MaxDrawerWidth   = 380.0

	// SnapThreshold is the share of the drawer width a drag must cover to commit
	SnapThreshold = 0.3

	MaxScaleReduction = 0.12
	MaxCornerRadius   = 32.0
	MaxScrimOpacity   = 0.3
	MaxShadowOpacity  = 0.5

	ShadowOffset = 30.0
	ShadowBlur   = 60.0
	ShadowSpread = -10.0

	TransitionDuration = 500 * time.Millisecond
	TransitionEasing   = "cubic-bezier(0.32, 0.72, 0, 1)"
	ScrimEasing        = "ease"
)

// ComputeDrawerWidth returns the drawer width for a viewport width
func ComputeDrawerWidth(viewportWidth float64) float64 {
	return math.Min(viewportWidth*DrawerWidthRatio, MaxDrawerWidth)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
