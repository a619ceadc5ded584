package shell

import (
	"math"
	"time"
)

// Visual holds the presentation parameters of the content surface
type Visual struct {
	Progress         float64
	Scale            float64
	CornerRadius     float64
	ShadowOffsetX    float64
	ShadowBlur       float64
	ShadowSpread     float64
	ShadowOpacity    float64
	ShadowVisible    bool
	ScrimOpacity     float64
	ScrimInteractive bool
}

// VisualParams derives the surface presentation from a translation
func VisualParams(translate, drawerWidth float64) Visual {
	var progress float64
	if drawerWidth > 0 {
		progress = math.Min(math.Abs(translate)/drawerWidth, 1)
	}

	// The shadow points away from the revealed drawer
	offset := ShadowOffset
	if translate > 0 {
		offset = -ShadowOffset
	}

	return Visual{
		Progress:         progress,
		Scale:            1 - progress*MaxScaleReduction,
		CornerRadius:     progress * MaxCornerRadius,
		ShadowOffsetX:    offset,
		ShadowBlur:       ShadowBlur,
		ShadowSpread:     ShadowSpread,
		ShadowOpacity:    progress * MaxShadowOpacity,
		ShadowVisible:    math.Abs(translate) > 1,
		ScrimOpacity:     progress * MaxScrimOpacity,
		ScrimInteractive: progress > 0.01,
	}
}

// Transition describes how a frame is animated
type Transition struct {
	Duration    time.Duration
	Easing      string
	ScrimEasing string
}

var snapTransition = Transition{
	Duration:    TransitionDuration,
	Easing:      TransitionEasing,
	ScrimEasing: ScrimEasing,
}

// Layer is the stacking and visibility of one drawer
type Layer struct {
	Z       int
	Visible bool
}

// Layers is the stacking of both drawers
type Layers struct {
	Left  Layer
	Right Layer
}

var (
	front  = Layer{Z: 2, Visible: true}
	behind = Layer{Z: 1, Visible: false}
)

// Layering raises the drawer being revealed and hides the other one.
// At translate 0 the previous layering is kept so a closing drawer stays
// visible until the surface covers it.
func Layering(prev Layers, translate float64) Layers {
	switch {
	case translate > 0:
		return Layers{Left: front, Right: behind}
	case translate < 0:
		return Layers{Left: behind, Right: front}
	default:
		return prev
	}
}

// Frame is one visual update for the renderer
type Frame struct {
	Translate  float64
	Animate    bool
	Transition Transition
	Visual     Visual
	Layers     Layers
	State      DrawerState
}
