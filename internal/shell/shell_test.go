package shell

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestShell(t *testing.T, viewport float64) (*Shell, *[]Frame) {
	t.Helper()
	frames := &[]Frame{}
	s := New(viewport, func(f Frame) { *frames = append(*frames, f) }, zaptest.NewLogger(t))
	return s, frames
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeDrawerWidth(t *testing.T) {
	for _, w := range []float64{0, 200, 320, 375, 447, 448, 1024, 2560} {
		want := math.Min(w*0.85, 380)
		if got := ComputeDrawerWidth(w); got != want {
			t.Errorf("ComputeDrawerWidth(%v): expected %v, got %v", w, want, got)
		}
	}
}

func TestOpenFromEdgeThreshold(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		end   float64
		want  DrawerState
	}{
		{"left beyond threshold", 10, 130, Left},
		{"left under threshold", 10, 110, Closed},
		{"right beyond threshold", 990, 870, Right},
		{"right under threshold", 990, 890, Closed},
		{"left edge dragged the wrong way", 10, -200, Closed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestShell(t, 1000)
			if s.DrawerWidth() != 380 {
				t.Fatalf("Expected drawer width 380, got %v", s.DrawerWidth())
			}
			if !s.Start(tt.start) {
				t.Fatal("Expected edge touch to start dragging")
			}
			s.Move(tt.end)
			if got := s.End(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			if s.State() != tt.want {
				t.Errorf("Expected committed state %s, got %s", tt.want, s.State())
			}
		})
	}
}

func TestCloseFromOpenThreshold(t *testing.T) {
	tests := []struct {
		name      string
		open      DrawerState
		delta     float64
		translate float64
		want      DrawerState
	}{
		{"left retracted far", Left, -300, 80, Closed},
		{"left retracted little", Left, -100, 280, Left},
		{"right retracted far", Right, 300, -80, Closed},
		{"right retracted little", Right, 100, -280, Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestShell(t, 1000)
			s.Open(tt.open)

			if !s.Start(500) {
				t.Fatal("Expected an open drawer to be draggable from anywhere")
			}
			if got := s.Move(500 + tt.delta); got != tt.translate {
				t.Errorf("Expected translate %v, got %v", tt.translate, got)
			}
			if got := s.End(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStartOutsideEdgeZone(t *testing.T) {
	s, frames := newTestShell(t, 1000)

	if s.Start(500) {
		t.Fatal("Expected a center touch not to drag while closed")
	}
	if got := s.Move(900); got != 0 {
		t.Errorf("Expected no movement, got %v", got)
	}
	if got := s.End(); got != Closed {
		t.Errorf("Expected Closed, got %s", got)
	}
	if len(*frames) != 0 {
		t.Errorf("Expected no frames, got %d", len(*frames))
	}
}

func TestEndIsIdempotent(t *testing.T) {
	s, frames := newTestShell(t, 1000)

	s.Start(10)
	s.Move(200)
	if got := s.End(); got != Left {
		t.Fatalf("Expected Left, got %s", got)
	}
	count := len(*frames)

	if got := s.End(); got != Left {
		t.Errorf("Expected second End to keep Left, got %s", got)
	}
	if len(*frames) != count {
		t.Errorf("Expected no frame from second End, got %d new", len(*frames)-count)
	}
}

func TestStartSupersedesSession(t *testing.T) {
	s, _ := newTestShell(t, 1000)

	s.Start(10)
	s.Move(200)
	s.Start(990)
	if got := s.Move(800); got != -190 {
		t.Errorf("Expected the new session to drive the right drawer, got %v", got)
	}
}

func TestClampingIsTotal(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for i := 0; i < 200; i++ {
		viewport := 100 + rng.Float64()*2000
		s, frames := newTestShell(t, viewport)
		w := s.DrawerWidth()

		for step := 0; step < 30; step++ {
			switch rng.IntN(5) {
			case 0:
				s.Start(rng.Float64() * viewport)
			case 1:
				s.End()
			case 2:
				s.Resize(100 + rng.Float64()*2000)
				w = s.DrawerWidth()
			default:
				s.Move((rng.Float64() - 0.5) * 20000)
			}

			if tr := s.Translate(); tr < -w || tr > w {
				t.Fatalf("Translate %v escaped [-%v, %v]", tr, w, w)
			}
		}

		for _, f := range *frames {
			if f.Visual.Progress < 0 || f.Visual.Progress > 1 {
				t.Fatalf("Progress %v out of range", f.Visual.Progress)
			}
		}
	}
}

func TestFramesAnimateOnlyOnCommit(t *testing.T) {
	s, frames := newTestShell(t, 1000)

	s.Start(10)
	s.Move(50)
	s.Move(150)
	s.End()

	if len(*frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(*frames))
	}
	for _, f := range (*frames)[:2] {
		if f.Animate || f.Transition.Duration != 0 {
			t.Errorf("Expected drag frames without animation, got %+v", f)
		}
	}

	last := (*frames)[2]
	if !last.Animate || last.Transition.Duration != TransitionDuration || last.Transition.Easing != TransitionEasing {
		t.Errorf("Expected an animated commit frame, got %+v", last)
	}
	if last.Translate != 380 || last.State != Left {
		t.Errorf("Expected commit at 380 in Left, got %v in %s", last.Translate, last.State)
	}
}

func TestSnapBackClosedIsAnimated(t *testing.T) {
	s, frames := newTestShell(t, 1000)

	s.Start(10)
	s.Move(60)
	s.End()

	last := (*frames)[len(*frames)-1]
	if !last.Animate || last.Translate != 0 || last.State != Closed {
		t.Errorf("Expected animated snap back to 0, got %+v", last)
	}
	// Still revealing left while the surface slides back
	if !last.Layers.Left.Visible {
		t.Error("Expected left drawer to stay visible at translate 0")
	}
}

func TestExplicitCommands(t *testing.T) {
	s, frames := newTestShell(t, 400)
	w := ComputeDrawerWidth(400)

	s.Toggle(Right)
	if s.State() != Right || s.Translate() != -w {
		t.Errorf("Expected Right at %v, got %s at %v", -w, s.State(), s.Translate())
	}

	s.Toggle(Right)
	if s.State() != Closed || s.Translate() != 0 {
		t.Errorf("Expected Closed, got %s", s.State())
	}

	s.Open(Left)
	s.Close()
	if s.State() != Closed {
		t.Errorf("Expected Closed, got %s", s.State())
	}

	for _, f := range *frames {
		if !f.Animate {
			t.Errorf("Expected explicit commands to animate, got %+v", f)
		}
	}
}

func TestCommandClearsSession(t *testing.T) {
	s, _ := newTestShell(t, 1000)

	s.Start(10)
	s.Move(100)
	s.Close()

	if s.Dragging() {
		t.Error("Expected the session to be cleared")
	}
	if got := s.End(); got != Closed {
		t.Errorf("Expected Closed, got %s", got)
	}
}

func TestResize(t *testing.T) {
	s, frames := newTestShell(t, 1000)

	s.Resize(300)
	if len(*frames) != 0 {
		t.Errorf("Expected no frame while closed, got %d", len(*frames))
	}

	s.Open(Right)
	s.Resize(400)

	last := (*frames)[len(*frames)-1]
	if last.Animate {
		t.Error("Expected resize to snap without animation")
	}
	if last.Translate != -340 || s.DrawerWidth() != 340 {
		t.Errorf("Expected snap to -340, got %v", last.Translate)
	}
}

func TestResizeDuringDragClampsAndEmits(t *testing.T) {
	s, frames := newTestShell(t, 1000)

	s.Start(10)
	s.Move(310)
	before := len(*frames)

	s.Resize(300)
	if len(*frames) != before+1 {
		t.Fatalf("Expected one frame from resize, got %d", len(*frames)-before)
	}
	last := (*frames)[len(*frames)-1]
	if last.Translate != 255 || s.Translate() != 255 {
		t.Errorf("Expected drag clamped to 255, got frame %v shell %v", last.Translate, s.Translate())
	}
	if last.Animate {
		t.Error("Expected clamped drag frame without animation")
	}

	s.Resize(300)
	if len(*frames) != before+1 {
		t.Error("Expected no frame when the clamp leaves the offset unchanged")
	}
}

func TestConcurrentMovesDeliverInOrder(t *testing.T) {
	s, frames := newTestShell(t, 1000)
	s.Start(10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(x float64) {
			defer wg.Done()
			s.Move(x)
		}(float64(20 + i*5))
	}
	wg.Wait()

	if len(*frames) != 50 {
		t.Fatalf("Expected 50 frames, got %d", len(*frames))
	}
	if last := (*frames)[len(*frames)-1]; last.Translate != s.Translate() {
		t.Errorf("Expected last delivered frame %v to match shell state %v", last.Translate, s.Translate())
	}
}

func TestVisualParams(t *testing.T) {
	v := VisualParams(190, 380)
	if v.Progress != 0.5 || !approx(v.Scale, 0.94) || v.CornerRadius != 16 || !approx(v.ScrimOpacity, 0.15) || v.ShadowOpacity != 0.25 {
		t.Errorf("Unexpected half-open visual %+v", v)
	}
	if v.ShadowOffsetX != -30 || !v.ShadowVisible || !v.ScrimInteractive {
		t.Errorf("Unexpected left shadow %+v", v)
	}

	v = VisualParams(-1000, 380)
	if v.Progress != 1 || v.ShadowOffsetX != 30 {
		t.Errorf("Expected clamped progress and right shadow, got %+v", v)
	}

	v = VisualParams(0.5, 380)
	if v.ShadowVisible || v.ScrimInteractive {
		t.Errorf("Expected no shadow or scrim near rest, got %+v", v)
	}

	if v := VisualParams(10, 0); v.Progress != 0 {
		t.Errorf("Expected zero progress for zero width, got %v", v.Progress)
	}
}

func TestLayering(t *testing.T) {
	prev := Layers{Left: front, Right: behind}

	if got := Layering(prev, 0); got != prev {
		t.Errorf("Expected layering unchanged at 0, got %+v", got)
	}

	got := Layering(prev, -5)
	if got.Right.Z != 2 || !got.Right.Visible || got.Left.Visible {
		t.Errorf("Expected right drawer in front, got %+v", got)
	}

	got = Layering(got, 5)
	if got.Left.Z != 2 || !got.Left.Visible || got.Right.Visible {
		t.Errorf("Expected left drawer in front, got %+v", got)
	}
}
