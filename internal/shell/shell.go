package shell

import (
	"sync"

	"go.uber.org/zap"
)

// session tracks one touch from start to end
type session struct {
	startX   float64
	dragging bool
	edge     DrawerState
}

// Shell is the drawer state machine. It is safe for concurrent use. Frames
// reach the callback in the order their state changes were applied; the
// callback runs outside the state lock but must not call back into the Shell.
type Shell struct {
	onFrame func(Frame)
	logger  *zap.Logger

	viewportWidth float64
	drawerWidth   float64
	state         DrawerState
	translate     float64
	layers        Layers
	session       *session

	mutex    sync.Mutex
	delivery sync.Mutex
}

// New creates a closed shell for a viewport width. onFrame and logger may be nil.
func New(viewportWidth float64, onFrame func(Frame), logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		onFrame:       onFrame,
		logger:        logger,
		viewportWidth: viewportWidth,
		drawerWidth:   ComputeDrawerWidth(viewportWidth),
		layers:        Layers{Left: behind, Right: behind},
	}
}

// State returns the committed drawer state
func (s *Shell) State() DrawerState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Translate returns the current surface translation
func (s *Shell) Translate() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.translate
}

// DrawerWidth returns the current drawer width
func (s *Shell) DrawerWidth() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.drawerWidth
}

// Dragging returns true while a touch is moving the surface
func (s *Shell) Dragging() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.session != nil && s.session.dragging
}

// Start begins a touch at x and returns whether it may drag the surface.
// Any session in flight is replaced.
func (s *Shell) Start(x float64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess := &session{startX: x}
	if s.state == Closed {
		switch {
		case x < EdgeZone:
			sess.dragging = true
			sess.edge = Left
		case x > s.viewportWidth-EdgeZone:
			sess.dragging = true
			sess.edge = Right
		}
	} else {
		// An open drawer can be dragged shut from anywhere
		sess.dragging = true
	}

	s.session = sess
	return sess.dragging
}

// Move tracks the touch to x and returns the new translation.
// Touches that are not dragging leave the surface untouched.
func (s *Shell) Move(x float64) float64 {
	s.mutex.Lock()
	if s.session == nil || !s.session.dragging {
		t := s.translate
		s.mutex.Unlock()
		return t
	}

	w := s.drawerWidth
	delta := x - s.session.startX

	var next float64
	switch s.state {
	case Left:
		next = clamp(w+delta, 0, w)
	case Right:
		next = clamp(-w+delta, -w, 0)
	default:
		switch s.session.edge {
		case Left:
			next = clamp(delta, 0, w)
		case Right:
			next = clamp(delta, -w, 0)
		}
	}

	s.translate = next
	frame := s.frame(false)
	s.release(frame)
	return next
}

// End releases the touch and commits the resulting state. Without a
// dragging session it does nothing.
func (s *Shell) End() DrawerState {
	s.mutex.Lock()
	sess := s.session
	s.session = nil
	if sess == nil || !sess.dragging {
		state := s.state
		s.mutex.Unlock()
		return state
	}

	w := s.drawerWidth
	threshold := w * SnapThreshold
	current := s.translate

	next := s.state
	switch s.state {
	case Left:
		if current < w-threshold {
			next = Closed
		}
	case Right:
		if current > -w+threshold {
			next = Closed
		}
	default:
		switch {
		case current > threshold:
			next = Left
		case current < -threshold:
			next = Right
		}
	}

	frame := s.commit(next)
	s.release(frame)
	return next
}

// Open commits side as the open drawer
func (s *Shell) Open(side DrawerState) {
	s.mutex.Lock()
	s.session = nil
	frame := s.commit(side)
	s.release(frame)
}

// Close closes any open drawer
func (s *Shell) Close() {
	s.Open(Closed)
}

// Toggle closes side if it is open and opens it otherwise
func (s *Shell) Toggle(side DrawerState) {
	s.mutex.Lock()
	s.session = nil
	next := side
	if s.state == side {
		next = Closed
	}
	frame := s.commit(next)
	s.release(frame)
}

// Resize recomputes the drawer width. An open drawer snaps to the new width
// without animation.
func (s *Shell) Resize(viewportWidth float64) {
	s.mutex.Lock()
	s.viewportWidth = viewportWidth
	s.drawerWidth = ComputeDrawerWidth(viewportWidth)

	if s.state == Closed {
		clamped := clamp(s.translate, -s.drawerWidth, s.drawerWidth)
		if clamped == s.translate {
			s.mutex.Unlock()
			return
		}
		// A drag in progress follows the narrower drawer
		s.translate = clamped
		s.release(s.frame(false))
		return
	}

	s.translate = s.restingTranslate(s.state)
	s.release(s.frame(false))
}

// commit sets state and resting position, returning an animated frame.
// Callers hold the lock.
func (s *Shell) commit(next DrawerState) Frame {
	if next != Left && next != Right {
		next = Closed
	}
	if next != s.state {
		s.logger.Debug("Drawer state changed",
			zap.String("from", s.state.String()),
			zap.String("to", next.String()))
	}
	s.state = next
	s.translate = s.restingTranslate(next)
	return s.frame(true)
}

func (s *Shell) restingTranslate(state DrawerState) float64 {
	switch state {
	case Left:
		return s.drawerWidth
	case Right:
		return -s.drawerWidth
	default:
		return 0
	}
}

// frame builds the frame for the current translation. Callers hold the lock.
func (s *Shell) frame(animate bool) Frame {
	s.layers = Layering(s.layers, s.translate)

	f := Frame{
		Translate: s.translate,
		Animate:   animate,
		Visual:    VisualParams(s.translate, s.drawerWidth),
		Layers:    s.layers,
		State:     s.state,
	}
	if animate {
		f.Transition = snapTransition
	}
	return f
}

// release hands delivery of f over before dropping the state lock, so a
// later change cannot overtake it. Callers hold the state lock.
func (s *Shell) release(f Frame) {
	s.delivery.Lock()
	s.mutex.Unlock()
	defer s.delivery.Unlock()

	if s.onFrame != nil {
		s.onFrame(f)
	}
}
