// Package input keeps per-frame keyboard and mouse state. Window backends
// feed it events; the editor reads it during the update phase.
package input

// Key is a backend-independent key code.
type Key uint8

// Keys the editor binds.
const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyR
	KeyF
	KeyT
	KeyG
	KeyM
	KeyN
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyTab
	KeySpace
	KeyDelete
	KeyEscape
	KeyF2
	KeyF12
	Key1
	Key2
	Key3
	Key4
	KeyComma
	KeyPeriod
	KeyShift
	keyCount
)

// Button is a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	buttonCount
)

// State is the input seen by one frame. Backends call the setters between
// BeginFrame calls; readers see edges relative to the previous frame.
type State struct {
	down    [keyCount]bool
	prev    [keyCount]bool
	tapped  [keyCount]bool
	tapUp   [keyCount]bool // released by BeginFrame after a tap
	buttons [buttonCount]bool
	prevBtn [buttonCount]bool
	clicked [buttonCount]bool

	mouseX, mouseY int
	lastX, lastY   int
	wheel          int
	quit           bool
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// BeginFrame starts a new frame. Keys registered with Tap are released, so a
// terminal backend that only reports presses still produces edges.
func (s *State) BeginFrame() {
	// Taps are released before the snapshot so a key tapped on consecutive
	// frames is a fresh press each time.
	for k, t := range s.tapped {
		s.tapUp[k] = t
		if t {
			s.down[k] = false
			s.tapped[k] = false
		}
	}
	s.prev = s.down
	s.prevBtn = s.buttons
	s.clicked = [buttonCount]bool{}
	s.lastX, s.lastY = s.mouseX, s.mouseY
	s.wheel = 0
}

// SetKey records a key press or release.
func (s *State) SetKey(k Key, down bool) {
	if k == KeyNone || k >= keyCount {
		return
	}
	s.down[k] = down
	s.tapped[k] = false
}

// Tap presses k for the current frame only.
func (s *State) Tap(k Key) {
	if k == KeyNone || k >= keyCount {
		return
	}
	s.down[k] = true
	s.tapped[k] = true
}

// SetButton records a mouse button press or release.
func (s *State) SetButton(b Button, down bool) {
	if b >= buttonCount {
		return
	}
	if down && !s.buttons[b] {
		s.clicked[b] = true
	}
	s.buttons[b] = down
}

// Click registers a press that was released within the same frame.
func (s *State) Click(b Button) {
	if b >= buttonCount {
		return
	}
	s.clicked[b] = true
}

// MoveMouse sets the pointer position in framebuffer pixels.
func (s *State) MoveMouse(x, y int) {
	s.mouseX, s.mouseY = x, y
}

// ScrollWheel accumulates wheel steps, positive away from the user.
func (s *State) ScrollWheel(dy int) {
	s.wheel += dy
}

// RequestQuit marks the session for shutdown.
func (s *State) RequestQuit() {
	s.quit = true
}

// Quit reports whether shutdown was requested.
func (s *State) Quit() bool {
	return s.quit
}

// Down reports whether k is held.
func (s *State) Down(k Key) bool {
	return k < keyCount && s.down[k]
}

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool {
	return k < keyCount && s.down[k] && !s.prev[k]
}

// Released reports whether k went up this frame.
func (s *State) Released(k Key) bool {
	return k < keyCount && !s.down[k] && (s.prev[k] || s.tapUp[k])
}

// ButtonDown reports whether b is held.
func (s *State) ButtonDown(b Button) bool {
	return b < buttonCount && s.buttons[b]
}

// ButtonPressed reports whether b was pressed this frame.
func (s *State) ButtonPressed(b Button) bool {
	return b < buttonCount && (s.clicked[b] || (s.buttons[b] && !s.prevBtn[b]))
}

// Mouse returns the pointer position.
func (s *State) Mouse() (x, y int) {
	return s.mouseX, s.mouseY
}

// MouseDelta returns how far the pointer moved this frame.
func (s *State) MouseDelta() (dx, dy int) {
	return s.mouseX - s.lastX, s.mouseY - s.lastY
}

// Wheel returns the wheel steps of this frame.
func (s *State) Wheel() int {
	return s.wheel
}

// Axis returns +1, -1 or 0 from a pair of held keys.
func (s *State) Axis(neg, pos Key) int {
	v := 0
	if s.Down(pos) {
		v++
	}
	if s.Down(neg) {
		v--
	}
	return v
}
