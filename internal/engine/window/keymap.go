package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/heightcast/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:        input.KeyW,
	sdl.SCANCODE_A:        input.KeyA,
	sdl.SCANCODE_S:        input.KeyS,
	sdl.SCANCODE_D:        input.KeyD,
	sdl.SCANCODE_Q:        input.KeyQ,
	sdl.SCANCODE_E:        input.KeyE,
	sdl.SCANCODE_R:        input.KeyR,
	sdl.SCANCODE_F:        input.KeyF,
	sdl.SCANCODE_T:        input.KeyT,
	sdl.SCANCODE_G:        input.KeyG,
	sdl.SCANCODE_M:        input.KeyM,
	sdl.SCANCODE_N:        input.KeyN,
	sdl.SCANCODE_UP:       input.KeyUp,
	sdl.SCANCODE_DOWN:     input.KeyDown,
	sdl.SCANCODE_LEFT:     input.KeyLeft,
	sdl.SCANCODE_RIGHT:    input.KeyRight,
	sdl.SCANCODE_PAGEUP:   input.KeyPageUp,
	sdl.SCANCODE_PAGEDOWN: input.KeyPageDown,
	sdl.SCANCODE_TAB:      input.KeyTab,
	sdl.SCANCODE_SPACE:    input.KeySpace,
	sdl.SCANCODE_DELETE:   input.KeyDelete,
	sdl.SCANCODE_ESCAPE:   input.KeyEscape,
	sdl.SCANCODE_F2:       input.KeyF2,
	sdl.SCANCODE_F12:      input.KeyF12,
	sdl.SCANCODE_1:        input.Key1,
	sdl.SCANCODE_2:        input.Key2,
	sdl.SCANCODE_3:        input.Key3,
	sdl.SCANCODE_4:        input.Key4,
	sdl.SCANCODE_COMMA:    input.KeyComma,
	sdl.SCANCODE_PERIOD:   input.KeyPeriod,
	sdl.SCANCODE_LSHIFT:   input.KeyShift,
	sdl.SCANCODE_RSHIFT:   input.KeyShift,
}

var buttonmap = map[uint8]input.Button{
	sdl.BUTTON_LEFT:   input.ButtonLeft,
	sdl.BUTTON_RIGHT:  input.ButtonRight,
	sdl.BUTTON_MIDDLE: input.ButtonMiddle,
}
