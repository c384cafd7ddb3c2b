package term

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/input"
)

func openSim(t *testing.T, cols, rows int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := Open(sim)
	require.NoError(t, err)
	sim.SetSize(cols, rows)
	t.Cleanup(func() { s.Close() })
	return s, sim
}

func TestFrameSize(t *testing.T) {
	s, _ := openSim(t, 12, 5)
	w, h := s.FrameSize()
	assert.Equal(t, 12, w)
	assert.Equal(t, 10, h)
}

func TestPresentHalfBlocks(t *testing.T) {
	s, sim := openSim(t, 3, 2)

	f := framebuffer.New(4, 3)
	f.Clear(color.RGBA{10, 20, 30, 255})
	require.NoError(t, s.Present(f))

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			r, _, style, _ := sim.GetContent(x, y)
			assert.Equal(t, upperHalf, r, "cell %d,%d", x, y)
			assert.Equal(t, cellStyle(f.At(x, y*2), f.At(x, y*2)), style)
		}
	}

	s.SetStatus("ok")
	require.NoError(t, s.Present(f))
	r, _, _, _ := sim.GetContent(0, 1)
	assert.Equal(t, 'o', r)
	r, _, _, _ = sim.GetContent(1, 1)
	assert.Equal(t, 'k', r)
}

func TestTranslateKey(t *testing.T) {
	for _, c := range []struct {
		key  tcell.Key
		r    rune
		want input.Key
	}{
		{tcell.KeyRune, 'w', input.KeyW},
		{tcell.KeyRune, 'D', input.KeyD},
		{tcell.KeyRune, ' ', input.KeySpace},
		{tcell.KeyRune, '3', input.Key3},
		{tcell.KeyRune, '>', input.KeyPeriod},
		{tcell.KeyRune, 'z', input.KeyNone},
		{tcell.KeyPgUp, 0, input.KeyPageUp},
		{tcell.KeyTab, 0, input.KeyTab},
		{tcell.KeyEscape, 0, input.KeyEscape},
		{tcell.KeyF12, 0, input.KeyF12},
		{tcell.KeyHome, 0, input.KeyNone},
	} {
		assert.Equal(t, c.want, translateKey(c.key, c.r), "key %v rune %q", c.key, c.r)
	}
}

func TestMouseEvents(t *testing.T) {
	s, _ := openSim(t, 10, 10)
	in := input.New()

	in.BeginFrame()
	s.handle(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone), in)
	x, y := in.Mouse()
	assert.Equal(t, 3, x)
	assert.Equal(t, 8, y)
	assert.True(t, in.ButtonPressed(input.ButtonLeft))

	in.BeginFrame()
	s.handle(tcell.NewEventMouse(3, 4, tcell.ButtonNone, tcell.ModNone), in)
	assert.False(t, in.ButtonDown(input.ButtonLeft))

	in.BeginFrame()
	s.handle(tcell.NewEventMouse(3, 4, tcell.WheelUp, tcell.ModNone), in)
	s.handle(tcell.NewEventMouse(3, 4, tcell.WheelUp, tcell.ModNone), in)
	assert.Equal(t, 2, in.Wheel())
}
