// Package term presents the framebuffer on a terminal with tcell, two
// framebuffer rows per character cell.
package term

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/input"
	"github.com/Faultbox/heightcast/internal/logger"
)

// upperHalf draws the top pixel in the foreground and the bottom one in the
// background.
const upperHalf = '▀'

// Screen is a terminal presenter.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	done   chan struct{}
	log    *zap.Logger

	buttons tcell.ButtonMask
	status  string
}

// New opens the terminal.
func New() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	return Open(screen)
}

// Open initialises screen and starts reading its events. Tests pass a
// simulation screen.
func Open(screen tcell.Screen) (*Screen, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	s := &Screen{
		screen: screen,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		log:    logger.Named("term"),
	}
	go s.pump()

	w, h := s.FrameSize()
	s.log.Info("terminal opened", zap.Int("width", w), zap.Int("height", h))
	return s, nil
}

func (s *Screen) pump() {
	defer close(s.done)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// FrameSize returns the framebuffer size that fills the terminal.
func (s *Screen) FrameSize() (width, height int) {
	cols, rows := s.screen.Size()
	return cols, rows * 2
}

// Present draws f, cropped to the terminal.
func (s *Screen) Present(f *framebuffer.Frame) error {
	cols, rows := s.screen.Size()
	w := min(cols, f.Width())
	h := min(rows, (f.Height()+1)/2)

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			top := f.At(cx, cy*2)
			bottom := top
			if cy*2+1 < f.Height() {
				bottom = f.At(cx, cy*2+1)
			}
			s.screen.SetContent(cx, cy, upperHalf, nil, cellStyle(top, bottom))
		}
	}
	s.drawStatus(cols, rows)
	s.screen.Show()
	return nil
}

// SetStatus sets a line of text drawn over the bottom row by Present.
func (s *Screen) SetStatus(text string) {
	s.status = text
}

func (s *Screen) drawStatus(cols, rows int) {
	if rows == 0 || s.status == "" {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range s.status {
		if x >= cols {
			break
		}
		s.screen.SetContent(x, rows-1, r, nil, style)
		x++
	}
}

// Poll drains pending terminal events into in without blocking. It returns
// false once quit was requested.
func (s *Screen) Poll(in *input.State) bool {
	for {
		select {
		case ev := <-s.events:
			s.handle(ev, in)
		default:
			return !in.Quit()
		}
	}
}

func (s *Screen) handle(ev tcell.Event, in *input.State) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			in.RequestQuit()
			return
		}
		if k := translateKey(e.Key(), e.Rune()); k != input.KeyNone {
			in.Tap(k)
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		in.MoveMouse(x, y*2)
		btn := e.Buttons()
		s.mouseButton(in, btn, tcell.Button1, input.ButtonLeft)
		s.mouseButton(in, btn, tcell.Button2, input.ButtonRight)
		s.mouseButton(in, btn, tcell.Button3, input.ButtonMiddle)
		s.buttons = btn
		if btn&tcell.WheelUp != 0 {
			in.ScrollWheel(1)
		}
		if btn&tcell.WheelDown != 0 {
			in.ScrollWheel(-1)
		}

	case *tcell.EventResize:
		s.screen.Sync()
	}
}

func (s *Screen) mouseButton(in *input.State, now, mask tcell.ButtonMask, b input.Button) {
	was := s.buttons&mask != 0
	is := now&mask != 0
	if was != is {
		in.SetButton(b, is)
	}
}

// Close restores the terminal.
func (s *Screen) Close() error {
	close(s.quit)
	s.screen.Fini()
	<-s.done
	s.log.Info("terminal closed")
	return nil
}

func cellStyle(top, bottom color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(rgb(top)).
		Background(rgb(bottom))
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func translateKey(k tcell.Key, r rune) input.Key {
	switch k {
	case tcell.KeyUp:
		return input.KeyUp
	case tcell.KeyDown:
		return input.KeyDown
	case tcell.KeyLeft:
		return input.KeyLeft
	case tcell.KeyRight:
		return input.KeyRight
	case tcell.KeyPgUp:
		return input.KeyPageUp
	case tcell.KeyPgDn:
		return input.KeyPageDown
	case tcell.KeyTab:
		return input.KeyTab
	case tcell.KeyDelete:
		return input.KeyDelete
	case tcell.KeyEscape:
		return input.KeyEscape
	case tcell.KeyF2:
		return input.KeyF2
	case tcell.KeyF12:
		return input.KeyF12
	case tcell.KeyRune:
		return runeKey(r)
	}
	return input.KeyNone
}

func runeKey(r rune) input.Key {
	switch r {
	case 'w', 'W':
		return input.KeyW
	case 'a', 'A':
		return input.KeyA
	case 's', 'S':
		return input.KeyS
	case 'd', 'D':
		return input.KeyD
	case 'q', 'Q':
		return input.KeyQ
	case 'e', 'E':
		return input.KeyE
	case 'r', 'R':
		return input.KeyR
	case 'f', 'F':
		return input.KeyF
	case 't', 'T':
		return input.KeyT
	case 'g', 'G':
		return input.KeyG
	case 'm', 'M':
		return input.KeyM
	case 'n', 'N':
		return input.KeyN
	case ' ':
		return input.KeySpace
	case '1':
		return input.Key1
	case '2':
		return input.Key2
	case '3':
		return input.Key3
	case '4':
		return input.Key4
	case ',', '<':
		return input.KeyComma
	case '.', '>':
		return input.KeyPeriod
	}
	return input.KeyNone
}
