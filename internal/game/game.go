// Package game runs the frame loop: an update phase that reads input and
// applies edits, then a render phase that draws and presents the frame.
package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/editor"
	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/input"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/renderer"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/internal/engine/texture"
	"github.com/Faultbox/heightcast/internal/game/ui"
	"github.com/Faultbox/heightcast/internal/logger"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Presenter shows frames and reports input. The SDL window and the terminal
// screen both implement it.
type Presenter interface {
	Poll(in *input.State) bool
	Present(f *framebuffer.Frame) error
	Close() error
}

// Titler is implemented by presenters with a title bar.
type Titler interface {
	SetTitle(title string)
}

// StatusLine is implemented by presenters that can show a line of text after
// the frame.
type StatusLine interface {
	SetStatus(text string)
}

// FrameSizer is implemented by presenters whose size follows the output
// device. The frame is resized to match before each render.
type FrameSizer interface {
	FrameSize() (width, height int)
}

// Config holds game configuration.
type Config struct {
	Title    string
	Width    int
	Height   int
	HalfFOV  fixed.Angle
	FPSLimit int
	ShowFPS  bool

	// MapPath is the default save path.
	MapPath  string
	Compress bool

	// New map parameters for ActionNewMap.
	NewWidth  uint16
	NewHeight uint16
	NewCell   terrain.Cell
	EyeHeight fixed.Scalar

	ScreenshotDir string
}

// Game is one running session.
type Game struct {
	config     Config
	presenter  Presenter
	input      *input.State
	frame      *framebuffer.Frame
	renderer   *renderer.Renderer
	textures   *texture.Store
	session    *editor.Session
	controller *editor.Controller
	minimap    *ui.Minimap
	overlay    *ui.DebugOverlay
	shots      *framebuffer.ScreenshotCapture
	log        *zap.Logger

	now    func() time.Time
	sleep  func(time.Duration)
	frames int
	title  string
}

// New creates a game around an open session.
func New(cfg Config, p Presenter, s *editor.Session, textures *texture.Store, st editor.Settings) *Game {
	if cfg.HalfFOV == 0 {
		cfg.HalfFOV = raycast.DefaultHalfFOV
	}
	if textures == nil {
		textures = texture.NewStore()
	}
	st.TextureCount = max(st.TextureCount, textures.Len())

	view := raycast.NewView(cfg.Width, cfg.Height, cfg.HalfFOV)
	r := renderer.New(renderer.DefaultConfig(), view, textures)
	r.Editing = !st.ReadOnly

	overlay := ui.NewDebugOverlay()
	overlay.Enabled = cfg.ShowFPS

	g := &Game{
		config:     cfg,
		presenter:  p,
		input:      input.New(),
		frame:      framebuffer.New(cfg.Width, cfg.Height),
		renderer:   r,
		textures:   textures,
		session:    s,
		controller: editor.NewController(s, st),
		minimap:    ui.NewMinimap(textures),
		overlay:    overlay,
		shots:      framebuffer.NewScreenshotCapture(cfg.ScreenshotDir, "heightcast"),
		log:        logger.Named("game"),
		now:        time.Now,
		sleep:      time.Sleep,
	}

	g.log.Info("game initialized",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("read_only", st.ReadOnly),
		zap.Int("textures", textures.Len()),
	)
	return g
}

// Controller returns the editor controller.
func (g *Game) Controller() *editor.Controller {
	return g.controller
}

// Frame returns the framebuffer of the last frame.
func (g *Game) Frame() *framebuffer.Frame {
	return g.frame
}

// Run steps frames until quit is requested or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	var budget time.Duration
	if g.config.FPSLimit > 0 {
		budget = time.Second / time.Duration(g.config.FPSLimit)
	}

	g.log.Info("starting game loop", zap.Duration("frame_budget", budget))
	last := g.now()
	for {
		if err := ctx.Err(); err != nil {
			g.log.Info("game loop cancelled")
			return nil
		}

		start := g.now()
		g.overlay.Update(float64(start.Sub(last)) / float64(time.Millisecond))
		last = start

		running, err := g.Step()
		if err != nil {
			return err
		}
		if !running {
			g.log.Info("game loop finished", zap.Int("frames", g.frames))
			return nil
		}

		if budget > 0 {
			if spent := g.now().Sub(start); spent < budget {
				g.sleep(budget - spent)
			}
		}
	}
}

// Step runs one update phase and one render phase. It returns false once the
// session should end.
func (g *Game) Step() (bool, error) {
	g.input.BeginFrame()
	open := g.presenter.Poll(g.input)

	act := g.controller.Update(g.input, g.renderer.View(), g.renderer.Depth(), g.textures)
	if !open || act.Has(editor.ActionQuit) {
		return false, nil
	}
	g.handleActions(act)

	g.fitFrame()
	g.render()
	g.updateTitle()

	if err := g.presenter.Present(g.frame); err != nil {
		return false, fmt.Errorf("presenting frame: %w", err)
	}
	if act.Has(editor.ActionScreenshot) {
		g.screenshot()
	}
	g.frames++
	return true, nil
}

func (g *Game) handleActions(act editor.Action) {
	s := g.session
	if act.Has(editor.ActionSave) {
		path := s.Path
		if path == "" {
			path = g.config.MapPath
		}
		if err := s.Save(path, g.config.Compress); err != nil {
			g.log.Error("save failed", zap.Error(err))
		}
	}
	if act.Has(editor.ActionNewMap) {
		s.Reset(g.config.NewWidth, g.config.NewHeight, g.config.NewCell, g.config.EyeHeight)
	}
}

func (g *Game) fitFrame() {
	fs, ok := g.presenter.(FrameSizer)
	if !ok {
		return
	}
	w, h := fs.FrameSize()
	if w <= 0 || h <= 0 || (w == g.frame.Width() && h == g.frame.Height()) {
		return
	}
	g.frame.Resize(w, h)
	g.renderer.SetView(raycast.NewView(w, h, g.config.HalfFOV))
	g.log.Debug("frame resized", zap.Int("width", w), zap.Int("height", h))
}

func (g *Game) render() {
	s := g.session
	c := g.controller
	r := g.renderer

	stats := r.Render(g.frame, s.Grid, s.Camera, s.Sprites)

	if !c.ReadOnly {
		if c.HoverSprite != sprite.Nil {
			r.HighlightSprite(g.frame, s.Camera, s.Sprites, c.HoverSprite, renderer.HoverColor)
		} else if c.HoverOK {
			r.HighlightCell(g.frame, s.Grid, s.Camera, c.Hover, renderer.HoverColor)
		}
		if s.Selected != sprite.Nil {
			r.HighlightSprite(g.frame, s.Camera, s.Sprites, s.Selected, renderer.SelectedColor)
		}
		r.Crosshair(g.frame, renderer.HoverColor)
	}

	if c.ShowMap {
		g.minimap.ClearMarkers()
		s.Sprites.Each(func(id sprite.ID, sp *sprite.Sprite) bool {
			mk := ui.MinimapMarker{Pos: sp.Pos.XY(), Type: ui.MarkerTypeSprite, Color: g.textures.Color(sp.Texture)}
			if id == s.Selected {
				mk.Type, mk.Color = ui.MarkerTypeSelected, renderer.SelectedColor
			}
			g.minimap.AddMarker(mk)
			return true
		})
		if c.HoverOK {
			g.minimap.AddMarker(ui.MinimapMarker{
				Pos:   fixed.CellCenter(c.Hover.X, c.Hover.Y, 0).XY(),
				Type:  ui.MarkerTypeHover,
				Color: renderer.HoverColor,
			})
		}
		g.minimap.Render(g.frame, s.Grid, s.Camera)
	}

	g.overlay.Status = ""
	if !c.ReadOnly {
		g.overlay.Status = c.Status()
	}
	g.overlay.Render(g.frame, s.Grid, s.Camera, stats)
}

func (g *Game) screenshot() {
	name, err := g.shots.Capture(g.frame)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", name))
}

func (g *Game) updateTitle() {
	title := g.config.Title
	if !g.controller.ReadOnly {
		title += " | " + g.controller.Status()
	}
	if sl, ok := g.presenter.(StatusLine); ok && !g.overlay.Enabled {
		sl.SetStatus(title)
	}
	if title == g.title {
		return
	}
	g.title = title
	if t, ok := g.presenter.(Titler); ok {
		t.SetTitle(title)
	}
}

// Close releases the presenter.
func (g *Game) Close() error {
	g.log.Info("closing game")
	return g.presenter.Close()
}
