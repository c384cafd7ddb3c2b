// Package window presents the software framebuffer in an SDL2 window and
// feeds SDL events into the input state.
package window

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/input"
	"github.com/Faultbox/heightcast/internal/engine/shader"
	"github.com/Faultbox/heightcast/internal/logger"
)

func init() {
	// SDL video calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int // framebuffer columns
	Height     int // framebuffer rows
	Scale      int
	Fullscreen bool
	VSync      bool

	// OpenGL presents through a GL 4.1 core context instead of the SDL
	// renderer. The frame is stretched over the whole window.
	OpenGL bool
}

// Window wraps an SDL2 window and either an SDL renderer with a streaming
// texture or a GL context with a blitter.
type Window struct {
	config   Config
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	glContext sdl.GLContext
	blit      *shader.Blitter

	log *zap.Logger
}

// New creates a window scaled to hold a Width x Height framebuffer.
func New(cfg Config) (*Window, error) {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	w := &Window{
		config: cfg,
		log:    logger.Named("window"),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if cfg.OpenGL {
		// 4.1 core is the newest profile macOS offers
		sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
		sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
		sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
		sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
		flags |= sdl.WINDOW_OPENGL
	}

	var err error
	w.window, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width*cfg.Scale),
		int32(cfg.Height*cfg.Scale),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	if cfg.OpenGL {
		err = w.initGL()
	} else {
		err = w.initRenderer()
	}
	if err != nil {
		w.Close()
		return nil, err
	}

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("scale", cfg.Scale),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Bool("opengl", cfg.OpenGL),
	)
	return w, nil
}

func (w *Window) initRenderer() error {
	cfg := w.config
	rflags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		rflags |= sdl.RENDERER_PRESENTVSYNC
	}
	var err error
	w.renderer, err = sdl.CreateRenderer(w.window, -1, rflags)
	if err != nil {
		return fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	// Logical size makes SDL letterbox the frame and report mouse positions
	// in framebuffer pixels.
	if err := w.renderer.SetLogicalSize(int32(cfg.Width), int32(cfg.Height)); err != nil {
		w.log.Warn("failed to set logical size", zap.Error(err))
	}

	w.texture, err = w.renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(cfg.Width),
		int32(cfg.Height),
	)
	if err != nil {
		return fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}
	return nil
}

func (w *Window) initGL() error {
	var err error
	w.glContext, err = w.window.GLCreateContext()
	if err != nil {
		return fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init failed: %w", err)
	}

	interval := 0
	if w.config.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Error(err))
	}

	w.blit, err = shader.NewBlitter(w.config.Width, w.config.Height)
	if err != nil {
		return err
	}
	w.log.Info("opengl initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() error {
	w.log.Info("closing window")

	if w.blit != nil {
		w.blit.Delete()
		w.blit = nil
	}
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	if w.renderer != nil {
		w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
	return nil
}

// Present uploads f and shows it. f must match the configured size.
func (w *Window) Present(f *framebuffer.Frame) error {
	if f.Width() != w.config.Width || f.Height() != w.config.Height {
		return fmt.Errorf("frame %dx%d does not match window %dx%d",
			f.Width(), f.Height(), w.config.Width, w.config.Height)
	}
	pix := f.Pixels()
	if len(pix) == 0 {
		return nil
	}
	if w.blit != nil {
		dw, dh := w.window.GLGetDrawableSize()
		w.blit.Draw(pix, f.Stride(), int(dw), int(dh))
		w.window.GLSwap()
		return nil
	}
	if err := w.texture.Update(nil, unsafe.Pointer(&pix[0]), f.Stride()); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	w.renderer.Present()
	return nil
}

// Poll drains pending SDL events into in. It returns false once the window
// was closed.
func (w *Window) Poll(in *input.State) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.RequestQuit()

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if k, ok := keymap[e.Keysym.Scancode]; ok {
				in.SetKey(k, e.Type == sdl.KEYDOWN)
			}

		case *sdl.MouseMotionEvent:
			in.MoveMouse(w.framePoint(e.X, e.Y))

		case *sdl.MouseButtonEvent:
			in.MoveMouse(w.framePoint(e.X, e.Y))
			if b, ok := buttonmap[e.Button]; ok {
				in.SetButton(b, e.Type == sdl.MOUSEBUTTONDOWN)
			}

		case *sdl.MouseWheelEvent:
			in.ScrollWheel(int(e.Y))
		}
	}
	return !in.Quit()
}

// framePoint maps window coordinates to framebuffer pixels. The SDL
// renderer already does this through its logical size.
func (w *Window) framePoint(x, y int32) (int, int) {
	if w.blit == nil {
		return int(x), int(y)
	}
	ww, wh := w.window.GetSize()
	if ww <= 0 || wh <= 0 {
		return int(x), int(y)
	}
	return int(x) * w.config.Width / int(ww), int(y) * w.config.Height / int(wh)
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.window.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.window.SetTitle(title)
}
