package ui

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	xfixed "golang.org/x/image/math/fixed"

	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/renderer"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
)

var (
	overlayBackground = color.RGBA{A: 255}
	fpsGood           = color.RGBA{R: 50, G: 255, B: 50, A: 255}
	fpsFair           = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	fpsPoor           = color.RGBA{R: 255, G: 50, B: 50, A: 255}
	textColor         = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// DebugOverlay renders frame timing and session information on screen.
type DebugOverlay struct {
	// Frame timing
	frameCount    int
	fps           float64
	frameTime     float64 // ms
	fpsUpdateTime float64 // seconds since last FPS update
	frameAccum    int

	// Memory stats
	memStats      runtime.MemStats
	memUpdateTime float64

	// Display toggles
	ShowFPS        bool
	ShowPosition   bool
	ShowRenderInfo bool
	ShowMemory     bool
	Enabled        bool

	// Status is an extra line, usually the editor status.
	Status string
}

// NewDebugOverlay creates a new debug overlay.
func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{
		ShowFPS:      true,
		ShowPosition: true,
		Enabled:      true,
	}
}

// Update records one frame. deltaMs is the frame time in milliseconds.
func (d *DebugOverlay) Update(deltaMs float64) {
	d.frameCount++
	d.frameTime = deltaMs
	d.frameAccum++
	d.fpsUpdateTime += deltaMs / 1000.0

	// Update FPS every 0.5 seconds
	if d.fpsUpdateTime >= 0.5 {
		d.fps = float64(d.frameAccum) / d.fpsUpdateTime
		d.frameAccum = 0
		d.fpsUpdateTime = 0
	}

	// Update memory stats every 2 seconds
	d.memUpdateTime += deltaMs / 1000.0
	if d.ShowMemory && d.memUpdateTime >= 2.0 {
		runtime.ReadMemStats(&d.memStats)
		d.memUpdateTime = 0
	}
}

// FPS returns the last measured frame rate.
func (d *DebugOverlay) FPS() float64 {
	return d.fps
}

// Lines formats the enabled sections.
func (d *DebugOverlay) Lines(g *terrain.Grid, cam *camera.Camera, stats renderer.Stats) []string {
	var lines []string
	if d.ShowFPS {
		lines = append(lines, fmt.Sprintf("FPS %.1f (%.2f ms)", d.fps, d.frameTime))
	}
	if d.ShowPosition {
		tx, ty := cam.Cell()
		lines = append(lines,
			fmt.Sprintf("Map %dx%d", g.Width, g.Height),
			fmt.Sprintf("Pos %.2f %.2f %.2f", cam.Pos.X.Float(), cam.Pos.Y.Float(), cam.Pos.Z.Float()),
			fmt.Sprintf("Tile %d,%d  Dir %.0f", tx, ty, cam.Angle.Degrees()),
		)
	}
	if d.ShowRenderInfo {
		lines = append(lines,
			fmt.Sprintf("Spans %d  Records %d", stats.Spans, stats.Records),
			fmt.Sprintf("Sprites %d  %v", stats.Sprites, stats.Duration),
		)
	}
	if d.ShowMemory {
		lines = append(lines,
			fmt.Sprintf("Alloc %s  GC %d", formatBytes(int64(d.memStats.Alloc)), d.memStats.NumGC),
		)
	}
	if d.Status != "" {
		lines = append(lines, d.Status)
	}
	return lines
}

// Render draws the overlay into the top-left corner of dst.
func (d *DebugOverlay) Render(dst *framebuffer.Frame, g *terrain.Grid, cam *camera.Camera, stats renderer.Stats) {
	if !d.Enabled {
		return
	}
	lines := d.Lines(g, cam, stats)
	if len(lines) == 0 {
		return
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}

	const pad = 2
	boxW, boxH := width+2*pad, len(lines)*lineHeight+2*pad
	for y := 0; y < boxH; y++ {
		for x := 0; x < boxW; x++ {
			dst.Blend(x, y, overlayBackground, 150)
		}
	}

	drawer := &font.Drawer{Dst: dst.Image(), Face: face}
	for i, l := range lines {
		c := textColor
		if i == 0 && d.ShowFPS {
			c = d.fpsColor()
		}
		drawer.Src = image.NewUniform(c)
		drawer.Dot = xfixed.P(pad, pad+(i+1)*lineHeight-face.Descent)
		drawer.DrawString(l)
	}
}

func (d *DebugOverlay) fpsColor() color.RGBA {
	switch {
	case d.fps < 30:
		return fpsPoor
	case d.fps < 60:
		return fpsFair
	}
	return fpsGood
}

// formatBytes formats byte count to human readable string.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
