// Package renderer draws a frame: terrain spans column by column into a
// rasterizer, the occlusion buffer alongside them, then sprites far to near
// clipped against it.
package renderer

import (
	"image/color"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/occlusion"
	"github.com/Faultbox/heightcast/internal/engine/picking"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/internal/engine/texture"
	"github.com/Faultbox/heightcast/internal/logger"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Rasterizer receives the drawing primitives of a frame.
type Rasterizer interface {
	DrawSpan(x, top, bottom int, c color.RGBA)
	DrawLine(x0, y0, x1, y1 int, c color.RGBA)
}

// Stats describes the last rendered frame.
type Stats struct {
	Spans    int
	Records  int
	Sprites  int
	Columns  int
	Duration time.Duration
}

// Config holds renderer settings.
type Config struct {
	ShadeDistance fixed.Scalar // depth at which shading bottoms out
	MinShade      int          // darkest shade, out of 256
	SkyColor      color.RGBA   // used when no sky texture is loaded
	VoidColor     color.RGBA   // faces into cells outside the grid
	StatsEvery    int          // frames between stats log lines, 0 disables
}

// DefaultConfig returns the standard renderer settings.
func DefaultConfig() Config {
	return Config{
		ShadeDistance: 16 * fixed.One,
		MinShade:      64,
		SkyColor:      color.RGBA{R: 110, G: 150, B: 210, A: 255},
		VoidColor:     color.RGBA{R: 24, G: 24, B: 28, A: 255},
		StatsEvery:    600,
	}
}

type visibleSprite struct {
	id   sprite.ID
	rect raycast.Billboard
	tex  uint16
}

// Renderer owns the per-frame scratch state.
type Renderer struct {
	cfg      Config
	view     raycast.View
	textures *texture.Store
	depth    *occlusion.Buffer
	hits     []raycast.Hit
	visible  []visibleSprite

	// Editing draws editor-only sprites.
	Editing bool

	stats  Stats
	frames int
	log    *zap.Logger
}

// New creates a renderer for view.
func New(cfg Config, view raycast.View, textures *texture.Store) *Renderer {
	return &Renderer{
		cfg:      cfg,
		view:     view,
		textures: textures,
		depth:    occlusion.New(view.Width),
		hits:     make([]raycast.Hit, 0, raycast.MaxSteps+1),
		log:      logger.Named("renderer"),
	}
}

// View returns the current view.
func (r *Renderer) View() raycast.View {
	return r.view
}

// SetView changes the projection, e.g. after a resize.
func (r *Renderer) SetView(v raycast.View) {
	r.view = v
	r.depth.Reset(v.Width)
}

// Depth returns the occlusion buffer of the last frame.
func (r *Renderer) Depth() *occlusion.Buffer {
	return r.depth
}

// Stats returns statistics for the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Render draws the grid and sprites seen from cam.
func (r *Renderer) Render(dst Rasterizer, g *terrain.Grid, cam *camera.Camera, sprites *sprite.Registry) Stats {
	start := time.Now()
	r.stats = Stats{Columns: r.view.Width}
	r.depth.Reset(r.view.Width)

	origin := cam.Pos.XY()
	for x := 0; x < r.view.Width; x++ {
		r.hits = raycast.March(g, origin, r.view.RayDir(cam, x), r.hits)
		r.view.Decompose(cam, g, r.hits, func(s raycast.Span) bool {
			dst.DrawSpan(x, s.Top, s.Bottom, r.spanColor(g, s))
			if s.Surface.FloorSide() {
				r.depth.Append(occlusion.SideFloor, x, s.Depth, s.Top)
			} else {
				r.depth.Append(occlusion.SideCeiling, x, s.Depth, s.Bottom)
			}
			r.stats.Spans++
			return true
		})
	}

	if sprites != nil {
		r.drawSprites(dst, cam, sprites)
	}

	r.stats.Records = r.depth.Records()
	r.stats.Duration = time.Since(start)
	r.frames++
	if r.cfg.StatsEvery > 0 && r.frames%r.cfg.StatsEvery == 0 {
		r.log.Debug("frame stats",
			zap.Int("frame", r.frames),
			zap.Int("spans", r.stats.Spans),
			zap.Int("records", r.stats.Records),
			zap.Int("sprites", r.stats.Sprites),
			zap.Duration("took", r.stats.Duration),
		)
	}
	return r.stats
}

// drawSprites projects visible sprites, sorts them far to near and draws each
// column clipped by the occlusion buffer.
func (r *Renderer) drawSprites(dst Rasterizer, cam *camera.Camera, reg *sprite.Registry) {
	r.visible = r.visible[:0]
	reg.Each(func(id sprite.ID, s *sprite.Sprite) bool {
		if !s.Visible(r.Editing) {
			return true
		}
		rect, ok := picking.SpriteRect(r.view, cam, s, r.textures)
		if !ok || rect.Right <= 0 || rect.Left >= r.view.Width {
			return true
		}
		r.visible = append(r.visible, visibleSprite{id: id, rect: rect, tex: s.Texture})
		return true
	})

	sort.SliceStable(r.visible, func(i, j int) bool {
		return r.visible[i].rect.Depth > r.visible[j].rect.Depth
	})

	for _, v := range r.visible {
		tex, _ := r.textures.Lookup(v.tex)
		base := r.textures.Color(v.tex)
		drawn := false
		for x := max(v.rect.Left, 0); x < min(v.rect.Right, r.view.Width); x++ {
			top, bottom, ok := r.depth.Clip(x, v.rect.Depth, max(v.rect.Top, 0), min(v.rect.Bottom, r.view.Height))
			if !ok {
				continue
			}
			drawn = true
			if tex == nil {
				dst.DrawSpan(x, top, bottom, r.shade(base, v.rect.Depth))
				continue
			}
			r.drawSpriteColumn(dst, tex, v.rect, x, top, bottom)
		}
		if drawn {
			r.stats.Sprites++
		}
	}
}

// drawSpriteColumn samples one texture column, skipping transparent texels.
func (r *Renderer) drawSpriteColumn(dst Rasterizer, tex *texture.Texture, rect raycast.Billboard, x, top, bottom int) {
	w := rect.Right - rect.Left
	h := rect.Bottom - rect.Top
	u := (x - rect.Left) * tex.Width / max(w, 1)

	runStart := top
	var runColor color.RGBA
	flush := func(end int) {
		if runColor.A != 0 && end > runStart {
			dst.DrawSpan(x, runStart, end, r.shade(runColor, rect.Depth))
		}
	}
	for y := top; y < bottom; y++ {
		c := tex.At(u, (y-rect.Top)*tex.Height/max(h, 1))
		if y == top {
			runColor = c
			continue
		}
		if c != runColor {
			flush(y)
			runStart, runColor = y, c
		}
	}
	flush(bottom)
}

// spanColor picks the flat colour of a span: the texture colour shaded by
// depth, with a slight checker between neighbouring cells.
func (r *Renderer) spanColor(g *terrain.Grid, s raycast.Span) color.RGBA {
	if !g.InBounds(s.X, s.Y) {
		return r.cfg.VoidColor
	}
	tex := g.TextureAt(s.Surface, s.X, s.Y)
	if s.Surface == terrain.SurfaceCeiling && g.IsSky(s.X, s.Y) {
		if _, ok := r.textures.Lookup(tex); ok {
			return r.textures.Color(tex)
		}
		return r.cfg.SkyColor
	}

	c := r.textures.Color(tex)
	switch {
	case s.Surface.IsWall() && (s.Dir == raycast.DirEast || s.Dir == raycast.DirWest):
		c = scale(c, 208)
	case !s.Surface.IsWall() && (s.X+s.Y)&1 == 1:
		c = scale(c, 236)
	}
	return r.shade(c, s.Depth)
}

// shade darkens c linearly with depth down to MinShade.
func (r *Renderer) shade(c color.RGBA, depth fixed.Scalar) color.RGBA {
	dist := int64(max(r.cfg.ShadeDistance, 1))
	d := min(int64(max(depth, 0)), dist)
	f := 256 - int((256-int64(r.cfg.MinShade))*d/dist)
	return scale(c, f)
}

// scale multiplies the colour channels by f/256.
func scale(c color.RGBA, f int) color.RGBA {
	return color.RGBA{
		R: uint8(int(c.R) * f >> 8),
		G: uint8(int(c.G) * f >> 8),
		B: uint8(int(c.B) * f >> 8),
		A: c.A,
	}
}
