// Package editor owns an editing session: the grid, the sprite registry and
// the camera, plus the operations that modify them.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/internal/logger"
	"github.com/Faultbox/heightcast/pkg/fixed"
	"github.com/Faultbox/heightcast/pkg/formats"
)

// Session is the state of one open map.
type Session struct {
	Grid     *terrain.Grid
	Sprites  *sprite.Registry
	Camera   *camera.Camera
	Selected sprite.ID

	// Path is where Save writes when called with an empty path.
	Path string
	// Dirty is set by every edit and cleared by Save.
	Dirty bool

	log *zap.Logger
}

// NewSession creates a session on a fresh width x height map filled with
// fill, with the camera at eye height over the centre.
func NewSession(width, height uint16, fill terrain.Cell, eye fixed.Scalar) *Session {
	s := &Session{
		Grid:     terrain.NewGrid(width, height, fill),
		Sprites:  sprite.NewRegistry(),
		Camera:   camera.New(fixed.Vec3{}, 0),
		Selected: sprite.Nil,
		log:      logger.Named("editor"),
	}
	s.Camera.FitToGrid(int(width), int(height), fill.FloorHeight+eye)
	return s
}

// Reset replaces the map with a fresh one in place. Sprites are cleared.
func (s *Session) Reset(width, height uint16, fill terrain.Cell, eye fixed.Scalar) {
	s.Grid = terrain.NewGrid(width, height, fill)
	s.Sprites.Clear()
	s.Selected = sprite.Nil
	s.Camera.FitToGrid(int(width), int(height), fill.FloorHeight+eye)
	s.Dirty = true
	s.log.Info("new map", zap.Uint16("width", width), zap.Uint16("height", height))
}

// Load opens a map file into a new session.
func Load(path string, eye fixed.Scalar) (*Session, error) {
	m, err := formats.ParseMapFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	s, err := FromMapFile(m, eye)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	s.Path = path
	s.log.Info("map loaded",
		zap.String("path", path),
		zap.Uint16("width", m.Width),
		zap.Uint16("height", m.Height),
		zap.Int("sprites", len(m.Sprites)),
		zap.Bool("compressed", m.Compressed()),
	)
	return s, nil
}

// Save writes the map to path, or to the session path when path is empty.
func (s *Session) Save(path string, compress bool) error {
	if path == "" {
		path = s.Path
	}
	if path == "" {
		return fmt.Errorf("saving map: no path")
	}
	if err := formats.WriteMapFile(path, s.MapFile(), compress); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	s.Path = path
	s.Dirty = false
	s.log.Info("map saved", zap.String("path", path), zap.Int("sprites", s.Sprites.Len()))
	return nil
}

// FromMapFile builds a session from a parsed map file.
func FromMapFile(m *formats.MapFile, eye fixed.Scalar) (*Session, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	cells := make([]terrain.Cell, m.CellCount())
	for i := range cells {
		cells[i] = terrain.Cell{
			FloorHeight:  fixed.Scalar(m.FloorHeights[i]),
			CeilHeight:   fixed.Scalar(m.CeilHeights[i]),
			FloorTex:     m.FloorTex[i],
			CeilTex:      m.CeilTex[i],
			WallFloorTex: m.WallFloorTex[i],
			WallCeilTex:  m.WallCeilTex[i],
		}
	}

	s := &Session{
		Grid:     terrain.FromCells(m.Width, m.Height, m.Sky, cells),
		Sprites:  sprite.NewRegistry(),
		Camera:   camera.New(fixed.Vec3{}, 0),
		Selected: sprite.Nil,
		log:      logger.Named("editor"),
	}

	// Adding in reverse keeps the file order on the push-front list.
	for i := len(m.Sprites) - 1; i >= 0; i-- {
		ms := m.Sprites[i]
		id := s.Sprites.New()
		sp := s.Sprites.Get(id)
		sp.Texture = ms.Texture
		sp.Pos = fixed.Vec3{X: fixed.Scalar(ms.X), Y: fixed.Scalar(ms.Y), Z: fixed.Scalar(ms.Z)}
		sp.Dir = fixed.Angle(ms.Dir)
		sp.Extra = ms.Extra
		sp.Flags = sprite.Flags(ms.Flags)
		s.Sprites.Add(id)
	}

	cx, cy := int(m.Width)/2, int(m.Height)/2
	s.Camera.FitToGrid(int(m.Width), int(m.Height), s.Grid.HeightAt(terrain.SurfaceFloor, cx, cy)+eye)
	return s, nil
}

// MapFile converts the session into its file form.
func (s *Session) MapFile() *formats.MapFile {
	g := s.Grid
	m := formats.NewMapFile(g.Width, g.Height)
	m.Sky = g.Sky
	for i, c := range g.Cells() {
		m.FloorHeights[i] = int32(c.FloorHeight)
		m.CeilHeights[i] = int32(c.CeilHeight)
		m.FloorTex[i] = c.FloorTex
		m.CeilTex[i] = c.CeilTex
		m.WallFloorTex[i] = c.WallFloorTex
		m.WallCeilTex[i] = c.WallCeilTex
	}

	s.Sprites.Each(func(_ sprite.ID, sp *sprite.Sprite) bool {
		m.Sprites = append(m.Sprites, formats.MapSprite{
			Texture: sp.Texture,
			X:       int32(sp.Pos.X),
			Y:       int32(sp.Pos.Y),
			Z:       int32(sp.Pos.Z),
			Dir:     int32(sp.Dir),
			Extra:   sp.Extra,
			Flags:   uint32(sp.Flags),
		})
		return true
	})
	return m
}
