// Package texture decodes floor, wall and sprite art and serves it by id.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/heightcast/internal/logger"
)

// DefaultSize is the texel size reported for ids with no loaded texture.
const DefaultSize = 64

// ErrUnknownFormat is returned for files with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown image format")

// Texture is decoded RGBA art.
type Texture struct {
	ID     uint16
	Width  int
	Height int
	Pixels []byte // RGBA, row-major
	Mean   color.RGBA
}

// New converts img into a texture. With key set, magenta pixels become
// transparent.
func New(id uint16, img image.Image, key bool) *Texture {
	rgba := ImageToRGBA(img, key)
	b := rgba.Bounds()
	t := &Texture{
		ID:     id,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: rgba.Pix,
	}
	t.Mean = meanColor(rgba.Pix)
	return t
}

// At returns the texel at (x, y), wrapping coordinates.
func (t *Texture) At(x, y int) color.RGBA {
	if t.Width == 0 || t.Height == 0 {
		return t.Mean
	}
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y %= t.Height
	if y < 0 {
		y += t.Height
	}
	i := (y*t.Width + x) * 4
	return color.RGBA{R: t.Pixels[i], G: t.Pixels[i+1], B: t.Pixels[i+2], A: t.Pixels[i+3]}
}

// meanColor averages the opaque pixels.
func meanColor(pix []byte) color.RGBA {
	var r, g, b, n uint64
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i+3] == 0 {
			continue
		}
		r += uint64(pix[i])
		g += uint64(pix[i+1])
		b += uint64(pix[i+2])
		n++
	}
	if n == 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}

// Store holds textures by id.
type Store struct {
	textures map[uint16]*Texture
	log      *zap.Logger
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		textures: make(map[uint16]*Texture),
		log:      logger.Named("texture"),
	}
}

// Add stores t under its id, replacing any previous texture.
func (s *Store) Add(t *Texture) {
	s.textures[t.ID] = t
}

// Lookup returns the texture for id.
func (s *Store) Lookup(id uint16) (*Texture, bool) {
	t, ok := s.textures[id]
	return t, ok
}

// Len returns the number of stored textures.
func (s *Store) Len() int {
	return len(s.textures)
}

// IDs returns the stored ids in ascending order.
func (s *Store) IDs() []uint16 {
	ids := make([]uint16, 0, len(s.textures))
	for id := range s.textures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Color returns the flat colour of id: the texture mean when loaded, the
// placeholder colour otherwise.
func (s *Store) Color(id uint16) color.RGBA {
	if t, ok := s.textures[id]; ok && t.Mean.A != 0 {
		return t.Mean
	}
	return Placeholder(id)
}

// Size returns the texel size of id, or DefaultSize square when unknown.
func (s *Store) Size(id uint16) (int, int) {
	if t, ok := s.textures[id]; ok && t.Width > 0 && t.Height > 0 {
		return t.Width, t.Height
	}
	return DefaultSize, DefaultSize
}

// LoadDir loads every image in dir whose name starts with a decimal id, such
// as "12.png" or "12_brick.tga". Files that fail to decode are logged and
// skipped. It returns the number of textures loaded.
func (s *Store) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading texture dir: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := parseID(e.Name())
		if !ok {
			s.log.Debug("skipping file without id", zap.String("file", e.Name()))
			continue
		}
		path := filepath.Join(dir, e.Name())
		t, err := LoadFile(id, path)
		if err != nil {
			s.log.Warn("texture load failed", zap.String("file", path), zap.Error(err))
			continue
		}
		s.Add(t)
		loaded++
	}

	s.log.Info("textures loaded", zap.String("dir", dir), zap.Int("count", loaded))
	return loaded, nil
}

// LoadFile decodes a single texture file.
func LoadFile(id uint16, path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return New(id, img, strings.EqualFold(filepath.Ext(path), ".bmp")), nil
}

// Decode decodes image data, choosing the codec by the file extension.
func Decode(name string, data []byte) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tga":
		return DecodeTGA(data)
	case ".bmp":
		return bmp.Decode(bytes.NewReader(data))
	case ".png":
		return png.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(name))
	}
}

func parseID(name string) (uint16, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(name[:end], 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(id), true
}
