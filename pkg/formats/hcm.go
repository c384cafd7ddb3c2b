package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// HCM format errors.
var (
	ErrInvalidMapMagic       = errors.New("invalid map magic: expected 'HCMP'")
	ErrUnsupportedMapVersion = errors.New("unsupported map version")
	ErrTruncatedMapData      = errors.New("truncated map data")
	ErrMapDimensions         = errors.New("invalid map dimensions")
)

const (
	mapMagic      = "HCMP"
	mapHeaderSize = 8

	// MapFlagZstd marks a zstd-compressed body.
	MapFlagZstd uint8 = 1 << 0

	maxMapCells   = 1 << 24
	maxMapSprites = 1 << 20
	maxBodyBytes  = 1 << 30
)

// MapVersion is the map file version.
type MapVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v MapVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentMapVersion is written by Encode.
var CurrentMapVersion = MapVersion{Major: 1, Minor: 0}

// MapSprite is one entry of the sprite table.
type MapSprite struct {
	Texture uint16
	_       uint16
	X, Y, Z int32
	Dir     int32
	Extra   [4]int32
	Flags   uint32
}

// MapFile is a parsed heightcast map. Cell arrays are row-major with
// Width*Height entries; heights are fixed-point with 1024 units per tile.
type MapFile struct {
	Version MapVersion
	Flags   uint8
	Width   uint16
	Height  uint16
	Sky     uint16

	FloorHeights []int32
	CeilHeights  []int32
	FloorTex     []uint16
	CeilTex      []uint16
	WallFloorTex []uint16
	WallCeilTex  []uint16

	Sprites []MapSprite
}

// NewMapFile allocates the cell arrays for a width x height map.
func NewMapFile(width, height uint16) *MapFile {
	n := int(width) * int(height)
	return &MapFile{
		Version:      CurrentMapVersion,
		Width:        width,
		Height:       height,
		FloorHeights: make([]int32, n),
		CeilHeights:  make([]int32, n),
		FloorTex:     make([]uint16, n),
		CeilTex:      make([]uint16, n),
		WallFloorTex: make([]uint16, n),
		WallCeilTex:  make([]uint16, n),
	}
}

// Compressed reports whether the body was stored with zstd.
func (m *MapFile) Compressed() bool {
	return m.Flags&MapFlagZstd != 0
}

// CellCount returns Width*Height.
func (m *MapFile) CellCount() int {
	return int(m.Width) * int(m.Height)
}

// Validate checks the dimensions and array lengths.
func (m *MapFile) Validate() error {
	n := m.CellCount()
	if n == 0 || n > maxMapCells {
		return fmt.Errorf("%w: %dx%d", ErrMapDimensions, m.Width, m.Height)
	}
	for name, l := range map[string]int{
		"floor heights":    len(m.FloorHeights),
		"ceil heights":     len(m.CeilHeights),
		"floor textures":   len(m.FloorTex),
		"ceil textures":    len(m.CeilTex),
		"wall floor texes": len(m.WallFloorTex),
		"wall ceil texes":  len(m.WallCeilTex),
	} {
		if l != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrMapDimensions, name, l, n)
		}
	}
	if len(m.Sprites) > maxMapSprites {
		return fmt.Errorf("too many sprites: %d", len(m.Sprites))
	}
	return nil
}

// ParseMap parses a map file from raw bytes.
func ParseMap(data []byte) (*MapFile, error) {
	if len(data) < mapHeaderSize {
		return nil, ErrTruncatedMapData
	}
	if string(data[0:4]) != mapMagic {
		return nil, ErrInvalidMapMagic
	}

	// Version is stored as [minor, major]
	version := MapVersion{Major: data[5], Minor: data[4]}
	if version.Major != CurrentMapVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMapVersion, version)
	}
	flags := data[6]

	body := data[mapHeaderSize:]
	if flags&MapFlagZstd != 0 {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxBodyBytes),
		)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		if body, err = dec.DecodeAll(body, nil); err != nil {
			return nil, fmt.Errorf("decompressing map body: %w", err)
		}
	}

	m, err := parseMapBody(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	m.Version = version
	m.Flags = flags
	return m, nil
}

func parseMapBody(r *bytes.Reader) (*MapFile, error) {
	var dims struct {
		Width, Height, Sky, Reserved uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("%w: reading dimensions", ErrTruncatedMapData)
	}
	n := int(dims.Width) * int(dims.Height)
	if n == 0 || n > maxMapCells {
		return nil, fmt.Errorf("%w: %dx%d", ErrMapDimensions, dims.Width, dims.Height)
	}
	// Six per-cell arrays must fit in what is left.
	if r.Len() < n*(4+4+2*4) {
		return nil, fmt.Errorf("%w: cell data", ErrTruncatedMapData)
	}

	m := NewMapFile(dims.Width, dims.Height)
	m.Sky = dims.Sky

	fields := []struct {
		name string
		dst  any
	}{
		{"floor heights", m.FloorHeights},
		{"ceil heights", m.CeilHeights},
		{"floor textures", m.FloorTex},
		{"ceil textures", m.CeilTex},
		{"wall floor textures", m.WallFloorTex},
		{"wall ceil textures", m.WallCeilTex},
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f.dst); err != nil {
			return nil, fmt.Errorf("%w: reading %s", ErrTruncatedMapData, f.name)
		}
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading sprite count", ErrTruncatedMapData)
	}
	if count > maxMapSprites || int(count)*binary.Size(MapSprite{}) > r.Len() {
		return nil, fmt.Errorf("%w: %d sprites", ErrTruncatedMapData, count)
	}
	if count > 0 {
		m.Sprites = make([]MapSprite, count)
		if err := binary.Read(r, binary.LittleEndian, m.Sprites); err != nil {
			return nil, fmt.Errorf("%w: reading sprites", ErrTruncatedMapData)
		}
	}
	return m, nil
}

// Encode serializes the map. With compress set the body is stored with zstd.
func (m *MapFile) Encode(compress bool) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	body := new(bytes.Buffer)
	dims := [4]uint16{m.Width, m.Height, m.Sky, 0}
	for _, v := range []any{
		dims,
		m.FloorHeights, m.CeilHeights,
		m.FloorTex, m.CeilTex, m.WallFloorTex, m.WallCeilTex,
		uint32(len(m.Sprites)),
	} {
		if err := binary.Write(body, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("writing map body: %w", err)
		}
	}
	if len(m.Sprites) > 0 {
		if err := binary.Write(body, binary.LittleEndian, m.Sprites); err != nil {
			return nil, fmt.Errorf("writing sprites: %w", err)
		}
	}

	var flags uint8
	payload := body.Bytes()
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		payload = enc.EncodeAll(payload, nil)
		enc.Close()
		flags |= MapFlagZstd
	}

	out := make([]byte, 0, mapHeaderSize+len(payload))
	out = append(out, mapMagic...)
	out = append(out, CurrentMapVersion.Minor, CurrentMapVersion.Major, flags, 0)
	return append(out, payload...), nil
}

// ParseMapFile parses a map file from disk.
func ParseMapFile(path string) (*MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return ParseMap(data)
}

// WriteMapFile encodes m and replaces path with it. The data goes to a
// temporary file first so a failed write leaves the old map intact.
func WriteMapFile(path string, m *MapFile, compress bool) error {
	data, err := m.Encode(compress)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp map file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing map file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing map file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing map file: %w", err)
	}
	return nil
}

// HeightRange returns the lowest floor and highest ceiling.
func (m *MapFile) HeightRange() (min, max int32) {
	if len(m.FloorHeights) == 0 {
		return 0, 0
	}
	min, max = m.FloorHeights[0], m.CeilHeights[0]
	for i := range m.FloorHeights {
		if m.FloorHeights[i] < min {
			min = m.FloorHeights[i]
		}
		if m.CeilHeights[i] > max {
			max = m.CeilHeights[i]
		}
	}
	return min, max
}
