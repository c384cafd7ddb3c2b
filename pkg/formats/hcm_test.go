package formats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// createTestMap builds a small map with distinct values in every field.
func createTestMap(width, height uint16) *MapFile {
	m := NewMapFile(width, height)
	m.Sky = 7
	for i := 0; i < m.CellCount(); i++ {
		m.FloorHeights[i] = int32(i * 64)
		m.CeilHeights[i] = int32(2048 + i)
		m.FloorTex[i] = uint16(i)
		m.CeilTex[i] = uint16(i % 3)
		m.WallFloorTex[i] = uint16(100 + i)
		m.WallCeilTex[i] = uint16(200 + i)
	}
	m.FloorHeights[0] = -512
	m.Sprites = []MapSprite{
		{Texture: 3, X: 1536, Y: 2560, Z: 0, Dir: 256, Extra: [4]int32{1, -2, 3, -4}, Flags: 1},
		{Texture: 9, X: -1, Y: 70000, Z: 512, Flags: 6},
	}
	return m
}

func TestMapRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		m := createTestMap(5, 3)

		data, err := m.Encode(compress)
		if err != nil {
			t.Fatalf("Encode(compress=%v) failed: %v", compress, err)
		}

		got, err := ParseMap(data)
		if err != nil {
			t.Fatalf("ParseMap(compress=%v) failed: %v", compress, err)
		}

		if got.Compressed() != compress {
			t.Errorf("expected compressed=%v", compress)
		}
		if got.Version != CurrentMapVersion {
			t.Errorf("expected version %s, got %s", CurrentMapVersion, got.Version)
		}

		// Flags and version come from the header; compare the rest.
		got.Flags, got.Version = m.Flags, m.Version
		if !reflect.DeepEqual(m, got) {
			t.Errorf("round trip mismatch (compress=%v)\nwant %+v\ngot  %+v", compress, m, got)
		}
	}
}

func TestMapHeader(t *testing.T) {
	data, err := createTestMap(2, 2).Encode(false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data[:4]) != "HCMP" {
		t.Errorf("expected magic HCMP, got %q", data[:4])
	}
	if data[4] != 0 || data[5] != 1 {
		t.Errorf("expected version bytes [0 1], got %v", data[4:6])
	}
	if data[6] != 0 {
		t.Errorf("expected no flags, got %d", data[6])
	}
}

func TestMapCompressionShrinksUniformMaps(t *testing.T) {
	m := NewMapFile(64, 64)
	for i := range m.CeilHeights {
		m.CeilHeights[i] = 2048
	}
	raw, err := m.Encode(false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	packed, err := m.Encode(true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(packed) >= len(raw)/10 {
		t.Errorf("expected strong compression, got %d -> %d bytes", len(raw), len(packed))
	}
}

func TestParseMap_Errors(t *testing.T) {
	valid, err := createTestMap(3, 3).Encode(false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	badVersion := bytes.Clone(valid)
	badVersion[5] = 9

	zeroDims := bytes.Clone(valid)
	zeroDims[mapHeaderSize] = 0
	zeroDims[mapHeaderSize+1] = 0

	badZstd := bytes.Clone(valid)
	badZstd[6] = MapFlagZstd

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedMapData},
		{"short header", []byte("HCMP"), ErrTruncatedMapData},
		{"bad magic", append([]byte("GRAT"), valid[4:]...), ErrInvalidMapMagic},
		{"bad version", badVersion, ErrUnsupportedMapVersion},
		{"zero dimensions", zeroDims, ErrMapDimensions},
		{"no dimensions", valid[:mapHeaderSize+3], ErrTruncatedMapData},
		{"truncated cells", valid[:mapHeaderSize+20], ErrTruncatedMapData},
		{"truncated sprites", valid[:len(valid)-1], ErrTruncatedMapData},
		{"missing sprite count", valid[:len(valid)-2*40-4], ErrTruncatedMapData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("corrupt zstd", func(t *testing.T) {
		if _, err := ParseMap(badZstd); err == nil {
			t.Error("expected error for a raw body flagged as zstd")
		}
	})
}

func TestMapValidate(t *testing.T) {
	m := createTestMap(2, 2)
	m.WallCeilTex = m.WallCeilTex[:3]
	if _, err := m.Encode(false); !errors.Is(err, ErrMapDimensions) {
		t.Errorf("expected ErrMapDimensions, got %v", err)
	}

	empty := NewMapFile(0, 4)
	if err := empty.Validate(); !errors.Is(err, ErrMapDimensions) {
		t.Errorf("expected ErrMapDimensions, got %v", err)
	}
}

func TestMapFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.hcm")
	m := createTestMap(4, 4)

	if err := WriteMapFile(path, m, true); err != nil {
		t.Fatalf("WriteMapFile failed: %v", err)
	}
	// Overwrite in place.
	m.Sky = 11
	if err := WriteMapFile(path, m, true); err != nil {
		t.Fatalf("WriteMapFile failed: %v", err)
	}

	got, err := ParseMapFile(path)
	if err != nil {
		t.Fatalf("ParseMapFile failed: %v", err)
	}
	if got.Sky != 11 {
		t.Errorf("expected sky 11, got %d", got.Sky)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the map file, found %d entries", len(entries))
	}

	if _, err := ParseMapFile(filepath.Join(dir, "missing.hcm")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestMapHeightRange(t *testing.T) {
	m := createTestMap(3, 2)
	min, max := m.HeightRange()
	if min != -512 {
		t.Errorf("expected min -512, got %d", min)
	}
	if max != 2048+5 {
		t.Errorf("expected max 2053, got %d", max)
	}

	if min, max := (&MapFile{}).HeightRange(); min != 0 || max != 0 {
		t.Errorf("expected zero range for an empty map, got %d..%d", min, max)
	}
}
