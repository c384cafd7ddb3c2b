package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/heightcast/internal/config"
	"github.com/Faultbox/heightcast/internal/editor"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
	"github.com/Faultbox/heightcast/pkg/formats"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	gc, st := FromConfig(cfg, "heightedit", false)

	assert.Equal(t, "heightedit", gc.Title)
	assert.Equal(t, 320, gc.Width)
	assert.Equal(t, 200, gc.Height)
	assert.Equal(t, fixed.Angle45, gc.HalfFOV)
	assert.Equal(t, uint16(32), gc.NewWidth)
	assert.Equal(t, 2*fixed.One, gc.NewCell.CeilHeight)
	assert.Equal(t, fixed.Half, gc.EyeHeight)
	assert.Equal(t, fixed.Scalar(64), st.HeightStep)
	assert.Equal(t, fixed.Scalar(51), st.MoveStep)
	assert.Equal(t, fixed.Angle(5), st.TurnStep)
	assert.False(t, st.ReadOnly)

	_, st = FromConfig(cfg, "heightview", true)
	assert.True(t, st.ReadOnly)
}

func TestOpenSessionNewMap(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.MapPath = filepath.Join(t.TempDir(), "fresh.hcm")
	cfg.Editor.NewWidth, cfg.Editor.NewHeight = 6, 4

	s, err := OpenSession(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Editor.MapPath, s.Path)
	assert.Equal(t, uint16(6), s.Grid.Width)
	assert.Equal(t, uint16(4), s.Grid.Height)
	assert.Equal(t, uint16(1), s.Grid.TextureAt(terrain.SurfaceFloor, 0, 0))
}

func TestOpenSessionExistingMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.hcm")
	orig := editor.NewSession(3, 3, floorCell, fixed.Half)
	orig.EditHeight(terrain.SurfaceFloor, 1, 1, fixed.One, false)
	require.NoError(t, orig.Save(path, false))

	cfg := config.Default()
	cfg.Editor.MapPath = path
	s, err := OpenSession(cfg)
	require.NoError(t, err)
	assert.Equal(t, orig.Grid.Cells(), s.Grid.Cells())
}

func TestOpenSessionCorruptMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcm")
	require.NoError(t, os.WriteFile(path, []byte("garbage!"), 0o644))

	cfg := config.Default()
	cfg.Editor.MapPath = path
	_, err := OpenSession(cfg)
	assert.ErrorIs(t, err, formats.ErrInvalidMapMagic)
}

func TestLoadTextures(t *testing.T) {
	store := LoadTextures(filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, PlaceholderTextures, store.Len())

	store = LoadTextures("")
	assert.Equal(t, PlaceholderTextures, store.Len())
}
