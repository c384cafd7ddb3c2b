package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/occlusion"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

func room(w, h uint16) *terrain.Grid {
	return terrain.NewGrid(w, h, terrain.Cell{CeilHeight: 2 * fixed.One})
}

func TestPickFloorAhead(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 1, fixed.Half), 0)
	g := room(4, 4)

	res, ok := Pick(v, cam, g, 160, 180)
	require.True(t, ok)
	assert.Equal(t, 2, res.X)
	assert.Equal(t, 1, res.Y)
	assert.Equal(t, terrain.SurfaceFloor, res.Surface)
	assert.Equal(t, fixed.Scalar(1536), res.Depth)

	res, ok = Pick(v, cam, g, 160, 2)
	require.True(t, ok)
	assert.Equal(t, terrain.SurfaceCeiling, res.Surface)
	assert.Equal(t, 3, res.X)
}

func TestPickWallFace(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 1, fixed.Half), 0)
	g := room(4, 4)
	g.SetHeight(terrain.SurfaceFloor, 2, 1, fixed.One/4)

	res, ok := Pick(v, cam, g, 160, 190)
	require.True(t, ok)
	assert.Equal(t, Result{X: 2, Y: 1, Surface: terrain.SurfaceWallFloor, Depth: 512}, res)

	g.SetHeight(terrain.SurfaceCeiling, 3, 1, fixed.One)
	res, ok = Pick(v, cam, g, 160, 5)
	require.True(t, ok)
	assert.Equal(t, Result{X: 3, Y: 1, Surface: terrain.SurfaceWallCeiling, Depth: 1536}, res)
}

func TestPickMisses(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 1, fixed.Half), 0)
	g := room(4, 4)

	for _, c := range []struct {
		name   string
		mx, my int
	}{
		{"left of screen", -1, 100},
		{"right of screen", 320, 100},
		{"above screen", 160, -1},
		{"below screen", 160, 200},
		{"face of the outside", 160, 50},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, ok := Pick(v, cam, g, c.mx, c.my)
			assert.False(t, ok)
		})
	}
}

func TestPickProjectedCellCentres(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 3, fixed.Half), 0)
	g := room(8, 8)

	var p Picker
	for _, cell := range [][2]int{{3, 3}, {4, 3}, {3, 2}, {4, 4}, {5, 2}, {6, 5}} {
		pt, ok := v.Project(cam, fixed.CellCenter(cell[0], cell[1], 0))
		require.True(t, ok, "cell %v", cell)

		res, ok := p.Pick(v, cam, g, pt.Column(), pt.Row())
		require.True(t, ok, "cell %v", cell)
		assert.Equal(t, cell, [2]int{res.X, res.Y})
		assert.Equal(t, terrain.SurfaceFloor, res.Surface)
	}
}

type squareSizes struct{}

func (squareSizes) Size(uint16) (int, int) { return 64, 64 }

func addSprite(r *sprite.Registry, pos fixed.Vec3) sprite.ID {
	id := r.New()
	r.Get(id).Pos = pos
	r.Add(id)
	return id
}

func TestSpriteRect(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 1, fixed.Half), 0)
	s := &sprite.Sprite{Pos: fixed.Vec3{X: 1536 + fixed.One, Y: 1536}}

	r, ok := SpriteRect(v, cam, s, squareSizes{})
	require.True(t, ok)
	assert.Equal(t, raycast.Billboard{Left: 79, Right: 240, Top: 20, Bottom: 180, Depth: fixed.One}, r)
}

func TestPickSprite(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 1, fixed.Half), 0)
	reg := sprite.NewRegistry()

	near := addSprite(reg, fixed.Vec3{X: 1536 + fixed.One, Y: 1536})
	far := addSprite(reg, fixed.Vec3{X: 1536 + 2*fixed.One, Y: 1536})

	id, depth, ok := PickSprite(v, cam, reg, squareSizes{}, nil, 160, 100, true)
	require.True(t, ok)
	assert.Equal(t, near, id)
	assert.Equal(t, fixed.Scalar(fixed.One), depth)

	reg.Get(near).Flags |= sprite.FlagHidden
	id, _, ok = PickSprite(v, cam, reg, squareSizes{}, nil, 160, 100, true)
	require.True(t, ok)
	assert.Equal(t, far, id)

	reg.Get(far).Flags |= sprite.FlagEditorOnly
	_, _, ok = PickSprite(v, cam, reg, squareSizes{}, nil, 160, 100, false)
	assert.False(t, ok, "editor-only sprites are not pickable outside the editor")

	_, _, ok = PickSprite(v, cam, reg, squareSizes{}, nil, 5, 100, true)
	assert.False(t, ok)
}

func TestPickSpriteOccluded(t *testing.T) {
	v := raycast.NewView(320, 200, raycast.DefaultHalfFOV)
	cam := camera.New(fixed.CellCenter(1, 1, fixed.Half), 0)
	reg := sprite.NewRegistry()
	id := addSprite(reg, fixed.Vec3{X: 1536 + fixed.One, Y: 1536})

	depth := occlusion.New(v.Width)
	depth.Append(occlusion.SideFloor, 160, 100, 50)

	_, _, ok := PickSprite(v, cam, reg, squareSizes{}, depth, 160, 100, true)
	assert.False(t, ok, "hidden behind a nearer floor span")

	got, _, ok := PickSprite(v, cam, reg, squareSizes{}, depth, 160, 30, true)
	require.True(t, ok)
	assert.Equal(t, id, got)

	got, _, ok = PickSprite(v, cam, reg, squareSizes{}, depth, 161, 100, true)
	require.True(t, ok)
	assert.Equal(t, id, got)
}
