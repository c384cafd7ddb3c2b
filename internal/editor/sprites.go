package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// PlaceSprite adds a sprite with texture tex at pos and selects it.
func (s *Session) PlaceSprite(tex uint16, pos fixed.Vec3, flags sprite.Flags) sprite.ID {
	id := s.Sprites.New()
	sp := s.Sprites.Get(id)
	sp.Texture = tex
	sp.Pos = pos
	sp.Flags = flags
	s.Sprites.Add(id)

	s.Selected = id
	s.Dirty = true
	s.log.Debug("sprite placed",
		zap.Int32("id", int32(id)),
		zap.Uint16("texture", tex),
		zap.Int32("x", int32(pos.X)),
		zap.Int32("y", int32(pos.Y)),
	)
	return id
}

// DeleteSprite frees id. The selection is cleared when it pointed at id.
func (s *Session) DeleteSprite(id sprite.ID) bool {
	sp := s.Sprites.Get(id)
	if sp == nil || !sp.Active() {
		return false
	}
	s.Sprites.Free(id)
	if s.Selected == id {
		s.Selected = sprite.Nil
	}
	s.Dirty = true
	s.log.Debug("sprite deleted", zap.Int32("id", int32(id)))
	return true
}

// Select makes id the selected sprite. Nil or an inactive id clears it.
func (s *Session) Select(id sprite.ID) {
	if sp := s.Sprites.Get(id); sp == nil || !sp.Active() {
		id = sprite.Nil
	}
	s.Selected = id
}

// SelectedSprite returns the selected sprite, or nil.
func (s *Session) SelectedSprite() *sprite.Sprite {
	if s.Selected == sprite.Nil {
		return nil
	}
	sp := s.Sprites.Get(s.Selected)
	if sp == nil || !sp.Active() {
		s.Selected = sprite.Nil
		return nil
	}
	return sp
}

// MoveSelected offsets the selected sprite by d.
func (s *Session) MoveSelected(d fixed.Vec3) bool {
	sp := s.SelectedSprite()
	if sp == nil || d == (fixed.Vec3{}) {
		return false
	}
	sp.Pos = sp.Pos.Add(d)
	s.Dirty = true
	return true
}

// CycleSelectedTexture steps the selected sprite's texture by delta, wrapping
// within [0, count).
func (s *Session) CycleSelectedTexture(delta, count int) bool {
	sp := s.SelectedSprite()
	if sp == nil || count <= 0 {
		return false
	}
	sp.Texture = uint16(wrap(int(sp.Texture)+delta, count))
	s.Dirty = true
	return true
}

// SpritesAt returns the active sprites whose position lies in cell (x, y).
func (s *Session) SpritesAt(x, y int) []sprite.ID {
	var ids []sprite.ID
	s.Sprites.Each(func(id sprite.ID, sp *sprite.Sprite) bool {
		if cx, cy := sp.Pos.Cell(); cx == x && cy == y {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
