// Package sprite holds the billboard registry: a never-shrinking block pool
// and the intrusive active list the renderer and the editor walk each frame.
package sprite

import (
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// ID indexes a sprite in the registry arena.
type ID int32

// Nil is the ID of no sprite.
const Nil ID = -1

// Flags control how a sprite is drawn.
type Flags uint32

// Sprite flags.
const (
	FlagOriented   Flags = 1 << iota // Faces Dir instead of the camera
	FlagHidden                       // Skipped by the renderer and picking
	FlagEditorOnly                   // Drawn only while editing
)

// TexelSize is the world size of one sprite texel. A 64 texel tall sprite is
// one tile high.
const TexelSize fixed.Scalar = fixed.One / 64

// Sprite is a free-floating billboard. Pos is the bottom centre.
type Sprite struct {
	Texture uint16
	Pos     fixed.Vec3
	Dir     fixed.Angle
	Extra   [4]int32
	Flags   Flags

	next     ID   // forward link, or free-list link while pooled
	prevNext slot // link slot that holds this sprite
	linked   bool
}

// Visible reports whether the sprite should be drawn in a session.
func (s *Sprite) Visible(editing bool) bool {
	if s.Flags&FlagHidden != 0 {
		return false
	}
	return editing || s.Flags&FlagEditorOnly == 0
}

// Active reports whether the sprite is on the active list.
func (s *Sprite) Active() bool {
	return s.linked
}

// WorldSize returns the world width and height of a sprite drawn with a
// texture of the given dimensions.
func WorldSize(texWidth, texHeight int) (w, h fixed.Scalar) {
	return fixed.Scalar(texWidth) * TexelSize, fixed.Scalar(texHeight) * TexelSize
}
