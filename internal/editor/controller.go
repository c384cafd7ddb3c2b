package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/engine/input"
	"github.com/Faultbox/heightcast/internal/engine/occlusion"
	"github.com/Faultbox/heightcast/internal/engine/picking"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Tool selects how far an edit spreads.
type Tool uint8

const (
	ToolBrush Tool = iota // One cell
	ToolFlood             // Matching 4-connected region
)

func (t Tool) String() string {
	if t == ToolFlood {
		return "flood"
	}
	return "brush"
}

// Mode selects what mouse edits change.
type Mode uint8

const (
	ModeHeight Mode = iota
	ModeTexture
	ModeSprite
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeHeight:
		return "height"
	case ModeTexture:
		return "texture"
	case ModeSprite:
		return "sprite"
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Action is a set of requests the host handles after Update.
type Action uint8

const (
	ActionSave Action = 1 << iota
	ActionScreenshot
	ActionQuit
	ActionNewMap
)

// Has reports whether a contains b.
func (a Action) Has(b Action) bool {
	return a&b != 0
}

// Settings are the per-frame steps of the controller.
type Settings struct {
	MoveStep     fixed.Scalar
	TurnStep     fixed.Angle
	HeightStep   fixed.Scalar
	ShearStep    int
	TextureCount int

	// ReadOnly limits the controller to camera movement, screenshots and quit.
	ReadOnly bool
}

// Controller turns one frame of input into camera moves and session edits.
type Controller struct {
	Session *Session
	Settings

	Tool    Tool
	Mode    Mode
	Texture uint16

	// Lock pins edits to one surface. Without it edits go to the hovered surface.
	Lock    terrain.Surface
	Locked  bool
	ShowMap bool

	Hover       picking.Result
	HoverOK     bool
	HoverSprite sprite.ID

	picker picking.Picker
}

// NewController returns a controller in height mode with the brush tool.
func NewController(s *Session, st Settings) *Controller {
	if st.ShearStep == 0 {
		st.ShearStep = 4
	}
	if st.TextureCount <= 0 {
		st.TextureCount = 1
	}
	return &Controller{
		Session:     s,
		Settings:    st,
		HoverSprite: sprite.Nil,
	}
}

// Update runs the update phase of one frame. depth is the occlusion buffer of
// the previous render and is only read. sizes may be nil.
func (c *Controller) Update(in *input.State, v raycast.View, depth *occlusion.Buffer, sizes picking.Sizer) Action {
	var act Action
	if in.Quit() || in.Pressed(input.KeyEscape) {
		act |= ActionQuit
	}
	if in.Pressed(input.KeyF12) {
		act |= ActionScreenshot
	}
	if in.Pressed(input.KeyM) {
		c.ShowMap = !c.ShowMap
	}

	c.moveCamera(in)

	if c.ReadOnly {
		c.HoverOK = false
		c.HoverSprite = sprite.Nil
		return act
	}

	if in.Pressed(input.KeyF2) {
		act |= ActionSave
	}
	if in.Pressed(input.KeyN) {
		act |= ActionNewMap
	}
	c.switchModes(in)
	c.updateHover(in, v, depth, sizes)

	switch c.Mode {
	case ModeHeight:
		c.editHeight(in)
	case ModeTexture:
		c.editTexture(in)
	case ModeSprite:
		c.editSprites(in)
	}
	return act
}

func (c *Controller) moveCamera(in *input.State) {
	cam := c.Session.Camera
	forward := in.Axis(input.KeyS, input.KeyW) + in.Axis(input.KeyDown, input.KeyUp)
	strafe := in.Axis(input.KeyA, input.KeyD)
	rise := in.Axis(input.KeyQ, input.KeyE)
	turn := in.Axis(input.KeyLeft, input.KeyRight)

	if forward != 0 || strafe != 0 || rise != 0 {
		step := c.MoveStep
		cam.Move(fixed.Scalar(forward)*step, fixed.Scalar(strafe)*step, fixed.Scalar(rise)*step)
		g := c.Session.Grid
		if g.Width > 0 && g.Height > 0 {
			cam.Clamp(int(g.Width), int(g.Height), fixed.One/8)
		}
	}
	if turn != 0 {
		cam.Turn(fixed.Angle(turn) * c.TurnStep)
	}
	if shear := in.Axis(input.KeyPageDown, input.KeyPageUp); shear != 0 {
		cam.AddShear(shear * c.ShearStep)
	}
}

func (c *Controller) switchModes(in *input.State) {
	if in.Pressed(input.KeyTab) {
		c.Mode = (c.Mode + 1) % modeCount
	}
	if in.Pressed(input.KeyT) {
		if c.Tool == ToolBrush {
			c.Tool = ToolFlood
		} else {
			c.Tool = ToolBrush
		}
	}

	surfaces := [...]input.Key{input.Key1, input.Key2, input.Key3, input.Key4}
	for i, k := range surfaces {
		if !in.Pressed(k) {
			continue
		}
		s := terrain.Surface(i)
		if c.Locked && c.Lock == s {
			c.Locked = false
		} else {
			c.Lock, c.Locked = s, true
		}
	}

	step := 0
	if in.Pressed(input.KeyPeriod) {
		step++
	}
	if in.Pressed(input.KeyComma) {
		step--
	}
	if step != 0 {
		if c.Mode == ModeSprite {
			c.Session.CycleSelectedTexture(step, c.TextureCount)
		} else {
			c.Texture = uint16(wrap(int(c.Texture)+step, c.TextureCount))
		}
	}
}

func (c *Controller) updateHover(in *input.State, v raycast.View, depth *occlusion.Buffer, sizes picking.Sizer) {
	s := c.Session
	mx, my := in.Mouse()
	c.Hover, c.HoverOK = c.picker.Pick(v, s.Camera, s.Grid, mx, my)

	c.HoverSprite = sprite.Nil
	if c.Mode == ModeSprite && depth != nil && sizes != nil {
		if id, _, ok := picking.PickSprite(v, s.Camera, s.Sprites, sizes, depth, mx, my, true); ok {
			c.HoverSprite = id
		}
	}
}

// Target returns the surface the next edit applies to.
func (c *Controller) Target() terrain.Surface {
	if c.Locked {
		return c.Lock
	}
	return c.Hover.Surface
}

func (c *Controller) flood() bool {
	return c.Tool == ToolFlood
}

func (c *Controller) editHeight(in *input.State) {
	if !c.HoverOK {
		return
	}
	steps := in.Wheel()
	if in.ButtonPressed(input.ButtonLeft) {
		steps++
	}
	if in.ButtonPressed(input.ButtonRight) {
		steps--
	}
	if steps == 0 {
		return
	}
	n := c.Session.EditHeight(c.Target(), c.Hover.X, c.Hover.Y, fixed.Scalar(steps)*c.HeightStep, c.flood())
	c.Session.log.Debug("height edit",
		zap.Int("x", c.Hover.X),
		zap.Int("y", c.Hover.Y),
		zap.Stringer("surface", c.Target()),
		zap.Int("steps", steps),
		zap.Int("cells", n),
	)
}

func (c *Controller) editTexture(in *input.State) {
	if w := in.Wheel(); w != 0 {
		c.Texture = uint16(wrap(int(c.Texture)+w, c.TextureCount))
	}
	if in.Pressed(input.KeySpace) && c.HoverOK {
		if c.Session.Grid.Sky == c.Texture {
			c.Session.SetSky(terrain.NoSky)
		} else {
			c.Session.SetSky(c.Texture)
		}
	}
	if !c.HoverOK {
		return
	}
	target := c.Target()
	if in.ButtonPressed(input.ButtonRight) {
		c.Texture = c.Session.Grid.TextureAt(target, c.Hover.X, c.Hover.Y)
		return
	}
	if in.ButtonPressed(input.ButtonLeft) {
		n := c.Session.EditTexture(target, c.Hover.X, c.Hover.Y, c.Texture, c.flood())
		c.Session.log.Debug("texture edit",
			zap.Int("x", c.Hover.X),
			zap.Int("y", c.Hover.Y),
			zap.Stringer("surface", target),
			zap.Uint16("texture", c.Texture),
			zap.Int("cells", n),
		)
	}
}

func (c *Controller) editSprites(in *input.State) {
	s := c.Session
	if in.Pressed(input.KeyDelete) && s.Selected != sprite.Nil {
		s.DeleteSprite(s.Selected)
	}
	if in.ButtonPressed(input.ButtonRight) {
		s.Select(sprite.Nil)
	}
	if in.ButtonPressed(input.ButtonLeft) {
		switch {
		case c.HoverSprite != sprite.Nil:
			s.Select(c.HoverSprite)
		case c.HoverOK:
			s.PlaceSprite(c.Texture, c.placement(), 0)
		}
	}
	if in.Pressed(input.KeyG) && c.HoverOK {
		if sp := s.SelectedSprite(); sp != nil {
			s.MoveSelected(c.placement().Sub(sp.Pos))
		}
	}
	if rise := in.Axis(input.KeyF, input.KeyR); rise != 0 {
		s.MoveSelected(fixed.Vec3{Z: fixed.Scalar(rise) * c.HeightStep})
	}
}

// placement is the floor centre of the hovered cell.
func (c *Controller) placement() fixed.Vec3 {
	g := c.Session.Grid
	return fixed.CellCenter(c.Hover.X, c.Hover.Y, g.HeightAt(terrain.SurfaceFloor, c.Hover.X, c.Hover.Y))
}

// Status is a one-line summary for the window title or HUD.
func (c *Controller) Status() string {
	s := c.Session
	cx, cy := s.Camera.Cell()
	status := fmt.Sprintf("%s %s tex %d", c.Mode, c.Tool, c.Texture)
	if c.Locked {
		status += " lock " + c.Lock.String()
	}
	status += fmt.Sprintf(" | cam %d,%d", cx, cy)
	if c.HoverOK {
		status += fmt.Sprintf(" | %d,%d %s", c.Hover.X, c.Hover.Y, c.Hover.Surface)
	}
	if s.Dirty {
		status += " *"
	}
	return status
}
