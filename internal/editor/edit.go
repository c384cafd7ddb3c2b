package editor

import (
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

type cellPos struct {
	x, y int
}

var neighbours = [4]cellPos{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// FloodFill visits the 4-connected region of cells that match the signature
// of (x, y) and calls write on each of them once. Each cell is tested before
// it is pushed and written before its neighbours are tested, so later tests
// still see the original tuple on every attribute write did not touch. A
// visited bitmap ends the walk even when write leaves the tuple unchanged.
// It returns the number of cells written.
func FloodFill(g *terrain.Grid, x, y int, write func(c *terrain.Cell)) int {
	start := g.Cell(x, y)
	if start == nil {
		return 0
	}
	sig := start.Signature()
	w := int(g.Width)

	visited := make([]bool, int(g.Width)*int(g.Height))
	visited[y*w+x] = true
	write(start)
	n := 1

	stack := []cellPos{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range neighbours {
			nx, ny := p.x+d.x, p.y+d.y
			if !g.Matches(nx, ny, sig) || visited[ny*w+nx] {
				continue
			}
			visited[ny*w+nx] = true
			write(g.Cell(nx, ny))
			n++
			stack = append(stack, cellPos{nx, ny})
		}
	}
	return n
}

// EditHeight adds delta to the height surface s of (x, y) is attached to,
// over the matching region when flood is set. A zero delta is a no-op.
func (s *Session) EditHeight(surface terrain.Surface, x, y int, delta fixed.Scalar, flood bool) int {
	if delta == 0 || !s.Grid.InBounds(x, y) {
		return 0
	}
	write := func(c *terrain.Cell) {
		c.SetHeight(surface, c.Height(surface)+delta)
	}
	return s.apply(x, y, flood, write)
}

// EditTexture sets the texture of surface s at (x, y), over the matching
// region when flood is set.
func (s *Session) EditTexture(surface terrain.Surface, x, y int, tex uint16, flood bool) int {
	if !s.Grid.InBounds(x, y) {
		return 0
	}
	write := func(c *terrain.Cell) {
		c.SetTexture(surface, tex)
	}
	return s.apply(x, y, flood, write)
}

// SetSky marks tex as the sky ceiling texture. NoSky turns the sky off.
func (s *Session) SetSky(tex uint16) {
	if s.Grid.Sky != tex {
		s.Grid.Sky = tex
		s.Dirty = true
	}
}

func (s *Session) apply(x, y int, flood bool, write func(c *terrain.Cell)) int {
	n := 1
	if flood {
		n = FloodFill(s.Grid, x, y, write)
	} else {
		write(s.Grid.Cell(x, y))
	}
	s.Dirty = true
	return n
}
