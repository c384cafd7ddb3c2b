// maptool is a CLI utility for inspecting and editing heightcast maps.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Faultbox/heightcast/internal/config"
	"github.com/Faultbox/heightcast/internal/editor"
	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/renderer"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/internal/game"
	"github.com/Faultbox/heightcast/pkg/fixed"
	"github.com/Faultbox/heightcast/pkg/formats"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdout)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, out)
	case "new":
		return cmdNew(args, out)
	case "fill":
		return cmdFill(args, out)
	case "sky":
		return cmdSky(args, out)
	case "pack":
		return cmdPack(args, out)
	case "render":
		return cmdRender(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `maptool - heightcast map utility

Usage:
  maptool <command> [options]

Commands:
  info <map.hcm>                          Show dimensions, sprites and heights
  new [-w N] [-h N] [-raw] <map.hcm>      Create a flat room
  fill [-surface s] (-dh tiles | -tex id) <map.hcm> <x> <y>
                                          Flood fill from a cell
  sky <map.hcm> <tex|none>                Set or clear the sky texture
  pack [-raw] <in.hcm> <out.hcm>          Re-encode a map
  render [options] <map.hcm> <out.png>    Render a view to PNG

Examples:
  maptool new -w 16 -h 16 room.hcm
  maptool fill -surface floor -dh 0.25 room.hcm 3 4
  maptool render -x 2.5 -y 2.5 -angle 45 room.hcm view.png`)
}

func cmdInfo(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: maptool info <map.hcm>", errUsage)
	}

	m, err := formats.ParseMapFile(args[0])
	if err != nil {
		return err
	}
	lo, hi := m.HeightRange()

	fmt.Fprintf(out, "Map:        %s\n", args[0])
	fmt.Fprintf(out, "Version:    %s\n", m.Version)
	fmt.Fprintf(out, "Size:       %dx%d (%d cells)\n", m.Width, m.Height, m.CellCount())
	fmt.Fprintf(out, "Compressed: %t\n", m.Compressed())
	if m.Sky == terrain.NoSky {
		fmt.Fprintln(out, "Sky:        none")
	} else {
		fmt.Fprintf(out, "Sky:        %d\n", m.Sky)
	}
	fmt.Fprintf(out, "Sprites:    %d\n", len(m.Sprites))
	fmt.Fprintf(out, "Heights:    %.3f .. %.3f\n", fixed.Scalar(lo).Float(), fixed.Scalar(hi).Float())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Floor textures:")

	counts := make(map[uint16]int)
	for _, tex := range m.FloorTex {
		counts[tex]++
	}
	type texStat struct {
		tex   uint16
		count int
	}
	var stats []texStat
	for tex, count := range counts {
		stats = append(stats, texStat{tex, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].tex < stats[j].tex
	})
	for _, s := range stats {
		fmt.Fprintf(out, "  %-6d %d\n", s.tex, s.count)
	}
	return nil
}

func cmdNew(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(out)
	width := fs.Int("w", 32, "Width in cells")
	height := fs.Int("h", 32, "Height in cells")
	floor := fs.Float64("floor", 0, "Floor height in tiles")
	ceil := fs.Float64("ceil", 2, "Ceiling height in tiles")
	raw := fs.Bool("raw", false, "Write an uncompressed body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: maptool new [-w N] [-h N] <map.hcm>", errUsage)
	}
	if *width < 1 || *height < 1 || *width > 0xFFFF || *height > 0xFFFF {
		return fmt.Errorf("%w: size %dx%d out of range", errUsage, *width, *height)
	}

	cell := game.NewCell(config.EditorConfig{FloorHeight: *floor, CeilHeight: *ceil})
	s := editor.NewSession(uint16(*width), uint16(*height), cell, 0)
	if err := s.Save(fs.Arg(0), !*raw); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created: %s (%dx%d)\n", fs.Arg(0), *width, *height)
	return nil
}

func cmdFill(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	fs.SetOutput(out)
	surfaceName := fs.String("surface", "floor", "Surface: floor, ceiling, wallfloor, wallceil")
	dh := fs.Float64("dh", 0, "Height delta in tiles")
	tex := fs.Int("tex", -1, "Texture id")
	brush := fs.Bool("brush", false, "Edit only the given cell")
	raw := fs.Bool("raw", false, "Write an uncompressed body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 || (*dh == 0) == (*tex < 0) {
		return fmt.Errorf("%w: maptool fill [-surface s] (-dh tiles | -tex id) <map.hcm> <x> <y>", errUsage)
	}
	surface, err := parseSurface(*surfaceName)
	if err != nil {
		return err
	}
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	if errX != nil || errY != nil {
		return fmt.Errorf("%w: bad cell %s,%s", errUsage, fs.Arg(1), fs.Arg(2))
	}
	if *tex > 0xFFFF {
		return fmt.Errorf("%w: texture %d out of range", errUsage, *tex)
	}

	path := fs.Arg(0)
	s, err := editor.Load(path, 0)
	if err != nil {
		return err
	}
	if !s.Grid.InBounds(x, y) {
		return fmt.Errorf("cell %d,%d outside %dx%d map", x, y, s.Grid.Width, s.Grid.Height)
	}

	var n int
	if *tex >= 0 {
		n = s.EditTexture(surface, x, y, uint16(*tex), !*brush)
	} else {
		n = s.EditHeight(surface, x, y, config.Tiles(*dh), !*brush)
	}
	if err := s.Save(path, !*raw); err != nil {
		return err
	}
	fmt.Fprintf(out, "Changed %d cells\n", n)
	return nil
}

func cmdSky(args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: maptool sky <map.hcm> <tex|none>", errUsage)
	}
	sky := terrain.NoSky
	if args[1] != "none" {
		v, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return fmt.Errorf("%w: bad texture %q", errUsage, args[1])
		}
		sky = uint16(v)
	}

	m, err := formats.ParseMapFile(args[0])
	if err != nil {
		return err
	}
	m.Sky = sky
	if err := formats.WriteMapFile(args[0], m, m.Compressed()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Sky set to %s\n", args[1])
	return nil
}

func cmdPack(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.SetOutput(out)
	raw := fs.Bool("raw", false, "Write an uncompressed body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: maptool pack [-raw] <in.hcm> <out.hcm>", errUsage)
	}

	m, err := formats.ParseMapFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := formats.WriteMapFile(fs.Arg(1), m, !*raw); err != nil {
		return err
	}
	before, _ := os.Stat(fs.Arg(0))
	after, err := os.Stat(fs.Arg(1))
	if err != nil {
		return err
	}
	if before != nil {
		fmt.Fprintf(out, "Packed: %s (%d -> %d bytes)\n", fs.Arg(1), before.Size(), after.Size())
	}
	return nil
}

func cmdRender(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(out)
	x := fs.Float64("x", -1, "Camera x in tiles (default: map centre)")
	y := fs.Float64("y", -1, "Camera y in tiles (default: map centre)")
	eye := fs.Float64("eye", 0.5, "Eye height above the floor in tiles")
	angle := fs.Float64("angle", 0, "Facing in degrees, 0 = east, 90 = south")
	shear := fs.Int("shear", 0, "Vertical shear in pixels")
	width := fs.Int("width", 320, "Image width")
	height := fs.Int("height", 200, "Image height")
	fov := fs.Float64("fov", 90, "Horizontal field of view in degrees")
	textureDir := fs.String("textures", "", "Texture directory")
	editing := fs.Bool("editor", false, "Draw editor-only sprites")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: maptool render [options] <map.hcm> <out.png>", errUsage)
	}
	if *width < 1 || *height < 1 {
		return fmt.Errorf("%w: image size %dx%d", errUsage, *width, *height)
	}

	s, err := editor.Load(fs.Arg(0), config.Tiles(*eye))
	if err != nil {
		return err
	}
	cam := s.Camera
	if *x >= 0 && *y >= 0 {
		pos := fixed.Vec3{X: config.Tiles(*x), Y: config.Tiles(*y)}
		cx, cy := pos.Cell()
		floor := s.Grid.HeightAt(terrain.SurfaceFloor, cx, cy)
		if floor == terrain.OutsideHeight {
			floor = 0
		}
		pos.Z = floor + config.Tiles(*eye)
		cam = camera.New(pos, 0)
	}
	cam.Angle = fixed.Angle(*angle * float64(fixed.AngleSteps) / 360).Norm()
	cam.AddShear(*shear)

	textures := game.LoadTextures(*textureDir)
	view := raycast.NewView(*width, *height, fixed.Angle(*fov/2*float64(fixed.AngleSteps)/360))
	r := renderer.New(renderer.DefaultConfig(), view, textures)
	r.Editing = *editing

	frame := framebuffer.New(*width, *height)
	stats := r.Render(frame, s.Grid, cam, s.Sprites)
	if err := framebuffer.SavePNG(fs.Arg(1), frame.Image()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Rendered: %s (%d spans, %d sprites)\n", fs.Arg(1), stats.Spans, stats.Sprites)
	return nil
}

func parseSurface(name string) (terrain.Surface, error) {
	switch strings.ToLower(name) {
	case "floor":
		return terrain.SurfaceFloor, nil
	case "ceiling", "ceil":
		return terrain.SurfaceCeiling, nil
	case "wallfloor":
		return terrain.SurfaceWallFloor, nil
	case "wallceil", "wallceiling":
		return terrain.SurfaceWallCeiling, nil
	}
	return 0, fmt.Errorf("%w: unknown surface %q", errUsage, name)
}
