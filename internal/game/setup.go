package game

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/config"
	"github.com/Faultbox/heightcast/internal/editor"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/internal/engine/texture"
	"github.com/Faultbox/heightcast/internal/logger"
)

// PlaceholderTextures is how many ids get a generated texture when no image
// was loaded for them.
const PlaceholderTextures = 16

// NewCell returns the fill cell for new maps.
func NewCell(e config.EditorConfig) terrain.Cell {
	return terrain.Cell{
		FloorHeight:  config.Tiles(e.FloorHeight),
		CeilHeight:   config.Tiles(e.CeilHeight),
		FloorTex:     1,
		CeilTex:      2,
		WallFloorTex: 3,
		WallCeilTex:  4,
	}
}

// FromConfig derives the loop and controller settings from cfg.
func FromConfig(cfg *config.Config, title string, readOnly bool) (Config, editor.Settings) {
	fps := cfg.View.FPSLimit
	gc := Config{
		Title:         title,
		Width:         cfg.View.Width,
		Height:        cfg.View.Height,
		HalfFOV:       cfg.View.HalfFOV(),
		FPSLimit:      fps,
		ShowFPS:       cfg.View.ShowFPS,
		MapPath:       cfg.Editor.MapPath,
		Compress:      cfg.Editor.Compress,
		NewWidth:      uint16(cfg.Editor.NewWidth),
		NewHeight:     uint16(cfg.Editor.NewHeight),
		NewCell:       NewCell(cfg.Editor),
		EyeHeight:     config.Tiles(cfg.Editor.EyeHeight),
		ScreenshotDir: cfg.Editor.ScreenshotDir,
	}
	st := editor.Settings{
		MoveStep:   cfg.Editor.MoveStep(fps),
		TurnStep:   cfg.Editor.TurnStep(fps),
		HeightStep: config.Tiles(cfg.Editor.HeightStep),
		ReadOnly:   readOnly,
	}
	return gc, st
}

// OpenSession loads the configured map. A missing file starts a new map that
// Save writes to that path.
func OpenSession(cfg *config.Config) (*editor.Session, error) {
	e := cfg.Editor
	eye := config.Tiles(e.EyeHeight)

	if e.MapPath != "" {
		s, err := editor.Load(e.MapPath, eye)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("opening session: %w", err)
		}
		logger.Info("map not found, starting a new one", zap.String("path", e.MapPath))
	}

	s := editor.NewSession(uint16(e.NewWidth), uint16(e.NewHeight), NewCell(e), eye)
	s.Path = e.MapPath
	return s, nil
}

// LoadTextures reads dir and fills the first PlaceholderTextures ids that
// have no image. A missing dir is not an error.
func LoadTextures(dir string) *texture.Store {
	store := texture.NewStore()
	if dir != "" {
		if _, err := store.LoadDir(dir); err != nil {
			logger.Warn("textures unavailable, using placeholders", zap.String("dir", dir), zap.Error(err))
		}
	}
	store.AddPlaceholders(PlaceholderTextures)
	return store
}
