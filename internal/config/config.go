// Package config handles editor configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Config holds all editor settings.
type Config struct {
	View    ViewConfig    `yaml:"view"`
	Editor  EditorConfig  `yaml:"editor"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewConfig holds display and projection settings.
type ViewConfig struct {
	Width      int     `yaml:"width"`  // framebuffer columns
	Height     int     `yaml:"height"` // framebuffer rows
	Scale      int     `yaml:"scale"`  // window pixels per framebuffer pixel
	FOV        float64 `yaml:"fov"`    // horizontal, degrees
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	OpenGL     bool    `yaml:"opengl"` // present through a GL 4.1 context
	FPSLimit   int     `yaml:"fps_limit"`
	ShowFPS    bool    `yaml:"show_fps"`
}

// EditorConfig holds map editing settings. Heights are in tiles.
type EditorConfig struct {
	MapPath       string  `yaml:"map_path"`
	NewWidth      int     `yaml:"new_width"`
	NewHeight     int     `yaml:"new_height"`
	FloorHeight   float64 `yaml:"floor_height"`
	CeilHeight    float64 `yaml:"ceil_height"`
	EyeHeight     float64 `yaml:"eye_height"`
	HeightStep    float64 `yaml:"height_step"`
	MoveSpeed     float64 `yaml:"move_speed"` // tiles per second
	TurnSpeed     float64 `yaml:"turn_speed"` // degrees per second
	TextureDir    string  `yaml:"texture_dir"`
	ScreenshotDir string  `yaml:"screenshot_dir"`
	Compress      bool    `yaml:"compress"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Width:    320,
			Height:   200,
			Scale:    3,
			FOV:      90,
			VSync:    true,
			FPSLimit: 60,
		},
		Editor: EditorConfig{
			MapPath:       "map.hcm",
			NewWidth:      32,
			NewHeight:     32,
			FloorHeight:   0,
			CeilHeight:    2,
			EyeHeight:     0.5,
			HeightStep:    1.0 / 16,
			MoveSpeed:     3,
			TurnSpeed:     120,
			TextureDir:    "textures",
			ScreenshotDir: "screenshots",
			Compress:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects settings the editor cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.View.Width < 16 || c.View.Height < 16 {
		errs = append(errs, fmt.Errorf("view size %dx%d too small", c.View.Width, c.View.Height))
	}
	if c.View.Scale < 1 {
		errs = append(errs, fmt.Errorf("view scale %d must be positive", c.View.Scale))
	}
	if c.View.FOV <= 0 || c.View.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %.1f out of range (0, 180)", c.View.FOV))
	}
	if c.Editor.NewWidth < 1 || c.Editor.NewWidth > 0xFFFF || c.Editor.NewHeight < 1 || c.Editor.NewHeight > 0xFFFF {
		errs = append(errs, fmt.Errorf("new map size %dx%d out of range", c.Editor.NewWidth, c.Editor.NewHeight))
	}
	if c.Editor.CeilHeight <= c.Editor.FloorHeight {
		errs = append(errs, fmt.Errorf("ceil_height %.2f must be above floor_height %.2f", c.Editor.CeilHeight, c.Editor.FloorHeight))
	}
	return errors.Join(errs...)
}

// HalfFOV returns half the horizontal field of view as a fixed-point angle.
func (v ViewConfig) HalfFOV() fixed.Angle {
	return fixed.Angle(v.FOV / 2 * float64(fixed.AngleSteps) / 360)
}

// Tiles converts a height or distance in tiles to fixed point.
func Tiles(v float64) fixed.Scalar {
	return fixed.Scalar(v * float64(fixed.One))
}

// TurnStep converts TurnSpeed to an angle per frame at the given rate.
func (e EditorConfig) TurnStep(fps int) fixed.Angle {
	if fps <= 0 {
		fps = 60
	}
	step := fixed.Angle(e.TurnSpeed * float64(fixed.AngleSteps) / 360 / float64(fps))
	if step < 1 {
		step = 1
	}
	return step
}

// MoveStep converts MoveSpeed to a distance per frame at the given rate.
func (e EditorConfig) MoveStep(fps int) fixed.Scalar {
	if fps <= 0 {
		fps = 60
	}
	step := Tiles(e.MoveSpeed / float64(fps))
	if step < 1 {
		step = 1
	}
	return step
}
