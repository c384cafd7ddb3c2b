package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Faultbox/heightcast/pkg/fixed"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.View.Width != 320 {
		t.Errorf("expected width 320, got %d", cfg.View.Width)
	}
	if cfg.View.Height != 200 {
		t.Errorf("expected height 200, got %d", cfg.View.Height)
	}
	if cfg.View.Scale != 3 {
		t.Errorf("expected scale 3, got %d", cfg.View.Scale)
	}
	if cfg.View.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Editor.MapPath != "map.hcm" {
		t.Errorf("expected map path map.hcm, got %s", cfg.Editor.MapPath)
	}
	if cfg.Editor.NewWidth != 32 || cfg.Editor.NewHeight != 32 {
		t.Errorf("expected 32x32 new maps, got %dx%d", cfg.Editor.NewWidth, cfg.Editor.NewHeight)
	}
	if !cfg.Editor.Compress {
		t.Error("expected compressed map bodies by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()

	if got := cfg.View.HalfFOV(); got != fixed.Angle45 {
		t.Errorf("expected half fov %d, got %d", fixed.Angle45, got)
	}
	if got := Tiles(2); got != 2*fixed.One {
		t.Errorf("expected 2 tiles = %d, got %d", 2*fixed.One, got)
	}
	if got := Tiles(cfg.Editor.HeightStep); got != 64 {
		t.Errorf("expected height step 64, got %d", got)
	}
	if got := cfg.Editor.MoveStep(60); got != 51 {
		t.Errorf("expected move step 51, got %d", got)
	}
	if got := cfg.Editor.TurnStep(60); got != 5 {
		t.Errorf("expected turn step 5, got %d", got)
	}
	if got := cfg.Editor.TurnStep(0); got != 5 {
		t.Errorf("expected fallback rate, got %d", got)
	}

	slow := EditorConfig{MoveSpeed: 0, TurnSpeed: 0}
	if slow.MoveStep(60) != 1 || slow.TurnStep(60) != 1 {
		t.Error("steps must not drop to zero")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"tiny view", func(c *Config) { c.View.Width = 8 }, "too small"},
		{"zero scale", func(c *Config) { c.View.Scale = 0 }, "scale"},
		{"flat fov", func(c *Config) { c.View.FOV = 180 }, "fov"},
		{"empty map", func(c *Config) { c.Editor.NewWidth = 0 }, "new map size"},
		{"inverted room", func(c *Config) { c.Editor.CeilHeight = -1 }, "ceil_height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
view:
  width: 640
  height: 400
  scale: 2
  fov: 75
  fullscreen: true
  fps_limit: 144

editor:
  map_path: "levels/e1m1.hcm"
  new_width: 64
  new_height: 48
  ceil_height: 3
  texture_dir: "art"
  compress: false

logging:
  level: "debug"
  log_file: "editor.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.View.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.View.Width)
	}
	if cfg.View.Height != 400 {
		t.Errorf("expected height 400, got %d", cfg.View.Height)
	}
	if cfg.View.FOV != 75 {
		t.Errorf("expected fov 75, got %f", cfg.View.FOV)
	}
	if !cfg.View.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.View.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.View.FPSLimit)
	}

	if cfg.Editor.MapPath != "levels/e1m1.hcm" {
		t.Errorf("expected map path levels/e1m1.hcm, got %s", cfg.Editor.MapPath)
	}
	if cfg.Editor.NewWidth != 64 || cfg.Editor.NewHeight != 48 {
		t.Errorf("expected 64x48, got %dx%d", cfg.Editor.NewWidth, cfg.Editor.NewHeight)
	}
	if cfg.Editor.CeilHeight != 3 {
		t.Errorf("expected ceil height 3, got %f", cfg.Editor.CeilHeight)
	}
	if cfg.Editor.Compress {
		t.Error("expected compress to be false")
	}
	// Unset keys keep their defaults.
	if cfg.Editor.EyeHeight != 0.5 {
		t.Errorf("expected default eye height 0.5, got %f", cfg.Editor.EyeHeight)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "editor.log" {
		t.Errorf("expected log file 'editor.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
view:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(configPath, []byte("view:\n  widht: 640\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
	if cfg.View.Width != 320 {
		t.Errorf("expected default width, got %d", cfg.View.Width)
	}
}

func TestFindConfigFileEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("view:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	t.Setenv(EnvConfig, configPath)

	if path := findConfigFile(); path != configPath {
		t.Errorf("expected %s, got %s", configPath, path)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv(EnvConfig, "")

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("view:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.View.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "map flag",
			setup: func() { *flagMap = "other.hcm" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Editor.MapPath != "other.hcm" {
					t.Errorf("expected map other.hcm, got %s", cfg.Editor.MapPath)
				}
			},
			teardown: func() { *flagMap = "" },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.View.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "gl flag",
			setup: func() { *flagOpenGL = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.View.OpenGL {
					t.Error("expected opengl to be true with gl flag")
				}
			},
			teardown: func() { *flagOpenGL = false },
		},
		{
			name: "size flags",
			setup: func() {
				*flagWidth = 480
				*flagHeight = 270
				*flagScale = 4
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.View.Width != 480 {
					t.Errorf("expected width 480, got %d", cfg.View.Width)
				}
				if cfg.View.Height != 270 {
					t.Errorf("expected height 270, got %d", cfg.View.Height)
				}
				if cfg.View.Scale != 4 {
					t.Errorf("expected scale 4, got %d", cfg.View.Scale)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
				*flagScale = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
view:
  width: 400
  height: 240
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 512
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.View.Width != 512 {
		t.Errorf("expected width 512 from flag, got %d", cfg.View.Width)
	}
	if cfg.View.Height != 240 {
		t.Errorf("expected height 240 from file, got %d", cfg.View.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("view:\n  scale: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Editor.MapPath = "saved.hcm"
	cfg.View.Scale = 5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Editor.MapPath != "saved.hcm" || loaded.View.Scale != 5 {
		t.Errorf("saved values lost: %+v", loaded)
	}
}

func TestSaveToInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.View.Width = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}

func TestSave(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir is only redirectable through XDG_CONFIG_HOME on linux")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if want := filepath.Join(xdg, "heightcast", "config.yaml"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), configHeader) {
		t.Error("expected header comment at top of saved config")
	}
}
