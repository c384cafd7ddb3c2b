// Package main is the entry point for the heightcast map editor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/config"
	"github.com/Faultbox/heightcast/internal/engine/window"
	"github.com/Faultbox/heightcast/internal/game"
	"github.com/Faultbox/heightcast/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== heightcast editor ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("editor error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("editor closed normally")
}

func run(cfg *config.Config) error {
	session, err := game.OpenSession(cfg)
	if err != nil {
		return err
	}
	textures := game.LoadTextures(cfg.Editor.TextureDir)

	win, err := window.New(window.Config{
		Title:      "heightcast",
		Width:      cfg.View.Width,
		Height:     cfg.View.Height,
		Scale:      cfg.View.Scale,
		Fullscreen: cfg.View.Fullscreen,
		VSync:      cfg.View.VSync,
		OpenGL:     cfg.View.OpenGL,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	gc, st := game.FromConfig(cfg, "heightcast", false)
	g := game.New(gc, win, session, textures, st)
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := g.Run(ctx); err != nil {
		return err
	}
	if session.Dirty {
		logger.Warn("unsaved changes discarded", zap.String("path", session.Path))
	}
	return nil
}
