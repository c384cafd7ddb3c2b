// Package main is a terminal viewer for heightcast maps.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/heightcast/internal/config"
	"github.com/Faultbox/heightcast/internal/engine/term"
	"github.com/Faultbox/heightcast/internal/game"
	"github.com/Faultbox/heightcast/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The terminal is the display, so logs only go to the file when one is set.
	if cfg.Logging.LogFile != "" {
		err = logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(cfg.Logging.LogFile), false)
	} else {
		logger.InitNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "heightview: %v\n", err)
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.Editor.MapPath == "" {
		return fmt.Errorf("no map given, use -map")
	}
	if _, err := os.Stat(cfg.Editor.MapPath); err != nil {
		return err
	}
	session, err := game.OpenSession(cfg)
	if err != nil {
		return err
	}
	textures := game.LoadTextures(cfg.Editor.TextureDir)

	screen, err := term.New()
	if err != nil {
		return err
	}

	gc, st := game.FromConfig(cfg, "heightview", true)
	gc.Width, gc.Height = screen.FrameSize()
	g := game.New(gc, screen, session, textures, st)
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return g.Run(ctx)
}
