// Command strata-demo composites a configurable layer stack in a window.
//
// Keys: 1-9 select a layer, V toggles it, B cycles its blend mode, Left and
// Right change opacity, Up and Down move it in the stack, F cross-fades it
// with the next layer, S saves a screenshot and I toggles the panel.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	scriptPath := flag.String("script", "", "JSON script of layer changes and screenshots")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	strata.SetLogger(l)
	defer l.Sync() //nolint:errcheck

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		l.Fatal("load config", zap.String("path", *configPath), zap.Error(err))
	}

	var script *strata.Script
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			l.Fatal("read script", zap.String("path", *scriptPath), zap.Error(err))
		}
		if script, err = strata.LoadScript(data); err != nil {
			l.Fatal("load script", zap.String("path", *scriptPath), zap.Error(err))
		}
	}

	game, err := NewGame(cfg, script, l)
	if err != nil {
		l.Fatal("build layer stack", zap.Error(err))
	}
	defer game.Close()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		l.Error("run", zap.Error(err))
	}
}
