/*
GraphPunk runs the testbed pixel editor in the terminal, or headless for a
fixed number of frames.
*/
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/graphpunk/engine"
	"github.com/spaghettifunk/graphpunk/engine/config"
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/platform"
	"github.com/spaghettifunk/graphpunk/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	platformName := flag.String("platform", "", "terminal or headless, overrides the configuration")
	frames := flag.Uint64("frames", 0, "stop after this many frames, overrides the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("configuration: %v", err)
	}
	if *platformName != "" {
		cfg.Platform = *platformName
	}
	if *frames > 0 {
		cfg.Loop.MaxFrames = *frames
	}
	if err := cfg.Validate(); err != nil {
		core.LogFatal("configuration: %v", err)
	}

	var p platform.Platform
	switch cfg.Platform {
	case config.PlatformHeadless:
		p = platform.NewHeadless(cfg.Display.Width, cfg.Display.Height)
	default:
		t, err := platform.NewTerminal()
		if err != nil {
			core.LogFatal("terminal: %v", err)
		}
		// The terminal owns stderr while it runs.
		core.LogSetOutput(io.Discard)
		p = t
	}

	tb := testbed.NewTestGame(cfg)
	e, err := engine.New(tb.Game, p)
	if err != nil {
		core.LogFatal("%v", err)
	}

	// capture sigterm and other system calls here
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogSetOutput(os.Stderr)
		core.LogFatal("initialize: %v", err)
	}

	runErr := e.Run(ctx)
	shutdownErr := e.Shutdown()
	core.LogSetOutput(os.Stderr)
	if runErr != nil {
		core.LogFatal("run: %v", runErr)
	}
	if shutdownErr != nil {
		core.LogFatal("shutdown: %v", shutdownErr)
	}
}
