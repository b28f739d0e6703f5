// relief renders height fields to PNG without a window.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xlab/closer"

	"github.com/Faultbox/midgard-relief/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Interrupts cancel the current frame; cleanup waits for the command to
	// notice before the process exits.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
		logger.Sync()
	})
	defer closer.Close()

	var err error
	switch command {
	case "render":
		err = cmdRender(ctx, args)
	case "turntable", "spin":
		err = cmdTurntable(ctx, args)
	case "gen":
		err = cmdGen(args)
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", command)
	}
	close(done)

	if err != nil {
		closer.Fatalln("Error:", err)
	}
}

func printUsage() {
	fmt.Println(`relief - relief-shaded height field renderer

Usage:
  relief <command> [options]

Commands:
  render    [flags] -o out.png           Render one frame
  turntable [flags] -frames N -dir out   Render a full azimuth rotation
  gen       [-size N] [-seed S] -o out.hfd
                                         Write a procedural height field
  info      <file.hfd|file.gat|image>    Show height grid statistics

Render flags are shared with reliefview and reliefview-lite (-config,
-terrain, -azimuth, -altitude, -classic, -zoom, -spp, -light-width, -width,
-height, ...).

Examples:
  relief render -azimuth 315 -altitude 30 -o shade.png
  relief render -terrain dem.tif -classic=false -spp 8 -light-width 2 -o soft.png
  relief turntable -frames 72 -dir frames
  relief gen -size 1024 -seed 7 -o map.hfd`)
}
