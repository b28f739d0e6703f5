// reliefview shows a relief-shaded height field with a parameter panel.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/xlab/closer"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-relief/internal/config"
	"github.com/Faultbox/midgard-relief/internal/logger"
	"github.com/Faultbox/midgard-relief/internal/studio"
	"github.com/Faultbox/midgard-relief/internal/terraingen"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== Relief Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	field, err := terraingen.Load(cfg.Terrain)
	if err != nil {
		logger.Error("failed to load terrain", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	w, h := field.Size()
	logger.Info("terrain loaded",
		zap.String("source", cfg.Terrain.Source),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float32("min", field.MinElevation()),
		zap.Float32("max", field.MaxElevation()),
	)

	// Quit from the panel exits through closer so cleanup runs exactly once.
	s, err := studio.New(cfg, field, closer.Close)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	closer.Bind(func() {
		s.Close()
		logger.Info("viewer closed normally")
		logger.Sync()
	})
	defer closer.Close()

	s.Run()
}
