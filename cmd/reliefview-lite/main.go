// reliefview-lite shows a relief-shaded height field in a keyboard-driven
// window without the parameter panel.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-relief/internal/app"
	"github.com/Faultbox/midgard-relief/internal/config"
	"github.com/Faultbox/midgard-relief/internal/logger"
	"github.com/Faultbox/midgard-relief/internal/terraingen"
)

func main() {
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
	defer logger.Sync()

	logger.Info("=== Relief Viewer (lite) ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	field, err := terraingen.Load(cfg.Terrain)
	if err != nil {
		logger.Error("failed to load terrain", zap.Error(err))
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

	a, err := app.New(cfg, field)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(context.Background()); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
