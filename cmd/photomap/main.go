// photomap serves the camera album and the map of geotagged photos.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/kleinnic74/photomap/app"
	"bitbucket.org/kleinnic74/photomap/config"
	"bitbucket.org/kleinnic74/photomap/logging"
	"go.uber.org/zap"
)

var (
	configFile string
	dir        string
	port       int
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&configFile, "c", "", "Path to the configuration file")
	flag.StringVar(&dir, "dir", "", "Data directory, overrides the configuration")
	flag.IntVar(&port, "port", 0, "HTTP port, overrides the configuration")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	if dir != "" {
		cfg.Dir = dir
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if err := logging.Configure(logging.Options{
		File:        cfg.Log.File,
		Level:       cfg.Log.Level,
		MemoryLines: cfg.Log.MemoryLines,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	logger, ctx := logging.SubFrom(ctx, "main")

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	if err := a.Run(ctx); err != nil {
		logger.Fatal("Terminated with error", zap.Error(err))
	}
}
