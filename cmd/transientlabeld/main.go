// Package main is the entry point for the transientlabeld label daemon.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/daemon"
	"github.com/jmylchreest/transientlabel/internal/display"
)

const (
	appID   = "io.github.jmylchreest.transientlabeld"
	appName = "transientlabeld"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/transientlabel/transientlabeld.toml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		path = config.DaemonConfigPath()
	}

	os.Exit(run(path, logger))
}

func run(configPath string, logger *slog.Logger) int {
	logger.Info("starting transientlabeld", "version", version, "config", configPath)

	cfg, err := config.LoadDaemonConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	d, err := daemon.New(daemon.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Version:    version,
		Dispatcher: func(fn func()) { glib.IdleAdd(fn) },
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		return 1
	}

	app := adw.NewApplication(appID, 0)

	var (
		surface *display.Surface
		running atomic.Bool
	)

	shutdown := func() {
		if !running.CompareAndSwap(true, false) {
			return
		}
		d.Stop()
		if surface != nil {
			surface.Close()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		glib.IdleAdd(func() {
			shutdown()
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if !running.CompareAndSwap(false, true) {
			logger.Warn("application already running")
			return
		}

		s, err := display.NewSurface(&app.Application, d.Label(), d.Config(), logger)
		if err != nil {
			logger.Error("failed to create label window", "error", err)
			d.Notifier().NotifyStartupError(err)
			shutdown()
			app.Quit()
			return
		}
		surface = s
		surface.OnThemeError(d.Notifier().NotifyThemeError)
		d.SetRenderer(surface)

		if err := d.Start(); err != nil {
			logger.Error("failed to start daemon", "error", err)
			d.Notifier().NotifyStartupError(err)
			shutdown()
			app.Quit()
			return
		}
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
	})

	// GApplication only sees arguments the flag package left alone.
	status := app.Run(append([]string{os.Args[0]}, flag.Args()...))
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("transientlabeld stopped")
	return 0
}
