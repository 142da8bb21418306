package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/PixPMusic/gopher-trigger/internal/action"
	"github.com/PixPMusic/gopher-trigger/internal/config"
	"github.com/PixPMusic/gopher-trigger/internal/dispatch"
	"github.com/PixPMusic/gopher-trigger/internal/effector"
	"github.com/PixPMusic/gopher-trigger/internal/midi"
	"github.com/PixPMusic/gopher-trigger/internal/profile"
	"github.com/PixPMusic/gopher-trigger/internal/registry"
	"github.com/PixPMusic/gopher-trigger/internal/state"
)

func main() {
	profilePath := flag.String("profile", "", "path to the profile JSON (default: user config dir)")
	listPorts := flag.Bool("list", false, "list MIDI ports and exit")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	manager := midi.NewManager()
	defer manager.Close()

	if *listPorts {
		fmt.Println("Input ports:")
		for _, name := range manager.ListInPorts() {
			fmt.Println("  " + name)
		}
		fmt.Println("Output ports:")
		for _, name := range manager.ListOutPorts() {
			fmt.Println("  " + name)
		}
		return
	}

	path := *profilePath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			logger.Fatal("cannot resolve config dir", zap.Error(err))
		}
	}

	store := state.NewStore()
	keyboard := effector.NewLogKeyboard(logger)
	deps := profile.Deps{
		Store:    store,
		Keyboard: keyboard,
		Runner:   effector.NewShellRunner(),
		Sender:   effector.NewPortSender(manager),
	}

	entries, name, err := loadAndCompile(path, deps)
	if err != nil {
		logger.Fatal("profile rejected", zap.String("path", path), zap.Error(err))
	}
	reg := registry.Build(entries)
	logger.Info("profile loaded",
		zap.String("profile", name),
		zap.Int("mappings", reg.Size()))

	engine := dispatch.New(logger, reg, dispatch.Options{})

	// Listen on every available input port; the port name doubles as the
	// device name mappings match against.
	var stops []func()
	for _, port := range manager.ListInPorts() {
		port := port
		stop, err := manager.Listen(port, func(ev midi.Event) {
			engine.Dispatch(ev, port)
		})
		if err != nil {
			logger.Warn("cannot listen on port", zap.String("port", port), zap.Error(err))
			continue
		}
		logger.Info("listening", zap.String("port", port))
		stops = append(stops, stop)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	releaseHeld := func() {
		store.ReleaseInternal(func(key string, _ int32) {
			if k, ok := action.HeldKeyName(key); ok {
				if err := keyboard.Release(k); err != nil {
					logger.Warn("force release failed", zap.String("key", k), zap.Error(err))
				}
			}
		})
	}

	err = config.Watch(ctx, path, logger, func() {
		entries, name, err := loadAndCompile(path, deps)
		if err != nil {
			logger.Error("profile reload rejected, keeping current mappings", zap.Error(err))
			return
		}
		engine.ReplaceRegistry(registry.Build(entries))
		releaseHeld()
		store.ClearAll()
		logger.Info("profile reloaded", zap.String("profile", name))
	})
	if err != nil {
		logger.Warn("profile watching disabled", zap.Error(err))
	}

	<-ctx.Done()
	logger.Info("shutting down")

	for _, stop := range stops {
		stop()
	}
	engine.Close()
	releaseHeld()
	store.ClearAll()
}

func loadAndCompile(path string, deps profile.Deps) ([]registry.Entry, string, error) {
	p, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	entries, err := profile.Compile(p, deps)
	if err != nil {
		return nil, "", err
	}
	return entries, p.Name, nil
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	return logger
}
