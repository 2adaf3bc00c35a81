package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/floatlock/internal/button"
	"github.com/1broseidon/floatlock/internal/config"
	"github.com/1broseidon/floatlock/internal/hotkeys"
	"github.com/1broseidon/floatlock/internal/ipc"
	"github.com/1broseidon/floatlock/internal/lockscreen"
	"github.com/1broseidon/floatlock/internal/logging"
	"github.com/1broseidon/floatlock/internal/notify"
	"github.com/1broseidon/floatlock/internal/overlay"
	"github.com/1broseidon/floatlock/internal/platform"
	"github.com/1broseidon/floatlock/internal/position"
	"github.com/1broseidon/floatlock/internal/session"
)

func buttonStyle(cfg *config.Config) button.Style {
	style := button.DefaultStyle()
	style.Width = cfg.Button.Width
	style.Height = cfg.Button.Height
	style.Color = uint32(cfg.Button.Color)
	style.Label = cfg.Button.Label
	style.Opacity = cfg.Button.Opacity
	return style
}

func lockStyle(cfg *config.Config) lockscreen.Style {
	lc := cfg.LockScreen
	return lockscreen.Style{
		Background:     uint32(lc.Background),
		TrackWidth:     lc.TrackWidth,
		TrackHeight:    lc.TrackHeight,
		TrackColor:     uint32(lc.TrackColor),
		IndicatorWidth: lc.IndicatorWidth,
		IndicatorColor: uint32(lc.IndicatorColor),
		CloseSize:      lc.CloseSize,
		CloseColor:     uint32(lc.CloseColor),
	}
}

// openStore returns the position store for cfg. Ephemeral runs never touch
// disk.
func openStore(cfg *config.Config, ephemeral bool) (position.Store, error) {
	if ephemeral {
		return &position.MemoryStore{}, nil
	}
	return position.NewFileStore(cfg.PositionFile)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	ephemeral := fs.Bool("ephemeral", false, "Keep the button position in memory only")
	path := fs.String("path", "", "Config file path (default: ~/.config/floatlock/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: floatlock daemon [--ephemeral] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the floating lock button and lock screen in the foreground.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	// Load configuration
	res, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config

	logger, logCloser, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		MaxSizeMB: 10,
		MaxFiles:  3,
	})
	if err != nil {
		log.Printf("Failed to set up logging: %v", err)
		return 1
	}
	defer logCloser.Close()
	slog.SetDefault(logger)
	log.Printf("Configuration loaded from %s (lock hotkey: %q)", res.Path, cfg.Hotkeys.Lock)

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Disconnect()

	overlays := overlay.NewX11Manager(backend.XUtil(), backend.RootWindow(), logger)

	store, err := openStore(cfg, *ephemeral)
	if err != nil {
		log.Printf("Failed to open position store: %v", err)
		return 1
	}

	notifier, err := notify.New(cfg.NotificationBackend(), logger)
	if err != nil {
		logger.Warn("notifications unavailable", "error", err)
		notifier = notify.Nop{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := session.New(ctx, session.Options{
		Overlays:    overlays,
		Store:       store,
		Notifier:    notifier,
		Logger:      logger,
		ButtonStyle: buttonStyle(cfg),
		LockStyle:   lockStyle(cfg),
		Display: func() overlay.Geometry {
			return platform.ActiveGeometry(backend, overlays.Screen())
		},
	})
	go sess.Run()

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, sess, logger)
	if err := hotkeyHandler.Register(cfg.Hotkeys); err != nil {
		logger.Warn("failed to register hotkeys", "error", err)
	}

	applyConfig := func(newCfg *config.Config) {
		sess.ApplyStyles(buttonStyle(newCfg), lockStyle(newCfg))
		if err := hotkeyHandler.Register(newCfg.Hotkeys); err != nil {
			logger.Warn("failed to register hotkeys", "error", err)
		}
		logger.Info("config reloaded", "bound", hotkeyHandler.Bound())
	}

	watcher := config.NewWatcher(res.Path, cfg)
	watcher.OnChange(applyConfig)
	if err := watcher.Start(); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	}
	defer watcher.Close()

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(sess, ipc.ServerOptions{
		ConfigPath: res.Path,
		ReloadChan: reloadChan,
		Logger:     logger,
	})
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	if err := sess.Start(); err != nil {
		log.Printf("Failed to show lock button: %v", err)
		return 1
	}

	reconciler := session.NewReconciler(sess, cfg.ReconcileInterval(), logger)
	go reconciler.Run(ctx)

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					if err := watcher.Reload(); err != nil {
						logger.Warn("config reload failed", "error", err)
					}
				case os.Interrupt, syscall.SIGTERM:
					logger.Info("shutting down floatlock daemon")
					sess.Shutdown()
				}

			case <-reloadChan:
				if err := watcher.Reload(); err != nil {
					logger.Warn("config reload failed", "error", err)
				}

			case err := <-watcher.Errors():
				logger.Warn("config watch", "error", err)

			case <-sess.Done():
				// Terminate from the close control, or Shutdown above.
				sess.Shutdown()
				ipcServer.Stop()
				backend.Quit()
				return
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("floatlock daemon started, entering event loop")
	backend.EventLoop()
	log.Println("floatlock daemon stopped")
	return 0
}
