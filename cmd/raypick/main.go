package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"raypick/internal/assets"
	"raypick/internal/audio"
	"raypick/internal/config"
	"raypick/internal/display"
	"raypick/internal/engine"
	"raypick/internal/game"
	"raypick/internal/world"
)

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			_ = os.Chdir(execDir)
		}
	}

	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	verbose := flag.Bool("v", false, "debug logging")
	headless := flag.Bool("headless", false, "run without a window, driven by a ticker")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until the window closes)")
	flag.Parse()

	if err := run(*configPath, *verbose, *headless, *duration); err != nil {
		fmt.Fprintln(os.Stderr, "raypick:", err)
		os.Exit(1)
	}
}

func run(configPath string, verbose, headless bool, duration time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	loader := assets.NewManager(os.DirFS(cfg.Assets.Root))
	w, err := world.New(cfg, loader, log.With("component", "world"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	w.OnGameOver.AddListener(func(score int) {
		log.Info("final score", "score", score)
	})

	if headless {
		return runHeadless(ctx, cfg, w, log)
	}
	return runWindow(ctx, cfg, w, log)
}

func runHeadless(ctx context.Context, cfg config.Config, w *world.World, log *slog.Logger) error {
	ticker := game.NewTickerDisplay(time.Second / time.Duration(max(cfg.Window.TargetFPS, 1)))
	s := game.New(w, ticker, nil, log.With("component", "scheduler"))
	defer s.Stop()

	// One round, then the ticker runs dry.
	w.OnGameOver.AddListener(func(int) { s.Stop() })

	w.Start(time.Now())
	if err := s.Start(); err != nil {
		return err
	}
	return ignoreDone(ticker.Run(ctx))
}

func runWindow(ctx context.Context, cfg config.Config, w *world.World, log *slog.Logger) error {
	win := display.NewWindow(log.With("component", "display"))
	s := game.New(w, win, win.Renderer, log.With("component", "scheduler"))

	win.Open(cfg.Window, s)
	defer win.Close()
	defer s.Stop()

	if cfg.Audio.Enabled {
		if player, err := audio.NewPlayer(cfg.Audio.Volume, cfg.Camera.Far, log.With("component", "audio")); err != nil {
			log.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			wireAudio(w, player)
		}
	}

	w.Start(time.Now())
	if err := s.Start(); err != nil {
		return err
	}
	return ignoreDone(win.Run(ctx))
}

func wireAudio(w *world.World, player *audio.Player) {
	w.Controller.OnClicked.AddListener(func(o *engine.Object) {
		player.Play(audio.CueClick, audio.ListenerFrom(w.Camera), o.Position())
	})
	w.OnEscaped.AddListener(func(o *engine.Object) {
		player.Play(audio.CueEscape, audio.ListenerFrom(w.Camera), o.Position())
	})
	w.OnGameOver.AddListener(func(int) {
		player.Play(audio.CueGameOver, audio.ListenerFrom(w.Camera), w.Camera.Position)
	})
}

// ignoreDone treats cancellation and the duration limit as a clean exit.
func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
