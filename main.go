package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	Mc "github.com/maroda/ostinato/compose"
	Md "github.com/maroda/ostinato/display"
	Mo "github.com/maroda/ostinato/obvy"
	Mp "github.com/maroda/ostinato/plugin"
	Mb "github.com/maroda/ostinato/playback"
	Ms "github.com/maroda/ostinato/server"
	Mx "github.com/maroda/ostinato/toolset"
)

const usage = `usage: ostinato [serve|mcp|show|reset] [flags]

  serve   play the composition and run the monitor (default)
  mcp     serve the composition tools over stdio
  show    print the composition digest
  reset   replace the composition with an empty session
`

func main() {
	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configFile := fs.String("config", "", "path to a JSON or YAML config file (overrides OSTINATO_CONFIG)")
	autoplay := fs.Bool("autoplay", false, "start playback as soon as the composition is loaded")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		die("parse flags: %v", err)
	}

	setupLogging()

	if *configFile != "" {
		if err := os.Setenv("OSTINATO_CONFIG", *configFile); err != nil {
			die("set config: %v", err)
		}
	}
	cfg, err := Ms.ConfigFromEnv()
	if err != nil {
		die("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = serve(ctx, cfg, *autoplay)
	case "mcp":
		err = withStore(ctx, cfg, func(store *Ms.Store) error {
			return Mx.New(store).ServeStdio()
		})
	case "show":
		err = withStore(ctx, cfg, func(store *Ms.Store) error {
			fmt.Println(store.GetComposition(ctx).Summary)
			return nil
		})
	case "reset":
		err = withStore(ctx, cfg, func(store *Ms.Store) error {
			res := store.ResetComposition(ctx)
			fmt.Println(res.Message)
			if !res.Success {
				return fmt.Errorf("reset failed: %s", res.Message)
			}
			return nil
		})
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Ostinato exited with error", slog.String("command", cmd), slog.Any("Error", err))
		os.Exit(1)
	}
}

// setupLogging writes to stderr so stdout stays free for the mcp transport.
func setupLogging() {
	level := slog.LevelInfo
	if lv := Ms.FillEnvVar("OSTINATO_LOG_LEVEL"); lv != "ENOENT" {
		if err := level.UnmarshalText([]byte(lv)); err != nil {
			slog.Warn("Unknown log level, using info", slog.String("level", lv))
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if Ms.FillEnvVar("OSTINATO_LOG") == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// withStore opens storage and observability around fn.
func withStore(ctx context.Context, cfg *Ms.Config, fn func(store *Ms.Store) error) error {
	storage, err := Mp.StorageLookup(cfg.Storage, cfg.StorageLocation())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			slog.Error("Could not close storage", slog.Any("Error", err))
		}
	}()

	otelShutdown, err := Mo.InitOTel(ctx, Ms.FillEnvVar("OSTINATO_OTEL"))
	if err != nil {
		slog.Error("Tracing unavailable", slog.Any("Error", err))
	} else {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(sctx); err != nil {
				slog.Error("Could not shut down tracing", slog.Any("Error", err))
			}
		}()
	}

	sentryMetrics, flush, err := Mo.InitSentry(Ms.FillEnvVar("SENTRY_DSN"), Md.Version)
	if err != nil {
		slog.Error("Sentry unavailable", slog.Any("Error", err))
		sentryMetrics, flush = nil, func() {}
	}
	defer flush()

	stats := Mo.NewStatsInternal()
	store := Ms.NewStore(storage,
		Ms.WithEngine(Mc.NewEngine(Mc.NewSource(cfg.Seed))),
		Ms.WithStats(stats),
		Ms.WithSentry(sentryMetrics),
		Ms.WithWatchdog(cfg.WatchdogDuration()),
	)
	slog.Info("Storage Adapter Enabled",
		slog.String("storage", storage.Type()),
		slog.String("location", cfg.StorageLocation()))
	return fn(store)
}

func serve(ctx context.Context, cfg *Ms.Config, autoplay bool) error {
	return withStore(ctx, cfg, func(store *Ms.Store) error {
		voice := Md.InitVoice(cfg.Voice, cfg.MIDIPort)
		sched := Mb.NewScheduler(voice, store.Stats, cfg.LookaheadDuration())
		defer func() {
			if err := sched.Dispose(); err != nil {
				slog.Error("Could not release voices", slog.Any("Error", err))
			}
		}()

		view := Md.NewView(store, sched, store.Stats)
		if err := view.Reload(ctx); err != nil {
			return fmt.Errorf("load composition: %w", err)
		}
		view.NewWatchSupervisor(cfg.PollDuration()).Start()
		view.StartMonitor(cfg.MonitorAddr)

		if autoplay {
			sched.Play()
		}

		<-ctx.Done()
		slog.Info("Shutting down Ostinato")

		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return view.Shutdown(sctx)
	})
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
