// Lockedstudy is a single-room escape puzzle for the terminal and the web.
// Usage: lockedstudy [--version] [--plain] [--script <file>] [--trace] [--content <dir>] [--serve <addr>]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nathoo/lockedstudy/cli"
	"github.com/nathoo/lockedstudy/config"
	"github.com/nathoo/lockedstudy/engine"
	"github.com/nathoo/lockedstudy/engine/events"
	"github.com/nathoo/lockedstudy/loader"
	"github.com/nathoo/lockedstudy/narrator"
	"github.com/nathoo/lockedstudy/server"
	"github.com/nathoo/lockedstudy/store"
	"github.com/nathoo/lockedstudy/tui"
	"github.com/nathoo/lockedstudy/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: lockedstudy [--version] [--plain] [--script <file>] [--trace] [--content <dir>] [--serve <addr>]"

type options struct {
	plain      bool
	trace      bool
	scriptFile string
	contentDir string
	serveAddr  string
}

func main() {
	var opts options

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("lockedstudy %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script", "--content", "--serve":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			i++
			switch args[i-1] {
			case "--script":
				opts.scriptFile = args[i]
			case "--content":
				opts.contentDir = args[i]
			case "--serve":
				opts.serveAddr = args[i]
			}
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n%s\n", args[i], usage)
			os.Exit(1)
		}
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load room content: built-in unless a directory is given.
	var room types.RoomDef
	if opts.contentDir != "" {
		room, err = loader.Load(opts.contentDir)
	} else {
		room, err = loader.Default()
	}
	if err != nil {
		return fmt.Errorf("loading room: %w", err)
	}

	n, closeNarrator := newNarrator(ctx, cfg, logger)
	defer closeNarrator()

	var handlers []events.Handler
	var runs *store.Store
	if cfg.DBPath != "" {
		runs, err = store.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer runs.Close()
		handlers = append(handlers, runs.Recorder())
	}

	seed := time.Now().UnixNano()
	if cfg.HintSeedSet {
		seed = cfg.HintSeed
	}

	if opts.serveAddr != "" {
		return serve(ctx, opts.serveAddr, server.Options{
			Room:            room,
			Narrator:        n,
			NarratorTimeout: cfg.NarratorTimeout,
			Handlers:        handlers,
			Logger:          logger,
			Seed: func() int64 {
				if cfg.HintSeedSet {
					return cfg.HintSeed
				}
				return time.Now().UnixNano()
			},
		})
	}

	eng := engine.New(room, seed)
	eng.Narrator = n
	eng.NarratorTimeout = cfg.NarratorTimeout
	eng.Handlers = handlers
	eng.Logger = logger

	game := cli.NewGame(eng, cfg.SaveDir)
	game.Store = runs
	game.Trace = opts.trace

	// Script mode: open file, force plain, echo commands.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		return runPlain(ctx, game, f, true)
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if opts.plain || !isTerminal() {
		return runPlain(ctx, game, os.Stdin, false)
	}

	return tui.Run(ctx, game)
}

func runPlain(ctx context.Context, game *cli.Game, in io.Reader, echo bool) error {
	fmt.Printf("%s\n\n", game.Banner())
	c := cli.New(game)
	c.In = in
	c.EchoInput = echo
	c.Run(ctx)
	return nil
}

// newNarrator builds the configured prose rewriter. A backend that cannot
// be created is logged and the game runs without one.
func newNarrator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (narrator.Narrator, func()) {
	noop := func() {}
	switch cfg.Narrator {
	case config.NarratorGemini:
		g, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("narrator disabled", "backend", cfg.Narrator, "err", err)
			return nil, noop
		}
		return g, func() { g.Close() }
	case config.NarratorHuggingFace:
		hf, err := narrator.NewHuggingFace(cfg.HFToken, cfg.HFModelURL)
		if err != nil {
			logger.Warn("narrator disabled", "backend", cfg.Narrator, "err", err)
			return nil, noop
		}
		return hf, noop
	default:
		return nil, noop
	}
}

func serve(ctx context.Context, addr string, opts server.Options) error {
	hub := server.NewHub(opts)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewHandler(hub, opts.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		opts.Logger.Info("listening", "addr", addr, "room", opts.Room.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
