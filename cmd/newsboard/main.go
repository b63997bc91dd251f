// Command newsboard is the video-wall playback daemon. It orchestrates a
// grid of live stream tiles behind a REST + SSE control API.
// Run with --mock to use the simulated player backend (no VLC required).
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/farleyman/newsboard-go/internal/api"
	"github.com/farleyman/newsboard-go/internal/board"
	"github.com/farleyman/newsboard-go/internal/config"
	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/player"
	"github.com/farleyman/newsboard-go/internal/playlist"
	"github.com/farleyman/newsboard-go/internal/resolve"
	"github.com/farleyman/newsboard-go/internal/zeroconf"
)

func main() {
	var (
		mock      = flag.Bool("mock", false, "use the mock player backend (no VLC required)")
		addr      = flag.String("addr", ":8080", "HTTP listen address")
		cfgDir    = flag.String("config-dir", "", "config directory (default: ~/.config/newsboard)")
		noRestore = flag.Bool("no-restore", false, "start with an empty board instead of the saved tiles")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Resolve config directory
	if *cfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*cfgDir = filepath.Join(home, ".config", "newsboard")
	}
	if err := os.MkdirAll(*cfgDir, 0755); err != nil {
		slog.Error("cannot create config directory", "path", *cfgDir, "err", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Player backend: VLC when installed, mock otherwise or when forced
	factory := player.Probe(*mock)
	slog.Info("player backend selected", "backend", factory.Name())

	// Config store
	store := config.NewJSONStore(*cfgDir)

	// Event bus
	bus := events.NewBus()

	// Async YouTube page resolution
	resolver := resolve.NewResolver(resolve.NewYouTubeExtractor())

	// Playlist fetcher
	fetcher := playlist.NewFetcher()

	// Board controller
	ctrl, err := board.New(factory, resolver, fetcher, store, bus, !*noRestore)
	if err != nil {
		slog.Error("board initialization failed", "err", err)
		os.Exit(1)
	}
	go ctrl.Run(ctx)

	// Pick up edits made to board.json outside the API
	watcher := config.NewWatcher(store, ctrl.ApplySettings)
	defer watcher.Close()

	// Zeroconf mDNS registration
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "newsboard"
	}
	port := 8080
	if parts := strings.SplitN(*addr, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	zc := zeroconf.New(hostname, port, factory.Name())
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.NewRouter(ctrl, bus),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("NewsBoard listening", "addr", *addr, "backend", factory.Name(), "config", *cfgDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()

	// Tear down every tile's backend
	ctrl.Shutdown(shutCtx)

	// Flush pending config writes
	if err := store.Flush(); err != nil {
		slog.Warn("failed to flush config", "err", err)
	}

	// Graceful HTTP shutdown
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}
