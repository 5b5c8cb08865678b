package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gridarena/internal/adapters/http/api"
	"github.com/okian/gridarena/internal/adapters/mq/bus"
	"github.com/okian/gridarena/internal/adapters/repository"
	"github.com/okian/gridarena/internal/config"
	"github.com/okian/gridarena/internal/domain/dedupe"
	"github.com/okian/gridarena/internal/node"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}
	hubID := cfg.HubNodeID
	if hubID == "" {
		hubID = nodeID
	}
	if cfg.Role == config.RoleParticipant && hubID == nodeID {
		// A lone participant has no remote hub to talk to; host one on
		// the same bus.
		hubID = nodeID + "-hub"
	}

	b := bus.New(bus.WithInboxSize(cfg.InboxSize), bus.WithLogger(log))
	defer b.Close()

	limits := node.Limits{MaxLeaderboard: cfg.MaxLeaderboardLimit, BroadcastTopN: cfg.BroadcastTopN}
	hub := node.New(hubID, node.RoleHub, cfg.AdminID, hubID, repository.NewMemory(), b,
		node.WithLogger(log),
		node.WithLimits(limits),
		node.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxIDs(cfg.DedupeSize))),
	)
	b.Attach(ctx, hubID, hub)

	// Play traffic is served by the local node: the hub itself in hub
	// mode, a synced participant otherwise.
	local := hub
	if cfg.Role == config.RoleParticipant {
		local = node.New(nodeID, node.RoleParticipant, cfg.AdminID, hubID, repository.NewMemory(), b,
			node.WithLogger(log),
			node.WithLimits(limits),
		)
		b.Attach(ctx, nodeID, local)
		b.Subscribe(protocol.StreamTournament, nodeID)
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(local, hub)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("role", cfg.Role),
			logger.String("node_id", nodeID),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
