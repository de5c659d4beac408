package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"findfriends-server/api"
	"findfriends-server/auth"
	"findfriends-server/config"
	"findfriends-server/loghandler"
	"findfriends-server/room"
	"findfriends-server/storage"
	"findfriends-server/ws"
)

var Version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables", "tag", "main")
	}

	app := &cli.App{
		Name:    "findfriends-server",
		Usage:   "rooms and rules for the find-friends trick-taking card game",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.json",
				Usage:   "path to the JSON config file",
			},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port (overrides WS_PORT)"},
			&cli.StringFlag{Name: "database-url", Usage: "Postgres URL for the round ledger"},
			&cli.StringFlag{Name: "auth-base-url", Usage: "identity provider base URL; enables token checks"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.Int64Flag{Name: "seed", Usage: "fixed shuffle seed for reproducible games"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}

// applyFlags lets explicit command-line flags win over file and environment.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("port") {
		cfg.WSPort = c.Int("port")
	}
	if c.IsSet("database-url") {
		cfg.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("auth-base-url") {
		cfg.AuthBaseURL = c.String("auth-base-url")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("seed") {
		cfg.RNGSeed = c.Int64("seed")
	}
}

func run(c *cli.Context) error {
	cfg := config.Load(c.String("config"))
	applyFlags(c, cfg)

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, loghandler.ParseLevel(cfg.LogLevel))))
	log := slog.Default().With("tag", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()

	var history storage.HistoryStore
	var recorder room.Recorder
	if store != nil {
		history = store
		recorder = store
		log.Info("round ledger enabled")
	} else {
		log.Info("DATABASE_URL is not set; settled rounds will not be recorded")
	}

	validator := auth.NewValidator(cfg.AuthBaseURL)
	if validator.Enabled() {
		log.Info("auth configured", "base_url", cfg.AuthBaseURL)
	} else {
		log.Info("AUTH_BASE_URL is not set; clients join without identity checks")
	}

	log.Info("configuration", "min_bid", cfg.Rules.MinBid, "win_score", cfg.Rules.WinScore,
		"bottom_multipliers", fmt.Sprintf("%d/%d/%d", cfg.Rules.BottomMultiplierTeam, cfg.Rules.BottomMultiplierSolo, cfg.Rules.BottomMultiplierPair),
		"port", cfg.WSPort, "seed", cfg.RNGSeed)

	rooms := room.NewStore(room.Options{
		Rules:       cfg.GameRules(),
		Seed:        cfg.RNGSeed,
		IdleTimeout: time.Duration(cfg.RoomIdleTimeoutSec) * time.Second,
		Recorder:    recorder,
	})
	defer rooms.Shutdown()

	hub := ws.NewHub(cfg, rooms, validator)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WSPort),
		Handler: newMux(hub, api.NewHandler(rooms, history, validator)),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "err", err)
		}
	}()

	log.Info("server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("shutting down", "rooms", rooms.Len())
	return nil
}

func newMux(hub *ws.Hub, h *api.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/api/rooms", h.ListRooms)
	mux.HandleFunc("/api/history", h.History)
	return mux
}
