package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ripple-social/internal/config"
	"ripple-social/internal/database"
	"ripple-social/internal/engine"
	"ripple-social/internal/handlers"
	"ripple-social/internal/middleware"
	"ripple-social/internal/realtime"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to MongoDB", "database", cfg.Database.Name)

	hub := realtime.NewHub()
	go hub.Run()

	metrics := utils.NewMetricsCollector()
	tokens := middleware.NewTokenManager(cfg.JWTSecret)
	system := actor.NewActorSystem()

	eng := engine.NewEngine(system, engine.Deps{
		Conversations: db,
		Messages:      db,
		Users:         db,
		Posts:         db,
		Push:          hub,
		Tokens:        tokens,
		Metrics:       metrics,
	})

	server := handlers.NewServer(system, eng, hub, metrics)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(tokens.Auth(server.Routes()))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
