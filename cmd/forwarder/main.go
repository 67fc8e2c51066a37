package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/znclog/push-forwarder/internal/api/handlers/queue"
	"github.com/znclog/push-forwarder/internal/api/router"
	"github.com/znclog/push-forwarder/internal/api/server"
	"github.com/znclog/push-forwarder/internal/config"
	pushrepo "github.com/znclog/push-forwarder/internal/repository/push"
	"github.com/znclog/push-forwarder/internal/transport/telegram"
	"github.com/znclog/push-forwarder/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := retry.Do(db.Master.Ping, cfg.Retry); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to ping database")
	}

	client, err := telegram.Connect(cfg.Telegram.Token, cfg.Retry)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to telegram")
	}

	repo := pushrepo.NewRepository(db)
	channelMap := config.ParseChannelMap(cfg.Forwarder.ChannelMap)

	forwarder := worker.NewForwarder(
		repo,
		client,
		channelMap,
		cfg.Forwarder.DefaultChannelID,
		cfg.Forwarder.PollInterval,
	)

	go forwarder.Run(ctx)

	queueHandler := queue.NewHandler(repo, forwarder)
	r := router.New(queueHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Join the poll loop before touching the session: no orphaned
	// delivery work may survive shutdown, and the session must not be
	// closed under an in-flight send. The loop observes cancellation at
	// every suspension point and the bot's HTTP client bounds a hung
	// send, so this wait always terminates.
	<-forwarder.Done()

	if err := client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close telegram session")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}

	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msgf("failed to close slave DB %d", i)
		}
	}
}
