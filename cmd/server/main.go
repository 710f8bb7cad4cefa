package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tejsai973973/HandCricket/internal/config"
	"github.com/Tejsai973973/HandCricket/internal/dispatch"
	"github.com/Tejsai973973/HandCricket/internal/httpapi"
	"github.com/Tejsai973973/HandCricket/internal/hub"
	"github.com/Tejsai973973/HandCricket/internal/logging"
	"github.com/Tejsai973973/HandCricket/internal/schedule"
	"github.com/Tejsai973973/HandCricket/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := schedule.New(log.Named("schedule"))
	if err != nil {
		return err
	}

	out := dispatch.New(log.Named("dispatch"))
	h := hub.NewHub(context.Background(), out, hub.Config{
		Sched:     sched,
		Settle:    cfg.RoundSettleDelay,
		TossDelay: cfg.TossDelay,
		Retain:    cfg.MatchRetain,
		Log:       log.Named("hub"),
	})

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, ws.Options{
		OriginPatterns: cfg.AllowedOrigins,
		ReadTimeout:    cfg.WSReadTimeout,
		WriteTimeout:   cfg.WSWriteTimeout,
		OutboxSize:     cfg.OutboxSize,
		Log:            log.Named("ws"),
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		h.Send(hub.ShutdownHub{})
		out.Close()
		if serr := sched.Shutdown(); serr != nil {
			log.Warn("scheduler shutdown", zap.Error(serr))
		}
		return err
	})

	return g.Wait()
}
