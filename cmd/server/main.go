package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nfarrow/partyrounds-backend/internal/config"
	"github.com/nfarrow/partyrounds-backend/internal/httpapi"
	"github.com/nfarrow/partyrounds-backend/internal/hub"
	"github.com/nfarrow/partyrounds-backend/internal/rounds"
	"github.com/nfarrow/partyrounds-backend/internal/store"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	cfg := config.FromEnv()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("playlist store unavailable", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, log)

	api := &httpapi.API{
		Hub:     h,
		Store:   st,
		Cfg:     cfg,
		Factory: rounds.New(log),
		Log:     log,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("shut down cleanly")
}
