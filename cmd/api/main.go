package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oakline-signs/site-backend/config"
	"github.com/oakline-signs/site-backend/internal/api/http/middleware"
	"github.com/oakline-signs/site-backend/internal/bootstrap"
	"github.com/oakline-signs/site-backend/internal/contact/service"
	"github.com/oakline-signs/site-backend/internal/logging"
	"github.com/oakline-signs/site-backend/internal/metrics"
)

const serviceName = "site-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if _, err := logging.Init(serviceName, cfg.App.Environment, cfg.App.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := bootstrap.OpenBackends(ctx, cfg, true)
	if err != nil {
		zap.S().Fatalw("storage unavailable", "driver", cfg.Store.Driver, "error", err)
	}
	defer backends.Close()

	mailer, err := bootstrap.NewMailer(&cfg.SMTP)
	if err != nil {
		zap.S().Fatalw("mailer setup failed", "error", err)
	}

	m, err := metrics.New("site")
	if err != nil {
		zap.S().Fatalw("metrics setup failed", "error", err)
	}

	intake := service.NewIntakeService(backends.Store, mailer, backends.FailureRecorder()).WithObserver(m)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Intake:         intake,
		Limiter:        middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Checks:         backends.Checks,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.S().Infow("listening", "addr", srv.Addr, "store", cfg.Store.Driver, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorw("server stopped with error", "error", err)
	}
}
