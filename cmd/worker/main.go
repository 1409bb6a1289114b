package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/oakline-signs/site-backend/config"
	"github.com/oakline-signs/site-backend/internal/bootstrap"
	cronjob "github.com/oakline-signs/site-backend/internal/contact/cron"
	"github.com/oakline-signs/site-backend/internal/contact/service"
	"github.com/oakline-signs/site-backend/internal/logging"
)

const usage = "usage: worker resend|schedule|migrate"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if _, err := logging.Init("site-worker", cfg.App.Environment, cfg.App.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(ctx, cfg)
	case "resend":
		err = runResend(ctx, cfg)
	case "schedule":
		err = runSchedule(ctx, cfg)
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
	if err != nil {
		zap.S().Errorw("worker command failed", "command", os.Args[1], "error", err)
		logging.Sync()
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	backends, err := bootstrap.OpenBackends(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer backends.Close()
	return backends.Migrate(ctx)
}

func newResender(ctx context.Context, cfg *config.Config) (*service.Resender, func(), error) {
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return nil, nil, errNoOutbox
	}
	backends, err := bootstrap.OpenBackends(ctx, cfg, false)
	if err != nil {
		return nil, nil, err
	}
	mailer, err := bootstrap.NewMailer(&cfg.SMTP)
	if err != nil {
		backends.Close()
		return nil, nil, err
	}
	return service.NewResender(backends.Store, mailer, backends.Outbox, cfg.Outbox.MaxAttempts), backends.Close, nil
}

func runResend(ctx context.Context, cfg *config.Config) error {
	resender, closeFn, err := newResender(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := resender.RunOnce(ctx)
	if err != nil {
		return err
	}
	zap.S().Infow("resend finished", "sent", res.Sent, "failed", res.Failed, "skipped", res.Skipped)
	return nil
}

func runSchedule(ctx context.Context, cfg *config.Config) error {
	if cfg.Outbox.ResendSchedule == "" {
		return errNoSchedule
	}
	resender, closeFn, err := newResender(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	s := cronjob.NewScheduler(cfg.Outbox.ResendSchedule, resender)
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
