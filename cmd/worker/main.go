// Package main runs the background workers: queued email delivery and
// the event completion sweep.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cerclepartages/config"
	"cerclepartages/internal/adapters/email"
	"cerclepartages/internal/adapters/queue"
	"cerclepartages/internal/repository/postgres"
	"cerclepartages/internal/worker"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mail worker needs Redis; without it the server sends inline and
	// only the completion sweep runs here.
	if cfg.Redis.Addr != "" {
		rdb, err := queue.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		mailer, err := email.NewMailer(email.MailerConfig{
			Provider:    cfg.Email.Provider,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			SES: email.SESConfig{
				Region:          cfg.Email.SES.Region,
				AccessKeyID:     cfg.Email.SES.AccessKeyID,
				SecretAccessKey: cfg.Email.SES.SecretAccessKey,
			},
		})
		if err != nil {
			logger.Error("mailer", "err", err)
			os.Exit(1)
		}

		mailWorker := worker.NewMailWorker(queue.NewQueue(rdb, logger), mailer, logger)
		go mailWorker.Run(workerCtx)
	} else {
		logger.Info("redis not configured, mail worker disabled")
	}

	eventRepo := postgres.NewEventRepository(db)
	completer := worker.NewCompleter(eventRepo, cfg.CompletionInterval, logger, time.Now)
	go completer.Run(workerCtx)

	logger.Info("worker started", "completion_interval", cfg.CompletionInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}
