package main

import (
	"Go_Stow/config"
	"Go_Stow/internal/handler"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/mq"
	"Go_Stow/internal/repo"
	"Go_Stow/internal/service"
	"Go_Stow/internal/storage"
	"Go_Stow/internal/task"
	"Go_Stow/router"
	"Go_Stow/utils"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// main initializes services and starts the HTTP server.
func main() {
	if err := config.InitConfig(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.AppConfig
	logging.Init(cfg.LogLevel, cfg.IsProduction())

	if err := repo.InitDB(cfg); err != nil {
		log.Fatalf("init db: %v", err)
	}
	if err := repo.InitRedis(cfg); err != nil {
		log.Fatalf("init redis: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := storage.InitMinio(ctx, cfg.Storage); err != nil {
		log.Fatalf("init minio: %v", err)
	}
	if err := utils.InitTokenIssuer(cfg); err != nil {
		log.Fatalf("init token issuer: %v", err)
	}
	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("init mailer: %v", err)
	}
	service.SetMailer(mailer)
	if _, err := handler.InitSocialLogin(cfg); err != nil {
		log.Fatalf("init social login: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.InitRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.L().Info("http server listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server: %v", err)
	}
}

func newMailer(cfg config.Config) (service.Mailer, error) {
	switch cfg.MailTransport {
	case "amqp":
		if _, err := mq.GetPublisher(); err != nil {
			return nil, err
		}
		logging.L().Info("verification mail queued through rabbitmq")
		return task.NewQueueMailer(), nil
	case "log":
		return utils.LogMailer{}, nil
	default:
		m, err := utils.NewSMTPMailer(cfg)
		if err != nil {
			if cfg.IsProduction() {
				return nil, err
			}
			logging.L().Warn("smtp not configured; verification codes are logged", "err", err)
			return utils.LogMailer{}, nil
		}
		return m, nil
	}
}
