package main

import (
	"Go_Stow/config"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/worker"
	"Go_Stow/utils"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.AppConfig
	logging.Init(cfg.LogLevel, cfg.IsProduction())

	mailer, err := utils.NewSMTPMailer(cfg)
	if err != nil {
		log.Fatalf("mail worker needs SMTP settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.L().Info("mail worker started")
	if err := worker.RunMailWorker(ctx, mailer); err != nil {
		log.Fatalf("mail worker stopped: %v", err)
	}
}
