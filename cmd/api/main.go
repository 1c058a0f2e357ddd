package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"taskAPI/internal/app"
	"taskAPI/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg).Run(ctx); err != nil {
		log.Fatalf("приложение: %v", err)
	}
}
