package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/skycast-bot/internal/app"
	"github.com/Nazarious-ucu/skycast-bot/internal/config"
	"github.com/Nazarious-ucu/skycast-bot/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l := zerolog.New(os.Stdout).With().Timestamp().Logger()

	met := metrics.New("skycast")

	application := app.New(*cfg, l, met)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Start(ctx); err != nil {
		log.Panicf("Application failed to run: %v", err)
	}
}
