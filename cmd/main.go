package main

import (
	"context"

	"github.com/klass-lk/ginblog/internal/app"
	"github.com/klass-lk/ginblog/internal/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	cfg.ConfigureLogging()

	blog, err := app.New(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to start blog")
	}
	defer blog.Close()

	if err := blog.Run(); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
