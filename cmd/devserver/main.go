package main

import (
	"log"

	"github.com/noah-isme/cse-resource-hub/internal/devserver"
	"github.com/noah-isme/cse-resource-hub/pkg/config"
	"github.com/noah-isme/cse-resource-hub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	server := devserver.New(cfg, logr)
	if err := server.Run(cfg.DevServer.Port); err != nil {
		logr.Sugar().Fatalw("devserver failed", "error", err)
	}
}
