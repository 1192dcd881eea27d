package main

import (
	"context"
	"log"

	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/VybCoding/OneWonderLake/internal/questions"
	"github.com/VybCoding/OneWonderLake/internal/seeds"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	if err := db.Connect(cfg.Database); err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}
	if err := db.EnsureUUIDExtension(db.DB); err != nil {
		zap.L().Fatal("uuid extension", zap.Error(err))
	}
	questions.Init()

	if err := seeds.SeedAll(context.Background(), questions.NewGormStore(db.DB)); err != nil {
		zap.L().Fatal("seeding failed", zap.Error(err))
	}
}
