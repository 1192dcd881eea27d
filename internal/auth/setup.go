package auth

import (
	"github.com/VybCoding/OneWonderLake/internal/db"
	"go.uber.org/zap"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		zap.L().Fatal("failed to ensure schema app_auth", zap.Error(err))
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}); err != nil {
		zap.L().Fatal("failed to auto-migrate auth tables", zap.Error(err))
	}
}
