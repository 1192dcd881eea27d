package address

import (
	"github.com/VybCoding/OneWonderLake/internal/db"
	"go.uber.org/zap"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "outreach"); err != nil {
		zap.L().Fatal("failed to ensure schema outreach", zap.Error(err))
	}

	if err := db.DB.AutoMigrate(&SearchedAddress{}); err != nil {
		zap.L().Fatal("failed to auto-migrate address tables", zap.Error(err))
	}
}
