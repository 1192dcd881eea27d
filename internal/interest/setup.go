package interest

import (
	"github.com/VybCoding/OneWonderLake/internal/db"
	"go.uber.org/zap"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "outreach"); err != nil {
		zap.L().Fatal("failed to ensure schema outreach", zap.Error(err))
	}

	if err := db.DB.AutoMigrate(&InterestedParty{}); err != nil {
		zap.L().Fatal("failed to auto-migrate interest tables", zap.Error(err))
	}
}
