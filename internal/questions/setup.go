package questions

import (
	"github.com/VybCoding/OneWonderLake/internal/db"
	"go.uber.org/zap"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "outreach"); err != nil {
		zap.L().Fatal("failed to ensure schema outreach", zap.Error(err))
	}

	if err := db.DB.AutoMigrate(&CommunityQuestion{}, &DynamicFaq{}); err != nil {
		zap.L().Fatal("failed to auto-migrate question tables", zap.Error(err))
	}
}
