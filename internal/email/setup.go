package email

import (
	"github.com/VybCoding/OneWonderLake/internal/db"
	"go.uber.org/zap"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "mail"); err != nil {
		zap.L().Fatal("failed to ensure schema mail", zap.Error(err))
	}

	if err := db.DB.AutoMigrate(&EmailCorrespondence{}, &InboundEmail{}, &EmailUsage{}); err != nil {
		zap.L().Fatal("failed to auto-migrate mail tables", zap.Error(err))
	}
}
