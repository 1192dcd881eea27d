package db

import (
	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg config.DatabaseConfig) error {
	if cfg.URL == "" {
		return eris.New("db: DATABASE_URL is empty")
	}

	// Surface slow queries through the process logger.
	lg := logger.New(
		zap.NewStdLog(zap.L().Named("gorm")),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: lg,
	})
	if err != nil {
		return eris.Wrap(err, "db: open")
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return eris.Wrap(err, "db: get sql.DB")
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	DB = conn
	zap.L().Info("connected to database")
	return nil
}
