package database

import (
	"time"

	configs "github.com/videotube/backend/config"
	"github.com/videotube/backend/internal/model"
	"github.com/videotube/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewPostgresDB opens the database connection and configures the pool.
func NewPostgresDB(config *configs.Config) (*gorm.DB, error) {
	var dbLogger gormLogger.Interface
	switch config.App.Environment {
	case "production":
		dbLogger = gormLogger.Default.LogMode(gormLogger.Silent)
	case "staging":
		dbLogger = gormLogger.Default.LogMode(gormLogger.Warn)
	default:
		dbLogger = gormLogger.Default.LogMode(gormLogger.Info)
	}

	gormConfig := &gorm.Config{
		Logger:      dbLogger,
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseConnectionString()), gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.Database.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	logger.GetLogger().Info("Database connected successfully",
		zap.String("host", config.Database.Host),
		zap.Int("port", config.Database.Port),
		zap.String("database", config.Database.Name),
		zap.Int("max_open_conns", config.Database.MaxOpenConns),
		zap.Int("max_idle_conns", config.Database.MaxIdleConns),
	)

	return db, nil
}

// AutoMigrate creates or updates the schema for the domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Subscription{},
	)
}

// CloseDB closes the underlying sql.DB
func CloseDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.GetLogger().Error("Failed to get DB instance for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.GetLogger().Error("Failed to close database connection", zap.Error(err))
	}
}
