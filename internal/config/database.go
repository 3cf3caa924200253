package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slowQueryThreshold is where the GORM logger starts warning in prod
const slowQueryThreshold = 500 * time.Millisecond

// ConnectDatabase opens the MySQL connection pool and verifies it answers
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(buildDSN(cfg.Database)), &gorm.Config{
		Logger: gormLogger(cfg),
		// every mutation already runs inside UnitOfWork.Do
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":      cfg.Database.Host,
		"port":      cfg.Database.Port,
		"name":      cfg.Database.DBName,
		"max_open":  cfg.Database.MaxOpenConns,
		"max_idle":  cfg.Database.MaxIdleConns,
		"life_time": cfg.Database.ConnMaxLifetime.String(),
	}).Info("✅ Database connected successfully")
	return db, nil
}

func gormLogger(cfg *Config) logger.Interface {
	if cfg.IsDev() {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// buildDSN returns the MySQL DSN. Times are stored and read back as UTC so
// due dates compare the same on every host.
func buildDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

// CloseDatabase closes the pool behind db
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
