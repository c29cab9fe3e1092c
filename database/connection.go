package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/haulhub-io/haulhub-backend/internal/config"
)

var DB *gorm.DB

// Connect opens the PostgreSQL connection: via Unix socket on Cloud SQL,
// TCP locally.
func Connect(cfg config.Config) {
	var dsn string
	if cfg.InstanceConnectionName != "" {
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
		logrus.Infof("Connecting to Cloud SQL via socket: %s", cfg.InstanceConnectionName)
	} else {
		dsn = fmt.Sprintf("host=localhost user=%s password=%s dbname=%s port=5432 sslmode=disable",
			cfg.DBUser, cfg.DBPass, cfg.DBName)
		logrus.Info("Connecting to local PostgreSQL")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		panic(err)
	}

	logrus.Info("✅ Database connected successfully!")
}
