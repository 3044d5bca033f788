package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.New(postgres.Config{DSN: dsn}), nil
	case "mysql":
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// Init opens the database and migrates the schema.
func Init(driver, dsn string) error {
	d, err := dialector(driver, dsn)
	if err != nil {
		return err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	log.Infof("[DB] Connected to %s database", driver)

	return migrate()
}

func migrate() error {
	if err := DB.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("[Migrate] Error User: %w", err)
	}
	return nil
}

func Close() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Errorf("[DB] Error getting connection: %s", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Errorf("[DB] Error closing connection: %s", err)
	}
}
