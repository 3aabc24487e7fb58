package db

import (
	"fmt"

	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.Storage.User,
			cfg.Storage.Password,
			cfg.Storage.Host,
			cfg.Storage.Port,
			cfg.Storage.Name,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Storage.Host,
			cfg.Storage.User,
			cfg.Storage.Password,
			cfg.Storage.Name,
			cfg.Storage.Port,
			cfg.Storage.SSLMode,
		)), nil
	case "sqlite":
		return sqlite.Open(cfg.Storage.Path), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Storage.Driver)
	}
}
