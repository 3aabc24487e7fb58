package repository

import (
	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	"github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/JohnAlex1900/Smart-Invoice/pkg/db"
)

// Provide selects the repository adapter for the configured storage driver.
func Provide(cfg config.Config, conn db.Conn) domain.Repository {
	if cfg.Storage.Driver == "mongo" {
		return NewMongo(conn.Mongo)
	}
	return NewGorm(conn.Gorm)
}
