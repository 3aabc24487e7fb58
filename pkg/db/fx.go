package db

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Conn bundles the storage handles. Exactly one of Gorm or Mongo is
// non-nil, selected by the configured driver.
type Conn struct {
	Gorm  *gorm.DB
	Mongo *mongo.Database
}

// Open establishes the storage connection for the configured driver and
// closes it when the application stops.
func Open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Conn, error) {
	if cfg.Storage.Driver == "mongo" {
		return openMongo(lc, cfg, log)
	}
	return openGorm(lc, cfg, log)
}

func openGorm(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Conn, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return Conn{}, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return Conn{}, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return Conn{}, err
	}
	sqlDB.SetMaxIdleConns(cfg.Storage.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.Storage.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Storage.ConnMaxLifetime) * time.Second)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("closing database connection", zap.String("driver", cfg.Storage.Driver))
			return sqlDB.Close()
		},
	})

	return Conn{Gorm: conn}, nil
}

func openMongo(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Storage.URI))
	if err != nil {
		return Conn{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return Conn{}, fmt.Errorf("ping mongo: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing mongo connection")
			return client.Disconnect(ctx)
		},
	})

	return Conn{Mongo: client.Database(cfg.Storage.Name)}, nil
}

// Module wires the storage connection.
var Module = fx.Module("db",
	fx.Provide(Open),
)
