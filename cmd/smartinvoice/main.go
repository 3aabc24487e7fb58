package main

import (
	"github.com/JohnAlex1900/Smart-Invoice/internal/client"
	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice"
	"github.com/JohnAlex1900/Smart-Invoice/internal/logger"
	"github.com/JohnAlex1900/Smart-Invoice/internal/migration"
	"github.com/JohnAlex1900/Smart-Invoice/internal/server"
	"github.com/JohnAlex1900/Smart-Invoice/internal/user"
	"github.com/JohnAlex1900/Smart-Invoice/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		user.Module,
		client.Module,
		invoice.Module,
		dashboard.Module,

		// HTTP boundary
		server.MetricsModule,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
