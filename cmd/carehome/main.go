package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/careops/carehome/internal/config"
	"github.com/careops/carehome/internal/logger"
	"github.com/careops/carehome/internal/migration"
	"github.com/careops/carehome/internal/server"
	"github.com/careops/carehome/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
