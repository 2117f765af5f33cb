package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/edupay/feereport/internal/auth"
	"github.com/edupay/feereport/internal/clock"
	"github.com/edupay/feereport/internal/config"
	"github.com/edupay/feereport/internal/migration"
	"github.com/edupay/feereport/internal/observability"
	"github.com/edupay/feereport/internal/reports"
	"github.com/edupay/feereport/internal/server"
	"github.com/edupay/feereport/pkg/db"
	"github.com/edupay/feereport/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		auth.Module,
		reports.Module,

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
