// Command seed loads the demo accounts, routes and vehicles into Postgres.
package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"trotropay/internal/config"
	"trotropay/internal/logger"
	"trotropay/internal/seed"
	"trotropay/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogFile, cfg.LogLevel)

	db, err := config.InitDB(cfg.DB, logger.GormLogger())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := seed.Demo(context.Background(), postgres.New(db), 0); err != nil {
		logrus.WithError(err).Fatal("Seeding failed")
	}
	logrus.WithField("pin", seed.DemoPIN).Info("✅ Demo data ready")
}
