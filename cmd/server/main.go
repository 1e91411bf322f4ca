package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"trotropay/internal/accounts"
	"trotropay/internal/commission"
	"trotropay/internal/config"
	"trotropay/internal/controllers"
	"trotropay/internal/earnings"
	"trotropay/internal/fare"
	"trotropay/internal/fleet"
	"trotropay/internal/logger"
	"trotropay/internal/middleware"
	"trotropay/internal/notify"
	"trotropay/internal/payments"
	"trotropay/internal/routes"
	"trotropay/internal/seed"
	"trotropay/internal/store"
	"trotropay/internal/store/memory"
	"trotropay/internal/store/postgres"
	"trotropay/internal/wallet"
)

func main() {
	cfg := config.Load()

	// Structured logging to file and stdout
	requestLog := logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open store")
	}
	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, st, 0); err != nil {
			logrus.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	hub := notify.NewHub()
	var notifier notify.Notifier = hub
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("Redis unreachable, notifications stay local")
		} else {
			relay := notify.NewRedisRelay(client, hub, notify.DefaultChannel)
			go func() {
				if err := relay.Run(ctx); err != nil {
					logrus.WithError(err).Error("Notification relay stopped")
				}
			}()
			notifier = relay
		}
		defer client.Close()
	}

	jwt := middleware.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	commissions := commission.NewService(st)

	r := routes.SetupRouter(routes.Handlers{
		JWT: jwt,
		Auth: controllers.NewAuthController(
			accounts.NewService(st, accounts.Options{StartingBalance: cfg.PassengerStartingBalance}),
			jwt,
		),
		Payments: controllers.NewPaymentController(
			payments.NewService(st, notifier, payments.Options{MaxGroupSize: cfg.MaxGroupSize}),
		),
		Routes:      controllers.NewRouteController(fare.NewService(st)),
		Vehicles:    controllers.NewVehicleController(fleet.NewService(st)),
		Wallet:      controllers.NewWalletController(wallet.NewLedger(st)),
		Dashboards:  controllers.NewDashboardController(earnings.NewService(st, commissions, time.Now)),
		Commissions: controllers.NewCommissionController(commissions),
		WebSocket:   controllers.NewWebSocketController(hub, jwt, cfg.CORSOrigins),
		RequestLog:  requestLog,
	})

	// Wrap with CORS
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           middleware.EnableCORS(cfg.CORSOrigins, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":  cfg.HTTPAddr,
		"store": cfg.StoreDriver,
	}).Info("🚀 Server running")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("Server stopped")
	}
	logrus.Info("Server stopped")
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	db, err := config.InitDB(cfg.DB, logger.GormLogger())
	if err != nil {
		return nil, err
	}
	logrus.Info("Connected to database")
	return postgres.New(db), nil
}
