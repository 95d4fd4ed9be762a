package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/driver"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/notify"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/safety"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/server"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/auth"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/authz"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/db"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/mq"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/redisdb"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/ws"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

const serviceName = "nova-server"

func main() {
	// .env нужен только для локальной разработки
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.NewLoggerWithOptions(serviceName, cfg.Log.Level, cfg.Log.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ==== Инфраструктура ====
	pool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{Action: "db_connect_failed", Message: err.Error()})
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal(logger.Entry{Action: "db_migrate_failed", Message: err.Error()})
	}

	rdb := redisdb.New(cfg.Redis)
	if err := rdb.Ping(ctx); err != nil {
		log.Fatal(logger.Entry{Action: "redis_connect_failed", Message: err.Error()})
	}
	defer rdb.Close()

	broker, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{Action: "rabbitmq_connect_failed", Message: err.Error()})
	}
	defer broker.Close()

	if err := mq.SetupTopology(broker, log); err != nil {
		log.Fatal(logger.Entry{Action: "mq_topology_failed", Message: err.Error()})
	}

	enforcer, err := authz.New()
	if err != nil {
		log.Fatal(logger.Entry{Action: "authz_init_failed", Message: err.Error()})
	}

	jwtSvc := auth.NewJWTService(cfg.JWT)
	passwords := auth.NewPasswordService()

	// ==== Real-time канал ====
	hub := ws.NewHub(jwtSvc.ExtractUserID, cfg.Server.AllowedOrigins, log)
	go hub.Run(ctx)

	notifier := notify.NewAMQPNotifier(broker, log)
	consumer := notify.NewConsumer(broker, hub, log)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Error(logger.Entry{
				Action:  "notify_consumer_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	// ==== Домены ====
	userRepo := user.NewPgRepository(pool, log)
	userSvc := user.NewService(userRepo, jwtSvc, passwords, user.NewGoogleVerifier(cfg.Google), log)

	rideRepo := ride.NewPgRepository(pool, log)
	driverRepo := driver.NewPgRepository(pool, log)
	sms := safety.NewSender(cfg.Twilio, log)

	rideSvc := ride.NewService(rideRepo, rdb, driverRepo, userRepo, sms, notifier, log)
	driverSvc := driver.NewService(driverRepo, rdb, rideRepo, notifier, log)
	safetySvc := safety.NewService(userRepo, rideRepo, sms, notifier, log)

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		JWT:      jwtSvc,
		Enforcer: enforcer,
		Hub:      hub,
		Health: map[string]server.HealthCheck{
			"database": pool.Ping,
			"redis":    rdb.Ping,
			"rabbitmq": func(context.Context) error {
				if broker.Channel() == nil {
					return errors.New("channel not available")
				}
				return nil
			},
		},
		Users:    user.NewHandler(userSvc, log),
		Rides:    ride.NewHandler(rideSvc, log),
		Drivers:  driver.NewHandler(driverSvc, log),
		Safety:   safety.NewHandler(safetySvc, log),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "server_started",
			Message: srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(logger.Entry{Action: "server_failed", Message: err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "shutdown_started", Message: "signal received"})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "shutdown_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	log.Info(logger.Entry{Action: "shutdown_complete", Message: "bye"})
}
