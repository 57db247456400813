package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/api"
	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/config"
	"github.com/hackgods/rural-care-scheduling/internal/db"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/lock"
	"github.com/hackgods/rural-care-scheduling/internal/logger"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
	"github.com/hackgods/rural-care-scheduling/internal/seed"
	"github.com/hackgods/rural-care-scheduling/internal/simulator"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.WithFields(logrus.Fields{"env": cfg.Env, "http_port": cfg.HTTPPort}).Info("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	roster, err := loadRoster(cfg.RosterFile)
	if err != nil {
		log.WithError(err).Fatal("roster load error")
	}

	doctors := doctor.NewDirectory(roster.Doctors, log.WithField("component", "doctors"))
	patients := patient.NewDirectory(roster.Patients, log.WithField("component", "patients"))
	queue := patient.NewQueue(patients, gofakeit.New(0), log.WithField("component", "emergencies"),
		patient.WithStaleAfter(cfg.StaleAfter))
	if err := roster.FillQueue(queue); err != nil {
		log.WithError(err).Fatal("emergency seed error")
	}

	var deps []api.Dependency

	var repo appointment.Repository
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, cfg.PostgresMaxConn)
		cancelPg()
		if err != nil {
			log.WithError(err).Fatal("postgres connection error")
		}
		defer pgPool.Close()
		log.Info("connected to Postgres")

		repo = appointment.NewPgRepository(pgPool)
		deps = append(deps, api.Dependency{Name: "postgres", Critical: true, Ping: pgPool.Ping})
	} else {
		repo = appointment.NewMemoryRepository(roster.Appointments)
		log.WithField("seeded", len(roster.Appointments)).Info("using in-memory appointment ledger")
	}

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		rdb, err := lock.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Fatal("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Warn("error closing redis")
			}
		}()
		log.Info("connected to Redis")

		locker = lock.NewRedisSlotLocker(rdb, cfg.LockTTL)
		deps = append(deps, api.Dependency{Name: "redis", Ping: redisPing(rdb)})
	} else {
		locker = lock.NewLocalSlotLocker()
		log.Info("using in-process slot locks")
	}

	svc := appointment.NewService(repo, locker, log.WithField("component", "appointments"))

	if cfg.SimulationEnabled {
		sim := simulator.New(queue, simulator.Config{
			SpawnMin:      cfg.SpawnMinInterval,
			SpawnMax:      cfg.SpawnMaxInterval,
			SweepInterval: cfg.SweepInterval,
			MaxPending:    cfg.MaxPendingEmergencies,
		}, gofakeit.New(0), log.WithField("component", "simulator"))
		handle := sim.Start(rootCtx)
		defer handle.Stop()
	}

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterConfig{
			Doctors:      doctors,
			Patients:     patients,
			Emergencies:  queue,
			Appointments: svc,
			Dependencies: deps,
			Log:          log,
			Env:          cfg.Env,
			Version:      version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server error")
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func loadRoster(path string) (seed.Roster, error) {
	if path == "" {
		return seed.Default(time.Now()), nil
	}
	return seed.LoadFile(path)
}

func redisPing(rdb *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
