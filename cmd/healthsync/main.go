package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"healthsync/common/database"
	"healthsync/common/logger"
	"healthsync/common/mqtt"
	rediscommon "healthsync/common/redis"
	"healthsync/internal/config"
	"healthsync/internal/events"
	"healthsync/internal/files"
	httpapi "healthsync/internal/http"
	"healthsync/internal/repository"
	"healthsync/internal/service"
	"healthsync/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "healthsync")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("healthsync exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var redisClient *rediscommon.Client
	if cfg.Storage.Backend == config.BackendRedis || cfg.Events.Sink == config.SinkRedis {
		redisClient = rediscommon.NewRedisClient(&cfg.Redis)
		closers = append(closers, func() { _ = rediscommon.Close(redisClient) })
		if err := rediscommon.Ping(ctx, redisClient); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}

	kv, err := openKV(ctx, cfg, redisClient, &closers, log)
	if err != nil {
		return err
	}
	records := store.NewRecordStore(kv, log)
	secure := store.NewRecordStore(store.NewPrefixKV(kv, cfg.Storage.SecurePrefix), log)

	fileStore, err := openFiles(ctx, cfg)
	if err != nil {
		return err
	}

	publisher, err := openPublisher(cfg, redisClient, log)
	if err != nil {
		return err
	}
	closers = append(closers, func() { _ = publisher.Close() })

	repo := repository.NewRecordRepository(records)
	creds := repository.NewSecureRepository(secure)

	accounts := make([]service.Credential, 0, len(cfg.Auth.Accounts))
	for _, a := range cfg.Auth.Accounts {
		accounts = append(accounts, service.Credential{Account: a.Account, Password: a.Password})
	}
	biometric := service.NewStaticBiometric(cfg.Biometric.Hardware, cfg.Biometric.Enrolled, service.ParseBiometricResult(cfg.Biometric.Result))

	vitals := service.NewVitalsGenerator(cfg.Device.VitalsInterval, log)
	appointments := service.NewAppointmentService(repo, publisher, log)
	reports := service.NewReportService(repo, repo, fileStore, publisher, log)
	devices := service.NewDeviceService(repo, vitals, publisher, service.DeviceServiceConfig{
		ScanDelay:    noneIfZero(cfg.Device.ScanDelay),
		ConnectDelay: noneIfZero(cfg.Device.ConnectDelay),
	}, log)
	auth := service.NewAuthService(accounts, creds, biometric, publisher, log)
	dashboard := service.NewDashboardService(reports, appointments, devices)
	export := service.NewExportService(reports, appointments)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(auth, log))
	router.RegisterAppointmentRoutes(httpapi.NewAppointmentsHandler(appointments, export, log))
	router.RegisterReportRoutes(httpapi.NewReportsHandler(reports, export, log))
	router.RegisterDeviceRoutes(httpapi.NewDevicesHandler(devices, log))
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(dashboard, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return vitals.Run(gctx)
	})
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	log.Info("healthsync started",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("files", cfg.Files.Backend),
		zap.String("events", cfg.Events.Sink),
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func noneIfZero(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

func openKV(ctx context.Context, cfg *config.Config, redisClient *rediscommon.Client, closers *[]func(), log *zap.Logger) (store.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("Using in-memory storage; records are lost on restart")
		return store.NewMemoryKV(), nil
	case config.BackendRedis:
		return store.NewRedisKV(redisClient), nil
	case config.BackendSQLite, config.BackendPostgres:
		dbCfg := cfg.Database
		dbCfg.Driver = cfg.Storage.Backend
		db, err := database.Open(&dbCfg)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		*closers = append(*closers, func() { _ = database.Close(db) })

		dialect, err := store.DialectFor(dbCfg.Driver)
		if err != nil {
			return nil, err
		}
		kv := store.NewSQLKV(db, dialect)
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("database schema: %w", err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func openFiles(ctx context.Context, cfg *config.Config) (files.Store, error) {
	if cfg.Files.Backend == config.FilesS3 {
		return files.NewS3Store(ctx, cfg.Files.S3)
	}
	return files.NewLocalStore(cfg.Files.Dir)
}

func openPublisher(cfg *config.Config, redisClient *rediscommon.Client, log *zap.Logger) (events.Publisher, error) {
	switch cfg.Events.Sink {
	case config.SinkRedis:
		return events.NewRedisStreamPublisher(redisClient, cfg.Events.Stream, cfg.Events.StreamMaxLen), nil
	case config.SinkMQTT:
		client, err := mqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			return nil, err
		}
		return events.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS), nil
	case config.SinkKafka:
		return events.NewKafkaPublisher(cfg.Kafka)
	case config.SinkNone:
		return events.NewLogPublisher(zap.NewNop()), nil
	default:
		return events.NewLogPublisher(log), nil
	}
}
