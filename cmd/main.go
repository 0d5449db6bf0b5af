package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAreaReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_area_reservations"
	getAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_availability"
	getMyReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_my_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	reprogramReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reprogram_reservation"
	updateReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/infra/cache/availability"
	areaRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/area"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/audit"
	tenancyServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/tenancyservice"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
	updateReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// availabilityCache общий интерфейс Redis и no-op реализаций
type availabilityCache interface {
	Get(ctx context.Context, areaID int64, date time.Time, dst interface{}) (bool, error)
	Version(ctx context.Context, areaID int64, date time.Time) (int64, error)
	Set(ctx context.Context, areaID int64, date time.Time, version int64, value interface{}) (bool, error)
	Invalidate(ctx context.Context, areaID int64, date time.Time) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log = log.WithField("service", cfg.Metrics.ServiceName)

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Reservations.Location()
	if err != nil {
		log.Fatal("Failed to load reservations timezone %q: %v", cfg.Reservations.Timezone, err)
	}

	// Инициализируем метрики (если включены). nil-коллектор отключает учёт
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	areaRepository := areaRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)

	// Инициализируем интеграционных клиентов
	tenancyClient := tenancyServiceClient.NewClient(
		cfg.TenancyService.URL,
		time.Duration(cfg.TenancyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (TenancyService=%s timeout=%ds)",
		cfg.TenancyService.URL, cfg.TenancyService.Timeout)

	// Кэш доступности
	var (
		cache       availabilityCache = availability.NoopCache{}
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = availability.NewClient(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		cache = availability.NewRedisCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)
		log.Info("Availability cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Доставка событий аудита
	sink, err := newAuditSink(cfg.Audit, log)
	if err != nil {
		log.Fatal("Failed to initialize audit sink: %v", err)
	}
	auditDispatcher := audit.NewDispatcher(sink, time.Duration(cfg.Audit.Timeout)*time.Second, log)
	log.Info("Audit driver: %s", cfg.Audit.Driver)

	timeProvider := &slotvalidator.RealTimeProvider{Location: location}
	validator := slotvalidator.NewValidator(areaRepository, reservationRepository, timeProvider, log)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		areaRepository,
		txMgr,
		auditDispatcher,
		cache,
		metricsCollector,
		timeProvider,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		areaRepository,
		reservationRepository,
		cache,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		areaRepository,
		validator,
		tenancyClient,
		txMgr,
		auditDispatcher,
		cache,
		metricsCollector,
		timeProvider,
		log,
	)

	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		areaRepository,
		validator,
		txMgr,
		auditDispatcher,
		cache,
		metricsCollector,
		timeProvider,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	reprogramReservation := reprogramReservationHandler.NewHandler(updateReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getMyReservations := getMyReservationsHandler.NewHandler(reservationSvc, log)
	getAreaReservations := getAreaReservationsHandler.NewHandler(reservationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все маршруты API требуют аутентификации
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(cfg.Auth.JWTSecret))
	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT secret is empty, trusting X-User-ID / X-User-Staff headers")
	}

	// --- Доступность ---
	api.HandleFunc("/reservations/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Бронирования пользователя ---
	api.HandleFunc("/reservations/mine", getMyReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reservationId:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId:[0-9]+}", updateReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId:[0-9]+}/cancel", cancelReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reservationId:[0-9]+}/reprogram", reprogramReservation.Handle).Methods(http.MethodPost)

	// --- Администрация ---
	api.HandleFunc("/areas/{areaId:[0-9]+}/reservations", getAreaReservations.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	// Дожидаемся доставки событий аудита
	if err := auditDispatcher.Close(); err != nil {
		log.Error("Failed to close audit sink: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}

// newAuditSink выбирает транспорт событий аудита по драйверу из конфигурации
func newAuditSink(cfg config.AuditConfig, log *logger.Logger) (audit.Sink, error) {
	switch cfg.Driver {
	case config.AuditDriverKafka:
		return audit.NewKafkaSink(cfg.Brokers, cfg.Topic), nil
	case config.AuditDriverRabbitMQ:
		return audit.NewRabbitSink(cfg.AMQPURL, cfg.Queue)
	case config.AuditDriverLog, "":
		return audit.NewLogSink(log), nil
	default:
		return nil, fmt.Errorf("unknown audit driver %q", cfg.Driver)
	}
}
