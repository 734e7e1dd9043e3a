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

	checkConflictsHandler "github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers/check_conflicts"
	checkSlotConflictsHandler "github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers/check_slot_conflicts"
	finalizeBookingHandler "github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers/finalize_booking"
	generateAvailabilityHandler "github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers/generate_availability"
	listAvailableSlotsHandler "github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers/list_available_slots"
	reserveSlotHandler "github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers/reserve_slot"
	"github.com/Kilchi555/driving-team-app-sub004/internal/api/middleware"
	"github.com/Kilchi555/driving-team-app-sub004/internal/config"
	appointmentRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/appointment"
	scheduleRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/schedule"
	slotRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/slot"
	pricingClient "github.com/Kilchi555/driving-team-app-sub004/internal/integrations/pricing"
	routingClient "github.com/Kilchi555/driving-team-app-sub004/internal/integrations/routing"
	"github.com/Kilchi555/driving-team-app-sub004/internal/jobs"
	"github.com/Kilchi555/driving-team-app-sub004/internal/service/traveltime"
	checkConflictsUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/check_conflicts"
	checkSlotConflictsUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/check_slot_conflicts"
	finalizeBookingUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/finalize_booking"
	generateAvailabilityUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/generate_availability"
	listAvailableSlotsUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/list_available_slots"
	reserveSlotUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/reserve_slot"
	sweepReservationsUC "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/sweep_reservations"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/dbmetrics"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/logger"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/metrics"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/simpletxmanager"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/txmanager"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/types"
)

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

	log.Info("Starting AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
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

	// Подключаемся к Redis (кеш времени в пути)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Недоступный Redis не блокирует старт: кеш деградирует до прямых вызовов
		log.Warn("Redis unavailable at startup, travel-time cache degraded: %v", err)
	} else {
		log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	}

	// Инициализируем интеграционных клиентов
	routing := routingClient.NewClient(
		cfg.Routing.URL,
		time.Duration(cfg.Routing.Timeout)*time.Second,
		log,
	)
	pricing := pricingClient.NewClient(
		cfg.Pricing.URL,
		time.Duration(cfg.Pricing.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (RoutingService=%s timeout=%ds, PricingService=%s timeout=%ds)",
		cfg.Routing.URL, cfg.Routing.Timeout, cfg.Pricing.URL, cfg.Pricing.Timeout)

	// Пиковые окна для корзин времени в пути
	morningPeak, eveningPeak, err := peakWindows(cfg)
	if err != nil {
		log.Fatal("Invalid peak window configuration: %v", err)
	}

	travelTimeSvc := traveltime.NewService(
		traveltime.NewRedisCache(redisClient),
		routing,
		morningPeak,
		eveningPeak,
		time.Duration(cfg.Travel.CacheTTLHours)*time.Hour,
		metricsCollector,
		log,
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	// Инициализируем репозитории (с метриками или без)
	var (
		slots        *slotRepo.Repository
		appointments *appointmentRepo.Repository
		schedules    *scheduleRepo.Repository
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slots = slotRepo.NewRepository(wrappedDB)
		appointments = appointmentRepo.NewRepository(wrappedDB)
		schedules = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slots = slotRepo.NewRepository(db)
		appointments = appointmentRepo.NewRepository(db)
		schedules = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем use cases
	generateAvailabilityUseCase := generateAvailabilityUC.NewUseCase(
		schedules,
		appointments,
		slots,
		time.Duration(cfg.Jobs.TenantBudgetSeconds)*time.Second,
		metricsCollector,
		log,
	)

	listAvailableSlotsUseCase := listAvailableSlotsUC.NewUseCase(slots, log)

	checkConflictsUseCase := checkConflictsUC.NewUseCase(appointments, log)

	checkSlotConflictsUseCase := checkSlotConflictsUC.NewUseCase(appointments, travelTimeSvc, log)

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		slots,
		time.Duration(cfg.Reservation.DefaultTTLMinutes)*time.Minute,
		time.Duration(cfg.Reservation.MaxTTLMinutes)*time.Minute,
		metricsCollector,
		log,
	)

	finalizeBookingUseCase := finalizeBookingUC.NewUseCase(
		slots,
		appointments,
		pricing,
		txMgr,
		metricsCollector,
		&finalizeBookingUC.RealTimeProvider{},
		log,
	)

	sweepReservationsUseCase := sweepReservationsUC.NewUseCase(
		slots,
		metricsCollector,
		&sweepReservationsUC.RealTimeProvider{},
		log,
	)

	// Инициализируем handlers
	listAvailableSlots := listAvailableSlotsHandler.NewHandler(listAvailableSlotsUseCase, log)
	checkConflicts := checkConflictsHandler.NewHandler(checkConflictsUseCase, log)
	checkSlotConflicts := checkSlotConflictsHandler.NewHandler(checkSlotConflictsUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	finalizeBooking := finalizeBookingHandler.NewHandler(finalizeBookingUseCase, log)
	generateAvailability := generateAvailabilityHandler.NewHandler(generateAvailabilityUseCase, log)

	// Запускаем планировщик фоновых задач
	scheduler := jobs.NewScheduler(generateAvailabilityUseCase, sweepReservationsUseCase, cfg.Jobs.HorizonDays, log)
	if err := scheduler.Start(cfg.Jobs.GenerationSpec, cfg.Jobs.SweepSpec); err != nil {
		log.Fatal("Failed to start job scheduler: %v", err)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог доступных слотов
	api.HandleFunc("/tenants/{tenantId}/available-slots",
		listAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Прямая проверка календаря инструктора
	protected.HandleFunc("/tenants/{tenantId}/staff/{staffId}/conflicts",
		checkConflicts.Handle).Methods(http.MethodGet)

	// Travel-aware batch-проверка кандидатов
	protected.HandleFunc("/slot-conflicts", checkSlotConflicts.Handle).Methods(http.MethodPost)

	// Резервирование слота на время checkout
	protected.HandleFunc("/slots/{slotId}/reserve", reserveSlot.Handle).Methods(http.MethodPost)

	// ============================================================
	// INTERNAL ROUTES (service-to-service)
	// ============================================================

	internal := r.PathPrefix("/internal/v1").Subrouter()

	// События платежей от payment-провайдера
	internal.HandleFunc("/payments/events", finalizeBooking.Handle).Methods(http.MethodPost)

	// Ручной запуск генерации слотов
	internal.HandleFunc("/availability/generate", generateAvailability.Handle).Methods(http.MethodPost)

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

	// Останавливаем фоновые задачи
	scheduler.Stop()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// peakWindows парсит пиковые окна из конфигурации
func peakWindows(cfg *config.Config) (traveltime.PeakWindow, traveltime.PeakWindow, error) {
	var morning, evening traveltime.PeakWindow

	morningStart, err := types.NewTimeStringFromString(cfg.Travel.MorningPeakStart)
	if err != nil {
		return morning, evening, fmt.Errorf("morning_peak_start: %w", err)
	}
	morningEnd, err := types.NewTimeStringFromString(cfg.Travel.MorningPeakEnd)
	if err != nil {
		return morning, evening, fmt.Errorf("morning_peak_end: %w", err)
	}
	eveningStart, err := types.NewTimeStringFromString(cfg.Travel.EveningPeakStart)
	if err != nil {
		return morning, evening, fmt.Errorf("evening_peak_start: %w", err)
	}
	eveningEnd, err := types.NewTimeStringFromString(cfg.Travel.EveningPeakEnd)
	if err != nil {
		return morning, evening, fmt.Errorf("evening_peak_end: %w", err)
	}

	morning = traveltime.PeakWindow{Start: morningStart, End: morningEnd}
	evening = traveltime.PeakWindow{Start: eveningStart, End: eveningEnd}
	return morning, evening, nil
}
