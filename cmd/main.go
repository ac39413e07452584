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

	cancelBookingHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/cancel_booking"
	catalogHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/catalog"
	cleanupExpiredHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/cleanup_expired"
	createBookingHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/create_booking"
	getAvailableHoursHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/get_available_hours"
	getBarberBookingsHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/get_barber_bookings"
	getBookingHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/get_booking"
	getScheduleHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/get_user_bookings"
	holdsHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/holds"
	nextAvailableSlotHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/next_available_slot"
	paymentCallbackHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/payment_callback"
	paymentWebhookHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/payment_webhook"
	updateScheduleHandler "github.com/dpereira25/AgendaBarber/internal/api/handlers/update_schedule"
	"github.com/dpereira25/AgendaBarber/internal/api/middleware"
	"github.com/dpereira25/AgendaBarber/internal/config"
	bookingRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/booking"
	catalogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/catalog"
	holdRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/hold"
	paymentRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/payment"
	scheduleRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/schedule"
	webhookLogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/webhooklog"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	bookingsService "github.com/dpereira25/AgendaBarber/internal/service/bookings"
	cleanupService "github.com/dpereira25/AgendaBarber/internal/service/cleanup"
	holdsService "github.com/dpereira25/AgendaBarber/internal/service/holds"
	scheduleService "github.com/dpereira25/AgendaBarber/internal/service/schedule"
	createBookingUC "github.com/dpereira25/AgendaBarber/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/dpereira25/AgendaBarber/internal/usecase/get_available_slots"
	nextAvailableSlotUC "github.com/dpereira25/AgendaBarber/internal/usecase/next_available_slot"
	reconcilePaymentUC "github.com/dpereira25/AgendaBarber/internal/usecase/reconcile_payment"
	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/logger"
	"github.com/dpereira25/AgendaBarber/pkg/metrics"
	"github.com/dpereira25/AgendaBarber/pkg/simpletxmanager"
	"github.com/dpereira25/AgendaBarber/pkg/txmanager"
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

	log.Info("Starting AgendaBarber booking service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Платежный провайдер
	// Без access token работаем в dev-режиме: записи создаются без оплаты
	paymentEnabled := cfg.MercadoPago.IsConfigured()
	mpClient := mercadopago.NewClient(
		cfg.MercadoPago.BaseURL,
		cfg.MercadoPago.AccessToken,
		time.Duration(cfg.MercadoPago.Timeout)*time.Second,
		log,
	)
	if paymentEnabled {
		log.Info("MercadoPago client initialized (sandbox=%t, mode=%s)", cfg.MercadoPago.Sandbox, cfg.MercadoPago.Mode)
	} else {
		log.Warn("MercadoPago access token is empty: payment flow disabled, bookings will be created unpaid")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		holdRepository       *holdRepo.Repository
		catalogRepository    *catalogRepo.Repository
		scheduleRepository   *scheduleRepo.Repository
		paymentRepository    *paymentRepo.Repository
		webhookLogRepository *webhookLogRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		holdRepository = holdRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		webhookLogRepository = webhookLogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		holdRepository = holdRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		webhookLogRepository = webhookLogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	holdTTL := time.Duration(cfg.Booking.HoldTTLMinutes) * time.Minute
	sweepInterval := time.Duration(cfg.Booking.SweepIntervalMinutes) * time.Minute
	cancelLeadTime := time.Duration(cfg.Booking.CancelLeadTimeHours) * time.Hour

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		&bookingsService.RealTimeProvider{},
		cancelLeadTime,
		log,
	)
	holdSvc := holdsService.NewService(
		holdRepository,
		bookingRepository,
		holdTTL,
		&holdsService.RealTimeProvider{},
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		catalogRepository,
		log,
	)
	cleanupSvc := cleanupService.NewService(
		holdRepository,
		webhookLogRepository,
		bookingRepository,
		sweepInterval,
		cfg.Booking.WebhookLogRetentionDays,
		&cleanupService.RealTimeProvider{},
		log,
		metricsCollector,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		holdRepository,
		catalogRepository,
		scheduleSvc,
		cleanupSvc,
		cfg.Booking.SlotGranularityMinutes,
		log,
	)

	nextAvailableSlotUseCase := nextAvailableSlotUC.NewUseCase(
		getAvailableSlotsUseCase,
		cfg.Booking.SearchHorizonDays,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		holdRepository,
		catalogRepository,
		scheduleSvc,
		mpClient,
		cleanupSvc,
		txMgr,
		createBookingUC.Config{
			HoldTTL:         holdTTL,
			PaymentEnabled:  paymentEnabled,
			Sandbox:         cfg.MercadoPago.Sandbox,
			Currency:        cfg.MercadoPago.Currency,
			NotificationURL: cfg.MercadoPago.NotificationURL,
			SuccessURL:      cfg.MercadoPago.SuccessURL,
			FailureURL:      cfg.MercadoPago.FailureURL,
			PendingURL:      cfg.MercadoPago.PendingURL,
		},
		log,
		metricsCollector,
	)

	reconcilePaymentUseCase := reconcilePaymentUC.NewUseCase(
		paymentRepository,
		holdRepository,
		bookingRepository,
		catalogRepository,
		webhookLogRepository,
		mpClient,
		txMgr,
		reconcilePaymentUC.Config{
			WebhookSecret: cfg.MercadoPago.WebhookSecret,
		},
		log,
		metricsCollector,
	)

	// Инициализируем handlers
	getAvailableHours := getAvailableHoursHandler.NewHandler(getAvailableSlotsUseCase, log)
	nextAvailableSlot := nextAvailableSlotHandler.NewHandler(nextAvailableSlotUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBarberBookings := getBarberBookingsHandler.NewHandler(bookingSvc, log)
	holdsH := holdsHandler.NewHandler(holdSvc, log)
	catalogH := catalogHandler.NewHandler(catalogRepository, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	paymentCallback := paymentCallbackHandler.NewHandler(reconcilePaymentUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(reconcilePaymentUseCase, log)
	cleanupExpired := cleanupExpiredHandler.NewHandler(cleanupSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Справочник для формы записи
	api.HandleFunc("/barbers", catalogH.HandleListBarbers).Methods(http.MethodGet)
	api.HandleFunc("/services", catalogH.HandleListServices).Methods(http.MethodGet)

	// Доступные часы и ближайший свободный слот
	api.HandleFunc("/barbers/{id}/available-hours", getAvailableHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/barbers/{id}/next-available-slot", nextAvailableSlot.Handle).Methods(http.MethodGet)

	// Рабочее расписание барбера
	api.HandleFunc("/barbers/{id}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Удержания текущей сессии (checkout-страница)
	api.HandleFunc("/holds", holdsH.HandleGetActive).Methods(http.MethodGet)
	api.HandleFunc("/holds/{id}/extend", holdsH.HandleExtend).Methods(http.MethodPost)

	// Возврат с checkout-страницы и вебхук провайдера
	api.HandleFunc("/payments/callback", paymentCallback.Handle).Methods(http.MethodGet)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{id}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет барбера ---
	protected.HandleFunc("/barbers/{id}/bookings", getBarberBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/barbers/{id}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// --- Администрирование ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/cleanup-expired", cleanupExpired.Handle).Methods(http.MethodPost)

	// Фоновая чистка: истекшие удержания, статусы записей, старые журналы
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	go cleanupSvc.RunPeriodic(cleanupCtx, sweepInterval)

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

	cancelCleanup()

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
