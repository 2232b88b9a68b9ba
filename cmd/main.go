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
	"github.com/robfig/cron/v3"

	cancelBookingHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/create_booking"
	createSlotHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/create_slot"
	getBookingHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/list_bookings"
	listSlotsHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/list_slots"
	updateBookingStatusHandler "github.com/nowly-app/Nowly-BookingService/internal/api/handlers/update_booking_status"
	"github.com/nowly-app/Nowly-BookingService/internal/api/middleware"
	"github.com/nowly-app/Nowly-BookingService/internal/config"
	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	bookingRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/slot"
	"github.com/nowly-app/Nowly-BookingService/internal/integrations/geocoder"
	bookingsService "github.com/nowly-app/Nowly-BookingService/internal/service/bookings"
	jobsService "github.com/nowly-app/Nowly-BookingService/internal/service/jobs"
	notifyService "github.com/nowly-app/Nowly-BookingService/internal/service/notify"
	slotsService "github.com/nowly-app/Nowly-BookingService/internal/service/slots"
	createBookingUC "github.com/nowly-app/Nowly-BookingService/internal/usecase/create_booking"
	"github.com/nowly-app/Nowly-BookingService/pkg/auth"
	"github.com/nowly-app/Nowly-BookingService/pkg/dbmetrics"
	"github.com/nowly-app/Nowly-BookingService/pkg/logger"
	"github.com/nowly-app/Nowly-BookingService/pkg/metrics"
	"github.com/nowly-app/Nowly-BookingService/pkg/simpletxmanager"
	"github.com/nowly-app/Nowly-BookingService/pkg/txmanager"
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

	log.Info("Starting Nowly-BookingService...")
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

	// Инициализируем проверку токенов
	authManager, err := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatal("Failed to initialize auth manager: %v", err)
	}

	// Инициализируем клиент геокодера (если включен)
	var geocoderClient slotsService.GeocoderClient
	if cfg.Geocoder.Enabled {
		geocoderClient = geocoder.NewClient(
			cfg.Geocoder.URL,
			time.Duration(cfg.Geocoder.Timeout)*time.Second,
			log,
		)
		log.Info("Geocoder client initialized (url=%s, timeout=%ds)", cfg.Geocoder.URL, cfg.Geocoder.Timeout)
	}

	// Режим предотвращения двойного бронирования
	bookingMode := domain.BookingMode(cfg.Booking.Mode)
	log.Info("Booking mode: %s", bookingMode)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		slotRepository    *slotRepo.Repository
	)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервис уведомлений (если включен)
	var notifier createBookingUC.Notifier
	if cfg.Notifications.Enabled {
		notifier = notifyService.NewService(
			cfg.Notifications.SendgridAPIKey,
			cfg.Notifications.FromEmail,
			cfg.Notifications.FromName,
			log,
		)
		log.Info("Email notifications enabled (from=%s)", cfg.Notifications.FromEmail)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, geocoderClient, log)
	bookingSvc := bookingsService.NewService(bookingRepository, slotRepository, txMgr, bookingMode, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		notifier,
		bookingMode,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	listSlots := listSlotsHandler.NewHandler(slotSvc, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)

	// Запускаем фоновую задачу автозавершения бронирований (если включена)
	var cronRunner *cron.Cron
	if cfg.Jobs.AutoCompleteEnabled {
		jobsSvc := jobsService.NewService(bookingRepository, &createBookingUC.RealTimeProvider{}, log)

		cronRunner = cron.New()
		if _, err := cronRunner.AddFunc(cfg.Jobs.AutoCompleteSchedule, func() {
			if err := jobsSvc.AutoCompletePastBookings(context.Background()); err != nil {
				log.Error("Auto-complete job failed: %v", err)
			}
		}); err != nil {
			log.Fatal("Failed to schedule auto-complete job: %v", err)
		}

		cronRunner.Start()
		log.Info("Auto-complete job scheduled (%s)", cfg.Jobs.AutoCompleteSchedule)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Список доступных слотов для карты и списка
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authManager))

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID (владелец или провайдер)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования (владелец или провайдер)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований текущего пользователя
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Операции провайдера ---
	provider := protected.PathPrefix("").Subrouter()
	provider.Use(middleware.RequireProvider)

	// Список всех бронирований
	provider.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Обновление статуса бронирования
	provider.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Создание слота
	provider.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)

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

	// Останавливаем cron
	if cronRunner != nil {
		cronRunner.Stop()
		log.Info("Auto-complete job stopped")
	}

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
