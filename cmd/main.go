package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	climberTokenActionHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/climber_token_action"
	createBookingHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/delete_booking"
	deleteClimberTokenHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/delete_climber_token"
	getBookingHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/get_booking"
	getClimberDetailsHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/get_climber_details"
	getClimberTokensHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/get_climber_tokens"
	getAvailabilityHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/get_departure_availability"
	getManageClimbersHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/get_manage_climbers"
	listDepartureBookingsHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/list_departure_bookings"
	sendRemindersHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/send_reminders"
	submitClimberDetailsHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/submit_climber_details"
	submitManageClimbersHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/submit_manage_climbers"
	updateBookingHandler "github.com/m04kA/TrekBookingService/internal/api/handlers/update_booking"
	"github.com/m04kA/TrekBookingService/internal/api/middleware"
	"github.com/m04kA/TrekBookingService/internal/config"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	climberRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climber"
	tokenRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climbertoken"
	commissionRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/commission"
	departureRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/departure"
	newsletterRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/newsletter"
	notificationRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/notification"
	outboxRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/outbox"
	"github.com/m04kA/TrekBookingService/internal/integrations/emailservice"
	bookingsService "github.com/m04kA/TrekBookingService/internal/service/bookings"
	climberDetailsService "github.com/m04kA/TrekBookingService/internal/service/climberdetails"
	climberTokensService "github.com/m04kA/TrekBookingService/internal/service/climbertokens"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	createBookingUC "github.com/m04kA/TrekBookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/TrekBookingService/internal/usecase/get_departure_availability"
	issueTokensUC "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
	sendRemindersUC "github.com/m04kA/TrekBookingService/internal/usecase/send_climber_reminders"
	outboxWorker "github.com/m04kA/TrekBookingService/internal/worker/outbox"
	"github.com/m04kA/TrekBookingService/migrations"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/logger"
	"github.com/m04kA/TrekBookingService/pkg/metrics"
	"github.com/m04kA/TrekBookingService/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
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

	log.Info("Starting TrekBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics безопасен: все методы ничего не делают
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

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(context.Background(), db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database schema is up to date")
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	departureRepository := departureRepo.NewRepository(wrappedDB)
	climberRepository := climberRepo.NewRepository(wrappedDB)
	tokenRepository := tokenRepo.NewRepository(wrappedDB)
	commissionRepository := commissionRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	newsletterRepository := newsletterRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Интеграции
	emailClient := emailservice.NewClient(
		cfg.Email.APIURL,
		cfg.Email.APIKey,
		cfg.Email.From,
		time.Duration(cfg.Email.Timeout)*time.Second,
		log,
	)
	log.Info("Email client initialized (url=%s, timeout=%ds)", cfg.Email.APIURL, cfg.Email.Timeout)

	// Уведомления и письма
	notifierSvc := notifier.NewService(outboxRepository, notificationRepository, newsletterRepository, log)
	composer := notifier.NewComposer(cfg.Site.BaseURL, cfg.Site.CompanyName, cfg.Email.StaffEmail)

	// Инициализируем use cases
	issueTokensUseCase := issueTokensUC.NewUseCase(
		bookingRepository,
		departureRepository,
		climberRepository,
		tokenRepository,
		notifierSvc,
		composer,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		departureRepository,
		climberRepository,
		commissionRepository,
		notifierSvc,
		composer,
		txMgr,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		departureRepository,
		log,
	)

	sendRemindersUseCase := sendRemindersUC.NewUseCase(
		tokenRepository,
		bookingRepository,
		departureRepository,
		notifierSvc,
		composer,
		metricsCollector,
		txMgr,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		departureRepository,
		commissionRepository,
		issueTokensUseCase,
		notifierSvc,
		txMgr,
		log,
	)
	climberTokensSvc := climberTokensService.NewService(
		bookingRepository,
		departureRepository,
		climberRepository,
		tokenRepository,
		issueTokensUseCase,
		notifierSvc,
		composer,
		log,
	)
	climberDetailsSvc := climberDetailsService.NewService(
		bookingRepository,
		departureRepository,
		climberRepository,
		tokenRepository,
		notifierSvc,
		composer,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	listDepartureBookings := listDepartureBookingsHandler.NewHandler(bookingSvc, log)
	getClimberTokens := getClimberTokensHandler.NewHandler(climberTokensSvc, log)
	climberTokenAction := climberTokenActionHandler.NewHandler(climberTokensSvc, log)
	deleteClimberToken := deleteClimberTokenHandler.NewHandler(climberTokensSvc, log)
	getClimberDetails := getClimberDetailsHandler.NewHandler(climberDetailsSvc, log)
	submitClimberDetails := submitClimberDetailsHandler.NewHandler(climberDetailsSvc, log)
	getManageClimbers := getManageClimbersHandler.NewHandler(climberDetailsSvc, log)
	submitManageClimbers := submitManageClimbersHandler.NewHandler(climberDetailsSvc, log)
	sendReminders := sendRemindersHandler.NewHandler(sendRemindersUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := wrappedDB.PingContext(req.Context()); err != nil {
			log.Error("GET /health - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/departures/{id:[0-9]+}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Форма участника по токену
	api.HandleFunc("/climber-details/{token}", getClimberDetails.Handle).Methods(http.MethodGet)
	api.HandleFunc("/climber-details/{token}", submitClimberDetails.Handle).Methods(http.MethodPut)

	// Заполнение данных лидом (проверка по email)
	api.HandleFunc("/manage-climbers/{bookingRef}", getManageClimbers.Handle).Methods(http.MethodGet)
	api.HandleFunc("/manage-climbers/{bookingRef}", submitManageClimbers.Handle).Methods(http.MethodPut)

	// ============================================================
	// CRON ROUTES (общий секрет планировщика)
	// ============================================================

	cron := api.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.CronAuth(cfg.Auth.CronSecret, log))
	cron.HandleFunc("/climber-reminders", sendReminders.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (JWT: ADMIN, EDITOR, SALES)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Auth.JWTSecret, log))

	admin.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}", updateBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{id}", deleteBooking.Handle).Methods(http.MethodDelete)

	admin.HandleFunc("/bookings/{id}/climber-tokens", getClimberTokens.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}/climber-tokens", climberTokenAction.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/climber-tokens", deleteClimberToken.Handle).Methods(http.MethodDelete)

	admin.HandleFunc("/departures/{id}/bookings", listDepartureBookings.Handle).Methods(http.MethodGet)

	// Воркер очереди писем
	workerCtx, stopWorker := context.WithCancel(context.Background())
	dispatcher := outboxWorker.NewDispatcher(
		outboxRepository,
		emailClient,
		metricsCollector,
		outboxWorker.Config{
			PollInterval: time.Duration(cfg.Outbox.PollInterval) * time.Second,
			BatchSize:    cfg.Outbox.BatchSize,
			MaxAttempts:  cfg.Outbox.MaxAttempts,
			BaseBackoff:  time.Duration(cfg.Outbox.BaseBackoff) * time.Second,
		},
		log,
	)

	var workerWG sync.WaitGroup
	workerWG.Add(1)
	go func() {
		defer workerWG.Done()
		dispatcher.Run(workerCtx)
	}()

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

	// Воркер дописывает текущее письмо и выходит
	stopWorker()
	workerWG.Wait()
	log.Info("Outbox dispatcher stopped")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
