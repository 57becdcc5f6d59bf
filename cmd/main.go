package main

import (
	"context"
	"database/sql"
	"flag"
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
	"github.com/rs/cors"

	checkConflictHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/check_conflict"
	createBookingHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/delete_booking"
	deleteExternalNoteHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/delete_external_note"
	getICalFeedHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/get_ical_feed"
	getMonthDaysHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/get_month_days"
	listCalendarsHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/list_calendars"
	updateBookingHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/update_booking"
	upsertExternalNoteHandler "github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers/upsert_external_note"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/middleware"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/config"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/infra/feed"
	bookingRepo "github.com/m04kA/SMC-ApartmentCalendar/internal/infra/storage/booking"
	externalNoteRepo "github.com/m04kA/SMC-ApartmentCalendar/internal/infra/storage/externalnote"
	bookingsService "github.com/m04kA/SMC-ApartmentCalendar/internal/service/bookings"
	calendarsService "github.com/m04kA/SMC-ApartmentCalendar/internal/service/calendars"
	feedsService "github.com/m04kA/SMC-ApartmentCalendar/internal/service/feeds"
	createBookingUC "github.com/m04kA/SMC-ApartmentCalendar/internal/usecase/create_booking"
	updateBookingUC "github.com/m04kA/SMC-ApartmentCalendar/internal/usecase/update_booking"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/logger"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/metrics"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/txmanager"
)

// feedRefreshTimeout ограничение на один проход фонового обновления каналов
const feedRefreshTimeout = 2 * time.Minute

// recorder метрики доменных событий. При выключенных метриках - metrics.Nop.
type recorder interface {
	ObserveFeedFetch(apartment, result string)
	ObserveConflict(operation string)
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-ApartmentCalendar...")
	log.Info("Configuration loaded from %s", *configPath)

	apartments := cfg.DomainApartments()
	for _, apt := range apartments {
		log.Info("Apartment configured: key=%s, id=%s, feed=%t", apt.Key, apt.ID, apt.HasFeed())
	}

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		events           recorder = metrics.Nop{}
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		events = metricsCollector
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

	if metricsCollector != nil {
		metricsCollector.RegisterDB(db, cfg.Database.DBName)
		log.Info("Database pool metrics registered")
	}

	txMgr := txmanager.NewTransactionManager(db)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(db)
	noteRepository := externalNoteRepo.NewRepository(db)

	// iCal-каналы
	fetcher := feed.NewFetcher(
		time.Duration(cfg.Feeds.Timeout)*time.Second,
		cfg.Feeds.UserAgent,
		time.Duration(cfg.Feeds.CacheTTL)*time.Second,
		log,
	)
	feedSvc := feedsService.NewService(fetcher, apartments, feedsService.Config{
		PastDays:   cfg.Feeds.ExpandPastDays,
		FutureDays: cfg.Feeds.ExpandFutureDays,
	}, events, log)
	log.Info("Feed fetcher initialized (timeout=%ds, cache_ttl=%ds)", cfg.Feeds.Timeout, cfg.Feeds.CacheTTL)

	// Инициализируем сервисы
	calendarsSvc := calendarsService.NewService(bookingRepository, noteRepository, feedSvc, apartments, log)
	bookingsSvc := bookingsService.NewService(bookingRepository, noteRepository, apartments, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(bookingRepository, feedSvc, apartments, txMgr, events, log)
	updateBookingUseCase := updateBookingUC.NewUseCase(bookingRepository, feedSvc, apartments, txMgr, events, log)

	// Инициализируем handlers
	listCalendars := listCalendarsHandler.NewHandler(calendarsSvc, log)
	getMonthDays := getMonthDaysHandler.NewHandler(calendarsSvc, log)
	checkConflict := checkConflictHandler.NewHandler(calendarsSvc, log)
	getICalFeed := getICalFeedHandler.NewHandler(calendarsSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingsSvc, log)
	upsertExternalNote := upsertExternalNoteHandler.NewHandler(bookingsSvc, log)
	deleteExternalNote := deleteExternalNoteHandler.NewHandler(bookingsSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.AdminSubjects, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if metricsCollector != nil {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PUBLIC ROUTES (токен необязателен, без него только занятость)
	// ============================================================

	api := r.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(auth.OptionalAuth)

	public.HandleFunc("/calendars", listCalendars.Handle).Methods(http.MethodGet)
	public.HandleFunc("/v1/apartments/{apartmentKey}/days", getMonthDays.Handle).Methods(http.MethodGet)
	public.HandleFunc("/v1/apartments/{apartmentKey}/conflicts", checkConflict.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT администратора)
	// ============================================================

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Auth)

	// --- Ручные бронирования ---
	protected.HandleFunc("/calendars/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/calendars/bookings/{id}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/calendars/bookings/{id}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Заметки к внешним бронированиям ---
	protected.HandleFunc("/calendars/external-notes", upsertExternalNote.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/calendars/external-notes", deleteExternalNote.Handle).Methods(http.MethodDelete)

	// --- Исходный iCal ---
	protected.HandleFunc("/ical/{apartmentKey}", getICalFeed.Handle).Methods(http.MethodGet)

	// CORS для SPA
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	// Фоновое обновление каналов
	var scheduler *cron.Cron
	if cfg.Feeds.RefreshCron != "" {
		scheduler = cron.New(cron.WithLocation(time.UTC))
		_, err = scheduler.AddFunc(cfg.Feeds.RefreshCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), feedRefreshTimeout)
			defer cancel()
			feedSvc.RefreshAll(ctx)
		})
		if err != nil {
			log.Fatal("Failed to schedule feed refresh %q: %v", cfg.Feeds.RefreshCron, err)
		}
		scheduler.Start()
		log.Info("Feed refresh scheduled: %s", cfg.Feeds.RefreshCron)

		// Прогреваем кеш, не дожидаясь первого срабатывания
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), feedRefreshTimeout)
			defer cancel()
			feedSvc.RefreshAll(ctx)
		}()
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
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

	if scheduler != nil {
		<-scheduler.Stop().Done()
		log.Info("Feed refresh stopped")
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
