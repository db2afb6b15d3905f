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

	addCartItemHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/add_cart_item"
	cancelAppointmentHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/get_available_slots"
	getCartHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/get_cart"
	getConsumerAppointmentsHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/get_consumer_appointments"
	getProviderAppointmentsHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/get_provider_appointments"
	markAppointmentPaidHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/mark_appointment_paid"
	removeCartItemHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/remove_cart_item"
	simulatePaymentHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/simulate_payment"
	sweepExpiredHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/sweep_expired"
	updateAppointmentStatusHandler "github.com/m04kA/HSM-AppointmentService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HSM-AppointmentService/internal/config"
	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/appointment"
	cartRepo "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/cart"
	catalogServiceClient "github.com/m04kA/HSM-AppointmentService/internal/integrations/catalogservice"
	identityServiceClient "github.com/m04kA/HSM-AppointmentService/internal/integrations/identityservice"
	appointmentsService "github.com/m04kA/HSM-AppointmentService/internal/service/appointments"
	cartsService "github.com/m04kA/HSM-AppointmentService/internal/service/carts"
	createAppointmentUC "github.com/m04kA/HSM-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/HSM-AppointmentService/internal/usecase/get_available_slots"
	simulatePaymentUC "github.com/m04kA/HSM-AppointmentService/internal/usecase/simulate_payment"
	sweepExpiredUC "github.com/m04kA/HSM-AppointmentService/internal/usecase/sweep_expired"
	"github.com/m04kA/HSM-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HSM-AppointmentService/pkg/logger"
	"github.com/m04kA/HSM-AppointmentService/pkg/metrics"
	"github.com/m04kA/HSM-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/HSM-AppointmentService/pkg/ttlcache"
	"github.com/m04kA/HSM-AppointmentService/pkg/txmanager"
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

	log.Info("Starting HSM-AppointmentService...")
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

	// Инициализируем интеграционных клиентов с TTL кешем
	catalogCache := ttlcache.New(time.Duration(cfg.CatalogService.CacheTTL) * time.Second)
	identityCache := ttlcache.New(time.Duration(cfg.IdentityService.CacheTTL) * time.Second)

	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		catalogCache,
		log,
	)
	identityClient := identityServiceClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		identityCache,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, IdentityService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.IdentityService.URL, cfg.IdentityService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		cartRepository        *cartRepo.Repository
	)

	// Интерфейс transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		cartRepository = cartRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		cartRepository = cartRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		identityClient,
		txMgr,
		log,
	)
	cartSvc := cartsService.NewService(
		cartRepository,
		catalogClient,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogClient,
		identityClient,
		time.Duration(cfg.Appointments.HoldMinutes)*time.Minute,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogClient,
		log,
	)

	simulatePaymentUseCase := simulatePaymentUC.NewUseCase(
		appointmentRepository,
		cartRepository,
		txMgr,
		cfg.Payments.HighValueThreshold,
		log,
	)

	sweepExpiredUseCase := sweepExpiredUC.NewUseCase(
		appointmentRepository,
		cfg.Appointments.SweepThresholdMinutes,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	markAppointmentPaid := markAppointmentPaidHandler.NewHandler(appointmentSvc, log)
	getConsumerAppointments := getConsumerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getProviderAppointments := getProviderAppointmentsHandler.NewHandler(appointmentSvc, log)
	getCart := getCartHandler.NewHandler(cartSvc, log)
	addCartItem := addCartItemHandler.NewHandler(cartSvc, log)
	removeCartItem := removeCartItemHandler.NewHandler(cartSvc, log)
	simulatePayment := simulatePaymentHandler.NewHandler(simulatePaymentUseCase, domain.Currency(cfg.Payments.DefaultCurrency), log)
	sweepExpired := sweepExpiredHandler.NewHandler(sweepExpiredUseCase, log)

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

	// Внутренний endpoint для планировщика очистки просроченных броней
	r.HandleFunc("/internal/appointments/cleanup", sweepExpired.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для записи
	api.HandleFunc("/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание временной брони
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (для исполнителей)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Отметка записи как оплаченной
	protected.HandleFunc("/appointments/{appointmentId}/mark-paid", markAppointmentPaid.Handle).Methods(http.MethodPost)

	// История записей клиента
	protected.HandleFunc("/consumers/{userId}/appointments", getConsumerAppointments.Handle).Methods(http.MethodGet)

	// Записи исполнителя
	protected.HandleFunc("/providers/{userId}/appointments", getProviderAppointments.Handle).Methods(http.MethodGet)

	// --- Корзина ---
	// Корзина текущего пользователя
	protected.HandleFunc("/carts/me", getCart.Handle).Methods(http.MethodGet)

	// Добавление позиции в корзину
	protected.HandleFunc("/carts/me/items", addCartItem.Handle).Methods(http.MethodPost)

	// Удаление позиции из корзины
	protected.HandleFunc("/carts/me/items/{serviceId}", removeCartItem.Handle).Methods(http.MethodDelete)

	// --- Платежи ---
	// Симуляция оплаты корзины
	protected.HandleFunc("/payments/simulate", simulatePayment.Handle).Methods(http.MethodPost)

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
