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

	abandonSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/abandon_setup"
	advanceSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/advance_setup"
	backSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/back_setup"
	cancelSessionHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/cancel_session"
	cancelSubscriptionHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/cancel_subscription"
	checkPasswordHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/check_password"
	completeSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/complete_setup"
	getAvailabilityHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/get_availability"
	getSessionHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/get_session"
	getSessionsHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/get_sessions"
	getSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/get_setup"
	getSubscriptionHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/get_subscription"
	getSubscriptionsHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/get_subscriptions"
	listPlansHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/list_plans"
	previewScheduleHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/preview_schedule"
	refreshSessionHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/refresh_session"
	signInHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/sign_in"
	signOutHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/sign_out"
	signUpHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/sign_up"
	startSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/start_setup"
	updateSetupHandler "github.com/m04kA/SMC-TherapySessions/internal/api/handlers/update_setup"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/config"
	"github.com/m04kA/SMC-TherapySessions/internal/integrations/authservice"
	"github.com/m04kA/SMC-TherapySessions/internal/integrations/dataservice"
	"github.com/m04kA/SMC-TherapySessions/internal/integrations/paymentservice"
	authService "github.com/m04kA/SMC-TherapySessions/internal/service/auth"
	availabilityService "github.com/m04kA/SMC-TherapySessions/internal/service/availability"
	flowsService "github.com/m04kA/SMC-TherapySessions/internal/service/flows"
	sessionsService "github.com/m04kA/SMC-TherapySessions/internal/service/sessions"
	subscriptionsService "github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions"
	"github.com/m04kA/SMC-TherapySessions/internal/setup"
	completeSetupUC "github.com/m04kA/SMC-TherapySessions/internal/usecase/complete_setup"
	previewScheduleUC "github.com/m04kA/SMC-TherapySessions/internal/usecase/preview_schedule"
	"github.com/m04kA/SMC-TherapySessions/migrations"
	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
	"github.com/m04kA/SMC-TherapySessions/pkg/metrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/restclient"
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

	log.Info("Starting SMC-TherapySessions...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены); nil *Metrics безопасен во всех Observe*
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	clientOpts := func(svc config.ServiceConfig) []restclient.Option {
		opts := []restclient.Option{restclient.WithRateLimit(svc.RateLimit, svc.Burst)}
		if metricsCollector != nil {
			opts = append(opts, restclient.WithObserver(metricsCollector))
		}
		return opts
	}

	// Инициализируем интеграционных клиентов
	authClient := authservice.NewClient(
		cfg.AuthService.URL,
		cfg.AuthService.APIKey,
		cfg.AuthService.TimeoutDuration(),
		log,
		clientOpts(cfg.AuthService)...,
	)
	paymentClient := paymentservice.NewClient(
		cfg.PaymentService.URL,
		cfg.PaymentService.APIKey,
		cfg.PaymentService.TimeoutDuration(),
		log,
		clientOpts(cfg.PaymentService)...,
	)
	log.Info("Integration clients initialized (AuthService=%s timeout=%ds, PaymentService=%s timeout=%ds)",
		cfg.AuthService.URL, cfg.AuthService.Timeout, cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	authEvents := authClient.OnAuthStateChange(func(event authservice.Event, session *authservice.Session) {
		if session != nil {
			log.Info("Auth state changed: event=%s, user_id=%s", event, session.User.ID)
			return
		}
		log.Info("Auth state changed: event=%s", event)
	})
	defer authEvents.Unsubscribe()

	// Инициализируем хранилище: Postgres напрямую или REST API хранилища
	var store *storage

	if cfg.Database.Enabled {
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

		if cfg.Database.MigrateOnStart {
			version, err := migrations.Up(context.Background(), db)
			if err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database schema is at version %d", version)
		}

		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopCh)
		store = newSQLStorage(wrappedDB)
	} else {
		dataClient := dataservice.NewClient(
			cfg.DataService.URL,
			cfg.DataService.APIKey,
			cfg.DataService.TimeoutDuration(),
			log,
			clientOpts(cfg.DataService)...,
		)
		store = newRESTStorage(dataClient)
		log.Info("Using data service REST API at %s", cfg.DataService.URL)
	}

	// Сценарии оформления живут в памяти процесса
	flowStore := setup.NewStore(cfg.Setup.FlowTTL())
	rules := setup.Rules{
		Plans:            cfg.DomainPlans(),
		AgreementVersion: cfg.Setup.AgreementVersion,
	}
	recurrenceOptions := cfg.Schedule.Options()

	// Инициализируем сервисы
	authSvc := authService.NewService(authClient, cfg.PasswordRequirements(), log)
	availabilitySvc := availabilityService.NewService(store.availability, log)
	subscriptionSvc := subscriptionsService.NewService(
		store.subscriptions,
		store.sessions,
		store.analytics,
		store.tx,
		log,
	)
	sessionSvc := sessionsService.NewService(
		store.sessions,
		store.analytics,
		cfg.Schedule.CancellationNotice(),
		log,
	)
	flowSvc := flowsService.NewService(
		flowStore,
		rules,
		availabilitySvc,
		metricsCollector,
		cfg.Setup.FlowTTL(),
		log,
	)

	// Инициализируем use cases
	completeSetupUseCase := completeSetupUC.NewUseCase(
		flowStore,
		paymentClient,
		store.subscriptions,
		store.sessions,
		store.agreements,
		store.analytics,
		store.tx,
		metricsCollector,
		rules,
		recurrenceOptions,
		completeSetupUC.Options{InitialSessions: cfg.Setup.InitialSessions},
		log,
	)
	previewScheduleUseCase := previewScheduleUC.NewUseCase(
		recurrenceOptions,
		cfg.Schedule.DefaultPreviewCount,
		log,
	)

	// Инициализируем handlers
	signUp := signUpHandler.NewHandler(authSvc, log)
	signIn := signInHandler.NewHandler(authSvc, log)
	refreshSession := refreshSessionHandler.NewHandler(authSvc, log)
	signOut := signOutHandler.NewHandler(authSvc, log)
	getSession := getSessionHandler.NewHandler(authSvc, log)
	checkPassword := checkPasswordHandler.NewHandler(authSvc, log)
	previewSchedule := previewScheduleHandler.NewHandler(previewScheduleUseCase, log)
	listPlans := listPlansHandler.NewHandler(flowSvc)
	getSubscriptions := getSubscriptionsHandler.NewHandler(subscriptionSvc, log)
	getSubscription := getSubscriptionHandler.NewHandler(subscriptionSvc, log)
	cancelSubscription := cancelSubscriptionHandler.NewHandler(subscriptionSvc, log)
	getSessions := getSessionsHandler.NewHandler(sessionSvc, log)
	cancelSession := cancelSessionHandler.NewHandler(sessionSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	startSetup := startSetupHandler.NewHandler(flowSvc, log)
	getSetup := getSetupHandler.NewHandler(flowSvc, log)
	updateSetup := updateSetupHandler.NewHandler(flowSvc, log)
	advanceSetup := advanceSetupHandler.NewHandler(flowSvc, log)
	backSetup := backSetupHandler.NewHandler(flowSvc, log)
	completeSetup := completeSetupHandler.NewHandler(completeSetupUseCase, log)
	abandonSetup := abandonSetupHandler.NewHandler(flowSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/auth/sign-up", signUp.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/sign-in", signIn.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", refreshSession.Handle).Methods(http.MethodPost)

	api.HandleFunc("/schedules/preview", previewSchedule.Handle).Methods(http.MethodPost)
	api.HandleFunc("/plans", listPlans.Handle).Methods(http.MethodGet)
	api.HandleFunc("/validation/password", checkPassword.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer <access token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authSvc, log))

	// --- Сессия пользователя ---
	protected.HandleFunc("/auth/sign-out", signOut.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/auth/session", getSession.Handle).Methods(http.MethodGet)

	// --- Подписки ---
	protected.HandleFunc("/subscriptions", getSubscriptions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions/{subscriptionId}", getSubscription.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions/{subscriptionId}/cancel", cancelSubscription.Handle).Methods(http.MethodPatch)

	// --- Сессии ---
	protected.HandleFunc("/sessions", getSessions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}/cancel", cancelSession.Handle).Methods(http.MethodPatch)

	// --- Доступность терапевта ---
	protected.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Оформление подписки ---
	protected.HandleFunc("/setup", startSetup.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/setup/{flowId}", getSetup.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/setup/{flowId}", updateSetup.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/setup/{flowId}", abandonSetup.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/setup/{flowId}/advance", advanceSetup.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/setup/{flowId}/back", backSetup.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/setup/{flowId}/complete", completeSetup.Handle).Methods(http.MethodPost)

	// Удаляем брошенные сценарии оформления
	go func() {
		ticker := time.NewTicker(cfg.Setup.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				flowSvc.Sweep()
			}
		}
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

	// Останавливаем фоновые задачи: очистку сценариев и сбор статистики пула
	close(stopCh)

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
