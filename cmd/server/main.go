package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	accountrepo "messenger/backend/internal/account/repository"
	"messenger/backend/internal/config"
	conversationrepo "messenger/backend/internal/conversation/repository"
	conversationservice "messenger/backend/internal/conversation/service"
	"messenger/backend/internal/db"
	healthhandler "messenger/backend/internal/health/handler"
	"messenger/backend/internal/hub"
	"messenger/backend/internal/security"
	"messenger/backend/internal/server"
	sessionrepo "messenger/backend/internal/session/repository"
	sessionservice "messenger/backend/internal/session/service"
	"messenger/backend/internal/telemetry"
	telemetryotel "messenger/backend/internal/telemetry/otel"
	"messenger/backend/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "messenger-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatal().Err(err).Msg("otel providers")
	}
	providers.SetGlobal()

	emitters := telemetry.MultiEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	kafkaProducer, err := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	if err != nil {
		log.Fatal().Err(err).Msg("kafka producer")
	}
	if kafkaProducer != nil {
		emitters = append(emitters, kafkaProducer)
	}
	var emitter telemetry.EventEmitter = emitters

	// Postgres when configured, in-memory stores otherwise.
	var (
		accounts      sessionservice.AccountRepo
		sessions      sessionservice.SessionRepo
		messages      conversationservice.MessageRepo
		healthPinger  healthhandler.Pinger
		closeDatabase func()
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("db open")
		}
		accounts = accountrepo.NewPostgresRepository(conn)
		sessions = sessionrepo.NewPostgresRepository(conn)
		messages = conversationrepo.NewPostgresRepository(conn)
		healthPinger = conn
		closeDatabase = func() { _ = conn.Close() }
		log.Info().Msg("using postgres stores")
	} else {
		accounts = accountrepo.NewMemoryRepository()
		sessions = sessionrepo.NewMemoryRepository()
		messages = conversationrepo.NewMemoryRepository()
		log.Info().Msg("using in-memory stores")
	}

	sessionSvc := sessionservice.NewSessionService(
		accounts,
		sessions,
		security.NewHasher(cfg.BcryptCost),
		cfg.SessionLifetime(),
		emitter,
	)
	for _, phone := range cfg.SeedPhoneList() {
		if err := sessionSvc.RegisterAccount(ctx, phone, cfg.SeedCode); err != nil {
			log.Fatal().Err(err).Str("phone", phone).Msg("seed account")
		}
	}
	conversationSvc := conversationservice.NewConversationService(messages)
	deliveryHub := hub.New(sessionSvc, conversationSvc, emitter)

	srv := server.NewHTTPServer(cfg.HTTPAddr, server.NewRouter(server.Deps{
		Sessions:      sessionSvc,
		Conversations: conversationSvc,
		Hub:           deliveryHub,
		Pinger:        healthPinger,
	}))

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}

	// Let in-flight telemetry emits finish before closing the pipeline.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if kafkaProducer != nil {
		_ = kafkaProducer.Close()
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if closeDatabase != nil {
		closeDatabase()
	}
	log.Info().Msg("http server stopped")
}
