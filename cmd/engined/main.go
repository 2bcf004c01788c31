package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/dayflow/internal/config"
	"github.com/benvon/dayflow/internal/database"
	"github.com/benvon/dayflow/internal/engine"
	"github.com/benvon/dayflow/internal/holiday"
	"github.com/benvon/dayflow/internal/kv"
	"github.com/benvon/dayflow/internal/logger"
	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/notify"
	"github.com/benvon/dayflow/internal/server"
	"github.com/benvon/dayflow/internal/services/ai"
	"github.com/benvon/dayflow/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.EngineDebug || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_engined",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("ai_provider", cfg.AIProvider),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			shutdownTracing, err := telemetry.Setup(context.Background(), "dayflow-engined", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := shutdownTracing(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Postgres
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Redis-backed KV state
	kvStore, err := kv.NewStore(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := kvStore.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// RabbitMQ publisher with startup retry, since the broker may come up
	// after the daemon
	publisher, err := connectPublisher(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	// Holiday oracle, embedded table
	holidays, err := holiday.NewOracle()
	if err != nil {
		zapLogger.Fatal("failed_to_load_holiday_table", zap.Error(err))
	}

	// Settings: KV snapshot wins, then the optional YAML file, then defaults
	settingsStore, err := loadSettings(cfg, kvStore, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_load_settings", zap.Error(err))
	}

	// AI reminder composer, optional
	var composer engine.ReminderComposer
	if provider, err := createAIProvider(cfg, zapLogger, debugMode); err != nil {
		zapLogger.Warn("ai_provider_unavailable_reminders_disabled", zap.Error(err))
	} else {
		composer = ai.NewReminderComposer(provider, zapLogger)
	}

	eng := engine.New(engine.Deps{
		Matters:     database.NewMatterRepository(db),
		RepeatTasks: database.NewRepeatTaskRepository(db),
		Todos:       database.NewTodoRepository(db),
		KV:          kvStore,
		Settings:    settingsStore,
		Holidays:    holidays,
		Composer:    composer,
		Events:      publisher,
		Logger:      zapLogger,
	})

	// Every dispatched intent goes out over the broker for the delivery side
	eng.Subscribe(func(n models.Notification) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := publisher.PublishNotification(ctx, n); err != nil {
			zapLogger.Error("failed_to_publish_notification",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
		}
	})

	eng.Start()
	defer eng.Stop()

	srv, err := server.New(server.Options{
		Port:        cfg.ServerPort,
		FrontendURL: cfg.FrontendURL,
		OTELEnabled: cfg.OTELEnabled,
		RedisClient: kvStore.Client(),
		Engine:      eng,
		Settings:    settingsStore,
		Health: map[string]server.HealthChecker{
			"database": db,
			"kv":       kvStore,
			"rabbitmq": publisher,
		},
		Logger: zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("failed_to_build_http_server", zap.Error(err))
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("engined_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("engined_exited")
}

// connectPublisher dials RabbitMQ with exponential backoff
func connectPublisher(amqpURL string, zapLogger *zap.Logger) (*notify.RabbitMQPublisher, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		publisher, err := notify.NewRabbitMQPublisher(amqpURL)
		if err == nil {
			return publisher, nil
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}

// loadSettings builds the settings store: a snapshot persisted in KV wins,
// then SETTINGS_PATH, then defaults. The KV store persists every update.
func loadSettings(cfg *config.Config, kvStore *kv.Store, zapLogger *zap.Logger) (*config.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	persisted, err := kvStore.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if persisted != nil {
		zapLogger.Info("loaded_settings_from_kv")
		return config.NewStore(*persisted, kvStore), nil
	}

	initial := config.DefaultSettings()
	if cfg.SettingsPath != "" {
		fromFile, err := config.LoadSettingsFile(cfg.SettingsPath)
		if err != nil {
			zapLogger.Warn("failed_to_load_settings_file_using_defaults",
				zap.String("path", cfg.SettingsPath),
				zap.Error(err),
			)
		} else {
			initial = fromFile
			zapLogger.Info("loaded_settings_from_file", zap.String("path", cfg.SettingsPath))
		}
	}

	if err := kvStore.SaveSettings(ctx, initial); err != nil {
		zapLogger.Warn("failed_to_seed_settings_snapshot", zap.Error(err))
	}
	return config.NewStore(initial, kvStore), nil
}

// createAIProvider creates the reminder provider from configuration
func createAIProvider(cfg *config.Config, zapLogger *zap.Logger, debugMode bool) (ai.Provider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	providerType := cfg.AIProvider
	if providerType == "" {
		providerType = "openai"
	}

	if providerType == "openai" {
		return ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			zapLogger,
			debugMode,
		), nil
	}

	registry := ai.NewProviderRegistry()
	ai.RegisterOpenAI(registry)

	providerConfig := map[string]string{
		"api_key":  cfg.OpenAIKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	}
	return registry.GetProvider(providerType, providerConfig)
}
