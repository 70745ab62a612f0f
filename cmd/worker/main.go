package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/analyzer"
	"github.com/benvon/smart-notes/internal/assistant"
	"github.com/benvon/smart-notes/internal/config"
	"github.com/benvon/smart-notes/internal/database"
	"github.com/benvon/smart-notes/internal/logger"
	"github.com/benvon/smart-notes/internal/queue"
	"github.com/benvon/smart-notes/internal/workers"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.String("rules_path", cfg.RulesPath),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		zapLogger.Fatal("failed_to_ensure_schema", zap.Error(err))
	}
	schemaCancel()
	zapLogger.Info("connected_to_database")

	// Initialize repositories
	noteRepo := database.NewNoteRepository(db)
	actionRepo := database.NewActionRepository(db)
	taskRepo := database.NewTaskRepository(db)
	eventRepo := database.NewEventRepository(db)
	contactRepo := database.NewContactRepository(db)
	projectRepo := database.NewProjectRepository(db)

	// Initialize RabbitMQ queue
	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	zapLogger.Info("connected_to_rabbitmq",
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	// Build the analysis pipeline
	noteAnalyzer, err := newAnalyzer(cfg.RulesPath)
	if err != nil {
		zapLogger.Fatal("failed_to_build_analyzer", zap.Error(err))
	}
	generator := assistant.NewGenerator()
	executor := assistant.NewExecutor(taskRepo, eventRepo, contactRepo, projectRepo)

	worker := workers.NewNoteAnalyzer(
		noteAnalyzer,
		generator,
		executor,
		noteRepo,
		actionRepo,
		jobQueue,
		zapLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start consuming messages
	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	zapLogger.Info("worker_started")

	// Process messages
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}

				if err := worker.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("failed_to_process_job",
						zap.Error(err),
						zap.String("job_id", msg.GetJob().ID.String()),
						zap.String("job_type", string(msg.GetJob().Type)),
					)
				}
			}
		}
	}()

	// Handle queue errors
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	<-sigChan
	zapLogger.Info("shutdown_signal_received")

	cancel()

	zapLogger.Info("worker_stopped")
}

// newAnalyzer builds the analyzer, merging a YAML rules override when a path
// is configured
func newAnalyzer(rulesPath string) (*analyzer.Analyzer, error) {
	rules := analyzer.DefaultRules()
	if rulesPath != "" {
		override, err := analyzer.LoadRulesFile(rulesPath)
		if err != nil {
			return nil, err
		}
		if err := rules.Merge(override); err != nil {
			return nil, err
		}
	}
	return analyzer.NewWithRules(rules)
}
