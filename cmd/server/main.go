package main

import (
	"context"
	"time"

	availabilityhandler "yadoya/internal/availability/handler"
	bookinghandler "yadoya/internal/booking/handler"
	"yadoya/internal/booking/service"
	"yadoya/internal/booking/validator"

	"yadoya/internal/availability"
	"yadoya/internal/selection"
	"yadoya/internal/state"
	"yadoya/internal/sync"
	"yadoya/pkg/app"
	"yadoya/pkg/config"
	"yadoya/pkg/kafka"
	"yadoya/pkg/model"

	"github.com/joho/godotenv"
)

const ServiceName = "yadoya"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting booking engine")

	if cfg.MongoEnabled() {
		cfg.SetMongo()
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	st := state.New()
	resolver := availability.NewResolver(cfg.DefaultCapacity)

	bookingsStore := sync.NewSheetStore[model.Booking](cfg.SheetsBaseURL, cfg.BookingsFile, cfg.SheetsToken)
	overridesStore := sync.NewSheetStore[sync.SheetRow](cfg.SheetsBaseURL, cfg.AvailabilityFile, cfg.SheetsToken)

	refresher := sync.NewRefresher(bookingsStore, overridesStore, st, cfg.DefaultCapacity, cfg.RefreshInterval, cfg.Log)
	worker := newWorker(cfg, bookingsStore, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)
	go refresher.Run(ctx)
	go drainResults(cfg, worker)

	initialRefresh(cfg, refresher)

	sessions := selection.NewStore(cfg.SessionTTL)
	selectionEngine := selection.NewEngine(cfg, sessions, resolver, st, publisher)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(cfg, selectionEngine, resolver, st, bookingValidator, worker, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(cancel)
	serverApp.OnShutdown(sessions.Stop)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.SetApp(
		bookinghandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(resolver, st, cfg.Log),
		bookinghandler.NewBookingHandler(cfg, selectionEngine, bookingService),
	)
	serverApp.Run()
}

func newPublisher(cfg *config.Config) kafka.Publisher {
	if !cfg.KafkaEnabled() {
		cfg.Log.Info("No Kafka brokers configured, events will only be logged")
		return &kafka.NopPublisher{Log: cfg.Log}
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaEventTopic)
	return producer
}

func newWorker(cfg *config.Config, bookingsStore sync.Store[model.Booking], publisher kafka.Publisher) *sync.Worker {
	var journal sync.Journal
	if cfg.MongoEnabled() {
		journal = sync.NewMongoJournal(cfg.Client.Mongo.Database(cfg.MongoDatabaseName))
		cfg.Log.Info("Sync journal backed by MongoDB", "database", cfg.MongoDatabaseName)
	} else {
		journal = sync.NewMemoryJournal()
		cfg.Log.Info("Sync journal is in-memory; failed syncs will not survive a restart")
	}

	syncer := sync.NewSyncer[model.Booking](bookingsStore, cfg.BookingsFile, cfg.SyncMaxAttempts, cfg.Log)
	return sync.NewWorker(syncer, cfg.BookingsFile, journal, publisher, cfg.Log, cfg.SyncQueueSize, cfg.JournalRetryPeriod)
}

// initialRefresh warms the cache before serving. Failure is non-fatal:
// availability starts from the defaults and the next background refresh
// retries.
func initialRefresh(cfg *config.Config, refresher *sync.Refresher) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := refresher.Refresh(ctx); err != nil {
		cfg.Log.Warn("Initial remote refresh failed, starting with empty state", "error", err)
	}
}

func drainResults(cfg *config.Config, worker *sync.Worker) {
	for result := range worker.Results() {
		if result.Err != nil {
			cfg.Log.Warn("Sync attempt failed",
				"file", result.File,
				"rows", result.Rows,
				"duration_ms", result.Duration.Milliseconds(),
				"error", result.Err,
			)
			continue
		}
		cfg.Log.Debug("Sync attempt completed",
			"file", result.File,
			"rows", result.Rows,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}
}
