package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultSheetsBaseURL    = "http://localhost:9090"
	DefaultBookingsFile     = "bookings"
	DefaultAvailabilityFile = "availability"

	// DefaultDefaultCapacity is the per-date booking capacity when no
	// override row fixes one.
	DefaultDefaultCapacity = 2

	DefaultServiceCharge     = 1000
	DefaultStandardNightRate = 12800

	// TaxRatePercent is the consumption tax applied to the room rate.
	// Fixed by the pricing model, not configurable.
	TaxRatePercent = 10

	DefaultSyncMaxAttempts    = 3
	DefaultSyncQueueSize      = 64
	DefaultRefreshInterval    = 5 * time.Minute
	DefaultJournalRetryPeriod = 10 * time.Minute

	DefaultMongoURI          = ""
	DefaultMongoDatabaseName = "yadoya"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaBrokers    = ""
	DefaultKafkaEventTopic = "yadoya.events"

	DefaultSessionTTL     = 30 * time.Minute
	DefaultIdempotencyTTL = 24 * time.Hour

	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxRequestSize  = 1 * 1024 * 1024 // 1MB
	DefaultRateLimitPerSec = 20
	DefaultRateLimitBurst  = 40

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
