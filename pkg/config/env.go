package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvSheetsBaseURL    = "SHEETS_BASE_URL"
	EnvSheetsToken      = "SHEETS_TOKEN"
	EnvBookingsFile     = "BOOKINGS_FILE"
	EnvAvailabilityFile = "AVAILABILITY_FILE"

	EnvDefaultCapacity   = "DEFAULT_CAPACITY"
	EnvServiceCharge     = "SERVICE_CHARGE"
	EnvStandardNightRate = "STANDARD_NIGHT_RATE"

	EnvSyncMaxAttempts    = "SYNC_MAX_ATTEMPTS"
	EnvSyncQueueSize      = "SYNC_QUEUE_SIZE"
	EnvRefreshInterval    = "REFRESH_INTERVAL"
	EnvJournalRetryPeriod = "JOURNAL_RETRY_PERIOD"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvKafkaBrokers    = "KAFKA_BROKERS"
	EnvKafkaEventTopic = "KAFKA_EVENT_TOPIC"

	EnvSessionTTL     = "SESSION_TTL"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"

	EnvRequestTimeout   = "REQUEST_TIMEOUT"
	EnvMaxRequestSize   = "MAX_REQUEST_SIZE"
	EnvRateLimitPerSec  = "RATE_LIMIT_PER_SEC"
	EnvRateLimitBurst   = "RATE_LIMIT_BURST"
	EnvCORSAllowOrigins = "CORS_ALLOW_ORIGINS"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
