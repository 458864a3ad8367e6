package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"yadoya/pkg/client"
	"yadoya/pkg/logger"
	"yadoya/pkg/model"
)

type Config struct {
	Port string

	SheetsBaseURL    string
	SheetsToken      string
	BookingsFile     string
	AvailabilityFile string

	DefaultCapacity int
	ServiceCharge   int64
	Plans           []model.Plan

	SyncMaxAttempts    int
	SyncQueueSize      int
	RefreshInterval    time.Duration
	JournalRetryPeriod time.Duration

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	KafkaBrokers    []string
	KafkaEventTopic string

	SessionTTL     time.Duration
	IdempotencyTTL time.Duration

	RequestTimeout   time.Duration
	MaxRequestSize   int
	RateLimitPerSec  int
	RateLimitBurst   int
	CORSAllowOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		SheetsBaseURL:    getEnvStr(EnvSheetsBaseURL, DefaultSheetsBaseURL),
		SheetsToken:      getEnvStr(EnvSheetsToken, ""),
		BookingsFile:     getEnvStr(EnvBookingsFile, DefaultBookingsFile),
		AvailabilityFile: getEnvStr(EnvAvailabilityFile, DefaultAvailabilityFile),

		DefaultCapacity: getEnvNum(EnvDefaultCapacity, DefaultDefaultCapacity),
		ServiceCharge:   int64(getEnvNum(EnvServiceCharge, DefaultServiceCharge)),
		Plans:           defaultPlans(),

		SyncMaxAttempts:    getEnvNum(EnvSyncMaxAttempts, DefaultSyncMaxAttempts),
		SyncQueueSize:      getEnvNum(EnvSyncQueueSize, DefaultSyncQueueSize),
		RefreshInterval:    getEnvDuration(EnvRefreshInterval, DefaultRefreshInterval),
		JournalRetryPeriod: getEnvDuration(EnvJournalRetryPeriod, DefaultJournalRetryPeriod),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		KafkaBrokers:    splitList(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)),
		KafkaEventTopic: getEnvStr(EnvKafkaEventTopic, DefaultKafkaEventTopic),

		SessionTTL:     getEnvDuration(EnvSessionTTL, DefaultSessionTTL),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),

		RequestTimeout:   getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize:   getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		RateLimitPerSec:  getEnvNum(EnvRateLimitPerSec, DefaultRateLimitPerSec),
		RateLimitBurst:   getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),
		CORSAllowOrigins: splitList(getEnvStr(EnvCORSAllowOrigins, "")),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func defaultPlans() []model.Plan {
	rate := int64(getEnvNum(EnvStandardNightRate, DefaultStandardNightRate))
	return []model.Plan{
		{ID: "standard", Name: "Standard Room", PricePerNight: rate},
		{ID: "with-meals", Name: "Standard Room with Breakfast & Dinner", PricePerNight: rate + 3500},
	}
}

// PlanByID returns the plan for the given id, or ok=false.
func (cfg *Config) PlanByID(id string) (model.Plan, bool) {
	for _, p := range cfg.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return model.Plan{}, false
}

// MongoEnabled reports whether a Mongo URI is configured. Without one the
// sync journal falls back to its in-memory implementation.
func (cfg *Config) MongoEnabled() bool {
	return cfg.MongoURI != ""
}

// KafkaEnabled reports whether brokers are configured. Without any the
// event publisher degrades to a logging no-op.
func (cfg *Config) KafkaEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if !strings.HasPrefix(cfg.SheetsBaseURL, "http://") && !strings.HasPrefix(cfg.SheetsBaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("SheetsBaseURL must be an http(s) URL, got: %s", cfg.SheetsBaseURL))
	}
	if cfg.BookingsFile == "" {
		problems = append(problems, "BookingsFile cannot be empty")
	}
	if cfg.AvailabilityFile == "" {
		problems = append(problems, "AvailabilityFile cannot be empty")
	}
	if cfg.BookingsFile == cfg.AvailabilityFile {
		problems = append(problems, "BookingsFile and AvailabilityFile must differ")
	}

	if cfg.DefaultCapacity < 1 {
		problems = append(problems, fmt.Sprintf("DefaultCapacity must be positive, got: %d", cfg.DefaultCapacity))
	}
	if cfg.ServiceCharge < 0 {
		problems = append(problems, fmt.Sprintf("ServiceCharge cannot be negative, got: %d", cfg.ServiceCharge))
	}
	if len(cfg.Plans) == 0 {
		problems = append(problems, "at least one plan must be configured")
	}
	for _, p := range cfg.Plans {
		if p.PricePerNight < 0 {
			problems = append(problems, fmt.Sprintf("plan %s has negative nightly rate", p.ID))
		}
	}

	if cfg.SyncMaxAttempts < 1 {
		problems = append(problems, fmt.Sprintf("SyncMaxAttempts must be positive, got: %d", cfg.SyncMaxAttempts))
	}
	if cfg.SyncQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("SyncQueueSize must be positive, got: %d", cfg.SyncQueueSize))
	}
	if cfg.RefreshInterval <= 0 {
		problems = append(problems, fmt.Sprintf("RefreshInterval must be positive, got: %s", cfg.RefreshInterval))
	}
	if cfg.JournalRetryPeriod <= 0 {
		problems = append(problems, fmt.Sprintf("JournalRetryPeriod must be positive, got: %s", cfg.JournalRetryPeriod))
	}

	if cfg.MongoEnabled() {
		if !strings.HasPrefix(cfg.MongoURI, "mongodb://") && !strings.HasPrefix(cfg.MongoURI, "mongodb+srv://") {
			problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			problems = append(problems, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	if cfg.SessionTTL <= 0 {
		problems = append(problems, fmt.Sprintf("SessionTTL must be positive, got: %s", cfg.SessionTTL))
	}
	if cfg.IdempotencyTTL <= 0 {
		problems = append(problems, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.RequestTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RateLimitPerSec <= 0 || cfg.RateLimitBurst <= 0 {
		problems = append(problems, fmt.Sprintf("rate limit settings must be positive, got: %d/%d", cfg.RateLimitPerSec, cfg.RateLimitBurst))
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		problems = append(problems, "server timeouts must all be positive")
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"sheets_base_url", cfg.SheetsBaseURL,
		"sheets_token_set", cfg.SheetsToken != "",
		"bookings_file", cfg.BookingsFile,
		"availability_file", cfg.AvailabilityFile,
		"default_capacity", cfg.DefaultCapacity,
		"service_charge", cfg.ServiceCharge,
		"plans", len(cfg.Plans),
		"sync_max_attempts", cfg.SyncMaxAttempts,
		"sync_queue_size", cfg.SyncQueueSize,
		"refresh_interval", cfg.RefreshInterval,
		"journal_retry_period", cfg.JournalRetryPeriod,
		"mongo_enabled", cfg.MongoEnabled(),
		"mongo_uri", redactURI(cfg.MongoURI),
		"kafka_enabled", cfg.KafkaEnabled(),
		"kafka_topic", cfg.KafkaEventTopic,
		"session_ttl", cfg.SessionTTL,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_per_sec", cfg.RateLimitPerSec,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	scheme := strings.Index(uri, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return uri
	}
	return uri[:scheme+3] + "***:***" + uri[at:]
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
