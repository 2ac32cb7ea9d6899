package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

// Config stores runtime configuration for the api and worker binaries.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	PublicURL               string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	PprofEnabled            bool
	PprofAddr               string

	JWTSecret        string
	JWTIssuer        string
	InternalJobToken string

	ESPNBaseURL                string
	ESPNTimeout                time.Duration
	ESPNMaxRetries             int
	ESPNCircuitEnabled         bool
	ESPNCircuitFailureCount    int
	ESPNCircuitOpenTimeout     time.Duration
	ESPNCircuitHalfOpenMaxReq  int
	SMTPEnabled                bool
	SMTPHost                   string
	SMTPPort                   int
	SMTPUsername               string
	SMTPPassword               string
	SMTPFromEmail              string
	SMTPFromName               string
	SMTPTimeout                time.Duration
	ReminderLead               time.Duration
	ReminderDedupWindow        time.Duration
	DispatchBatchSize          int
	SyncMaxWorkers             int
	StandingsMaxWorkers        int
	SchedulerTimezone          string
	SchedulerSyncCron          string
	SchedulerSweepCron         string
	SchedulerDispatchCron      string
	SchedulerStandingsCron     string
	SchedulerJobTimeout        time.Duration
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "pickem-league"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		PublicURL:          strings.TrimRight(strings.TrimSpace(getEnv("APP_PUBLIC_URL", "")), "/"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		JWTSecret:          strings.TrimSpace(getEnv("JWT_SECRET", "")),
		JWTIssuer:          strings.TrimSpace(getEnv("JWT_ISSUER", "")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		ESPNBaseURL:        strings.TrimSpace(getEnv("ESPN_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports")),
		SMTPHost:           strings.TrimSpace(getEnv("SMTP_HOST", "")),
		SMTPUsername:       strings.TrimSpace(getEnv("SMTP_USERNAME", "")),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:      strings.TrimSpace(getEnv("SMTP_FROM_EMAIL", "")),
		SMTPFromName:       strings.TrimSpace(getEnv("SMTP_FROM_NAME", "Pick'em League")),
		SchedulerTimezone:  strings.TrimSpace(getEnv("SCHEDULER_TIMEZONE", "UTC")),
		SchedulerSyncCron:  strings.TrimSpace(getEnv("SCHEDULER_SYNC_CRON", "*/30 * * * *")),
		SchedulerSweepCron: strings.TrimSpace(getEnv("SCHEDULER_SWEEP_CRON", "0 * * * *")),
		// dispatch runs often so due reminders go out close to their time
		SchedulerDispatchCron:  strings.TrimSpace(getEnv("SCHEDULER_DISPATCH_CRON", "*/5 * * * *")),
		SchedulerStandingsCron: strings.TrimSpace(getEnv("SCHEDULER_STANDINGS_CRON", "15 */2 * * *")),
		UptraceDSN:             strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = positiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}

	if err := loadDatabase(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadESPN(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadSMTP(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadPipeline(&cfg); err != nil {
		return Config{}, err
	}

	if appEnv == EnvProd {
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required when APP_ENV=prod")
		}
		if cfg.InternalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=prod")
		}
	}

	return cfg, nil
}

func loadDatabase(cfg *Config) error {
	var err error
	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}

	if cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	if cfg.CacheTTL, err = positiveDuration("CACHE_TTL", "60s"); err != nil {
		return err
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func loadESPN(cfg *Config) error {
	var err error
	if cfg.ESPNTimeout, err = positiveDuration("ESPN_TIMEOUT", "20s"); err != nil {
		return err
	}
	if cfg.ESPNMaxRetries, err = getEnvAsInt("ESPN_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	if cfg.ESPNMaxRetries < 0 {
		return fmt.Errorf("ESPN_MAX_RETRIES must be >= 0")
	}
	if cfg.ESPNCircuitEnabled, err = strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.ESPNCircuitFailureCount, err = getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ESPNCircuitFailureCount < 1 {
		return fmt.Errorf("ESPN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.ESPNCircuitOpenTimeout, err = positiveDuration("ESPN_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.ESPNCircuitHalfOpenMaxReq, err = getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.ESPNCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadSMTP(cfg *Config) error {
	var err error
	if cfg.SMTPEnabled, err = strconv.ParseBool(getEnv("SMTP_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse SMTP_ENABLED: %w", err)
	}
	if cfg.SMTPPort, err = getEnvAsInt("SMTP_PORT", 587); err != nil {
		return fmt.Errorf("parse SMTP_PORT: %w", err)
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}
	if cfg.SMTPTimeout, err = positiveDuration("SMTP_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.SMTPEnabled {
		if cfg.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when SMTP_ENABLED=true")
		}
		if cfg.SMTPFromEmail == "" {
			return fmt.Errorf("SMTP_FROM_EMAIL is required when SMTP_ENABLED=true")
		}
	}
	return nil
}

func loadPipeline(cfg *Config) error {
	var err error
	if cfg.ReminderLead, err = positiveDuration("REMINDER_LEAD", "24h"); err != nil {
		return err
	}
	if cfg.ReminderDedupWindow, err = positiveDuration("REMINDER_DEDUP_WINDOW", "1h"); err != nil {
		return err
	}
	if cfg.DispatchBatchSize, err = getEnvAsInt("DISPATCH_BATCH_SIZE", 500); err != nil {
		return fmt.Errorf("parse DISPATCH_BATCH_SIZE: %w", err)
	}
	if cfg.DispatchBatchSize < 1 {
		return fmt.Errorf("DISPATCH_BATCH_SIZE must be >= 1")
	}
	if cfg.SyncMaxWorkers, err = getEnvAsInt("SYNC_MAX_WORKERS", 4); err != nil {
		return fmt.Errorf("parse SYNC_MAX_WORKERS: %w", err)
	}
	if cfg.SyncMaxWorkers < 1 {
		return fmt.Errorf("SYNC_MAX_WORKERS must be >= 1")
	}
	if cfg.StandingsMaxWorkers, err = getEnvAsInt("STANDINGS_MAX_WORKERS", 4); err != nil {
		return fmt.Errorf("parse STANDINGS_MAX_WORKERS: %w", err)
	}
	if cfg.StandingsMaxWorkers < 1 {
		return fmt.Errorf("STANDINGS_MAX_WORKERS must be >= 1")
	}
	if _, err := time.LoadLocation(cfg.SchedulerTimezone); err != nil {
		return fmt.Errorf("parse SCHEDULER_TIMEZONE: %w", err)
	}
	if cfg.SchedulerJobTimeout, err = positiveDuration("SCHEDULER_JOB_TIMEOUT", "5m"); err != nil {
		return err
	}
	return nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
