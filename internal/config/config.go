package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	LogLevel  string // debug, info, warn, error
	BodyLimit string // maximum request body, e.g. "1M"

	DBDriver  string // mysql, postgres, sqlite or memory
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	DBDSN     string // full connection string, overrides the parts above
	DBPath    string // sqlite database file
	DBMigrate bool   // create missing tables on startup
	DBMaxConn int    // connection pool size

	AMQPURL        string        // RabbitMQ URL; empty disables change events
	AuditQueue     string        // queue change events are published to
	AuditLogPath   string        // file the audit consumer appends to
	PublishTimeout time.Duration // per-event publish deadline
}

// Load reads a .env file when present, then builds the Config from the
// environment.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := Config{
		Env:       must("APP_ENV"),  // environment (dev/test/prod)
		Port:      must("APP_PORT"), // port to bind the HTTP server
		LogLevel:  envStr("LOG_LEVEL", "info"),
		BodyLimit: envStr("BODY_LIMIT", "1M"),

		DBDriver:  strings.ToLower(envStr("DB_DRIVER", "mysql")),
		DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
		DBDSN:     os.Getenv("DB_DSN"),
		DBPath:    envStr("DB_PATH", "events.db"),
		DBMigrate: envBool("DB_MIGRATE", true),
		DBMaxConn: envInt("DB_MAX_OPEN_CONNS", 25),

		AMQPURL:        amqpURL(),
		AuditQueue:     envStr("AUDIT_QUEUE", "records.changed"),
		AuditLogPath:   envStr("AUDIT_LOG_PATH", "logs/audit.log"),
		PublishTimeout: envDur("PUBLISH_TIMEOUT", 3*time.Second),
	}

	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = strconv.Itoa(mustInt("DB_PORT"))
		cfg.DBName = must("DB_NAME")
	case "postgres":
		if cfg.DBDSN == "" {
			cfg.DBUser = must("DB_USER")
			cfg.DBHost = must("DB_HOST")
			cfg.DBPort = envStr("DB_PORT", "5432")
			cfg.DBName = must("DB_NAME")
		}
	case "sqlite", "memory":
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// amqpURL honours RABBITMQ_URL first and AMQP_URL second.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
