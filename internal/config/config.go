package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses durations for the notifier settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database credentials and the JWT secret are
// mandatory; everything else falls back to a sensible default so that the
// server can run against a bare development environment.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign JWTs
	BcryptCost int    // bcrypt cost for password hashing

	SMTPHost   string // SMTP relay host for recovery mails
	SMTPPort   string // SMTP relay port
	SMTPSecure bool   // whether the relay expects implicit TLS
	SMTPUser   string // SMTP auth username (also the sender address)
	SMTPPass   string // SMTP auth password

	AsaasAPIKey  string // billing gateway API key
	AsaasBaseURL string // billing gateway base URL (sandbox by default)

	NotifyTick     time.Duration // period of the dashboard change poller
	NotifyLookback time.Duration // sliding window the poller inspects; must exceed NotifyTick
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:        getenv("APP_ENV", "dev"),
		Port:       getenv("APP_PORT", "3000"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: envInt("BCRYPT_COST", 10),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getenv("SMTP_PORT", "587"),
		SMTPSecure: os.Getenv("SMTP_SECURE") == "true",
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),

		AsaasAPIKey:  os.Getenv("ASAAS_API_KEY"),
		AsaasBaseURL: getenv("ASAAS_BASE_URL", "https://sandbox.asaas.com/api/v3"),

		NotifyTick:     envDur("NOTIFY_TICK", 3*time.Second),
		NotifyLookback: envDur("NOTIFY_LOOKBACK", 5*time.Second),
	}
	// The lookback window has to cover at least one full tick, otherwise
	// inserts landing between ticks would never be reported.  A delayed
	// tick can still outrun the window; that race is inherent to polling.
	if cfg.NotifyLookback <= cfg.NotifyTick {
		cfg.NotifyLookback = cfg.NotifyTick + 2*time.Second
	}
	return cfg
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

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
