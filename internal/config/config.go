package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the console processes.
// All values come from env (optionally seeded from a .env file by the entrypoint).
// No business logic should depend on raw environment variables.
type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	CallerDesk CallerDeskConfig
	Routing    RoutingConfig
}

type AppConfig struct {
	Env  string
	Port int

	// LivePollInterval controls how often the live-call stream polls upstream.
	LivePollInterval time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

// Enabled reports whether a Postgres audit store was configured.
// The console runs without one; audit then stays in memory.
func (c DBConfig) Enabled() bool { return c.Host != "" }

type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type CallerDeskConfig struct {
	BaseURL string

	// AuthCode is the fallback tenant credential used when a workspace has none stored.
	AuthCode string

	// HTTPTimeout is the transport-level timeout of the HTTP client.
	HTTPTimeout time.Duration
}

type RoutingConfig struct {
	// HistoryPageSize is how many outbound records are scanned per inbound call.
	HistoryPageSize int

	// NumberMatch selects the caller-number matching policy: exact or digits.
	NumberMatch string

	// DedupeTTL bounds how long a webhook call_id is remembered.
	DedupeTTL time.Duration

	// WebhookToken, when set, must accompany every inbound-call webhook.
	WebhookToken string

	// DefaultWorkspace owns webhook deliveries that name no workspace.
	DefaultWorkspace string
}

const (
	defaultCallerDeskBaseURL = "https://app.callerdesk.io/api"
	defaultHistoryPageSize   = 100
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.LivePollInterval = optionalDuration("LIVE_POLL_INTERVAL")

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	if c.DB.Host != "" {
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth = authFromEnv()

	c.CallerDesk.BaseURL = strings.TrimSpace(os.Getenv("CALLERDESK_BASE_URL"))
	c.CallerDesk.AuthCode = strings.TrimSpace(os.Getenv("CALLERDESK_AUTH_CODE"))
	c.CallerDesk.HTTPTimeout = optionalDuration("CALLERDESK_HTTP_TIMEOUT")

	if v := strings.TrimSpace(os.Getenv("ROUTING_HISTORY_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("ROUTING_HISTORY_PAGE_SIZE must be an integer, got %q", v))
		}
		c.Routing.HistoryPageSize = n
	}
	c.Routing.NumberMatch = strings.ToLower(strings.TrimSpace(os.Getenv("ROUTING_NUMBER_MATCH")))
	c.Routing.DedupeTTL = optionalDuration("ROUTING_DEDUPE_TTL")
	c.Routing.WebhookToken = os.Getenv("ROUTING_WEBHOOK_TOKEN")
	c.Routing.DefaultWorkspace = strings.TrimSpace(os.Getenv("ROUTING_DEFAULT_WORKSPACE"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	return c, nil
}

// LoadAuth reads only the JWT settings. Tools that mint tokens use it without
// needing the rest of the server environment.
func LoadAuth() (AuthConfig, error) {
	a := authFromEnv()
	if a.JWTSecret == "" {
		return AuthConfig{}, errors.New("JWT_SECRET is required")
	}
	return a, nil
}

func authFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		JWTAudience:     strings.TrimSpace(os.Getenv("JWT_AUDIENCE")),
		AccessTokenTTL:  optionalDuration("JWT_ACCESS_TTL"),
		RefreshTokenTTL: optionalDuration("JWT_REFRESH_TTL"),
	}
}

// Validate reports every configuration problem at once.
// It does not mutate c; defaults are applied by Load after validation.
func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Enabled() {
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_HOST is set"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_HOST is set"))
		}
		if c.DB.SSLMode == "" && c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}
	if c.Auth.AccessTokenTTL > 0 && c.Auth.RefreshTokenTTL > 0 && c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL"))
	}

	if c.CallerDesk.BaseURL != "" && !strings.HasPrefix(c.CallerDesk.BaseURL, "http://") && !strings.HasPrefix(c.CallerDesk.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("CALLERDESK_BASE_URL must be an http(s) URL, got %q", c.CallerDesk.BaseURL))
	}

	if c.Routing.HistoryPageSize < 0 {
		errs = append(errs, fmt.Errorf("ROUTING_HISTORY_PAGE_SIZE must be >= 0, got %d", c.Routing.HistoryPageSize))
	}
	switch c.Routing.NumberMatch {
	case "", "exact", "digits":
	default:
		errs = append(errs, fmt.Errorf("ROUTING_NUMBER_MATCH must be one of exact, digits, got %q", c.Routing.NumberMatch))
	}
	if c.IsProduction() && c.Routing.WebhookToken == "" {
		errs = append(errs, errors.New("ROUTING_WEBHOOK_TOKEN is required in production"))
	}

	return joinErrors(errs)
}

func (c *Config) applyDefaults() {
	if c.App.LivePollInterval <= 0 {
		c.App.LivePollInterval = 3 * time.Second
	}
	if c.DB.Enabled() && c.DB.SSLMode == "" {
		// Local-friendly default; production must be explicit (see Validate).
		c.DB.SSLMode = "disable"
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	if c.CallerDesk.BaseURL == "" {
		c.CallerDesk.BaseURL = defaultCallerDeskBaseURL
	}
	if c.CallerDesk.HTTPTimeout <= 0 {
		c.CallerDesk.HTTPTimeout = 15 * time.Second
	}
	if c.Routing.HistoryPageSize == 0 {
		c.Routing.HistoryPageSize = defaultHistoryPageSize
	}
	if c.Routing.NumberMatch == "" {
		c.Routing.NumberMatch = "exact"
	}
	if c.Routing.DedupeTTL <= 0 {
		c.Routing.DedupeTTL = 10 * time.Minute
	}
	if c.Routing.DefaultWorkspace == "" {
		c.Routing.DefaultWorkspace = "default"
	}
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

// optionalDuration returns 0 for unset or unparsable values; defaults fill in later.
func optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
